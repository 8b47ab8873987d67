package agora

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

func newTestBuilder() *TokenBuilder {
	return NewTokenBuilder("app-id", "app-certificate", time.Hour)
}

func TestBuildAndVerifyToken(t *testing.T) {
	builder := newTestBuilder()

	token, err := builder.BuildToken("call_abc", 42, testNow)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	channel, uid, err := builder.VerifyToken(token, testNow.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "call_abc", channel)
	assert.Equal(t, uint32(42), uid)
}

func TestVerifyTokenExpired(t *testing.T) {
	builder := newTestBuilder()

	token, err := builder.BuildToken("call_abc", 42, testNow)
	require.NoError(t, err)

	_, _, err = builder.VerifyToken(token, testNow.Add(2*time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestVerifyTokenWrongCertificate(t *testing.T) {
	token, err := newTestBuilder().BuildToken("call_abc", 42, testNow)
	require.NoError(t, err)

	other := NewTokenBuilder("app-id", "other-certificate", time.Hour)
	_, _, err = other.VerifyToken(token, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")
}

func TestVerifyTokenMalformed(t *testing.T) {
	builder := newTestBuilder()

	_, _, err := builder.VerifyToken("%%%not-base64%%%", testNow)
	assert.Error(t, err)

	_, _, err = builder.VerifyToken("bm90LWEtdG9rZW4", testNow)
	assert.Error(t, err)
}

func TestBuildTokenValidation(t *testing.T) {
	_, err := NewTokenBuilder("", "", time.Hour).BuildToken("call_abc", 1, testNow)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = newTestBuilder().BuildToken("", 1, testNow)
	assert.ErrorIs(t, err, ErrInvalidChannel)
}

func TestNewChannelName(t *testing.T) {
	first := NewChannelName()
	second := NewChannelName()

	assert.True(t, strings.HasPrefix(first, "call_"))
	assert.NotEqual(t, first, second)
}

func TestNewUID(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.NotZero(t, NewUID())
	}
}
