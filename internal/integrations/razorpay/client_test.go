package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "rzp_test_key", "test_secret", 5*time.Second, nopLogger{})
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "test_secret", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(50000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "appt_1_1760000000", req.Receipt)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_abc123",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	order, err := client.CreateOrder(context.Background(), 50000, "INR", "appt_1_1760000000")
	require.NoError(t, err)
	assert.Equal(t, "order_abc123", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds maximum"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreateOrder(context.Background(), 1<<40, "INR", "r")
	require.ErrorIs(t, err, ErrOrderCreateFailed)
	assert.Contains(t, err.Error(), "amount exceeds maximum")
}

func TestCreateOrderUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreateOrder(context.Background(), 100, "INR", "r")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestVerifySignature(t *testing.T) {
	client := newTestClient("http://unused")

	mac := hmac.New(sha256.New, []byte("test_secret"))
	mac.Write([]byte("order_abc|pay_xyz"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature("order_abc", "pay_xyz", valid))
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", "deadbeef"))
	assert.False(t, client.VerifySignature("order_other", "pay_xyz", valid))
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", ""))
}
