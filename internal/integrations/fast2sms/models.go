package fast2sms

// sendRequest тело запроса отправки SMS
type sendRequest struct {
	Route   string `json:"route"`
	Message string `json:"message"`
	Numbers string `json:"numbers"`
}

// sendResponse ответ шлюза
type sendResponse struct {
	Return  bool   `json:"return"`
	Message string `json:"message"`
}
