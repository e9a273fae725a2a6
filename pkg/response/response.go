package response

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Write encodes body as JSON with the given status. Use it for payloads that
// must keep a fixed shape instead of the APIResponse envelope.
func Write(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func JSON(w http.ResponseWriter, statusCode int, resp APIResponse) {
	Write(w, statusCode, resp)
}

func Success(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusOK, APIResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, errs any) {
	JSON(w, statusCode, APIResponse{
		Status:  statusCode,
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// List writes items with their count. A nil slice is sent as [] so clients
// never see a missing list.
func List[T any](w http.ResponseWriter, items []T, message string) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	JSON(w, http.StatusOK, APIResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: message,
		Count:   &n,
		Data:    items,
	})
}
