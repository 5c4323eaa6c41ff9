package utils

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the uniform envelope returned by every endpoint.
// Errors is only present on validation failures.
type APIResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Data:    nil,
	}
}

func ValidationErrorResponse(message string, errors map[string][]string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Data:    nil,
		Errors:  errors,
	}
}

// WriteJSON serializes the envelope with the given status code.
func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // headers already sent, nothing useful to return
	json.NewEncoder(w).Encode(resp)
}
