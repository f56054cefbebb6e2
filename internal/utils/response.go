package utils

import "time"

// APIResponse is the envelope shared by every endpoint.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Count     *int        `json:"count,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ListResponse is SuccessResponse plus the number of records returned.
func ListResponse(message string, count int, data interface{}) APIResponse {
	resp := SuccessResponse(message, data)
	resp.Count = &count
	return resp
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now(),
	}
}

// ErrorResponseWithData carries extra detail with a failure, e.g. the list
// of required fields on a validation error.
func ErrorResponseWithData(message, error string, data interface{}) APIResponse {
	resp := ErrorResponse(message, error)
	resp.Data = data
	return resp
}
