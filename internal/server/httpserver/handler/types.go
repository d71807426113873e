package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use it; /metrics is served in Prometheus format.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   string `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message, details string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// BackupRequest is the body of POST /admin/backups.
type BackupRequest struct {
	Time *int64 `json:"time"`
}

// BackupResponse is returned by POST /admin/backups.
type BackupResponse struct {
	Time    int64 `json:"time"`
	Records int   `json:"records"`
}

// RestoreRequest is the body of POST /admin/restore.
type RestoreRequest struct {
	CurrentTime *int64 `json:"current_time"`
	RestoreTime *int64 `json:"restore_time"`
}

// RestoreResponse is returned by POST /admin/restore.
type RestoreResponse struct {
	BackupTime int64 `json:"backup_time"`
	Records    int   `json:"records"`
	Fields     int   `json:"fields"`
}
