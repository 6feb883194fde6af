package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response defines the standard API response envelope.
type Response struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	ErrorCode string       `json:"errorCode,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
	Meta      Meta         `json:"meta"`
}

// FieldError describes one failed request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID  string      `json:"requestId"`
	Timestamp  string      `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// SuccessWithPagination writes a success response with pagination metadata.
func SuccessWithPagination(c *gin.Context, code int, message string, data interface{}, page, limit, totalItems int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	meta := newMeta(c)
	meta.Pagination = &Pagination{
		Page:       page,
		Limit:      limit,
		TotalItems: totalItems,
		TotalPages: (totalItems + limit - 1) / limit,
	}
	c.JSON(code, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		ErrorCode: errCode,
		Meta:      newMeta(c),
	})
}

// ValidationError writes a 400 response listing the offending fields.
func ValidationError(c *gin.Context, message string, fields []FieldError) {
	c.JSON(400, Response{
		Success:   false,
		Message:   message,
		ErrorCode: "VALIDATION_ERROR",
		Errors:    fields,
		Meta:      newMeta(c),
	})
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
