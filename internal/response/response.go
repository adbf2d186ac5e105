package response

import (
	"github.com/gin-gonic/gin"
)

// Status is the top-level outcome flag of every JSON body.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Envelope is the common head of every JSON body. Payload keys sit beside it
// at the top level, e.g. {"status":"success","files":[...]}.
type Envelope struct {
	Status  Status            `json:"status"`
	Message string            `json:"message,omitempty"`
	Code    ErrCode           `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// OK reports whether the body signals success. Anything else is a failure.
func (e Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends {"status":"success", ...payload}.
func Success(c *gin.Context, statusCode int, payload gin.H) {
	body := gin.H{}
	for k, v := range payload {
		body[k] = v
	}
	body["status"] = StatusSuccess
	c.JSON(statusCode, body)
}

// Fail sends an error envelope with the code's default message.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, failBody(c, code, GetMessage(code), nil))
}

// FailWithMessage sends an error envelope with a specific message.
func FailWithMessage(c *gin.Context, statusCode int, code ErrCode, message string) {
	c.JSON(statusCode, failBody(c, code, message, nil))
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, failBody(c, code, GetMessage(code), fields))
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, failBody(c, code, GetMessage(code), nil))
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func failBody(c *gin.Context, code ErrCode, message string, fields map[string]string) gin.H {
	body := gin.H{
		"status":  StatusError,
		"message": message,
		"code":    code,
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	if id := c.GetString(ContextKeyRequestID); id != "" {
		body["request_id"] = id
	}
	return body
}
