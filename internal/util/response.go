package util

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON body of a successful call.
type Response map[string]interface{}

// Business error codes carried next to the HTTP status.
const (
	CodeOK                  = 0
	CodeInvalidParam        = 40001
	CodeAuth                = 40101
	CodeNotFound            = 40401
	CodeConflict            = 40901
	CodeInsufficientBalance = 42201
	CodeServerErr           = 50001
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Success writes data as-is with the given status.
func Success(c *gin.Context, httpStatus int, data Response) {
	c.JSON(httpStatus, data)
}

// Error writes a failed envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"status":  StatusFailed,
		"code":    code,
		"message": msg,
	})
}
