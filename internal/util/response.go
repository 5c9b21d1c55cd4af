package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the loose data map inside the success envelope.
type Response map[string]interface{}

// business error codes carried next to the HTTP status
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeMethod       = 40501
	CodeRateLimited  = 42901
	CodeServerErr    = 50001
)

// Success returns 200 with the standard envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Created returns 201 with the standard envelope.
func Created(c *gin.Context, data Response) {
	c.JSON(http.StatusCreated, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// NoContent returns 204 with a confirmation message in the envelope.
func NoContent(c *gin.Context, msg string) {
	c.JSON(http.StatusNoContent, gin.H{
		"code":    CodeOK,
		"message": msg,
	})
}

// Error returns the uniform error envelope with a business code.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// FieldErrors maps a request field to its validation message.
type FieldErrors map[string]string

// ValidationError returns 400 with every failing field collected, the
// whole map at once rather than the first failure.
func ValidationError(c *gin.Context, errs FieldErrors) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":   CodeInvalidParam,
		"errors": errs,
	})
}
