// Package http carries the response envelope and authentication
// middleware shared by the admin and front API groups.
package http

import (
	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// OK writes the success envelope.
func OK(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// Fail writes the failure envelope from a workflow error. Internal causes
// are logged server-side and never leak into the response body.
func Fail(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if cause := appErr.Unwrap(); cause != nil {
		log.WithFields(log.Fields{
			"path":   c.FullPath(),
			"method": c.Request.Method,
			"code":   appErr.Code,
		}).Errorf("request failed: %v", cause)
	}
	c.JSON(appErr.StatusCode, gin.H{
		"success": false,
		"message": appErr.Message,
		"code":    appErr.Code,
	})
}

// Abort writes the failure envelope and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
