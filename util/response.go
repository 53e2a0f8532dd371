package util

import (
	"errors"

	"github.com/gin-gonic/gin"
)

func SuccessResponse(msg string) gin.H {
	return gin.H{"message": msg}
}

func FailedResponse(err error) gin.H {
	res := gin.H{"error": err.Error()}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Details != "" {
		res["details"] = appErr.Details
	}
	return res
}
