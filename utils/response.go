package utils

import "github.com/gin-gonic/gin"

// Success writes a 200 response with the payload as the body.
func Success(ctx *gin.Context, payload interface{}) {
	ctx.JSON(200, payload)
}

// Error writes an error body of the shape {"error": message}.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
