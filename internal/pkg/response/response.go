package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error writes the uniform failure shape: an ordered list of human-readable
// messages. Handlers never leak internal error detail through this.
func Error(c *gin.Context, statusCode int, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(statusCode, gin.H{
		"success": false,
		"errors":  errs,
	})
}
