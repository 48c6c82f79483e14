package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// Recovery is the single top-level handler for unexpected faults. Details go
// to the server log; the caller only ever sees a generic message.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Printf(
					"panic method=%s path=%s client_ip=%s latency=%s error=%v stack=%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.ClientIP(),
					time.Since(start),
					recovered,
					string(debug.Stack()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"errors":  []string{"An unexpected error occurred."},
				})
			}
		}()

		c.Next()
	}
}
