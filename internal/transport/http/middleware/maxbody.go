package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "go-office-rental/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小（图片上传也受此约束）
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeValidation, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
