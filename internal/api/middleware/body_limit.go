package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-pilot/backend/pkg/response"
)

// BodyLimit 请求体大小限制
// 班次列表上限 2000 条，默认 2MB 足够；超出时返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				if !c.Writer.Written() {
					response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				}
				return
			}
		}
	}
}
