package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/shapecheck/middleware"
)

// ValidateJSON validates the request body with c, stores the validated value
// in the request context and aborts with the error payload on failure.
func ValidateJSON(c middleware.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		v, err := c.Decode(ctx.Request.Body)
		if err != nil {
			ctx.AbortWithStatusJSON(middleware.StatusOf(err), middleware.ErrorPayload(err))
			return
		}
		ctx.Request = ctx.Request.WithContext(middleware.ContextWithValue(ctx.Request.Context(), v))
		ctx.Next()
	}
}

// GetValue fetches the validated body from gin.Context.
func GetValue(ctx *gin.Context) (map[string]any, bool) {
	return middleware.ValueFromContext(ctx.Request.Context())
}
