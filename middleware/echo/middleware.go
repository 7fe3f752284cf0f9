package echomw

import (
	"github.com/labstack/echo/v4"

	"github.com/reoring/shapecheck/middleware"
)

// ValidateJSON validates the request body with c, stores the validated value
// in the request context or responds with the error payload.
func ValidateJSON(c middleware.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			v, err := c.Decode(ec.Request().Body)
			if err != nil {
				return ec.JSON(middleware.StatusOf(err), middleware.ErrorPayload(err))
			}
			ec.SetRequest(ec.Request().WithContext(middleware.ContextWithValue(ec.Request().Context(), v)))
			return next(ec)
		}
	}
}

// GetValue fetches the validated body from echo.Context.
func GetValue(ec echo.Context) (map[string]any, bool) {
	return middleware.ValueFromContext(ec.Request().Context())
}
