package middleware

import "github.com/labstack/echo/v4"

const anonSubject = "anon"

// Subject returns the authenticated subject stored by JWTAuth, or "anon"
// for unauthenticated requests such as bookings.
func Subject(c echo.Context) string {
	if s, ok := c.Get(ctxSubject).(string); ok && s != "" {
		return s
	}
	return anonSubject
}
