package middleware

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// Context keys set for downstream handlers once the session is verified.
const (
	ContextUserUID   = "userUID"
	ContextUserEmail = "userEmail"
)

// RequireAuth returns a middleware that verifies Firebase session cookies.
// The API is consumed by the SPA, so failures answer 401 JSON instead of a
// redirect; the frontend routes to its login view.
func RequireAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Check if Firebase is initialized
			if authClient == nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"error": "auth not configured",
				})
			}

			// Get the session cookie
			cookie, err := c.Cookie("session")
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "not authenticated",
				})
			}

			// Verify the session cookie
			decodedToken, err := authClient.VerifySessionCookie(c.Request().Context(), cookie.Value)
			if err != nil {
				// Invalid session, clear the cookie
				clearCookie := &http.Cookie{
					Name:     "session",
					Value:    "",
					MaxAge:   -1,
					HttpOnly: true,
					Path:     "/",
				}
				c.SetCookie(clearCookie)
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "session expired",
				})
			}

			// Set user info in context for downstream handlers
			c.Set(ContextUserUID, decodedToken.UID)
			if email, ok := decodedToken.Claims["email"].(string); ok {
				c.Set(ContextUserEmail, email)
			}

			return next(c)
		}
	}
}
