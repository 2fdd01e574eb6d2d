package handlers

import (
	"time"

	"github.com/labstack/echo/v4"

	"paycontrol/internal/apperr"
	"paycontrol/internal/middleware"
)

// debtRequest is the JSON body of debt create and update calls. On update,
// absent fields are left unchanged.
type debtRequest struct {
	Type         string   `json:"type"`
	PersonID     string   `json:"person_id"`
	Amount       *float64 `json:"amount"`
	Reason       *string  `json:"reason"`
	Medium       *string  `json:"medium"`
	Date         *string  `json:"date"`
	DueDate      *string  `json:"due_date"`
	Observations *string  `json:"observations"`
}

// paymentRequest is the JSON body of the register-payment call.
type paymentRequest struct {
	Amount   float64 `json:"amount"`
	Medium   string  `json:"medium"`
	Note     string  `json:"note"`
	Date     string  `json:"date"`
	Evidence *string `json:"evidence"`
}

// personRequest is the JSON body of person create and update calls.
type personRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DocType   string `json:"doc_type"`
	DocNumber string `json:"doc_number"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// profileRequest is the JSON body of the profile update call.
type profileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
	Currency  string `json:"currency"`
}

// dateFormats accepted from the SPA's date and datetime-local inputs.
var dateFormats = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation("unrecognized date %q", s)
}

// Helpers to read the authenticated user from the Echo context
func userUID(c echo.Context) string {
	return getStringFromContext(c, middleware.ContextUserUID)
}

func userEmail(c echo.Context) string {
	return getStringFromContext(c, middleware.ContextUserEmail)
}

func getStringFromContext(c echo.Context, key string) string {
	val := c.Get(key)
	if val == nil {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}
