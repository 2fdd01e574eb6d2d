package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"paycontrol/internal/apperr"
	"paycontrol/internal/models"
	"paycontrol/internal/services"
)

// PersonHandler handles counterparty and profile endpoints
type PersonHandler struct {
	persons  *services.PersonService
	profiles *services.ProfileService
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(persons *services.PersonService, profiles *services.ProfileService) *PersonHandler {
	return &PersonHandler{persons: persons, profiles: profiles}
}

// ListPersons returns the user's saved counterparties
func (h *PersonHandler) ListPersons(c echo.Context) error {
	persons, err := h.persons.List(c.Request().Context(), userUID(c))
	if err != nil {
		return err
	}
	if persons == nil {
		persons = []models.Person{}
	}
	return c.JSON(http.StatusOK, persons)
}

// CreatePerson registers a new counterparty
func (h *PersonHandler) CreatePerson(c echo.Context) error {
	var req personRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	person, err := h.persons.Create(c.Request().Context(), userUID(c), personInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, person)
}

// UpdatePerson edits a counterparty. Existing debts keep the name they were
// created with.
func (h *PersonHandler) UpdatePerson(c echo.Context) error {
	var req personRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	person, err := h.persons.Update(c.Request().Context(), userUID(c), c.Param("id"), personInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, person)
}

func personInput(req personRequest) services.PersonInput {
	return services.PersonInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DocType:   models.DocType(req.DocType),
		DocNumber: req.DocNumber,
		Phone:     req.Phone,
		Email:     req.Email,
	}
}

// GetProfile returns the user's profile, defaulted from the auth context when
// never saved
func (h *PersonHandler) GetProfile(c echo.Context) error {
	profile, err := h.profiles.Get(c.Request().Context(), userUID(c), userEmail(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile saves the user's profile
func (h *PersonHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	profile, err := h.profiles.Update(c.Request().Context(), userUID(c), userEmail(c), services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Location:  req.Location,
		AvatarURL: req.AvatarURL,
		Currency:  req.Currency,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
