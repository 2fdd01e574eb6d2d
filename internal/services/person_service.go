package services

import (
	"context"

	"paycontrol/internal/apperr"
	"paycontrol/internal/models"
	"paycontrol/internal/provider"
)

// PersonService manages the user's counterparties. Plain CRUD, no derived
// state; debts keep their own counterparty name snapshot, so renames here do
// not rewrite history.
type PersonService struct {
	store provider.Provider
}

// NewPersonService creates a PersonService.
func NewPersonService(store provider.Provider) *PersonService {
	return &PersonService{store: store}
}

// PersonInput carries the fields of a person form.
type PersonInput struct {
	FirstName string
	LastName  string
	DocType   models.DocType
	DocNumber string
	Phone     string
	Email     string
}

func (in PersonInput) validate() error {
	if in.FirstName == "" {
		return apperr.Validation("first name is required")
	}
	switch in.DocType {
	case "", models.DocTypeCC, models.DocTypeCE, models.DocTypeTI, models.DocTypeNIT, models.DocTypePassport:
		return nil
	default:
		return apperr.Validation("unknown document type %q", in.DocType)
	}
}

// List returns the user's persons.
func (s *PersonService) List(ctx context.Context, userID string) ([]models.Person, error) {
	return s.store.ListPersons(ctx, userID)
}

// Create registers a new person.
func (s *PersonService) Create(ctx context.Context, userID string, in PersonInput) (*models.Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	docType := in.DocType
	if docType == "" {
		docType = models.DocTypeCC
	}
	person := &models.Person{
		UserID:    userID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		DocType:   docType,
		DocNumber: in.DocNumber,
		Phone:     in.Phone,
		Email:     in.Email,
	}
	if err := s.store.CreatePerson(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// Update edits an existing person. Past debts keep the old name snapshot.
func (s *PersonService) Update(ctx context.Context, userID, personID string, in PersonInput) (*models.Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	person, err := s.store.GetPerson(ctx, userID, personID)
	if err != nil {
		return nil, err
	}
	person.FirstName = in.FirstName
	person.LastName = in.LastName
	if in.DocType != "" {
		person.DocType = in.DocType
	}
	person.DocNumber = in.DocNumber
	person.Phone = in.Phone
	person.Email = in.Email

	if err := s.store.UpdatePerson(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}
