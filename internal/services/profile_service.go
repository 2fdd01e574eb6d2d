package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"paycontrol/internal/apperr"
	"paycontrol/internal/models"
	"paycontrol/internal/provider"
)

// ProfileService manages the user's display settings.
type ProfileService struct {
	store provider.Provider
}

// NewProfileService creates a ProfileService.
func NewProfileService(store provider.Provider) *ProfileService {
	return &ProfileService{store: store}
}

// Get returns the stored profile, or a default one built from the auth
// context when the user has never saved it.
func (s *ProfileService) Get(ctx context.Context, userID, email string) (*models.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &models.Profile{
			UserID:    userID,
			Email:     email,
			AvatarURL: defaultAvatar(email),
			Currency:  "USD ($)",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if profile.AvatarURL == "" {
		profile.AvatarURL = defaultAvatar(profile.Email)
	}
	return profile, nil
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	Location  string
	AvatarURL string
	Currency  string
}

// Update saves the profile.
func (s *ProfileService) Update(ctx context.Context, userID, email string, in ProfileInput) (*models.Profile, error) {
	if in.FirstName == "" {
		return nil, apperr.Validation("first name is required")
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD ($)"
	}
	profile := &models.Profile{
		UserID:    userID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Location:  in.Location,
		AvatarURL: in.AvatarURL,
		Currency:  currency,
	}
	if profile.AvatarURL == "" {
		profile.AvatarURL = defaultAvatar(email)
	}
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func defaultAvatar(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=6366f1&color=fff", url.QueryEscape(name))
}
