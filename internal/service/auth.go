package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobos/frontend/internal/apiclient"
	"github.com/jobos/frontend/internal/model"
	"github.com/jobos/frontend/internal/validation"
)

var ErrMissingFields = errors.New("all fields are required")

type AuthService struct {
	api *apiclient.Client
}

func NewAuthService(api *apiclient.Client) *AuthService {
	return &AuthService{api: api}
}

// Signup asks the API to create an account. Only presence is checked locally;
// the fields are sent as typed.
func (s *AuthService) Signup(ctx context.Context, form model.SignupForm) error {
	err := validation.Required(form.Name, form.Email, form.Password)
	if err != nil {
		return ErrMissingFields
	}

	err = s.api.Signup(ctx, form)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}

// Signin exchanges credentials for the API token, returned verbatim.
func (s *AuthService) Signin(ctx context.Context, form model.SigninForm) (string, error) {
	err := validation.Required(form.Email, form.Password)
	if err != nil {
		return "", ErrMissingFields
	}

	token, err := s.api.Signin(ctx, form)
	if err != nil {
		return "", fmt.Errorf("signin: %w", err)
	}
	return token, nil
}
