package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jobos/frontend/internal/apiclient"
	"github.com/jobos/frontend/internal/model"
	"github.com/jobos/frontend/internal/session"
)

// UploadService runs authenticated upload calls on behalf of a session.
// Every call re-checks the session first, so a missing or expired token
// never reaches the API.
type UploadService struct {
	api *apiclient.Client
	now func() time.Time
}

func NewUploadService(api *apiclient.Client) *UploadService {
	return &UploadService{api: api, now: time.Now}
}

func (s *UploadService) authorize(sess *session.Session) (string, error) {
	err := sess.Check(s.now())
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// List returns the user's uploads in server order.
func (s *UploadService) List(ctx context.Context, sess *session.Session) ([]model.Upload, error) {
	token, err := s.authorize(sess)
	if err != nil {
		return nil, err
	}

	uploads, err := s.api.ListUploads(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return uploads, nil
}

// Upload sends one file.
func (s *UploadService) Upload(ctx context.Context, sess *session.Session, file apiclient.File) error {
	token, err := s.authorize(sess)
	if err != nil {
		return err
	}

	err = s.api.Upload(ctx, token, file)
	if err != nil {
		return fmt.Errorf("upload %q: %w", file.Name, err)
	}
	return nil
}

// Delete removes one upload by id.
func (s *UploadService) Delete(ctx context.Context, sess *session.Session, id int) error {
	token, err := s.authorize(sess)
	if err != nil {
		return err
	}

	err = s.api.DeleteUpload(ctx, token, id)
	if err != nil {
		return fmt.Errorf("delete upload %d: %w", id, err)
	}
	return nil
}
