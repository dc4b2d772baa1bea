package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storm/internal/cache"
	"storm/internal/model"
	"storm/internal/repository"
)

const (
	contactListCacheKey = "contact_form_submissions:list"
	contactListCacheTTL = 5 * time.Minute
)

// ContactService handles contact form submissions.
type ContactService interface {
	Create(ctx context.Context, name, email, message string) (*model.ContactFormSubmission, error)
	Get(ctx context.Context, id string) (*model.ContactFormSubmission, error)
	List(ctx context.Context) ([]model.ContactFormSubmission, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo  repository.ContactRepository
	cache *cache.Client
}

// NewContactService creates a new contact form service.
func NewContactService(repo repository.ContactRepository, cacheClient *cache.Client) ContactService {
	return &contactService{repo: repo, cache: cacheClient}
}

func (s *contactService) Create(ctx context.Context, name, email, message string) (*model.ContactFormSubmission, error) {
	sub := &model.ContactFormSubmission{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create contact submission: %w", err)
	}
	s.cache.Delete(ctx, contactListCacheKey)
	return sub, nil
}

func (s *contactService) Get(ctx context.Context, id string) (*model.ContactFormSubmission, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *contactService) List(ctx context.Context) ([]model.ContactFormSubmission, error) {
	if data, _ := s.cache.Get(ctx, contactListCacheKey); data != nil {
		var subs []model.ContactFormSubmission
		if err := json.Unmarshal(data, &subs); err == nil {
			return subs, nil
		}
	}

	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}

	if data, err := json.Marshal(subs); err == nil {
		s.cache.Set(ctx, contactListCacheKey, data, contactListCacheTTL)
	}

	return subs, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, contactListCacheKey)
	return nil
}
