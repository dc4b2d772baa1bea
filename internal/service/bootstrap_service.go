package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"storm/internal/model"
	"storm/internal/repository"
)

// SeedService runs the one-time database seeding behind a cross-process lock.
//
// Multiple process instances may start concurrently; exactly one wins the
// insert-if-absent race on the lock row and performs the seeding inside a
// single transaction together with the completed flag. Everyone else, racing
// or restarting later, observes the row as pre-existing and skips. A failed
// seed records the error on the lock row and permanently blocks retries until
// the row is cleared manually; this is a deliberate simplification.
type SeedService struct {
	repo repository.BootstrapRepository

	mu        sync.Mutex
	attempted bool
}

// NewSeedService creates a seeder. The attempted flag is owned here rather
// than living as process-global state so the component can be constructed
// fresh in tests.
func NewSeedService(repo repository.BootstrapRepository) *SeedService {
	return &SeedService{repo: repo}
}

// Run executes the seeding protocol. Calling it again within the same process
// is a no-op regardless of the first call's outcome.
func (s *SeedService) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.attempted {
		s.mu.Unlock()
		log.Println("seeding already attempted in this process, skipping")
		return nil
	}
	s.attempted = true
	s.mu.Unlock()

	lock := &model.BootstrapLock{
		ID:        model.BootstrapLockID,
		Executed:  true,
		Timestamp: time.Now().Unix(),
		Instance:  "instance-" + uuid.NewString(),
	}

	acquired, err := s.repo.AcquireLock(ctx, lock)
	if err != nil {
		return fmt.Errorf("acquire bootstrap lock: %w", err)
	}
	if !acquired {
		log.Println("bootstrap lock already exists, skipping seeding")
		return nil
	}

	log.Printf("acquired bootstrap lock as %s, seeding data", lock.Instance)

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.BootstrapRepository) error {
		for _, sub := range seedSubmissions() {
			if err := repo.InsertSubmission(ctx, &sub); err != nil {
				return fmt.Errorf("insert seed submission: %w", err)
			}
		}
		// Inside the transaction: seed rows and the completed flag land
		// together or not at all.
		if err := repo.MarkCompleted(ctx, time.Now().Unix()); err != nil {
			return fmt.Errorf("mark seeding completed: %w", err)
		}
		return nil
	})
	if err != nil {
		// Best effort; the lock row persists either way and no process will
		// retry the seeding.
		if markErr := s.repo.MarkFailed(ctx, time.Now().Unix(), err.Error()); markErr != nil {
			log.Printf("failed to record seeding failure: %v", markErr)
		}
		return fmt.Errorf("seed data: %w", err)
	}

	log.Println("successfully seeded data")
	return nil
}

// seedSubmissions returns the Flower Festival landing page sample inquiries.
func seedSubmissions() []model.ContactFormSubmission {
	return []model.ContactFormSubmission{
		{
			ID:      uuid.NewString(),
			Name:    "Jane Smith",
			Email:   "jane.smith@example.com",
			Message: "I'd like to know if there are any discounts for group tickets to the Flower Festival.",
		},
		{
			ID:      uuid.NewString(),
			Name:    "Michael Johnson",
			Email:   "michael.j@example.com",
			Message: "Can you please provide more information about the floral arrangement workshop on Saturday?",
		},
		{
			ID:      uuid.NewString(),
			Name:    "Emily Davis",
			Email:   "emily.davis@example.com",
			Message: "I'm interested in being a vendor at next year's festival. Who should I contact about this opportunity?",
		},
		{
			ID:      uuid.NewString(),
			Name:    "Robert Wilson",
			Email:   "rwilson@example.com",
			Message: "Are there any accommodations for visitors with disabilities at the festival grounds?",
		},
		{
			ID:      uuid.NewString(),
			Name:    "Sarah Thompson",
			Email:   "sarah.t@example.com",
			Message: "I'm a photographer interested in covering the festival. Do you offer press passes?",
		},
	}
}
