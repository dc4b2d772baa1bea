package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storm/internal/model"
)

// BootstrapRepository defines persistence operations for the one-time seeding
// lock and the seed data itself.
type BootstrapRepository interface {
	// AcquireLock attempts an insert-if-absent of the lock row and reports
	// whether this caller actually created it. A pre-existing row and a
	// duplicate-key race both report false without error.
	AcquireLock(ctx context.Context, lock *model.BootstrapLock) (bool, error)
	// MarkCompleted flips the completed flag; intended to run inside the
	// seeding transaction so the seed rows and the flag land together.
	MarkCompleted(ctx context.Context, completedAt int64) error
	// MarkFailed records a seeding failure. Best effort, outside any
	// transaction.
	MarkFailed(ctx context.Context, failedAt int64, cause string) error
	InsertSubmission(ctx context.Context, sub *model.ContactFormSubmission) error
	// WithTransaction executes fn against a transaction-scoped repository;
	// either every write inside fn lands or none do.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo BootstrapRepository) error) error
}

type bootstrapRepository struct {
	db *gorm.DB
}

// NewBootstrapRepository builds a GORM-backed repository.
func NewBootstrapRepository(db *gorm.DB) BootstrapRepository {
	return &bootstrapRepository{db: db}
}

func (r *bootstrapRepository) AcquireLock(ctx context.Context, lock *model.BootstrapLock) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(lock)
	if res.Error != nil {
		// Two processes racing on the insert itself: treat the loser's
		// duplicate-key error as "lock already held".
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bootstrapRepository) MarkCompleted(ctx context.Context, completedAt int64) error {
	return r.db.WithContext(ctx).Model(&model.BootstrapLock{}).
		Where("id = ?", model.BootstrapLockID).
		Updates(map[string]interface{}{
			"completed":           true,
			"completed_timestamp": completedAt,
		}).Error
}

func (r *bootstrapRepository) MarkFailed(ctx context.Context, failedAt int64, cause string) error {
	return r.db.WithContext(ctx).Model(&model.BootstrapLock{}).
		Where("id = ?", model.BootstrapLockID).
		Updates(map[string]interface{}{
			"failed":           true,
			"failed_timestamp": failedAt,
			"error":            cause,
		}).Error
}

func (r *bootstrapRepository) InsertSubmission(ctx context.Context, sub *model.ContactFormSubmission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// WithTransaction executes fn within a database transaction.
func (r *bootstrapRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo BootstrapRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &bootstrapRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
