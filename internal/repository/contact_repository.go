package repository

import (
	"context"

	"gorm.io/gorm"

	"storm/internal/model"
)

// ContactRepository defines persistence operations for contact form
// submissions.
type ContactRepository interface {
	Create(ctx context.Context, sub *model.ContactFormSubmission) error
	FindByID(ctx context.Context, id string) (*model.ContactFormSubmission, error)
	List(ctx context.Context) ([]model.ContactFormSubmission, error)
	Delete(ctx context.Context, id string) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository builds a GORM-backed repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, sub *model.ContactFormSubmission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id string) (*model.ContactFormSubmission, error) {
	var sub model.ContactFormSubmission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *contactRepository) List(ctx context.Context) ([]model.ContactFormSubmission, error) {
	var subs []model.ContactFormSubmission
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ContactFormSubmission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
