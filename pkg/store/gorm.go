package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"netcheck/pkg/model"
)

// GormStore persists users and submissions through gorm (MySQL in production).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db; call Migrate before first use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the controller tables.
func (g *GormStore) Migrate() error {
	return g.db.AutoMigrate(&model.User{}, &model.Submission{}, &model.SubmissionEntry{})
}

func (g *GormStore) CreateFirst(ctx context.Context, u model.User) (model.User, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrRegistrationClosed
		}
		u.IsAdmin = true
		return tx.Create(&u).Error
	})
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (g *GormStore) Create(ctx context.Context, u model.User) (model.User, error) {
	if _, err := g.FindByUsername(ctx, u.Username); err == nil {
		return model.User{}, ErrUserExists
	} else if !errors.Is(err, ErrNotFound) {
		return model.User{}, err
	}
	if err := g.db.WithContext(ctx).Create(&u).Error; err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (g *GormStore) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := g.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (g *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

func (g *GormStore) Append(ctx context.Context, s model.Submission) error {
	if err := g.db.WithContext(ctx).Create(&s).Error; err != nil {
		return fmt.Errorf("append submission %s: %w", s.ID, err)
	}
	return nil
}

func (g *GormStore) List(ctx context.Context, limit int) ([]model.Submission, error) {
	q := g.db.WithContext(ctx).Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Order("received_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []model.Submission
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
