package repository

import (
	"context"
	"fmt"

	"scenehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository keeps the local profile rows that scenes, comments and memberships reference.
// Accounts are created by the identity provider; a profile is created on first authenticated write.
type UserRepository interface {
	EnsureProfile(ctx context.Context, id, username string) error
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) EnsureProfile(ctx context.Context, id, username string) error {
	if username == "" {
		username = "user-" + shortID(id)
	}
	insert := func(name string) error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			Create(&models.User{ID: id, Username: name}).Error
	}
	err := insert(username)
	if err != nil && isUniqueViolation(err) {
		// username taken by another account
		err = insert(username + "-" + shortID(id))
	}
	if err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
