package repository

import (
	"context"
	"time"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = domain.NormalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Preload("Claims").Where("id = ?", id).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Preload("Claims").
		Where("email = ?", domain.NormalizeEmail(email)).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

// GetByRefreshToken looks up the user whose stored refresh token exactly
// equals the presented value.
func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Preload("Claims").
		Where("refresh_token = ?", token).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", domain.NormalizeEmail(email)).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	tx := r.db.WithContext(ctx).Preload("Claims").Order("created_at").Find(&users)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return users, nil
}

// StoreRefreshToken overwrites the single active refresh token for a user.
// Passing nils clears it (logout). This is a plain last-writer-wins update;
// concurrent refreshes are not serialized.
func (r *UserRepository) StoreRefreshToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"refresh_token":            token,
			"refresh_token_expires_at": expiresAt,
		}).Error
}

func (r *UserRepository) AddClaim(ctx context.Context, userID, claimType, claimValue string) error {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.UserClaim{}).
		Where("user_id = ? AND type = ? AND value = ?", userID, claimType, claimValue).
		Count(&count)
	if tx.Error != nil {
		return tx.Error
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&domain.UserClaim{
		UserID: userID,
		Type:   claimType,
		Value:  claimValue,
	}).Error
}

func (r *UserRepository) RemoveClaim(ctx context.Context, userID, claimType, claimValue string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND value = ?", userID, claimType, claimValue).
		Delete(&domain.UserClaim{}).Error
}
