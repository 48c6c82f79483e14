package auth

import (
	"context"
	"time"

	"storefront/internal/domain"
	"storefront/internal/pkg/google"
)

// UserRepositoryInterface — only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	StoreRefreshToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error
	AddClaim(ctx context.Context, userID, claimType, claimValue string) error
	RemoveClaim(ctx context.Context, userID, claimType, claimValue string) error
}

// TokenCodec issues access tokens and decodes subjects for logout.
type TokenCodec interface {
	Issue(userID, email string, roles []string) (string, error)
	DecodeSubject(token string) (string, error)
}

// GoogleExchanger trades an authorization code for a verified identity.
type GoogleExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*google.UserInfo, error)
}
