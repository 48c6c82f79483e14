package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service coordinates credential verification, token issuance and refresh
// rotation. All dependencies are injected; errors are values, never panics.
type Service struct {
	users      UserRepositoryInterface
	codec      TokenCodec
	google     GoogleExchanger
	policy     PasswordPolicy
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(
	users UserRepositoryInterface,
	codec TokenCodec,
	google GoogleExchanger,
	policy PasswordPolicy,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		codec:      codec,
		google:     google,
		policy:     policy,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Register creates a user and signs them in. An empty password creates a
// federated-only account that can never pass password verification.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthTokens, error) {
	email := domain.NormalizeEmail(req.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ValidationError{Errors: []string{
			fmt.Sprintf("Email '%s' is already taken.", email),
		}}
	}

	var passwordHash string
	if req.Password != "" {
		if violations := s.policy.Validate(req.Password); len(violations) > 0 {
			return nil, &ValidationError{Errors: violations}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passwordHash = string(hash)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Login deliberately reports the same failure for an unknown email and a
// wrong password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthTokens, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// LoginGoogle authenticates an existing local user via a verified Google
// identity. It never creates one; that is RegisterGoogle's job.
func (s *Service) LoginGoogle(ctx context.Context, code string) (*AuthTokens, error) {
	info, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// RegisterGoogle creates a passwordless user from the verified profile.
func (s *Service) RegisterGoogle(ctx context.Context, code string) (*AuthTokens, error) {
	info, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.Register(ctx, RegisterRequest{
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		Email:     info.Email,
	})
}

// Refresh validates the presented token and rotates it. Refresh tokens are
// single-use: the stored value is overwritten on every success, and an expiry
// of exactly now is already expired.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if user.RefreshTokenExpiresAt == nil || !user.RefreshTokenExpiresAt.After(s.now()) {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh token for the token's subject. The access
// token may already be expired, so only its payload is decoded.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	userID, err := s.codec.DecodeSubject(accessToken)
	if err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.users.StoreRefreshToken(ctx, userID, nil, nil)
}

// MakeAdmin grants the admin role claim. Outstanding access tokens keep their
// old snapshot until they expire.
func (s *Service) MakeAdmin(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.users.AddClaim(ctx, user.ID, domain.ClaimTypeRole, domain.RoleAdmin)
}

func (s *Service) RemoveAdmin(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.users.RemoveClaim(ctx, user.ID, domain.ClaimTypeRole, domain.RoleAdmin)
}

func (s *Service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return responses, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// issueTokens mints the access/refresh pair and persists the new refresh
// token, unconditionally invalidating the previous one. Concurrent calls for
// the same user are not serialized; the last writer wins.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthTokens, error) {
	accessToken, err := s.codec.Issue(user.ID, user.Email, user.RoleClaims())
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.refreshTTL)
	if err := s.users.StoreRefreshToken(ctx, user.ID, &refreshToken, &expiresAt); err != nil {
		return nil, err
	}

	return &AuthTokens{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
