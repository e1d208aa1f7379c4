// Package service implements the application services sitting between
// the HTTP handlers and the store. Services validate input, enforce
// authorization rules, and translate store errors into coded domain
// errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/davedeals/davedeals-server/internal/auth"
	"github.com/davedeals/davedeals-server/internal/domain"
	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
	"github.com/davedeals/davedeals-server/internal/id"
	"github.com/davedeals/davedeals-server/internal/store"
	"github.com/davedeals/davedeals-server/internal/store/sqlite"
	"github.com/davedeals/davedeals-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()

// AuthService handles registration, login, and the refresh-token
// session lifecycle.
type AuthService struct {
	store        *sqlite.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *sqlite.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	Name      string `json:"name" validate:"omitempty,max=200"`
	Role      string `json:"role" validate:"omitempty,oneof=buyer seller"`
	IPAddress string `json:"-"` // Extracted from the request by the handler
	UserAgent string `json:"-"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// RefreshRequest carries the opaque refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}

// TokenPair is the issued credential set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // Access token lifetime in seconds
	SessionID    string `json:"session_id"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	TokenPair
}

// Register creates a new account. Accounts registering as sellers get
// a seller profile row alongside the user.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	role := domain.RoleBuyer
	if req.Role == string(domain.RoleSeller) {
		role = domain.RoleSeller
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Record:       domain.Record{ID: userID},
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         role,
		LastLoginAt:  time.Now(),
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if role == domain.RoleSeller {
		sellerID, err := id.Generate(id.PrefixSeller)
		if err != nil {
			return nil, fmt.Errorf("generate seller ID: %w", err)
		}
		seller := &domain.Seller{
			Record:      domain.Record{ID: sellerID},
			UserID:      userID,
			DisplayName: req.Name,
		}
		seller.InitTimestamps()
		if err := s.store.CreateSeller(ctx, seller); err != nil {
			return nil, fmt.Errorf("create seller profile: %w", err)
		}
	}

	tokens, err := s.createSession(ctx, user, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", userID, "role", role)

	return &AuthResponse{User: user, TokenPair: *tokens}, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the email exists.
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Log but don't fail login.
		s.logger.Warn("failed to update last login time", "user_id", user.ID, "error", err)
	}

	tokens, err := s.createSession(ctx, user, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &AuthResponse{User: user, TokenPair: *tokens}, nil
}

// Refresh rotates the refresh token for an existing session and issues
// a fresh access token. The presented token is invalidated.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tokenHash := auth.HashRefreshToken(req.RefreshToken)
	session, err := s.store.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, domainerrors.TokenExpired("invalid or expired refresh token").WithCause(err)
	}
	if session.IsExpired(time.Now()) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, domainerrors.TokenExpired("invalid or expired refresh token")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		// User was deleted; clean up the orphaned session.
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, domainerrors.TokenExpired("invalid or expired refresh token").WithCause(err)
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	newRefreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := time.Now()
	session.RefreshTokenHash = auth.HashRefreshToken(newRefreshToken)
	session.ExpiresAt = now.Add(s.tokenService.RefreshTokenDuration())
	session.LastUsedAt = now
	if req.IPAddress != "" {
		session.IPAddress = req.IPAddress
	}
	if req.UserAgent != "" {
		session.UserAgent = req.UserAgent
	}
	session.Touch()

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	return &AuthResponse{
		User: user,
		TokenPair: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
			SessionID:    session.ID,
		},
	}, nil
}

// Logout revokes the session identified by the refresh token. Unknown
// tokens succeed silently so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	tokenHash := auth.HashRefreshToken(refreshToken)
	session, err := s.store.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup session: %w", err)
	}

	if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Info("user logged out", "user_id", session.UserID)
	return nil
}

// VerifyAccessToken validates a bearer token and returns its claims.
func (s *AuthService) VerifyAccessToken(tokenString string) (*auth.AccessClaims, error) {
	return s.tokenService.VerifyAccessToken(tokenString)
}

// EnsureAdmin creates or promotes the configured admin account at
// startup. It is idempotent: an existing account with the right role
// is left alone.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role == domain.RoleAdmin {
			return nil
		}
		user.Role = domain.RoleAdmin
		user.Touch()
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		s.logger.Info("promoted existing user to admin", "user_id", user.ID)
		return nil

	case errors.Is(err, store.ErrNotFound):
		passwordHash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		userID, err := id.Generate(id.PrefixUser)
		if err != nil {
			return fmt.Errorf("generate admin ID: %w", err)
		}
		admin := &domain.User{
			Record:       domain.Record{ID: userID},
			Email:        email,
			PasswordHash: passwordHash,
			Name:         "Admin",
			Role:         domain.RoleAdmin,
		}
		admin.InitTimestamps()
		if err := s.store.CreateUser(ctx, admin); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		s.logger.Info("created admin account", "user_id", userID)
		return nil

	default:
		return fmt.Errorf("lookup admin: %w", err)
	}
}

// PurgeExpiredSessions deletes sessions past their refresh expiry.
// Intended to run periodically from the server's janitor loop.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	n, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	if n > 0 {
		s.logger.Debug("purged expired sessions", "count", n)
	}
	return nil
}

// createSession issues a token pair and persists the session row.
// Session IDs are UUIDs rather than entity nanoids: they end up in
// client storage, and the distinct shape keeps them from being
// mistaken for resource IDs.
func (s *AuthService) createSession(ctx context.Context, user *domain.User, ipAddress, userAgent string) (*TokenPair, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		Record:           domain.Record{ID: uuid.NewString()},
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokenService.RefreshTokenDuration()),
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
		LastUsedAt:       now,
	}
	session.InitTimestamps()

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
		SessionID:    session.ID,
	}, nil
}
