package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backoffice/pkg/auth"
	"github.com/retailpos/backoffice/pkg/auth/session"
	"github.com/retailpos/backoffice/pkg/config"
	"github.com/retailpos/backoffice/pkg/db/models"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
	"github.com/retailpos/backoffice/pkg/security"
)

// Service exposes login, token refresh, and logout.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginDTO, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginDTO, error)
	Logout(ctx context.Context, accessID string) error
}

// LoginInput holds the credentials plus the caller's IP for rate limiting.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type loginRateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type service struct {
	users    userStore
	sessions sessionManager
	limiter  loginRateLimiter
	jwtCfg   config.JWTConfig
	rlCfg    config.AuthRateLimitConfig
	now      func() time.Time
}

// NewService constructs an auth service instance.
func NewService(
	users userStore,
	sessions sessionManager,
	limiter loginRateLimiter,
	jwtCfg config.JWTConfig,
	rlCfg config.AuthRateLimitConfig,
) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	return &service{
		users:    users,
		sessions: sessions,
		limiter:  limiter,
		jwtCfg:   jwtCfg,
		rlCfg:    rlCfg,
		now:      time.Now,
	}, nil
}

var errBadCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")

// Login verifies the credentials and issues a token pair. Attempts are
// rate-limited per email and per client IP so a stolen address book cannot
// be brute-forced.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if err := s.checkLoginLimits(ctx, email, input.ClientIP); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, errBadCredentials
	}

	dto, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err == nil {
		dto.User.LastLoginAt = &now
	}
	return dto, nil
}

func (s *service) checkLoginLimits(ctx context.Context, email, clientIP string) error {
	window := s.rlCfg.LoginWindow
	if window <= 0 {
		return nil
	}

	allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:email:"+email,
		int64(s.rlCfg.LoginEmailLimit), window)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: login rate limit")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts for this account")
	}

	if clientIP != "" {
		allowed, _, err = s.limiter.FixedWindowAllow(ctx, "login:ip:"+clientIP,
			int64(s.rlCfg.LoginIPLimit), window)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: login rate limit")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts from this address")
		}
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (*LoginDTO, error) {
	accessID := session.NewAccessID()

	accessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: store session")
	}

	return &LoginDTO{
		User: NewUserDTO(user),
		Tokens: TokenPairDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		},
	}, nil
}

// Refresh rotates the session behind an access token that may already be
// expired. The old session is invalidated in the same step.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginDTO, error) {
	if strings.TrimSpace(accessToken) == "" || strings.TrimSpace(refreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access and refresh tokens are required")
	}

	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	newAccessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginDTO{
		User: NewUserDTO(user),
		Tokens: TokenPairDTO{
			AccessToken:  newAccessToken,
			RefreshToken: newRefreshToken,
			ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		},
	}, nil
}

// Logout revokes the session tied to the access token id.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: revoke session")
	}
	return nil
}
