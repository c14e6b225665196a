package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/token"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the single configured admin account.
type AuthService struct {
	username     string
	passwordHash []byte
	tokenManager token.Manager
}

// NewAuthService accepts the admin password either as a bcrypt hash or as plain
// text, which is hashed once here so it is never compared directly.
func NewAuthService(admin config.AdminConfig, tokenManager token.Manager) (*AuthService, error) {
	if admin.Username == "" || admin.Password == "" {
		return nil, errors.New("admin credentials are not configured")
	}

	hash := []byte(admin.Password)
	if !isBcryptHash(admin.Password) {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}

	return &AuthService{
		username:     admin.Username,
		passwordHash: hash,
		tokenManager: tokenManager,
	}, nil
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return strings.HasPrefix(s, "$2") && err == nil
}

func (a *AuthService) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	log := logger.FromContext(ctx)

	// 1. Validate username and password; both are always checked
	usernameOK := subtle.ConstantTimeCompare([]byte(request.Username), []byte(a.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(request.Password))
	if !usernameOK || passwordErr != nil {
		log.Warn("로그인 실패 - invalid credentials", "username", request.Username)
		return nil, fmt.Errorf("error %w", ErrInCorrectUsernamePassword) // Security: don't reveal which part failed
	}

	// 2. Generate JWT tokens
	accessToken, err := a.tokenManager.GenerateAccessToken(a.username)
	if err != nil {
		log.Error("access token 생성 실패", "error", err)
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := a.tokenManager.GenerateRefreshToken(a.username)
	if err != nil {
		log.Error("refresh token 생성 실패", "error", err)
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	log.Info("로그인 성공", "username", a.username)

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh issues a new access token for a valid refresh token of the configured admin.
func (a *AuthService) Refresh(ctx context.Context, request *RefreshRequest) (*RefreshResponse, error) {
	log := logger.FromContext(ctx)

	claims, err := a.tokenManager.ValidateToken(request.RefreshToken)
	if err != nil {
		log.Warn("refresh token 검증 실패", "error", err)
		return nil, fmt.Errorf("validate refresh token: %w: %w", ErrInvalidRefreshToken, err)
	}
	if claims == nil || claims.TokenType != token.REFRESH || claims.Username != a.username {
		log.Warn("refresh token 클레임 불일치")
		return nil, fmt.Errorf("error %w", ErrInvalidRefreshToken)
	}

	accessToken, err := a.tokenManager.GenerateAccessToken(a.username)
	if err != nil {
		log.Error("access token 생성 실패", "error", err)
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &RefreshResponse{AccessToken: accessToken}, nil
}
