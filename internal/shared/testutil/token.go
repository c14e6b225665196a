package testutil

import (
	"sync"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/token"
)

// MockTokenManager returns fixed tokens unless a Func override is set.
// Issued records the usernames tokens were generated for.
type MockTokenManager struct {
	GenerateAccessTokenFunc  func(username string) (string, error)
	GenerateRefreshTokenFunc func(username string) (string, error)
	ValidateTokenFunc        func(tokenString string) (*token.Claims, error)

	mu     sync.Mutex
	Issued []string
}

var _ token.Manager = (*MockTokenManager)(nil)

func NewMockTokenManager() *MockTokenManager {
	return &MockTokenManager{}
}

func (m *MockTokenManager) record(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Issued = append(m.Issued, username)
}

func (m *MockTokenManager) GenerateAccessToken(username string) (string, error) {
	m.record(username)
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(username)
	}
	return "mock-access-token", nil
}

func (m *MockTokenManager) GenerateRefreshToken(username string) (string, error) {
	m.record(username)
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(username)
	}
	return "mock-refresh-token", nil
}

// ValidateToken without an override rejects every token.
func (m *MockTokenManager) ValidateToken(tokenString string) (*token.Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	return nil, token.ErrInvalidToken
}
