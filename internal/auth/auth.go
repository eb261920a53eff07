package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ukydev/car-maintenance-tracker/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingIdentity    = errors.New("demo identity requires email and password")
)

// TokenPrefix starts every issued demo token.
const TokenPrefix = "demo-token-"

const maxPasswordBytes = 72

const (
	MessageLoginOK     = "Login successful"
	MessageLoginFailed = "Invalid email or password"
	MessageLogoutOK    = "Logout successful"
)

// Identity is the single configured demo account.
type Identity struct {
	Email    string
	Password string
	Name     string
}

// Service checks credentials against the demo identity. It keeps no
// session state: tokens are opaque and never verified.
type Service struct {
	email        string
	name         string
	passwordHash []byte
	now          func() time.Time
}

// NewService creates a new authentication service for id. Only a bcrypt
// hash of the password is retained.
func NewService(id Identity) (*Service, error) {
	return newService(id, bcrypt.DefaultCost)
}

func newService(id Identity, cost int) (*Service, error) {
	if id.Email == "" || id.Password == "" {
		return nil, ErrMissingIdentity
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(id.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	return &Service{
		email:        id.Email,
		name:         id.Name,
		passwordHash: hash,
		now:          time.Now,
	}, nil
}

// Login checks email and password with exact, case-sensitive comparison.
// A nil value never matches.
func (s *Service) Login(email, password *string) (*models.AuthResponse, error) {
	if email == nil || password == nil || *email != s.email {
		return nil, ErrInvalidCredentials
	}
	// bcrypt only reads the first 72 bytes; longer input cannot be an exact match.
	if len(*password) > maxPasswordBytes {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(*password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := s.CurrentUser()
	return &models.AuthResponse{
		Success: true,
		Message: MessageLoginOK,
		User:    &user,
		Token:   s.issueToken(),
	}, nil
}

// Logout always succeeds; there is no session to end.
func (s *Service) Logout() *models.AuthResponse {
	return &models.AuthResponse{Success: true, Message: MessageLogoutOK}
}

// CurrentUser returns the demo identity without looking at any token.
func (s *Service) CurrentUser() models.User {
	return models.User{
		ID:    models.DemoUserID,
		Email: s.email,
		Name:  s.name,
		Role:  models.RoleUser,
	}
}

func (s *Service) issueToken() string {
	return TokenPrefix + strconv.FormatInt(s.now().UnixMilli(), 10)
}
