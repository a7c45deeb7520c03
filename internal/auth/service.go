package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// BypassUserID identifies the built-in administrator account.
const BypassUserID = "admin"

// Config controls the built-in administrator login.
type Config struct {
	BypassEnabled  bool
	BypassEmail    string
	BypassPassword string
}

// RegisterInput is the self-service sign up payload.
type RegisterInput struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Name     string  `json:"name" validate:"required,max=120"`
	Company  string  `json:"company" validate:"max=160"`
	Role     Role    `json:"role" validate:"required,oneof=b2c b2b"`
	Details  Details `json:"details"`
}

// Service wraps authentication business rules.
type Service struct {
	repo  Repository
	cfg   Config
	now   func() time.Time
	newID func() string
}

// NewService constructs a new Service.
func NewService(repo Repository, cfg Config) *Service {
	return &Service{
		repo:  repo,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Login validates email/password credentials. The built-in administrator
// is checked first and never touches the store.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if s.cfg.BypassEnabled && s.cfg.BypassEmail != "" &&
		email == s.cfg.BypassEmail && password == s.cfg.BypassPassword {
		return User{ID: BypassUserID, Email: email, Role: RoleAdmin, Name: "Administrator"}, nil
	}
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a retail or wholesale account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if in.Role != RoleB2C && in.Role != RoleB2B {
		return User{}, fmt.Errorf("%w: role %q cannot self register", httpx.ErrValidation, in.Role)
	}
	email := strings.TrimSpace(in.Email)
	if s.cfg.BypassEnabled && strings.EqualFold(email, s.cfg.BypassEmail) {
		return User{}, ErrEmailTaken
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           s.newID(),
		Email:        email,
		Role:         in.Role,
		Name:         strings.TrimSpace(in.Name),
		Company:      strings.TrimSpace(in.Company),
		PasswordHash: hash,
		Details:      in.Details,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, err
		}
		return User{}, fmt.Errorf("register: %w", err)
	}
	return u, nil
}

// HashPassword derives the stored form of a password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// IsHashed reports whether stored already holds a bcrypt hash.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}
