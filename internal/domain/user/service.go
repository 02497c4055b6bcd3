package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
)

type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
	// adminEmail gets the admin role at registration; everyone else is a
	// pet owner.
	adminEmail string
}

func NewService(repo Repository, issuer *auth.TokenIssuer, adminEmail string) *Service {
	return &Service{repo: repo, issuer: issuer, adminEmail: adminEmail}
}

// Register creates an account. The role is assigned server-side from the
// configured admin email; clients cannot choose it.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := auth.RolePetOwner
	if s.adminEmail != "" && email == strings.ToLower(s.adminEmail) {
		role = auth.RoleAdmin
	}

	u := &User{Email: email, PasswordHash: string(hash), Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns a signed access token. Unknown
// email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.ID.String(), u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Me returns the account behind a caller identity.
func (s *Service) Me(ctx context.Context, caller auth.Caller) (*User, error) {
	id, err := uuid.Parse(caller.UserID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
