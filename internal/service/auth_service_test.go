package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

// Mock repository for testing
type mockUserRepository struct {
	byUsername map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byUsername: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.byUsername[user.Username]; exists {
		return repository.ErrUsernameTaken
	}
	for _, existing := range m.byUsername {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	m.byUsername[user.Username] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, exists := m.byUsername[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.byUsername {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.byUsername {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func registerInput(username, email, password string) RegisterInput {
	return RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		FullName: "Test User",
	}
}

func TestProperty_RegistrationStoresHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are bcrypt-hashed, never stored as plaintext", prop.ForAll(
		func(username string, email string, password string) bool {
			userRepo := newMockUserRepository()
			svc := NewAuthService(userRepo, "test-secret", 60)
			ctx := context.Background()

			user, err := svc.Register(ctx, registerInput(username, email, password))
			if err != nil {
				return true // skip degenerate inputs
			}

			if user.PasswordHash == password {
				t.Logf("FAIL: password stored as plaintext for %s", username)
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				t.Logf("FAIL: stored hash does not verify: %v", err)
				return false
			}

			if user.Role != domain.RoleUser {
				t.Logf("FAIL: new users must get the USER role, got %s", user.Role)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_DuplicateRegistrationConflicts(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a second registration with the same username fails", prop.ForAll(
		func(username string, email string, otherEmail string, password string) bool {
			userRepo := newMockUserRepository()
			svc := NewAuthService(userRepo, "test-secret", 60)
			ctx := context.Background()

			if _, err := svc.Register(ctx, registerInput(username, email, password)); err != nil {
				return true
			}

			_, err := svc.Register(ctx, registerInput(username, otherEmail, password))
			if !errors.Is(err, repository.ErrUsernameTaken) {
				t.Logf("FAIL: expected ErrUsernameTaken, got %v", err)
				return false
			}

			// Same email under a different username conflicts too
			_, err = svc.Register(ctx, registerInput(username+"x", email, password))
			if !errors.Is(err, repository.ErrEmailTaken) {
				t.Logf("FAIL: expected ErrEmailTaken, got %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.com`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.org`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_LoginTokensCarryIdentityAndRole(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("access tokens carry user id, username and role claims", prop.ForAll(
		func(username string, email string, password string, role string) bool {
			userRepo := newMockUserRepository()
			svc := NewAuthService(userRepo, "test-secret-key", 60)
			ctx := context.Background()

			user, err := svc.Register(ctx, registerInput(username, email, password))
			if err != nil {
				return true
			}

			user.Role = role
			userRepo.byUsername[username] = user

			token, _, err := svc.Login(ctx, username, password)
			if err != nil {
				t.Logf("FAIL: login failed: %v", err)
				return false
			}

			claims, err := svc.ValidateToken(token)
			if err != nil {
				t.Logf("FAIL: token validation failed: %v", err)
				return false
			}

			if claims.UserID != user.ID {
				t.Logf("FAIL: user id claim mismatch")
				return false
			}
			if claims.Username != username {
				t.Logf("FAIL: username claim mismatch")
				return false
			}
			if claims.Role != role {
				t.Logf("FAIL: role claim mismatch")
				return false
			}
			if claims.ExpiresAt == nil || claims.IssuedAt == nil {
				t.Logf("FAIL: token missing expiry or issued-at claim")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.OneConstOf(domain.RoleUser, domain.RoleAdmin),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_WrongPasswordIsUnauthorized(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a wrong password never yields a token", prop.ForAll(
		func(username string, email string, password string, wrong string) bool {
			if password == wrong {
				return true
			}

			userRepo := newMockUserRepository()
			svc := NewAuthService(userRepo, "test-secret", 60)
			ctx := context.Background()

			if _, err := svc.Register(ctx, registerInput(username, email, password)); err != nil {
				return true
			}

			_, _, err := svc.Login(ctx, username, wrong)
			return errors.Is(err, ErrInvalidCredentials)
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.com`),
		gen.RegexMatch(`[A-Za-z0-9]{8,20}`),
		gen.RegexMatch(`[A-Za-z0-9]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := NewAuthService(userRepo, "test-secret", 60)
	ctx := context.Background()

	admin := config.AdminConfig{
		Username: "admin",
		Email:    "admin@storefront.local",
		Password: "admin123456",
	}

	created, err := svc.EnsureAdmin(ctx, admin)
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if !created {
		t.Fatal("expected admin to be created on first run")
	}

	user, err := userRepo.FindByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("admin user not stored: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected ADMIN role, got %s", user.Role)
	}

	created, err = svc.EnsureAdmin(ctx, admin)
	if err != nil {
		t.Fatalf("second EnsureAdmin failed: %v", err)
	}
	if created {
		t.Error("expected second EnsureAdmin to be a no-op")
	}
}
