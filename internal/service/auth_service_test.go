package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gearguard/internal/auth"
	"github.com/spec-kit/gearguard/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewAuthService(AuthDependencies{
		Users:      users,
		Tokens:     auth.NewTokenManager("test-secret", 60),
		BcryptCost: bcrypt.MinCost,
	})
	return svc, users
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account and issues a token", func(t *testing.T) {
		svc, _ := newAuthFixture()
		result, err := svc.Register(ctx, RegisterInput{
			Name:     "Alice",
			Email:    "Alice@Example.com",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, domain.RoleUser, result.User.Role)
		assert.Equal(t, "alice@example.com", result.User.Email)

		claims, err := svc.TokenManager().ParseToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, claims.UserID)
		assert.Equal(t, domain.RoleUser, claims.Role)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newAuthFixture()
		_, err := svc.Register(ctx, RegisterInput{Name: "a", Email: "a@example.com", Password: "passwordpass"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterInput{Name: "b", Email: "a@example.com", Password: "passwordpass"})
		assert.Equal(t, "CONFLICT", domainCode(t, err))
	})

	t.Run("rejects missing fields and bad roles", func(t *testing.T) {
		svc, _ := newAuthFixture()
		_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "passwordpass"})
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

		_, err = svc.Register(ctx, RegisterInput{Name: "a", Email: "a@example.com", Password: "passwordpass", Role: "admin"})
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	_, err := svc.Register(ctx, RegisterInput{Name: "a", Email: "a@example.com", Password: "passwordpass", Role: domain.RoleManager})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(ctx, "a@example.com", "passwordpass")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, result.User.Role)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "a@example.com", "nope")
		assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
	})

	t.Run("unknown account does not leak existence", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "passwordpass")
		assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
	})
}

func TestUserUpdateRules(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := NewUserService(users)

	self := &domain.User{Name: "alice", Email: "alice@example.com", Role: domain.RoleUser}
	other := &domain.User{Name: "bob", Email: "bob@example.com", Role: domain.RoleUser}
	manager := &domain.User{Name: "boss", Email: "boss@example.com", Role: domain.RoleManager}
	require.NoError(t, users.Create(ctx, self))
	require.NoError(t, users.Create(ctx, other))
	require.NoError(t, users.Create(ctx, manager))

	t.Run("users may update themselves", func(t *testing.T) {
		name := "alice w"
		updated, err := svc.Update(ctx, self, self.ID, UserUpdateInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "alice w", updated.Name)
	})

	t.Run("users may not update others", func(t *testing.T) {
		name := "hax"
		_, err := svc.Update(ctx, self, other.ID, UserUpdateInput{Name: &name})
		assert.Equal(t, "FORBIDDEN", domainCode(t, err))
	})

	t.Run("only managers change roles", func(t *testing.T) {
		role := domain.RoleTechnician
		_, err := svc.Update(ctx, self, self.ID, UserUpdateInput{Role: &role})
		assert.Equal(t, "FORBIDDEN", domainCode(t, err))

		updated, err := svc.Update(ctx, manager, self.ID, UserUpdateInput{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleTechnician, updated.Role)
	})

	t.Run("invalid role filter is rejected", func(t *testing.T) {
		_, err := svc.ListByRole(ctx, "admin")
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

		techs, err := svc.ListByRole(ctx, domain.RoleTechnician)
		require.NoError(t, err)
		assert.Len(t, techs, 1)
	})
}
