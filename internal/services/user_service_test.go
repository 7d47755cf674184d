package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

const strongPassword = "Sup3r$ecret"

func newUserService() (*UserService, *auth.Tokens) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	return NewUserService(newMemory(), tokens, auth.NewPasswords(4), fixedClock(march)), tokens
}

func TestUserService_Signup(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newUserService()

	s, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: " Ada@Example.com ", Password: strongPassword})
	require.NoError(t, err)
	assert.Equal(t, "Create Account successful!", s.Message)
	assert.Regexp(t, `^UI-\d+$`, s.User.ID)
	assert.Equal(t, "ada@example.com", s.User.Email)
	assert.Equal(t, core.RoleRegular, s.User.Role)
	assert.NotEqual(t, strongPassword, s.User.PasswordHash)

	claims, err := tokens.Parse(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, claims.UserID())
	assert.False(t, claims.IsAdmin())

	_, err = svc.Signup(ctx, SignupInput{Name: "Ada 2", Email: "ADA@example.com", Password: strongPassword})
	require.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, "Email already in use", core.Message(err))
}

func TestUserService_SignupValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	tests := []struct {
		name string
		in   SignupInput
		want string
	}{
		{"missing name", SignupInput{Email: "a@b.co", Password: strongPassword}, "All fields must be filled"},
		{"missing password", SignupInput{Name: "A", Email: "a@b.co"}, "All fields must be filled"},
		{"bad email", SignupInput{Name: "A", Email: "not-an-email", Password: strongPassword}, "Email is not valid"},
		{"weak password", SignupInput{Name: "A", Email: "a@b.co", Password: "password"}, "Password not strong enough"},
		{"bad role", SignupInput{Name: "A", Email: "a@b.co", Password: strongPassword, Role: "root"}, "role must be admin or regular"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.in)
			require.ErrorIs(t, err, core.ErrInvalidInput)
			if got := core.Message(err); got != tt.want {
				t.Errorf("Signup() message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newUserService()
	_, err := svc.Signup(ctx, SignupInput{Name: "Root", Email: "root@example.com", Password: strongPassword, Role: core.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, SignupInput{Name: "Bob", Email: "bob@example.com", Password: strongPassword})
	require.NoError(t, err)

	s, err := svc.Login(ctx, LoginInput{Email: "ROOT@example.com", Password: strongPassword})
	require.NoError(t, err)
	assert.Equal(t, "Admin login successful!", s.Message)
	claims, err := tokens.Parse(s.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())

	s, err = svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: strongPassword})
	require.NoError(t, err)
	assert.Equal(t, "Regular user login successful!", s.Message)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: strongPassword})
	assert.Equal(t, "Incorrect email", core.Message(err))
	_, err = svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: "Wr0ng!pass"})
	assert.Equal(t, "Incorrect password", core.Message(err))
	_, err = svc.Login(ctx, LoginInput{Email: "bob@example.com"})
	assert.Equal(t, "All fields must be filled", core.Message(err))
}

func TestUserService_AdminOperations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()
	admin, err := svc.Signup(ctx, SignupInput{Name: "Root", Email: "root@example.com", Password: strongPassword, Role: core.RoleAdmin})
	require.NoError(t, err)
	bob, err := svc.Signup(ctx, SignupInput{Name: "Bob", Email: "bob@example.com", Password: strongPassword})
	require.NoError(t, err)

	regular, err := svc.ListRegular(ctx)
	require.NoError(t, err)
	require.Len(t, regular, 1)
	assert.Equal(t, bob.User.ID, regular[0].ID)

	name, password := "Robert", "N3w!Password"
	updated, err := svc.Update(ctx, bob.User.ID, core.UserPatch{Name: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)
	assert.NotEqual(t, bob.User.PasswordHash, updated.PasswordHash)

	_, err = svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: password})
	require.NoError(t, err)

	weak := "short"
	_, err = svc.Update(ctx, bob.User.ID, core.UserPatch{Password: &weak})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.Delete(ctx, bob.User.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, bob.User.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	got, err := svc.Get(ctx, admin.User.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, got.Role)
}
