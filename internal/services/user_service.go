package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type SignupInput struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     core.Role `json:"role,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by signup and login.
type Session struct {
	Message string    `json:"message"`
	User    core.User `json:"user"`
	Token   string    `json:"token"`
}

// UserService handles accounts and authentication.
type UserService struct {
	store     ledger.UserStore
	tokens    *auth.Tokens
	passwords auth.Passwords
	opts      options
}

func NewUserService(store ledger.UserStore, tokens *auth.Tokens, passwords auth.Passwords, opts ...Option) *UserService {
	return &UserService{store: store, tokens: tokens, passwords: passwords, opts: newOptions(opts)}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.Name) == "" || in.Email == "" || in.Password == "" {
		return Session{}, core.Invalid("All fields must be filled")
	}
	if !core.ValidEmail(in.Email) {
		return Session{}, core.Invalid("Email is not valid")
	}
	if !core.StrongPassword(in.Password) {
		return Session{}, core.Invalid("Password not strong enough")
	}
	if in.Role == "" {
		in.Role = core.RoleRegular
	}
	if !in.Role.Valid() {
		return Session{}, core.Invalid("role must be admin or regular")
	}

	existing, err := s.store.FindUsers(ctx, ledger.UserFilter{Email: in.Email}, ledger.FindOptions{Limit: 1})
	if err != nil {
		return Session{}, fmt.Errorf("find user by email: %w", err)
	}
	if len(existing) > 0 {
		return Session{}, ledger.ErrEmailTaken
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return Session{}, err
	}
	now := s.opts.clock()
	u, err := s.store.CreateUser(ctx, core.User{
		ID:           core.NewID(core.PrefixUser),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	slog.InfoContext(ctx, "User signed up", "user_id", u.ID, "role", u.Role)
	return Session{Message: "Create Account successful!", User: u, Token: token}, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return Session{}, core.Invalid("All fields must be filled")
	}
	users, err := s.store.FindUsers(ctx, ledger.UserFilter{Email: email}, ledger.FindOptions{Limit: 1})
	if err != nil {
		return Session{}, fmt.Errorf("find user by email: %w", err)
	}
	if len(users) == 0 {
		return Session{}, core.Invalid("Incorrect email")
	}
	u := users[0]
	ok, err := s.passwords.Match(u.PasswordHash, in.Password)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, core.Invalid("Incorrect password")
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	msg := "Regular user login successful!"
	if u.Role == core.RoleAdmin {
		msg = "Admin login successful!"
	}
	slog.InfoContext(ctx, "User logged in", "user_id", u.ID, "role", u.Role)
	return Session{Message: msg, User: u, Token: token}, nil
}

// ListRegular returns regular users, newest first.
func (s *UserService) ListRegular(ctx context.Context) ([]core.User, error) {
	return s.store.FindUsers(ctx, ledger.UserFilter{Role: core.RoleRegular}, ledger.Newest)
}

func (s *UserService) Get(ctx context.Context, id string) (core.User, error) {
	return s.store.GetUser(ctx, id)
}

// Update applies p, re-hashing a new password.
func (s *UserService) Update(ctx context.Context, id string, p core.UserPatch) (core.User, error) {
	if err := p.Validate(); err != nil {
		return core.User{}, err
	}
	var hash string
	if p.Password != nil {
		var err error
		if hash, err = s.passwords.Hash(*p.Password); err != nil {
			return core.User{}, err
		}
	}
	return s.store.UpdateUser(ctx, id, func(u *core.User) error {
		if err := p.Apply(u, hash); err != nil {
			return err
		}
		u.UpdatedAt = s.opts.clock()
		return nil
	})
}

func (s *UserService) Delete(ctx context.Context, id string) (core.User, error) {
	return s.store.DeleteUser(ctx, id)
}
