package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const userColumns = "id, name, email, password_hash, role, created_at, updated_at"

func scanUser(s scanner) (core.User, error) {
	var u core.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, timeCol{&u.CreatedAt}, timeCol{&u.UpdatedAt})
	return u, err
}

func (r *Repository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	_, err := r.exec(ctx, "INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role, r.ts(u.CreatedAt), r.ts(u.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) && strings.Contains(err.Error(), "email") {
			return core.User{}, ledger.ErrEmailTaken
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUser(ctx context.Context, id string) (core.User, error) {
	u, err := scanUser(r.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ledger.NotFound("User", id)
	}
	if err != nil {
		return u, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (r *Repository) FindUsers(ctx context.Context, f ledger.UserFilter, opts ledger.FindOptions) ([]core.User, error) {
	var w where
	if f.Email != "" {
		w.add("email = ?", strings.ToLower(f.Email))
	}
	if f.Role != "" {
		w.add("role = ?", f.Role)
	}
	rows, err := r.query(ctx, "SELECT "+userColumns+" FROM users"+w.String()+orderBy(opts), w.args...)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	out := make([]core.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateUser(ctx context.Context, id string, fn func(*core.User) error) (core.User, error) {
	var updated core.User
	err := r.atomic(ctx, func(tx *Repository) error {
		u, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(&u); err != nil {
			return err
		}
		_, err = tx.exec(ctx, "UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, updated_at = ? WHERE id = ?",
			u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role, tx.ts(u.UpdatedAt), id)
		if err != nil {
			if isUniqueViolation(err) {
				return ledger.ErrEmailTaken
			}
			return fmt.Errorf("update user %s: %w", id, err)
		}
		updated = u
		return nil
	})
	return updated, err
}

func (r *Repository) DeleteUser(ctx context.Context, id string) (core.User, error) {
	var deleted core.User
	err := r.atomic(ctx, func(tx *Repository) error {
		u, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.exec(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete user %s: %w", id, err)
		}
		deleted = u
		return nil
	})
	return deleted, err
}
