// Package memory is an in-process ledger.Store used for development and tests.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type collection[T any] struct {
	entity  string
	rows    map[string]T
	seq     map[string]uint64
	next    uint64
	id      func(T) string
	created func(T) time.Time
}

func newCollection[T any](entity string, id func(T) string, created func(T) time.Time) *collection[T] {
	return &collection[T]{entity: entity, rows: map[string]T{}, seq: map[string]uint64{}, id: id, created: created}
}

func (c *collection[T]) clone() *collection[T] {
	cp := *c
	cp.rows = maps.Clone(c.rows)
	cp.seq = maps.Clone(c.seq)
	return &cp
}

func (c *collection[T]) create(v T) T {
	id := c.id(v)
	c.next++
	c.rows[id] = v
	c.seq[id] = c.next
	return v
}

func (c *collection[T]) get(id string) (T, error) {
	v, ok := c.rows[id]
	if !ok {
		return v, ledger.NotFound(c.entity, id)
	}
	return v, nil
}

func (c *collection[T]) find(match func(T) bool, opts ledger.FindOptions) []T {
	out := make([]T, 0)
	for _, v := range c.rows {
		if match(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := c.created(out[i]), c.created(out[j])
		if !ti.Equal(tj) {
			if opts.Order == ledger.OldestFirst {
				return ti.Before(tj)
			}
			return ti.After(tj)
		}
		si, sj := c.seq[c.id(out[i])], c.seq[c.id(out[j])]
		if opts.Order == ledger.OldestFirst {
			return si < sj
		}
		return si > sj
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func (c *collection[T]) update(id string, fn func(*T) error) (T, error) {
	v, err := c.get(id)
	if err != nil {
		return v, err
	}
	if err := fn(&v); err != nil {
		var zero T
		return zero, err
	}
	c.rows[id] = v
	return v, nil
}

func (c *collection[T]) delete(id string) (T, error) {
	v, err := c.get(id)
	if err != nil {
		return v, err
	}
	delete(c.rows, id)
	delete(c.seq, id)
	return v, nil
}

type tables struct {
	transactions *collection[core.Transaction]
	budgets      *collection[core.Budget]
	goals        *collection[core.Goal]
	reports      *collection[core.Report]
	users        *collection[core.User]
}

func newTables() *tables {
	return &tables{
		transactions: newCollection("Transaction",
			func(t core.Transaction) string { return t.ID },
			func(t core.Transaction) time.Time { return t.CreatedAt }),
		budgets: newCollection("Budget",
			func(b core.Budget) string { return b.ID },
			func(b core.Budget) time.Time { return b.CreatedAt }),
		goals: newCollection("Goal",
			func(g core.Goal) string { return g.ID },
			func(g core.Goal) time.Time { return g.CreatedAt }),
		reports: newCollection("Report",
			func(r core.Report) string { return r.ID },
			func(r core.Report) time.Time { return r.CreatedAt }),
		users: newCollection("User",
			func(u core.User) string { return u.ID },
			func(u core.User) time.Time { return u.CreatedAt }),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		transactions: t.transactions.clone(),
		budgets:      t.budgets.clone(),
		goals:        t.goals.clone(),
		reports:      t.reports.clone(),
		users:        t.users.clone(),
	}
}

// Store guards a set of tables with a single lock. WithinTx holds the lock
// for the whole unit of work, so fn must only use the Store it is given.
type Store struct {
	mu sync.RWMutex
	t  *tables
	// Fail, when set, is consulted before every write. Tests use it to
	// inject storage failures.
	Fail func(op, id string) error
}

func New() *Store {
	return &Store{t: newTables()}
}

var (
	_ ledger.Store      = (*Store)(nil)
	_ ledger.Transactor = (*Store)(nil)
)

// WithinTx runs fn against a snapshot-backed view and restores the snapshot
// when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.t.clone()
	if err := fn(&view{s: s}); err != nil {
		s.t = snapshot
		return err
	}
	return nil
}

func (s *Store) fail(op, id string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op, id)
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).CreateTransaction(ctx, t)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).GetTransaction(ctx, id)
}

func (s *Store) FindTransactions(ctx context.Context, f ledger.TransactionFilter, opts ledger.FindOptions) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).FindTransactions(ctx, f, opts)
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, fn func(*core.Transaction) error) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).UpdateTransaction(ctx, id, fn)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).DeleteTransaction(ctx, id)
}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).CreateBudget(ctx, b)
}

func (s *Store) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).GetBudget(ctx, id)
}

func (s *Store) FindBudgets(ctx context.Context, f ledger.BudgetFilter, opts ledger.FindOptions) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).FindBudgets(ctx, f, opts)
}

func (s *Store) UpdateBudget(ctx context.Context, id string, fn func(*core.Budget) error) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).UpdateBudget(ctx, id, fn)
}

func (s *Store) DeleteBudget(ctx context.Context, id string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).DeleteBudget(ctx, id)
}

func (s *Store) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).CreateGoal(ctx, g)
}

func (s *Store) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).GetGoal(ctx, id)
}

func (s *Store) FindGoals(ctx context.Context, f ledger.GoalFilter, opts ledger.FindOptions) ([]core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).FindGoals(ctx, f, opts)
}

func (s *Store) UpdateGoal(ctx context.Context, id string, fn func(*core.Goal) error) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).UpdateGoal(ctx, id, fn)
}

func (s *Store) DeleteGoal(ctx context.Context, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).DeleteGoal(ctx, id)
}

func (s *Store) CreateReport(ctx context.Context, r core.Report) (core.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).CreateReport(ctx, r)
}

func (s *Store) GetReport(ctx context.Context, id string) (core.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).GetReport(ctx, id)
}

func (s *Store) FindReports(ctx context.Context, f ledger.ReportFilter, opts ledger.FindOptions) ([]core.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).FindReports(ctx, f, opts)
}

func (s *Store) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).CreateUser(ctx, u)
}

func (s *Store) GetUser(ctx context.Context, id string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).GetUser(ctx, id)
}

func (s *Store) FindUsers(ctx context.Context, f ledger.UserFilter, opts ledger.FindOptions) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{s: s}).FindUsers(ctx, f, opts)
}

func (s *Store) UpdateUser(ctx context.Context, id string, fn func(*core.User) error) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).UpdateUser(ctx, id, fn)
}

func (s *Store) DeleteUser(ctx context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&view{s: s}).DeleteUser(ctx, id)
}
