package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// DefaultAllocationPercentage is used when the caller gives none.
var DefaultAllocationPercentage = decimal.NewFromInt(10)

// GoalService manages goals and allocates income into them.
type GoalService struct {
	store  ledger.Store
	policy AllocationPolicy
	locks  *keyedMutex
	opts   options
}

func NewGoalService(store ledger.Store, policy AllocationPolicy, opts ...Option) *GoalService {
	if policy == nil {
		policy = DuplicatePolicy{}
	}
	return &GoalService{store: store, policy: policy, locks: newKeyedMutex(), opts: newOptions(opts)}
}

func (s *GoalService) Create(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.Status == "" {
		g.Status = core.GoalInProgress
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	now := s.opts.clock()
	g.ID = core.NewID(core.PrefixGoal)
	g.CreatedAt, g.UpdatedAt = now, now

	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal created", "id", created.ID, "user_id", created.UserID)
	return created, nil
}

func (s *GoalService) List(ctx context.Context) ([]core.Goal, error) {
	return s.store.FindGoals(ctx, ledger.GoalFilter{}, ledger.Newest)
}

func (s *GoalService) ListByUser(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.store.FindGoals(ctx, ledger.GoalFilter{UserID: userID}, ledger.Newest)
}

func (s *GoalService) Get(ctx context.Context, id string) (core.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

func (s *GoalService) Update(ctx context.Context, id string, p core.GoalPatch) (core.Goal, error) {
	return s.store.UpdateGoal(ctx, id, func(g *core.Goal) error {
		if err := p.Apply(g); err != nil {
			return err
		}
		g.UpdatedAt = s.opts.clock()
		return nil
	})
}

func (s *GoalService) Delete(ctx context.Context, id string) (core.Goal, error) {
	return s.store.DeleteGoal(ctx, id)
}

// AllocateIncome moves percentage% of every income transaction of userID
// into the user's goals according to the service's policy. A zero
// percentage means DefaultAllocationPercentage.
//
// Allocations for the same user are serialized. When the store supports
// units of work the whole run is atomic; otherwise applied writes are
// compensated on failure, and a *core.PartialCompletionError is returned if
// compensation fails too.
func (s *GoalService) AllocateIncome(ctx context.Context, userID string, percentage decimal.Decimal) (core.Allocation, error) {
	if percentage.IsZero() {
		percentage = DefaultAllocationPercentage
	}
	if !percentage.IsPositive() || !percentage.LessThan(decimal.NewFromInt(100)) {
		return core.Allocation{}, core.Invalid("percentage must be greater than 0 and less than 100")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var result core.Allocation
	run := func(st ledger.Store, j *journal) error {
		var err error
		result, err = s.allocate(ctx, st, j, userID, percentage)
		return err
	}

	if _, ok := s.store.(ledger.Transactor); ok {
		err := withinTx(ctx, s.store, func(st ledger.Store) error { return run(st, nil) })
		if err != nil {
			return core.Allocation{}, err
		}
	} else {
		j := &journal{}
		if err := run(s.store, j); err != nil {
			return core.Allocation{}, j.compensate(ctx, s.store, err)
		}
	}

	slog.InfoContext(ctx, "Income allocated to goals",
		"user_id", userID,
		"percentage", percentage.String(),
		"policy", s.policy.Name(),
		"total_allocated", result.TotalAllocated.String(),
		"transactions", len(result.UpdatedTransactions),
		"goals", len(result.UpdatedGoals))
	return result, nil
}

func (s *GoalService) allocate(ctx context.Context, st ledger.Store, j *journal, userID string, percentage decimal.Decimal) (core.Allocation, error) {
	incomes, err := st.FindTransactions(ctx, ledger.TransactionFilter{UserID: userID, Type: core.Income}, ledger.FindOptions{Order: ledger.OldestFirst})
	if err != nil {
		return core.Allocation{}, fmt.Errorf("find income transactions: %w", err)
	}
	if len(incomes) == 0 {
		return core.Allocation{}, core.NotFound("No income transactions found for this user.")
	}
	goals, err := st.FindGoals(ctx, ledger.GoalFilter{UserID: userID}, ledger.FindOptions{Order: ledger.OldestFirst})
	if err != nil {
		return core.Allocation{}, fmt.Errorf("find goals: %w", err)
	}
	if len(goals) == 0 {
		return core.Allocation{}, core.NotFound("No active goals found for this user.")
	}

	now := s.opts.clock()
	total := decimal.Zero
	updates := make([]core.TransactionUpdate, 0, len(incomes))

	for _, in := range incomes {
		cut := core.Percent(in.Amount, percentage)
		updated, err := st.UpdateTransaction(ctx, in.ID, func(t *core.Transaction) error {
			t.Amount = t.Amount.Sub(cut)
			t.UpdatedAt = now
			return nil
		})
		if err != nil {
			return core.Allocation{}, fmt.Errorf("update transaction %s: %w", in.ID, err)
		}
		j.transaction(in)
		updates = append(updates, core.TransactionUpdate{
			TransactionID:  in.ID,
			OriginalAmount: in.Amount,
			UpdatedAmount:  updated.Amount,
		})

		shares := s.policy.Split(cut, goals)
		for i, g := range goals {
			share := shares[i]
			next, err := st.UpdateGoal(ctx, g.ID, func(g *core.Goal) error {
				g.SavedAmount = g.SavedAmount.Add(share)
				g.UpdatedAt = now
				return nil
			})
			if err != nil {
				return core.Allocation{}, fmt.Errorf("update goal %s: %w", g.ID, err)
			}
			j.goal(g)
			goals[i] = next
		}
		total = total.Add(cut)
	}

	return core.Allocation{
		Message: fmt.Sprintf("Successfully allocated %s%% of income (%s) to user's goals.",
			percentage.String(), core.FormatAmount(total)),
		Percentage:          percentage,
		TotalAllocated:      total,
		UpdatedGoals:        goals,
		UpdatedTransactions: updates,
	}, nil
}

// journal remembers the first pre-image of every record written during an
// allocation so the writes can be undone. A nil journal records nothing.
type journal struct {
	order        []string
	transactions map[string]core.Transaction
	goals        map[string]core.Goal
}

func (j *journal) transaction(t core.Transaction) {
	if j == nil {
		return
	}
	if j.transactions == nil {
		j.transactions = map[string]core.Transaction{}
	}
	if _, ok := j.transactions[t.ID]; !ok {
		j.transactions[t.ID] = t
		j.order = append(j.order, t.ID)
	}
}

func (j *journal) goal(g core.Goal) {
	if j == nil {
		return
	}
	if j.goals == nil {
		j.goals = map[string]core.Goal{}
	}
	if _, ok := j.goals[g.ID]; !ok {
		j.goals[g.ID] = g
		j.order = append(j.order, g.ID)
	}
}

// compensate restores pre-images newest first. It returns cause when every
// record was restored, otherwise a PartialCompletionError naming the
// records left mutated.
func (j *journal) compensate(ctx context.Context, st ledger.Store, cause error) error {
	var left []string
	var errs []error
	for i := len(j.order) - 1; i >= 0; i-- {
		id := j.order[i]
		var err error
		if t, ok := j.transactions[id]; ok {
			_, err = st.UpdateTransaction(ctx, id, func(cur *core.Transaction) error {
				cur.Amount, cur.UpdatedAt = t.Amount, t.UpdatedAt
				return nil
			})
		} else if g, ok := j.goals[id]; ok {
			_, err = st.UpdateGoal(ctx, id, func(cur *core.Goal) error {
				cur.SavedAmount, cur.UpdatedAt = g.SavedAmount, g.UpdatedAt
				return nil
			})
		}
		if err != nil {
			left = append(left, id)
			errs = append(errs, err)
		}
	}
	if len(left) == 0 {
		if len(j.order) > 0 {
			slog.WarnContext(ctx, "Allocation rolled back", "records", len(j.order), "error", cause)
		}
		return cause
	}
	slog.ErrorContext(ctx, "Allocation left partially applied", "records", left, "error", cause)
	return &core.PartialCompletionError{
		Op:      "allocate income",
		Mutated: left,
		Err:     errors.Join(append([]error{cause}, errs...)...),
	}
}
