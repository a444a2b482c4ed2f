// Package mocks provides centralized mock implementations for testing.
//
// Each mock has a function field per interface method. When the field is
// nil, the store mocks fall back to an in-memory implementation that follows
// the real store contract (not-found errors, email conflicts, idempotent
// delete), so handler tests only override what they need:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id string) (*domain.User, error) {
//	    return nil, fmt.Errorf("%w: connection refused", store.ErrTransient)
//	}
package mocks
