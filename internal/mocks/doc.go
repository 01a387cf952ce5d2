// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields (e.g. GetByIDFn) that override the default
// behaviour for a single test. The store mocks default to a working in-memory
// implementation, so most service tests only need to seed data.
//
//	users := mocks.NewMockUserStore()
//	users.AddUser(manager)
//	users.ListByRoleFn = func(ctx context.Context, role domain.Role) ([]*domain.User, error) {
//	    return nil, errors.New("db down")
//	}
package mocks
