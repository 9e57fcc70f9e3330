// Package mocks holds hand-written test doubles for the store, service and
// platform interfaces.
//
// Most mocks expose one Fn field per method; an unset field falls back to a
// harmless default (nil results, empty slices, or the zero error), so a test
// only stubs the calls it cares about:
//
//	projects := &mocks.MockProjectService{
//		GetFn: func(ctx context.Context, userID, projectID uuid.UUID) (*service.ProjectDetail, error) {
//			return nil, store.ErrProjectNotFound
//		},
//	}
//
// TestifyMockUserStore is the exception: it is built on testify/mock for
// tests that assert call expectations.
package mocks
