// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes a function field per interface method. When the field
// is nil the mock returns its default values; every call is recorded so
// tests can assert on what was invoked:
//
//	tasks := &mocks.MockTaskStore{
//	    OverdueFn: func(ctx context.Context, now time.Time) ([]domain.DueTask, error) {
//	        return nil, store.ErrConnection
//	    },
//	}
//
// TestifyMockUserStore is the testify/mock flavoured alternative for tests
// that prefer expectation-style assertions.
package mocks
