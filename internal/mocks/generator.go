package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/projpool-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing.
// It is safe for concurrent use.
type MockGenerator struct {
	// RefineLabelFn allows test cases to mock the RefineLabel behavior
	RefineLabelFn func(ctx context.Context, req generation.RefineRequest) (string, error)

	// ReviseRefinementFn allows test cases to mock the ReviseRefinement behavior
	ReviseRefinementFn func(ctx context.Context, req generation.ReviseRequest) (string, error)

	// Default response values
	Text string
	Err  error

	mu          sync.Mutex
	refineCalls []generation.RefineRequest
	reviseCalls []generation.ReviseRequest
}

var _ generation.Generator = (*MockGenerator)(nil)

// RefineLabel implements the generation.Generator interface
func (m *MockGenerator) RefineLabel(ctx context.Context, req generation.RefineRequest) (string, error) {
	m.mu.Lock()
	m.refineCalls = append(m.refineCalls, req)
	m.mu.Unlock()

	if m.RefineLabelFn != nil {
		return m.RefineLabelFn(ctx, req)
	}
	return m.Text, m.Err
}

// ReviseRefinement implements the generation.Generator interface
func (m *MockGenerator) ReviseRefinement(ctx context.Context, req generation.ReviseRequest) (string, error) {
	m.mu.Lock()
	m.reviseCalls = append(m.reviseCalls, req)
	m.mu.Unlock()

	if m.ReviseRefinementFn != nil {
		return m.ReviseRefinementFn(ctx, req)
	}
	return m.Text, m.Err
}

// RefineCalls returns a copy of the recorded RefineLabel requests
func (m *MockGenerator) RefineCalls() []generation.RefineRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.RefineRequest(nil), m.refineCalls...)
}

// ReviseCalls returns a copy of the recorded ReviseRefinement requests
func (m *MockGenerator) ReviseCalls() []generation.ReviseRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.ReviseRequest(nil), m.reviseCalls...)
}
