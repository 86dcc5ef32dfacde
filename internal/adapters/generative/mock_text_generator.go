package generative

import (
	"context"
	"sync"
)

// MockTextGenerator returns canned responses in order and records prompts.
// Once responses run out the last one is repeated.
type MockTextGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func NewMockTextGenerator(responses ...string) *MockTextGenerator {
	return &MockTextGenerator{responses: responses}
}

// NewFailingTextGenerator returns a generator whose every call fails with err.
func NewFailingTextGenerator(err error) *MockTextGenerator {
	return &MockTextGenerator{err: err}
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}

	i := len(m.prompts) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

// Prompts returns every prompt received so far.
func (m *MockTextGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *MockTextGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
