package baes

import "context"

// GenerativeService is the capability contract for the generative code
// backend. The pipeline never invokes it: callers escalate to the
// service when a render reports TemplateUsed=false or a validation
// reports RequiresGenerativeReview=true.
//
// Implementations are expected to be safe for concurrent use. Users
// should implement this interface with their preferred backend; tests
// substitute MockGenerativeService.
type GenerativeService interface {
	// Generate produces artifact source for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// MockGenerativeService is a configurable mock for testing generative
// escalation paths. Set the function field to control behavior in tests.
type MockGenerativeService struct {
	// GenerateFunc is called when Generate is invoked.
	// If nil, Response is returned with a nil error.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// Response is returned by Generate when GenerateFunc is nil.
	Response string

	// GenerateCalls counts Generate invocations for verification.
	GenerateCalls int
}

// Generate implements GenerativeService.
func (m *MockGenerativeService) Generate(ctx context.Context, prompt string) (string, error) {
	m.GenerateCalls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return m.Response, nil
}

// Ensure MockGenerativeService implements GenerativeService at compile time.
var _ GenerativeService = (*MockGenerativeService)(nil)
