package ai

import "context"

// Generator produces a single text completion for a prompt. Implemented
// by the Gemini client; stubbed in tests.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}
