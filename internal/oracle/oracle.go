package oracle

import "context"

// Classifier asks an external model whether free text reads like a line of
// classical poetry. Implementations may block on the network; callers treat
// the verdict as advisory and fail open on any error.
type Classifier interface {
	// Enabled reports whether a real backend is configured. A disabled
	// classifier is never called.
	Enabled() bool
	ClassifyClassicalPoem(ctx context.Context, text string) (bool, error)
}
