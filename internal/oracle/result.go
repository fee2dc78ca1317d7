package oracle

// Outcomes of an oracle call.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable"
)

// Result is either Ok(value) or a rejection with a reason. Oracle replies are
// never used unless they come back Ok.
type Result[T any] struct {
	value   T
	ok      bool
	reason  string
	outcome string
}

// Ok wraps a validated value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true, outcome: OutcomeOK}
}

// Invalid rejects a reply that failed validation.
func Invalid[T any](reason string) Result[T] {
	return failed[T](OutcomeInvalid, reason)
}

func failed[T any](outcome, reason string) Result[T] {
	return Result[T]{reason: reason, outcome: outcome}
}

// Get returns the value and whether the result is Ok.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.ok
}

// IsOk reports whether the result holds a validated value.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Reason explains a rejection; empty for Ok.
func (r Result[T]) Reason() string {
	return r.reason
}

// Outcome is one of the Outcome constants.
func (r Result[T]) Outcome() string {
	return r.outcome
}
