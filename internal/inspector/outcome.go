package inspector

import "fmt"

// PartialInspectionWarning records a best-effort query that failed. It is
// logged and never returned to callers.
type PartialInspectionWarning struct {
	Repository string
	Query      string
	Err        error
}

func (w PartialInspectionWarning) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", w.Repository, w.Query, w.Err)
}

func (w PartialInspectionWarning) Unwrap() error { return w.Err }

// outcome is the settled result of a single forge query.
type outcome[T any] struct {
	value T
	err   error
}

func settle[T any](value T, err error) outcome[T] {
	return outcome[T]{value: value, err: err}
}

// orDefault reduces the outcome to its value, or to fallback after
// reporting a warning for query.
func (o outcome[T]) orDefault(fallback T, warn func(query string, err error), query string) T {
	if o.err != nil {
		warn(query, o.err)
		return fallback
	}
	return o.value
}
