package history

import "time"

// SetClock overrides the store clock. This file only compiles during
// `go test`.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
