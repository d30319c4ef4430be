package delivery

import "time"

// SetClock replaces the time source and ID generator.
func (s *Service) SetClock(now func() time.Time, newID func() string) {
	s.now = now
	s.newID = newID
}
