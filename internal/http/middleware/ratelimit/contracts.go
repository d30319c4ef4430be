package ratelimit

import "time"

// Decision is the outcome of spending one token.
type Decision struct {
	Allowed bool
	// Remaining is the number of whole tokens left, or -1 when unlimited.
	Remaining int
	// RetryAfter is how long a denied caller should wait.
	RetryAfter time.Duration
}

// Limiter spends one token of key per call.
type Limiter interface {
	Take(key string) Decision
}

// Clock returns the current time.
type Clock func() time.Time

// Unlimited admits every request.
type Unlimited struct{}

// Take always allows.
func (Unlimited) Take(string) Decision { return Decision{Allowed: true, Remaining: -1} }
