package outbox

import "time"

// SetClock pins the processor clock in tests.
func (p *Processor) SetClock(now func() time.Time) { p.now = now }

func (p *Processor) RetryBackoff(attempt int) time.Duration { return p.retryBackoff(attempt) }
