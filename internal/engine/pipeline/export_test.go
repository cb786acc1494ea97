package pipeline

import "time"

// SetNow replaces the clock used for build records.
func (p *Pipeline) SetNow(now func() time.Time) {
	p.now = now
}
