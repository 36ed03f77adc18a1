package attendance

import "time"

// StatusPolicy decides the stored status at check-in time.
// Status is never recomputed afterwards; check-out leaves it untouched.
type StatusPolicy struct {
	// LateCutoff is the offset from midnight after which a check-in counts as late.
	// Nil keeps every check-in present.
	LateCutoff *time.Duration
}

// CheckInStatus evaluates checkIn against the cutoff in checkIn's own location.
func (p StatusPolicy) CheckInStatus(checkIn time.Time) Status {
	if p.LateCutoff == nil {
		return StatusPresent
	}
	cutoff := NormalizeDay(checkIn, checkIn.Location()).Add(*p.LateCutoff)
	if checkIn.After(cutoff) {
		return StatusLate
	}
	return StatusPresent
}
