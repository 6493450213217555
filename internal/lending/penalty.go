package lending

import "time"

// LateDays returns the whole number of days a return landed past its due
// date. Partial days truncate toward zero; a return on or before the due
// date accrues nothing.
func LateDays(due, returned time.Time) int {
	if !returned.After(due) {
		return 0
	}
	return int(returned.Sub(due) / (24 * time.Hour))
}
