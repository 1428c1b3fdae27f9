package schedule

import "time"

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching boundaries do not overlap, so back-to-back
// showtimes in the same room are allowed.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
