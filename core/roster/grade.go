package roster

import "time"

// ExpectedGrade derives the school grade a birthdate should map to under the
// given cutoff, evaluated at asOf.
//
// The academic year containing asOf starts in asOf's calendar year when asOf
// is on or after that year's cutoff date, otherwise in the previous year.
// Expected grade is the whole-year age at the cutoff date minus 5 (US
// convention: age 6 at cutoff = grade 1, age 5 = Kindergarten/0). Values are
// not clamped: Pre-K tiers come out negative and ages beyond 18 come out
// beyond 12; display layers decide what to do with those.
//
// dob must be a real calendar date; callers filter unparseable records out
// before ever getting here.
func ExpectedGrade(dob, asOf time.Time, c Cutoff) int {
	startYear := asOf.Year()
	if asOf.Before(c.dateIn(startYear)) {
		startYear--
	}
	cutoff := c.dateIn(startYear)
	return wholeYears(dob, cutoff) - 5
}

// wholeYears counts completed years between from and to.
func wholeYears(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := time.Date(to.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	if anniversary.After(to) {
		years--
	}
	return years
}
