package roster

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpectedGrade(t *testing.T) {
	cutoff := DefaultCutoff // September 1

	tests := []struct {
		name string
		dob  time.Time
		asOf time.Time
		want int
	}{
		{name: "age 6 at cutoff is grade 1", dob: date(2018, time.March, 10), asOf: date(2024, time.October, 1), want: 1},
		{name: "age 5 at cutoff is kindergarten", dob: date(2019, time.March, 10), asOf: date(2024, time.October, 1), want: 0},
		{name: "born exactly on cutoff counts the year", dob: date(2018, time.September, 1), asOf: date(2024, time.October, 1), want: 1},
		{name: "born the day after cutoff does not", dob: date(2018, time.September, 2), asOf: date(2024, time.October, 1), want: 0},
		{name: "asOf on cutoff day starts the new year", dob: date(2014, time.January, 1), asOf: date(2024, time.September, 1), want: 5},
		{name: "asOf the day before cutoff stays in the old year", dob: date(2014, time.January, 1), asOf: date(2024, time.August, 31), want: 4},
		{name: "pre-K comes out negative, unclamped", dob: date(2021, time.June, 15), asOf: date(2024, time.October, 1), want: -2},
		{name: "beyond grade 12, unclamped", dob: date(2004, time.January, 1), asOf: date(2024, time.October, 1), want: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpectedGrade(tt.dob, tt.asOf, cutoff); got != tt.want {
				t.Errorf("ExpectedGrade() = %d, want %d", got, tt.want)
			}
		})
	}
}

// The expected grade must be stable across an entire academic year: any two
// asOf dates between consecutive cutoffs give the same answer.
func TestExpectedGradeStableWithinYear(t *testing.T) {
	cutoff := DefaultCutoff
	dob := date(2016, time.May, 20)

	first := ExpectedGrade(dob, date(2024, time.September, 1), cutoff)
	for _, asOf := range []time.Time{
		date(2024, time.December, 25),
		date(2025, time.March, 3),
		date(2025, time.August, 31),
	} {
		if got := ExpectedGrade(dob, asOf, cutoff); got != first {
			t.Errorf("ExpectedGrade(asOf=%v) = %d, want %d", asOf, got, first)
		}
	}
	if next := ExpectedGrade(dob, date(2025, time.September, 1), cutoff); next != first+1 {
		t.Errorf("ExpectedGrade() after next cutoff = %d, want %d", next, first+1)
	}
}

func TestExpectedGradeCustomCutoff(t *testing.T) {
	cutoff := Cutoff{Month: time.January, Day: 15}

	// age 6 at 2024-01-15
	if got := ExpectedGrade(date(2018, time.January, 1), date(2024, time.June, 1), cutoff); got != 1 {
		t.Errorf("ExpectedGrade() = %d, want 1", got)
	}
	// not yet 6 at 2024-01-15
	if got := ExpectedGrade(date(2018, time.February, 1), date(2024, time.June, 1), cutoff); got != 0 {
		t.Errorf("ExpectedGrade() = %d, want 0", got)
	}
}
