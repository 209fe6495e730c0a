package roster

import (
	"strings"
	"time"
)

// Project maps a raw Person into a Student, evaluated at asOf.
// It reports false for records missing a parseable birthdate or a recorded
// grade; those are excluded from every downstream view rather than surfaced
// as errors.
func Project(p Person, c Cutoff, asOf time.Time) (Student, bool) {
	if !p.Birthdate.Valid || !p.Grade.Valid {
		return Student{}, false
	}
	dob, err := time.Parse(birthdateLayout, p.Birthdate.String)
	if err != nil {
		return Student{}, false
	}

	name := displayName(p)
	expected := ExpectedGrade(dob, asOf, c)

	s := Student{
		ID:        p.ID,
		Name:      name,
		Birthdate: dob,
		Grade:     p.Grade.Int,
		Expected:  expected,
		Delta:     expected - p.Grade.Int,
		Email:     p.Email.String,
		Phone:     p.Phone.String,
		Address:   p.Address,
		IsChild:   p.Child.Bool,

		NameAnomaly:    NameAnomaly(name),
		EmailAnomaly:   EmailAnomaly(p.Email.String),
		PhoneAnomaly:   PhoneAnomaly(p.Phone.String),
		AddressAnomaly: AddressAnomaly(p.Address),
	}
	return s, true
}

// displayName resolves the name to show: explicit full name, then
// "first last", then "Unknown".
func displayName(p Person) string {
	if name := strings.TrimSpace(p.Name.String); name != "" {
		return name
	}
	if name := strings.TrimSpace(strings.TrimSpace(p.FirstName.String) + " " + strings.TrimSpace(p.LastName.String)); name != "" {
		return name
	}
	return "Unknown"
}
