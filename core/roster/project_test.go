package roster

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

func TestProject(t *testing.T) {
	cutoff := DefaultCutoff
	asOf := date(2024, time.October, 1)

	tests := []struct {
		name   string
		person Person
		wantOK bool
		want   Student
	}{
		{
			name: "complete record",
			person: Person{
				ID:        "p1",
				Name:      null.StringFrom("John Doe"),
				Birthdate: null.StringFrom("2018-03-10"),
				Grade:     null.IntFrom(1),
				Child:     null.BoolFrom(true),
				Email:     null.StringFrom("john@example.com"),
				Phone:     null.StringFrom("+15551234567"),
			},
			wantOK: true,
			want: Student{
				ID:        "p1",
				Name:      "John Doe",
				Birthdate: date(2018, time.March, 10),
				Grade:     1,
				Expected:  1,
				Delta:     0,
				Email:     "john@example.com",
				Phone:     "+15551234567",
				IsChild:   true,
			},
		},
		{
			name: "missing birthdate excluded",
			person: Person{
				ID:    "p2",
				Name:  null.StringFrom("Jane Doe"),
				Grade: null.IntFrom(3),
			},
			wantOK: false,
		},
		{
			name: "missing grade excluded",
			person: Person{
				ID:        "p3",
				Name:      null.StringFrom("Jane Doe"),
				Birthdate: null.StringFrom("2015-01-01"),
			},
			wantOK: false,
		},
		{
			name: "unparseable birthdate excluded",
			person: Person{
				ID:        "p4",
				Name:      null.StringFrom("Jane Doe"),
				Birthdate: null.StringFrom("01/02/2015"),
				Grade:     null.IntFrom(3),
			},
			wantOK: false,
		},
		{
			name: "anomalous record keeps its flags",
			person: Person{
				ID:        "p5",
				Name:      null.StringFrom("JANE DOE"),
				Birthdate: null.StringFrom("2016-05-20"),
				Grade:     null.IntFrom(1), // expected 3
				Email:     null.StringFrom("jane.example.com"),
				Phone:     null.StringFrom("555-123-4567"),
			},
			wantOK: true,
			want: Student{
				ID:           "p5",
				Name:         "JANE DOE",
				Birthdate:    date(2016, time.May, 20),
				Grade:        1,
				Expected:     3,
				Delta:        2,
				Email:        "jane.example.com",
				Phone:        "555-123-4567",
				NameAnomaly:  true,
				EmailAnomaly: true,
				PhoneAnomaly: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Project(tt.person, cutoff, asOf)
			if ok != tt.wantOK {
				t.Fatalf("Project() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Project() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		person Person
		want   string
	}{
		{name: "full name wins", person: Person{Name: null.StringFrom("John Doe"), FirstName: null.StringFrom("Johnny")}, want: "John Doe"},
		{name: "first+last fallback", person: Person{FirstName: null.StringFrom("John"), LastName: null.StringFrom("Doe")}, want: "John Doe"},
		{name: "first only", person: Person{FirstName: null.StringFrom("John")}, want: "John"},
		{name: "nothing", person: Person{}, want: "Unknown"},
		{name: "whitespace name falls through", person: Person{Name: null.StringFrom("   "), LastName: null.StringFrom("Doe")}, want: "Doe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayName(tt.person); got != tt.want {
				t.Errorf("displayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStudentConsistent(t *testing.T) {
	if !(Student{Grade: 3, Expected: 3}).Consistent() {
		t.Error("Consistent() = false for matching grades")
	}
	if (Student{Grade: 3, Expected: 4, Delta: 1}).Consistent() {
		t.Error("Consistent() = true for mismatched grades")
	}
}
