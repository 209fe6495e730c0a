package roster

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// birthdates come over the wire as YYYY-MM-DD
const birthdateLayout = "2006-01-02"

type (
	// Person is one raw people record as returned by the ChMS API.
	// Most attributes are nullable upstream; a Person is only projectable
	// into a Student when both Birthdate and Grade are present.
	Person struct {
		ID        string      `json:"id"`
		Name      null.String `json:"name"`
		FirstName null.String `json:"first_name"`
		LastName  null.String `json:"last_name"`
		Birthdate null.String `json:"birthdate"` // YYYY-MM-DD
		Grade     null.Int    `json:"grade"`
		Child     null.Bool   `json:"child"`
		Email     null.String `json:"email"`
		Phone     null.String `json:"phone_number"`
		Address   *Address    `json:"address,omitempty"`
	}

	Address struct {
		Street string `json:"street"`
		City   string `json:"city"`
		State  string `json:"state"`
		Zip    string `json:"zip"`
	}

	// Cutoff is the month/day a new academic year starts; it decides which
	// school year a birthdate falls into.
	Cutoff struct {
		Month time.Month `json:"month"`
		Day   int        `json:"day"`
	}

	// Student is the projection of a Person the dashboard works with.
	// It is derived, never authoritative: Expected, Delta and the anomaly
	// flags are recomputed on every projection, not stored upstream.
	Student struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Birthdate time.Time `json:"birthdate"`
		Grade     int       `json:"grade"`    // as recorded upstream
		Expected  int       `json:"expected"` // derived from Birthdate + Cutoff
		Delta     int       `json:"delta"`    // Expected - Grade; 0 means consistent
		Email     string    `json:"email,omitempty"`
		Phone     string    `json:"phone_number,omitempty"`
		Address   *Address  `json:"address,omitempty"`
		IsChild   bool      `json:"is_child"`

		NameAnomaly    bool `json:"name_anomaly"`
		EmailAnomaly   bool `json:"email_anomaly"`
		PhoneAnomaly   bool `json:"phone_anomaly"`
		AddressAnomaly bool `json:"address_anomaly"`
	}
)

var DefaultCutoff = Cutoff{Month: time.September, Day: 1}

func (c Cutoff) dateIn(year int) time.Time {
	return time.Date(year, c.Month, c.Day, 0, 0, 0, 0, time.UTC)
}

func (s Student) Consistent() bool {
	return s.Delta == 0
}

func (s Student) HasHygieneAnomaly() bool {
	return s.NameAnomaly || s.EmailAnomaly || s.PhoneAnomaly || s.AddressAnomaly
}
