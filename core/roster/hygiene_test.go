package roster

import "testing"

func TestNameAnomaly(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "title case", in: "John Doe", want: false},
		{name: "all caps", in: "JOHN DOE", want: true},
		{name: "all lower", in: "john doe", want: true},
		{name: "mixed", in: "John DOE", want: false},
		{name: "empty", in: "", want: false},
		{name: "whitespace only", in: "   ", want: false},
		{name: "single character", in: "J", want: false},
		{name: "digits only are not caps", in: "1234", want: true}, // lowers to itself
		{name: "surrounding whitespace trimmed", in: "  JOHN DOE  ", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameAnomaly(tt.in); got != tt.want {
				t.Errorf("NameAnomaly(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEmailAnomaly(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "valid", in: "john@example.com", want: false},
		{name: "absent is not an anomaly", in: "", want: false},
		{name: "no at sign", in: "john.example.com", want: true},
		{name: "no tld", in: "john@example", want: true},
		{name: "spaces", in: "john doe@example.com", want: true},
		{name: "double at", in: "john@@example.com", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmailAnomaly(tt.in); got != tt.want {
				t.Errorf("EmailAnomaly(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPhoneAnomaly(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "strict E.164", in: "+15551234567", want: false},
		{name: "absent is not an anomaly", in: "", want: false},
		{name: "dashes", in: "555-123-4567", want: true},
		{name: "parentheses", in: "(555) 123-4567", want: true},
		{name: "missing country code", in: "5551234567", want: true},
		{name: "too short", in: "+1555123456", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneAnomaly(tt.in); got != tt.want {
				t.Errorf("PhoneAnomaly(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddressAnomaly(t *testing.T) {
	full := &Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62704"}
	zip9 := &Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62704-1234"}
	noCity := &Address{Street: "1 Main St", State: "IL", Zip: "62704"}
	badZip := &Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "6270"}

	tests := []struct {
		name string
		in   *Address
		want bool
	}{
		{name: "missing address is fine", in: nil, want: false},
		{name: "complete", in: full, want: false},
		{name: "zip+4", in: zip9, want: false},
		{name: "missing city", in: noCity, want: true},
		{name: "malformed zip", in: badZip, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddressAnomaly(tt.in); got != tt.want {
				t.Errorf("AddressAnomaly() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "all caps", in: "JOHN DOE", want: "John Doe"},
		{name: "all lower", in: "john doe", want: "John Doe"},
		{name: "already fixed", in: "John Doe", want: "John Doe"},
		{name: "empty", in: "", want: ""},
		{name: "double space preserved", in: "JOHN  DOE", want: "John  Doe"},
		{name: "single word", in: "cher", want: "Cher"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixName(tt.in); got != tt.want {
				t.Errorf("FixName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFixPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "dashes", in: "555-123-4567", want: "+15551234567"},
		{name: "parentheses and spaces", in: "(555) 123-4567", want: "+15551234567"},
		{name: "11 digits leading 1", in: "1 555 123 4567", want: "+15551234567"},
		{name: "already E.164", in: "+15551234567", want: "+15551234567"},
		{name: "unfixable too short", in: "12345", want: "12345"},
		{name: "unfixable 11 digits no leading 1", in: "25551234567", want: "25551234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixPhone(tt.in); got != tt.want {
				t.Errorf("FixPhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
