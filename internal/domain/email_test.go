package domain

import "testing"

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  bool
	}{
		{"johndoe@gmail.com", true},
		{"man@mxw.nes.nec.co.jp", true},
		{"first.last+tag@sub.example-host.org", true},
		{"error.root", false},
		{"", false},
		{"@nodomain.com", false},
		{"nolocal@", false},
		{"two@@ats.com", false},
		{"plain@nodot", false},
	}

	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestEmailDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  string
	}{
		{"jdoe@super.no", "super.no"},
		{"man@MXW.NES.NEC.CO.JP", "mxw.nes.nec.co.jp"},
		{"error.root", ""},
		{"trailing@", ""},
	}

	for _, tt := range tests {
		if got := EmailDomain(tt.email); got != tt.want {
			t.Errorf("EmailDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}
