package validation

import (
	"testing"
)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"valid", "01/01/2025", false},
		{"valid end of ranges", "31/12/2025", false},
		{"day 31 in february accepted", "31/02/2025", false}, // shallow model
		{"leap day any year accepted", "29/02/2023", false},  // shallow model
		{"empty", "", true},
		{"missing segment", "01/2023", true},
		{"single digit day", "1/01/2025", true},
		{"two digit year", "01/01/25", true},
		{"letters", "32/13/abcd", true},
		{"day zero", "00/01/2025", true},
		{"day 32", "32/01/2025", true},
		{"month zero", "01/00/2025", true},
		{"month 13", "01/13/2025", true},
		{"dashes", "01-01-2025", true},
		{"trailing garbage", "01/01/2025x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, m, y, err := ParseDate("05/11/2026")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if d != 5 || m != 11 || y != 2026 {
		t.Errorf("ParseDate = %d/%d/%d, want 5/11/2026", d, m, y)
	}
}

func TestFormatDate_RoundTrip(t *testing.T) {
	s := FormatDate(5, 1, 2025)
	if s != "05/01/2025" {
		t.Fatalf("FormatDate = %q, want 05/01/2025", s)
	}
	if err := ValidateDate(s); err != nil {
		t.Errorf("formatted date failed validation: %v", err)
	}
}
