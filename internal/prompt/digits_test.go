package prompt

import "testing"

func TestExtractDigits(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{"empty", "", ""},
		{"no digits", "abc", ""},
		{"formatted number", "+1 (555) 123-4567", "15551234567"},
		{"sip uri", "sip:1001@pbx.example.com", "1001"},
		{"digits only", "0123456789", "0123456789"},
		{"display name", "\"Bob\" <2000>", "2000"},
		{"arabic-indic digits", "٥٥٥١٢٣", ""},
		{"fullwidth digits", "５５５", ""},
		{"mixed scripts", "٥1２3", "13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDigits(tt.from); got != tt.want {
				t.Errorf("ExtractDigits(%q) = %q, want %q", tt.from, got, tt.want)
			}
		})
	}
}

func TestExtractDigits_PreservesOrder(t *testing.T) {
	got := ExtractDigits("9a8b7c")
	if got != "987" {
		t.Errorf("ExtractDigits() = %q, want 987", got)
	}
}
