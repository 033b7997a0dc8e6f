package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Some Title", "Some Title"},
		{"slash", "Part 1/2", "Part 1-2"},
		{"colon", "Re: Zero", "Re- Zero"},
		{"removed", "Why? \"Because\"", "Why Because"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseSpacesIdempotent(t *testing.T) {
	in := "  a   b \t c  "
	once := CollapseSpaces(in)
	if once != "a b c" {
		t.Fatalf("CollapseSpaces(%q) = %q", in, once)
	}
	if twice := CollapseSpaces(once); twice != once {
		t.Fatalf("CollapseSpaces not idempotent: %q vs %q", twice, once)
	}
}
