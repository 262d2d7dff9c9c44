package core

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		lower bool
		want  string
	}{
		{name: "trims", in: "  Hero ", want: "Hero"},
		{name: "trims and lowers", in: "  Hero ", lower: true, want: "hero"},
		{name: "keeps case by default", in: "CSE-3", want: "CSE-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanString(tt.in, tt.lower); got != tt.want {
				t.Errorf("CleanString(%q, %v) = %q, want %q", tt.in, tt.lower, got, tt.want)
			}
		})
	}
}

func TestCleanEmail(t *testing.T) {
	if got := CleanEmail("  AWE@Test.CD "); got != "awe@test.cd" {
		t.Errorf("CleanEmail() = %q, want awe@test.cd", got)
	}
}
