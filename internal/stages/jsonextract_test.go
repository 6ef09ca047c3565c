package stages

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"bare array", `[1,2]`, `[1,2]`, true},
		{"fenced object", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose around array", "Sure, here it is: [1,2] hope that helps", `[1,2]`, true},
		{"array wins over later object", `[{"a":1}] trailing text`, `[{"a":1}]`, true},
		{"no json", "I cannot do that.", "", false},
		{"unclosed", `{"a":1`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := ExtractJSON(tc.in)
			if found != tc.found || got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, %v; want %q, %v", tc.in, got, found, tc.want, tc.found)
			}
		})
	}
}

func TestWrapPlaceholders(t *testing.T) {
	in := "Dear [Hiring Manager], I saw {{role}} at <Company>."
	want := "Dear `[Hiring Manager]`, I saw `{{role}}` at `<Company>`."
	if got := WrapPlaceholders(in); got != want {
		t.Fatalf("WrapPlaceholders = %q, want %q", got, want)
	}
}

func TestWrapPlaceholdersLeavesPlainTextAlone(t *testing.T) {
	in := "No placeholders here, just a < b comparison."
	if got := WrapPlaceholders(in); got != in {
		t.Fatalf("WrapPlaceholders changed plain text: %q", got)
	}
}
