package question

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	d := NewDraft()
	d.Language = "  JavaScript "
	d.Category = "Logic"
	d.Title = "  Sum   two\tnumbers "
	d.Tags = []string{" Math", "math", "", "Arrays"}
	SetField(&d, "type", TypeMultipleChoice)
	SetField(&d, "options", []string{" 3 ", "4"})

	n := Normalize(d)

	require.Equal(t, "javascript", n.Language)
	require.Equal(t, "logic", n.Category)
	require.Equal(t, "Sum two numbers", n.Title)
	require.Equal(t, []string{"math", "arrays"}, n.Tags)
	mc, _ := n.MultipleChoice()
	require.Equal(t, []string{"3", "4"}, mc.Options)

	// The input draft is untouched.
	orig, _ := d.MultipleChoice()
	require.Equal(t, " 3 ", orig.Options[0])
}

func TestNormalize_SanitizesDescriptionProse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain markdown untouched",
			in:   "Return the **sum** of a & b.",
			want: "Return the **sum** of a & b.",
		},
		{
			name: "script removed",
			in:   "Hello<script>alert(1)</script> world",
			want: "Hello world",
		},
		{
			name: "inline code kept verbatim",
			in:   "Implement `List<T>` with <b>care</b>",
			want: "Implement `List<T>` with <b>care</b>",
		},
		{
			name: "fenced code kept verbatim",
			in:   "Example:\n```go\nif a < b && b > c {}\n```",
			want: "Example:\n```go\nif a < b && b > c {}\n```",
		},
		{
			name: "event handler attribute removed",
			in:   `<a href="https://example.com" onclick="steal()">docs</a>`,
			want: `<a href="https://example.com" rel="nofollow">docs</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			d.Description = tt.in
			require.Equal(t, tt.want, Normalize(d).Description)
		})
	}
}

func TestTitleKey(t *testing.T) {
	require.Equal(t, TitleKey("Reverse a String!"), TitleKey("reverse   a string"))
	require.NotEqual(t, TitleKey("Reverse a string"), TitleKey("Reverse a list"))
}

func TestFingerprint(t *testing.T) {
	a := sampleChallenge()
	b := sampleChallenge()
	b.Title = "  Reverse a string "
	require.Equal(t, Fingerprint(a), Fingerprint(b), "whitespace does not change the fingerprint")

	SetField(&b, "testCases[0].expected", "CBA")
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestCanonical_IncludesPayload(t *testing.T) {
	d := NewDraft()
	d.Title = "Pick one"
	SetField(&d, "type", TypeMultipleChoice)
	SetField(&d, "options", []string{"A", "B"})
	SetField(&d, "correctIndex", 1)

	out := Canonical(d)
	require.Contains(t, out, "title: Pick one")
	require.Contains(t, out, "option   A")
	require.Contains(t, out, "option * B")
}
