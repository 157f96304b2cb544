package question

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleChallenge() Draft {
	d := NewDraft()
	SetField(&d, "language", "go")
	SetField(&d, "category", "strings")
	SetField(&d, "type", TypeCodeChallenge)
	SetField(&d, "title", "Reverse a string")
	SetField(&d, "description", "Return the input reversed.")
	SetField(&d, "solution", "func Reverse(s string) string { return s }")
	SetField(&d, "testCases[0].input", "abc")
	SetField(&d, "testCases[0].expected", "cba")
	return d
}

func TestDraft_JSONCarriesOneVariantBlock(t *testing.T) {
	data, err := json.Marshal(sampleChallenge())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "codeChallenge", raw["type"])
	require.Contains(t, raw, "codeChallenge")
	require.NotContains(t, raw, "multipleChoice")
	require.NotContains(t, raw, "trueFalse")
	require.NotContains(t, raw, "fillInTheBlank")
}

func TestDraft_JSONRoundTrip(t *testing.T) {
	want := sampleChallenge()

	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got Draft
	require.NoError(t, json.Unmarshal(data, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestDraft_YAMLRoundTripInsideQuestion(t *testing.T) {
	d := NewDraft()
	SetField(&d, "type", TypeTrueFalse)
	SetField(&d, "answer", true)
	SetField(&d, "title", "Go has generics")
	want := Question{ID: "q1", Version: 2, Draft: d}

	data, err := yaml.Marshal(want)
	require.NoError(t, err)
	require.Contains(t, string(data), "trueFalse:")

	var got Question
	require.NoError(t, yaml.Unmarshal(data, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("question mismatch (-want +got):\n%s", diff)
	}
}

func TestDraft_DecodeRejectsMismatchedBlock(t *testing.T) {
	input := `{"type":"trueFalse","multipleChoice":{"options":["a","b"],"correctIndex":0}}`

	var d Draft
	err := json.Unmarshal([]byte(input), &d)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not match")
}

func TestDraft_DecodeRejectsUnknownType(t *testing.T) {
	var d Draft
	err := yaml.Unmarshal([]byte("type: essay\n"), &d)
	require.Error(t, err)
}

func TestDraft_DecodeMissingBlockGivesEmptyVariant(t *testing.T) {
	var d Draft
	require.NoError(t, json.Unmarshal([]byte(`{"type":"multipleChoice"}`), &d))

	mc, ok := d.MultipleChoice()
	require.True(t, ok)
	require.Equal(t, NoCorrectIndex, mc.CorrectIndex)
}

func TestDecode_FillsDefaults(t *testing.T) {
	d, err := DecodeJSON([]byte(`{"type":"trueFalse","title":"T","trueFalse":{"answer":false}}`))
	require.NoError(t, err)
	require.Equal(t, DifficultyMedium, d.Difficulty)
	require.Equal(t, DefaultPoints, d.Points)
	tf, ok := d.TrueFalse()
	require.True(t, ok)
	require.False(t, *tf.Answer)

	d, err = DecodeYAML([]byte("type: codeChallenge\npoints: 40\ndifficulty: hard\n"))
	require.NoError(t, err)
	require.Equal(t, DifficultyHard, d.Difficulty)
	require.Equal(t, 40, d.Points)

	_, err = DecodeYAML([]byte("type: [oops"))
	require.Error(t, err)
}

func TestDecode_MultipleChoiceWithoutCorrectIndex(t *testing.T) {
	tests := []struct {
		name   string
		decode func() (Draft, error)
		want   int
	}{
		{
			name: "json missing",
			decode: func() (Draft, error) {
				return DecodeJSON([]byte(`{"type":"multipleChoice","multipleChoice":{"options":["a","b"]}}`))
			},
			want: NoCorrectIndex,
		},
		{
			name: "yaml missing",
			decode: func() (Draft, error) {
				return DecodeYAML([]byte("type: multipleChoice\nmultipleChoice:\n  options: [a, b]\n"))
			},
			want: NoCorrectIndex,
		},
		{
			name: "json explicit zero",
			decode: func() (Draft, error) {
				return DecodeJSON([]byte(`{"type":"multipleChoice","multipleChoice":{"options":["a","b"],"correctIndex":0}}`))
			},
			want: 0,
		},
		{
			name: "yaml explicit one",
			decode: func() (Draft, error) {
				return DecodeYAML([]byte("type: multipleChoice\nmultipleChoice:\n  options: [a, b]\n  correctIndex: 1\n"))
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.decode()
			require.NoError(t, err)
			mc, ok := d.MultipleChoice()
			require.True(t, ok)
			require.Equal(t, []string{"a", "b"}, mc.Options)
			require.Equal(t, tt.want, mc.CorrectIndex)
		})
	}
}
