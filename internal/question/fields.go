package question

import (
	"regexp"
	"slices"
	"strconv"

	"github.com/spf13/cast"
)

// Path is a parsed field path such as "testCases[1].expected".
type Path struct {
	Name  string
	Index int // -1 when the path has no index
	Sub   string
}

var pathPattern = regexp.MustCompile(`^([A-Za-z]+)(?:\[(\d+)\])?(?:\.([A-Za-z]+))?$`)

// ParsePath parses a field path. ok is false for malformed paths.
func ParsePath(path string) (Path, bool) {
	m := pathPattern.FindStringSubmatch(path)
	if m == nil {
		return Path{}, false
	}
	p := Path{Name: m[1], Index: -1, Sub: m[3]}
	if m[2] != "" {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return Path{}, false
		}
		p.Index = idx
	}
	return p, true
}

// SetField writes value into the draft at path and reports whether the write
// applied. Values are coerced to the field's type. An indexed write one past
// the end appends; a nil value on an indexed path removes that element.
// Payload paths only apply to the matching variant.
func SetField(d *Draft, path string, value any) bool {
	p, ok := ParsePath(path)
	if !ok {
		return false
	}

	switch p.Name {
	case "language":
		return setString(&d.Language, p, value)
	case "category":
		return setString(&d.Category, p, value)
	case "title":
		return setString(&d.Title, p, value)
	case "description":
		return setString(&d.Description, p, value)
	case "difficulty":
		s, err := cast.ToStringE(value)
		if err != nil || p.Index >= 0 {
			return false
		}
		d.Difficulty = Difficulty(s)
		return true
	case "type":
		s, err := cast.ToStringE(value)
		if err != nil || p.Index >= 0 {
			return false
		}
		t := Type(s)
		if t != TypeNone && !t.Valid() {
			return false
		}
		if t != d.Type {
			d.Type = t
			d.Payload = NewPayload(t)
		}
		return true
	case "points":
		n, err := cast.ToIntE(value)
		if err != nil || p.Index >= 0 {
			return false
		}
		d.Points = n
		return true
	case "tags":
		return setStrings(&d.Tags, p, value)
	}

	switch payload := d.Payload.(type) {
	case *MultipleChoice:
		return setMultipleChoice(payload, p, value)
	case *TrueFalse:
		if p.Name != "answer" || p.Index >= 0 {
			return false
		}
		if value == nil {
			payload.Answer = nil
			return true
		}
		b, err := cast.ToBoolE(value)
		if err != nil {
			return false
		}
		payload.Answer = &b
		return true
	case *FillInTheBlank:
		return setFillInTheBlank(payload, p, value)
	case *CodeChallenge:
		return setCodeChallenge(payload, p, value)
	}
	return false
}

func setMultipleChoice(mc *MultipleChoice, p Path, value any) bool {
	switch p.Name {
	case "options":
		if p.Index >= 0 && value == nil && p.Index < len(mc.Options) {
			mc.Options = slices.Delete(mc.Options, p.Index, p.Index+1)
			switch {
			case mc.CorrectIndex == p.Index:
				mc.CorrectIndex = NoCorrectIndex
			case mc.CorrectIndex > p.Index:
				mc.CorrectIndex--
			}
			return true
		}
		return setStrings(&mc.Options, p, value)
	case "correctIndex":
		n, err := cast.ToIntE(value)
		if err != nil || p.Index >= 0 {
			return false
		}
		if n < NoCorrectIndex {
			n = NoCorrectIndex
		}
		mc.CorrectIndex = n
		return true
	}
	return false
}

func setFillInTheBlank(fb *FillInTheBlank, p Path, value any) bool {
	switch p.Name {
	case "text":
		return setString(&fb.Text, p, value)
	case "blanks":
		if p.Index < 0 {
			blanks, ok := value.([]Blank)
			if !ok {
				return false
			}
			fb.Blanks = slices.Clone(blanks)
			return true
		}
		if value == nil && p.Sub == "" {
			return removeAt(&fb.Blanks, p.Index)
		}
		b, ok := elementFor(&fb.Blanks, p.Index)
		if !ok {
			return false
		}
		switch p.Sub {
		case "answer":
			return setString(&b.Answer, Path{Index: -1}, value)
		case "alternatives":
			return setStrings(&b.Alternatives, Path{Index: -1}, value)
		}
	}
	return false
}

func setCodeChallenge(cc *CodeChallenge, p Path, value any) bool {
	switch p.Name {
	case "starterCode":
		return setString(&cc.StarterCode, p, value)
	case "solution":
		return setString(&cc.Solution, p, value)
	case "testCases":
		if p.Index < 0 {
			cases, ok := value.([]TestCase)
			if !ok {
				return false
			}
			cc.TestCases = slices.Clone(cases)
			return true
		}
		if value == nil && p.Sub == "" {
			return removeAt(&cc.TestCases, p.Index)
		}
		tc, ok := elementFor(&cc.TestCases, p.Index)
		if !ok {
			return false
		}
		switch p.Sub {
		case "input":
			return setString(&tc.Input, Path{Index: -1}, value)
		case "expected":
			return setString(&tc.Expected, Path{Index: -1}, value)
		case "hidden":
			b, err := cast.ToBoolE(value)
			if err != nil {
				return false
			}
			tc.Hidden = b
			return true
		}
	}
	return false
}

func setString(dst *string, p Path, value any) bool {
	if p.Index >= 0 || p.Sub != "" {
		return false
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return false
	}
	*dst = s
	return true
}

func setStrings(dst *[]string, p Path, value any) bool {
	if p.Sub != "" {
		return false
	}
	if p.Index < 0 {
		ss, err := cast.ToStringSliceE(value)
		if err != nil {
			return false
		}
		*dst = slices.Clone(ss)
		return true
	}
	if value == nil {
		return removeAt(dst, p.Index)
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return false
	}
	switch {
	case p.Index < len(*dst):
		(*dst)[p.Index] = s
	case p.Index == len(*dst):
		*dst = append(*dst, s)
	default:
		return false
	}
	return true
}

// elementFor returns a pointer to element i, appending a zero element when
// i is exactly one past the end.
func elementFor[T any](s *[]T, i int) (*T, bool) {
	switch {
	case i < len(*s):
		return &(*s)[i], true
	case i == len(*s):
		var zero T
		*s = append(*s, zero)
		return &(*s)[i], true
	default:
		return nil, false
	}
}

func removeAt[T any](s *[]T, i int) bool {
	if i < 0 || i >= len(*s) {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}
