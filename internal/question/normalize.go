package question

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"regexp"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

var (
	descriptionPolicy = bluemonday.UGCPolicy()
	// Fenced blocks and inline code spans are kept verbatim.
	codeSpan = regexp.MustCompile("(?s)```.*?```|`[^`\n]*`")
)

// sanitizeMarkdown strips unsafe HTML from the prose parts of a markdown text.
func sanitizeMarkdown(s string) string {
	var b strings.Builder
	last := 0
	for _, loc := range codeSpan.FindAllStringIndex(s, -1) {
		b.WriteString(sanitizeProse(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(sanitizeProse(s[last:]))
	return b.String()
}

func sanitizeProse(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	return html.UnescapeString(descriptionPolicy.Sanitize(s))
}

// Normalize returns a cleaned copy of the draft: trimmed text, lowercase
// language and category, deduplicated tags and a sanitized description.
func Normalize(d Draft) Draft {
	n := d.Clone()
	n.Language = strings.ToLower(strings.TrimSpace(n.Language))
	n.Category = strings.ToLower(strings.TrimSpace(n.Category))
	n.Title = strings.Join(strings.Fields(n.Title), " ")
	n.Description = strings.TrimSpace(sanitizeMarkdown(n.Description))

	tags := make([]string, 0, len(n.Tags))
	for _, tag := range n.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	n.Tags = tags

	switch p := n.Payload.(type) {
	case *MultipleChoice:
		for i := range p.Options {
			p.Options[i] = strings.TrimSpace(p.Options[i])
		}
	case *FillInTheBlank:
		p.Text = strings.TrimSpace(p.Text)
		for i := range p.Blanks {
			p.Blanks[i].Answer = strings.TrimSpace(p.Blanks[i].Answer)
		}
	case *CodeChallenge:
		p.Solution = strings.TrimRight(p.Solution, " \n\t")
		p.StarterCode = strings.TrimRight(p.StarterCode, " \n\t")
	}
	return n
}

// TitleKey is the comparison key for titles: case, spacing and
// punctuation do not distinguish two titles.
func TitleKey(title string) string {
	return slug.Make(title)
}

// Canonical renders the question content as stable plain text. It is the
// input for similarity scoring and duplicate diffs.
func Canonical(d Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "title: %s\n", d.Title)
	fmt.Fprintf(&b, "type: %s\n", d.Type)
	fmt.Fprintf(&b, "language: %s\n", d.Language)
	b.WriteString("description:\n")
	for _, line := range strings.Split(strings.TrimSpace(d.Description), "\n") {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	switch p := d.Payload.(type) {
	case *MultipleChoice:
		for i, opt := range p.Options {
			mark := " "
			if i == p.CorrectIndex {
				mark = "*"
			}
			fmt.Fprintf(&b, "option %s %s\n", mark, opt)
		}
	case *TrueFalse:
		if p.Answer != nil {
			fmt.Fprintf(&b, "answer: %t\n", *p.Answer)
		}
	case *FillInTheBlank:
		fmt.Fprintf(&b, "text: %s\n", p.Text)
		for i, blank := range p.Blanks {
			fmt.Fprintf(&b, "blank %d: %s\n", i+1, blank.Answer)
		}
	case *CodeChallenge:
		b.WriteString("solution:\n")
		for _, line := range strings.Split(p.Solution, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		for i, tc := range p.TestCases {
			fmt.Fprintf(&b, "test %d: %s => %s\n", i+1, tc.Input, tc.Expected)
		}
	}
	return b.String()
}

// Fingerprint identifies identical question content. Two drafts with the
// same title key and canonical body share a fingerprint.
func Fingerprint(d Draft) string {
	n := Normalize(d)
	sum := sha256.Sum256([]byte(Canonical(n)))
	return TitleKey(n.Title) + ":" + hex.EncodeToString(sum[:8])
}
