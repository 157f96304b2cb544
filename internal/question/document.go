package question

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// document is the wire form of a Draft: the common fields, the type
// discriminator and exactly one variant block.
type document struct {
	Language       string          `json:"language" yaml:"language"`
	Category       string          `json:"category" yaml:"category"`
	Type           Type            `json:"type" yaml:"type"`
	Difficulty     Difficulty      `json:"difficulty" yaml:"difficulty"`
	Title          string          `json:"title" yaml:"title"`
	Description    string          `json:"description" yaml:"description"`
	Points         int             `json:"points" yaml:"points"`
	Tags           []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	MultipleChoice *MultipleChoice `json:"multipleChoice,omitempty" yaml:"multipleChoice,omitempty"`
	TrueFalse      *TrueFalse      `json:"trueFalse,omitempty" yaml:"trueFalse,omitempty"`
	FillInTheBlank *FillInTheBlank `json:"fillInTheBlank,omitempty" yaml:"fillInTheBlank,omitempty"`
	CodeChallenge  *CodeChallenge  `json:"codeChallenge,omitempty" yaml:"codeChallenge,omitempty"`
}

func toDocument(d Draft) document {
	doc := document{
		Language:    d.Language,
		Category:    d.Category,
		Type:        d.Type,
		Difficulty:  d.Difficulty,
		Title:       d.Title,
		Description: d.Description,
		Points:      d.Points,
		Tags:        d.Tags,
	}
	switch p := d.Payload.(type) {
	case *MultipleChoice:
		doc.MultipleChoice = p
	case *TrueFalse:
		doc.TrueFalse = p
	case *FillInTheBlank:
		doc.FillInTheBlank = p
	case *CodeChallenge:
		doc.CodeChallenge = p
	}
	return doc
}

func fromDocument(doc document) (Draft, error) {
	d := Draft{
		Language:    doc.Language,
		Category:    doc.Category,
		Type:        doc.Type,
		Difficulty:  doc.Difficulty,
		Title:       doc.Title,
		Description: doc.Description,
		Points:      doc.Points,
		Tags:        doc.Tags,
	}
	if d.Type != TypeNone && !d.Type.Valid() {
		return Draft{}, fmt.Errorf("unknown question type: %q", d.Type)
	}

	blocks := map[Type]Payload{}
	if doc.MultipleChoice != nil {
		blocks[TypeMultipleChoice] = doc.MultipleChoice
	}
	if doc.TrueFalse != nil {
		blocks[TypeTrueFalse] = doc.TrueFalse
	}
	if doc.FillInTheBlank != nil {
		blocks[TypeFillInTheBlank] = doc.FillInTheBlank
	}
	if doc.CodeChallenge != nil {
		blocks[TypeCodeChallenge] = doc.CodeChallenge
	}
	for t := range blocks {
		if t != d.Type {
			return Draft{}, fmt.Errorf("payload block %q does not match question type %q", t, d.Type)
		}
	}

	if p, ok := blocks[d.Type]; ok {
		d.Payload = p
	} else {
		d.Payload = NewPayload(d.Type)
	}
	return d, nil
}

func defaultDocument() document {
	return document{Difficulty: DifficultyMedium, Points: DefaultPoints}
}

// DecodeJSON decodes a wire-form draft. Missing difficulty and points take
// their defaults.
func DecodeJSON(data []byte) (Draft, error) {
	doc := defaultDocument()
	if err := json.Unmarshal(data, &doc); err != nil {
		return Draft{}, err
	}
	return fromDocument(doc)
}

// DecodeYAML is DecodeJSON for YAML documents.
func DecodeYAML(data []byte) (Draft, error) {
	doc := defaultDocument()
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Draft{}, err
	}
	return fromDocument(doc)
}

// MarshalJSON encodes the draft in its wire form.
func (d Draft) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDocument(d))
}

// UnmarshalJSON decodes the wire form and rejects mismatched variant blocks.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	decoded, err := fromDocument(doc)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}

// MarshalYAML encodes the draft in its wire form.
func (d Draft) MarshalYAML() (any, error) {
	return toDocument(d), nil
}

// UnmarshalYAML decodes the wire form and rejects mismatched variant blocks.
func (d *Draft) UnmarshalYAML(value *yaml.Node) error {
	var doc document
	if err := value.Decode(&doc); err != nil {
		return err
	}
	decoded, err := fromDocument(doc)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}

// multipleChoiceWire keeps MultipleChoice's tags without its decode methods.
type multipleChoiceWire MultipleChoice

// UnmarshalJSON leaves CorrectIndex at NoCorrectIndex when the block has no
// correctIndex, so a missing answer never selects the first option.
func (mc *MultipleChoice) UnmarshalJSON(data []byte) error {
	w := multipleChoiceWire{CorrectIndex: NoCorrectIndex}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*mc = MultipleChoice(w)
	return nil
}

// UnmarshalYAML is UnmarshalJSON for YAML blocks.
func (mc *MultipleChoice) UnmarshalYAML(value *yaml.Node) error {
	w := multipleChoiceWire{CorrectIndex: NoCorrectIndex}
	if err := value.Decode(&w); err != nil {
		return err
	}
	*mc = MultipleChoice(w)
	return nil
}
