package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ScaleOption is one selectable answer of a question's scoring scale.
type ScaleOption struct {
	Token string
	Label string
}

// Question is a single scored question. Immutable once loaded.
type Question struct {
	ID     string
	Prompt string

	// Scale holds the answer options in source order.
	Scale []ScaleOption
}

// HasToken reports whether tok is one of the question's scale tokens.
func (q Question) HasToken(tok string) bool {
	_, ok := q.Label(tok)
	return ok
}

// Label returns the human-readable label for tok.
func (q Question) Label(tok string) (string, bool) {
	for _, opt := range q.Scale {
		if opt.Token == tok {
			return opt.Label, true
		}
	}
	return "", false
}

// Section is a named, contiguous run of questions in the flat sequence.
type Section struct {
	Name      string
	Questions []Question

	// Start and End are the flat positions of the first and last question.
	Start int
	End   int
}

// Contains reports whether the flat position pos falls inside the section.
func (s Section) Contains(pos int) bool {
	return pos >= s.Start && pos <= s.End
}

// Len returns the number of questions in the section.
func (s Section) Len() int {
	return len(s.Questions)
}

// Catalog is the full, read-only set of sections and questions.
type Catalog struct {
	sections     []Section
	flat         []Question
	index        map[string]int
	sectionIndex map[string]int

	// FunctionalAreas is the functional-areas document, kept verbatim.
	FunctionalAreas json.RawMessage
}

// New builds a Catalog from sections in order, assigning flat positions and
// the section range table. Section Start/End values on input are ignored.
func New(sections []Section) (*Catalog, error) {
	c := &Catalog{
		index:        make(map[string]int),
		sectionIndex: make(map[string]int, len(sections)),
	}

	for _, sec := range sections {
		if sec.Name == "" {
			return nil, &ConfigError{Reason: "section name is empty"}
		}
		if _, dup := c.sectionIndex[sec.Name]; dup {
			return nil, &ConfigError{Section: sec.Name, Reason: "duplicate section name"}
		}
		if len(sec.Questions) == 0 {
			return nil, &ConfigError{Section: sec.Name, Reason: "section has no questions"}
		}

		start := len(c.flat)
		qs := make([]Question, len(sec.Questions))
		for i, q := range sec.Questions {
			if q.ID == "" {
				return nil, &ConfigError{Section: sec.Name, Reason: fmt.Sprintf("question %d has no id", i)}
			}
			if len(q.Scale) == 0 {
				return nil, &ConfigError{Section: sec.Name, QuestionID: q.ID, Reason: "empty scoring scale"}
			}
			if _, dup := c.index[q.ID]; dup {
				return nil, &ConfigError{Section: sec.Name, QuestionID: q.ID, Reason: "duplicate question id"}
			}
			scale := make([]ScaleOption, len(q.Scale))
			copy(scale, q.Scale)
			q.Scale = scale

			qs[i] = q
			c.index[q.ID] = len(c.flat)
			c.flat = append(c.flat, q)
		}

		c.sectionIndex[sec.Name] = len(c.sections)
		c.sections = append(c.sections, Section{
			Name:      sec.Name,
			Questions: qs,
			Start:     start,
			End:       len(c.flat) - 1,
		})
	}

	return c, nil
}

// Len returns the number of questions in the flat sequence.
func (c *Catalog) Len() int {
	return len(c.flat)
}

// Empty reports whether the catalog holds no questions.
func (c *Catalog) Empty() bool {
	return len(c.flat) == 0
}

// Sections returns the sections in source order.
func (c *Catalog) Sections() []Section {
	return c.sections
}

// Questions returns the flat question sequence.
func (c *Catalog) Questions() []Question {
	return c.flat
}

// QuestionAt returns the question at flat position pos.
func (c *Catalog) QuestionAt(pos int) (Question, bool) {
	if pos < 0 || pos >= len(c.flat) {
		return Question{}, false
	}
	return c.flat[pos], true
}

// Question looks a question up by id.
func (c *Catalog) Question(id string) (Question, bool) {
	pos, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.flat[pos], true
}

// Position returns the zero-based flat position of question id.
func (c *Catalog) Position(id string) (int, bool) {
	pos, ok := c.index[id]
	return pos, ok
}

// Section looks a section up by name.
func (c *Catalog) Section(name string) (Section, bool) {
	i, ok := c.sectionIndex[name]
	if !ok {
		return Section{}, false
	}
	return c.sections[i], true
}

// SectionAt returns the section containing flat position pos.
func (c *Catalog) SectionAt(pos int) (Section, bool) {
	if pos < 0 || pos >= len(c.flat) {
		return Section{}, false
	}
	i := sort.Search(len(c.sections), func(i int) bool {
		return c.sections[i].End >= pos
	})
	if i == len(c.sections) {
		return Section{}, false
	}
	return c.sections[i], true
}
