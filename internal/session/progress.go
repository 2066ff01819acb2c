package session

import "math"

// Progress summarizes how much of the catalog has been answered.
type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
	Percent  int `json:"percent"` // 0-100, rounded
}

// SectionProgress is the answered count for one section.
type SectionProgress struct {
	Name     string `json:"name"`
	Answered int    `json:"answered"`
	Total    int    `json:"total"`
	Active   bool   `json:"active"` // the cursor is inside this section
}

// Progress counts answered catalog questions. Answers for ids the catalog
// does not know are ignored, so the percentage never exceeds 100.
func (s *Session) Progress() Progress {
	total := s.catalog.Len()
	answered := 0
	for _, q := range s.catalog.Questions() {
		if _, ok := s.answers[q.ID]; ok {
			answered++
		}
	}
	return Progress{
		Answered: answered,
		Total:    total,
		Percent:  percent(answered, total),
	}
}

// SectionProgress reports per-section answered counts in catalog order.
func (s *Session) SectionProgress() []SectionProgress {
	sections := s.catalog.Sections()
	out := make([]SectionProgress, 0, len(sections))
	for _, sec := range sections {
		sp := SectionProgress{
			Name:   sec.Name,
			Total:  sec.Len(),
			Active: sec.Contains(s.cursor),
		}
		for _, q := range sec.Questions {
			if _, ok := s.answers[q.ID]; ok {
				sp.Answered++
			}
		}
		out = append(out, sp)
	}
	return out
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
