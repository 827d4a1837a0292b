package music

// Section is one time-bounded segment of a composition plan
type Section struct {
	SectionName         string   `json:"section_name"`
	PositiveLocalStyles []string `json:"positive_local_styles"`
	NegativeLocalStyles []string `json:"negative_local_styles"`
	DurationMs          int      `json:"duration_ms"`
	Lines               []string `json:"lines"`
	SourceFrom          *string  `json:"source_from"`
}

// CompositionPlan is the structured intermediate representation of a piece:
// global style tags plus an ordered list of sections. Section order is
// playback order and must be preserved through every reshape.
type CompositionPlan struct {
	PositiveGlobalStyles []string  `json:"positive_global_styles"`
	NegativeGlobalStyles []string  `json:"negative_global_styles"`
	Sections             []Section `json:"sections"`
}

// Normalize replaces nil slices with empty ones so the plan always
// serializes with arrays, never nulls
func (p *CompositionPlan) Normalize() {
	if p.PositiveGlobalStyles == nil {
		p.PositiveGlobalStyles = []string{}
	}
	if p.NegativeGlobalStyles == nil {
		p.NegativeGlobalStyles = []string{}
	}
	if p.Sections == nil {
		p.Sections = []Section{}
	}
	for i := range p.Sections {
		if p.Sections[i].PositiveLocalStyles == nil {
			p.Sections[i].PositiveLocalStyles = []string{}
		}
		if p.Sections[i].NegativeLocalStyles == nil {
			p.Sections[i].NegativeLocalStyles = []string{}
		}
		if p.Sections[i].Lines == nil {
			p.Sections[i].Lines = []string{}
		}
	}
}
