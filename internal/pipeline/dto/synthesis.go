package dto

// SynthesisResult is the expected JSON structure of the synthesis
// completion. Only Headline and Summary are mandatory; everything else
// defaults to empty when the model omits it.
type SynthesisResult struct {
	Headline          string               `json:"headline"`
	Summary           string               `json:"summary"`
	KeyFacts          []string             `json:"keyFacts"`
	DivergenceSummary string               `json:"divergenceSummary"`
	ConsensusScore    *int                 `json:"consensusScore"`
	NarrativeLens     []NarrativeLensEntry `json:"narrativeLens"`
	CoverageGaps      []CoverageGap        `json:"coverageGaps"`
}

// NarrativeLensEntry analyzes how one source framed the shared event.
type NarrativeLensEntry struct {
	SourceName string `json:"sourceName"`
	BiasRating string `json:"biasRating"`
	Framing    string `json:"framing"`
	Tone       string `json:"tone"`
	Emphasis   string `json:"emphasis"`
	Omissions  string `json:"omissions"`
	WordChoice string `json:"wordChoice"`
}

// CoverageGap is a fact some contributing sources reported and others
// left out.
type CoverageGap struct {
	Fact         string   `json:"fact"`
	CoveredBy    []string `json:"coveredBy"`
	MissedBy     []string `json:"missedBy"`
	Significance string   `json:"significance"`
}
