package dto

// GroupingResult is the expected JSON structure of the clustering
// completion. Field names follow the prompt contract, not Go convention,
// because the model is instructed to emit exactly these keys.
type GroupingResult struct {
	Groups []ProposedGroup `json:"groups"`
}

// ProposedGroup is one model-proposed cluster, referencing input articles
// by their listing index. Indices are untrusted until resolved and
// gate-checked by the clusterer.
type ProposedGroup struct {
	Topic             string `json:"topic"`
	Region            string `json:"region"`
	ArticleIndices    []int  `json:"articleIndices"`
	SuggestedHeadline string `json:"suggestedHeadline"`
}

// ArticleGroup is a gate-validated cluster ready for synthesis.
type ArticleGroup struct {
	Topic             string
	Region            string
	SuggestedHeadline string
	Articles          []FetchedArticle
}
