package dto

// RunSummary is the result surfaced to a pipeline trigger caller.
type RunSummary struct {
	Message        string `json:"message"`
	StoriesCreated int    `json:"storiesCreated"`
}
