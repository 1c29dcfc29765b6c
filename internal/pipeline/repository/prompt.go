package repository

import (
	"fmt"
	"strings"

	"meridian/internal/pipeline/dto"
	"meridian/pkg/utils"
)

// snippetPreviewLen bounds how much of each snippet the grouping prompt
// sees; full snippets go to the synthesis prompt only.
const snippetPreviewLen = 150

// BuildGroupArticlesPrompt serializes the fetched set as an indexed
// listing and instructs the model to cluster entries by underlying event.
func BuildGroupArticlesPrompt(articles []dto.FetchedArticle) string {
	var listBuilder strings.Builder
	for i, a := range articles {
		listBuilder.WriteString(fmt.Sprintf("%d: [%s] \"%s\" - %s\n",
			i, a.SourceName, a.Title, utils.TruncateRunes(a.Snippet, snippetPreviewLen)))
	}

	promptTemplate := `You are a news editor. Group these articles by the underlying news event or topic they cover. Only create groups where at least 2 articles from DIFFERENT sources cover the same event. Assign each group a topic category from: politics, business, technology, science, health, world, sports, entertainment, environment.

Also assign each group a region: "us" (primarily US news), "uk" (primarily UK news), "canada" (primarily Canada news), "europe" (primarily Europe news), "international" (global/multi-region or non-Western news). Default to "us" if unclear.

Return JSON: { "groups": [{ "topic": "category", "region": "us", "articleIndices": [0, 3, 7], "suggestedHeadline": "brief neutral headline" }] }

Only include articles that clearly cover the same specific event. Do not force unrelated articles together. It's better to have fewer, higher-quality groups.

Articles:
%s`

	return fmt.Sprintf(promptTemplate, listBuilder.String())
}

// BuildSynthesizeStoryPrompt serializes one cluster's members with their
// bias ratings and instructs the model to produce the full synthesis
// structure.
func BuildSynthesizeStoryPrompt(articles []dto.FetchedArticle) string {
	var articleBuilder strings.Builder
	for _, a := range articles {
		articleBuilder.WriteString(fmt.Sprintf("[%s (%s)] \"%s\"\n%s\n\n",
			a.SourceName, a.BiasRating, a.Title, a.Snippet))
	}

	promptTemplate := `You are an AI news synthesizer. You don't just aggregate - you synthesize a single, neutral, fact-first narrative from multiple sources.

Given articles from sources with different political leanings, produce a deep analysis:

1. "headline": A neutral, fact-first headline (no editorializing, no sensationalism)
2. "summary": A comprehensive synthesis (4-6 sentences) presenting verified facts without political slant. Write it as original journalism, not a summary of summaries.
3. "keyFacts": 3-5 verified facts confirmed across multiple sources
4. "divergenceSummary": How sources frame this differently and WHY (what editorial choices reveal about each outlet's priorities)
5. "consensusScore": 0-100, how much sources agree on core facts (100 = total agreement, 0 = completely contradictory)
6. "narrativeLens": For each source, analyze the specific narrative techniques used:
   - "tone": overall emotional tone (e.g. "alarming", "measured", "celebratory", "critical")
   - "emphasis": what aspect the source chose to lead with
   - "omissions": what the source left out that others included
   - "wordChoice": specific word choices that reveal editorial slant
7. "coverageGaps": Facts or angles that only some sources covered, revealing blind spots

Return JSON:
{
  "headline": "...",
  "summary": "...",
  "keyFacts": ["...", "..."],
  "divergenceSummary": "...",
  "consensusScore": 75,
  "narrativeLens": [
    {
      "sourceName": "...",
      "biasRating": "...",
      "framing": "...",
      "tone": "...",
      "emphasis": "...",
      "omissions": "...",
      "wordChoice": "..."
    }
  ],
  "coverageGaps": [
    { "fact": "...", "coveredBy": ["Source A"], "missedBy": ["Source B", "Source C"], "significance": "..." }
  ]
}

Articles:
%s`

	return fmt.Sprintf(promptTemplate, articleBuilder.String())
}
