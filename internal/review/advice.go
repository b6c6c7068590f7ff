package review

import (
	"fmt"
	"strings"
)

// adviceByField maps each dimension field to one fixed piece of revision
// advice. Unknown fields fall back to the generic entry.
var adviceByField = map[string]string{
	"answerRelevance":  "Re-read the question and answer exactly what it asks; cut every sentence that does not serve the question's intent.",
	"jobFit":           "Show you could start contributing immediately: name the matching tech stack, a comparable project, and what you delivered.",
	"orgFit":           "Reference concrete facts about this company - its product, culture or technical direction - so the letter would not work for any other employer.",
	"specificity":      "Replace vague claims with numbers, project names and quantified outcomes; 'worked hard' counts for nothing.",
	"authenticity":     "Tell a story only this applicant could tell; remove sentences anyone could have written.",
	"aiDetectionRisk":  "Break repetitive sentence endings, drop abstract filler phrases and add lived detail so the text does not read as machine-written.",
	"logicalStructure": "Tighten the narrative arc: each paragraph should set up the next, with a clear opening hook and closing commitment.",
	"keywordUsage":     "Weave the posting's core keywords naturally into the text instead of listing them.",
}

const genericAdvice = "Strengthen this aspect with concrete, verifiable detail drawn from the applicant's actual experience."

// AdviceFor returns the fixed written advice for one dimension field.
func AdviceFor(field string) string {
	if advice, ok := adviceByField[field]; ok {
		return advice
	}
	return genericAdvice
}

// RevisionStrategy synthesizes the targeted revision strategy from the
// weakest dimensions, one advice line per dimension in ascending score order.
func RevisionStrategy(dims []Dimension) string {
	if len(dims) == 0 {
		return ""
	}
	lines := make([]string, 0, len(dims))
	for _, d := range dims {
		lines = append(lines, fmt.Sprintf("- %s (scored %d): %s", d.Name, d.Score, AdviceFor(d.Field)))
	}
	return strings.Join(lines, "\n")
}
