// Package prompt assembles the generation and revision prompts sent to the
// writing model. Prompts are built from the posting, the stored experience
// bank and, when available, the deep company analysis.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careerkit/career-assistant/internal/crawler"
	"github.com/careerkit/career-assistant/internal/store/model"
)

const bannedPhrases = `Do not use any of these worn-out openers and cliches:
"Since childhood", "I have always", "passionate", "hard-working",
"team player", "fast learner", "I believe I am the right fit".
Every claim must be backed by a concrete situation, action and result.`

const detectionGuards = `Write so the text reads as a person, not a template:
- Vary sentence length; mix short declaratives with longer reasoning.
- Prefer specific nouns and numbers over abstract adjectives.
- Allow one small, honest limitation or lesson learned.
- No bullet lists; continuous prose only.
- Never mention AI, prompts or that this text was generated.`

const narrativeGuide = `Structure the answer as a four-beat arc:
1. Hook: a concrete situation or tension, not a thesis statement.
2. Build: the actions you took and the reasoning behind them.
3. Turn: the obstacle or insight that changed the outcome.
4. Land: the measurable result and what it means for this role.`

// Build assembles the prompt for a posting that exposes no essay questions.
// The model is asked for one free-form cover letter.
func Build(posting *model.Posting, experiences []model.Experience) string {
	var b strings.Builder

	b.WriteString("Write a cover letter for the job posting below.\n\n")
	writeCompanySection(&b, posting)
	writeAnalysisGuide(&b, posting)
	b.WriteString(narrativeGuide)
	b.WriteString("\n\n")
	writeKeywordStrategy(&b)
	b.WriteString(bannedPhrases)
	b.WriteString("\n\n")
	b.WriteString(detectionGuards)
	b.WriteString("\n\nTone:\n")
	b.WriteString(resolveTone(posting.CompanyType))
	b.WriteString("\n\n")
	writeExperienceSection(&b, experiences)
	b.WriteString("\nReturn only the letter text, no preamble or headings.\n")

	return b.String()
}

// BuildForQuestion assembles the prompt for one essay question of a posting.
func BuildForQuestion(posting *model.Posting, question crawler.EssayQuestion, experiences []model.Experience) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write the answer to essay question %d of the job posting below.\n\n", question.Number)
	fmt.Fprintf(&b, "Question: %s\n", question.Text)
	if question.CharLimit > 0 {
		fmt.Fprintf(&b, "Hard limit: %d characters. Target between %d and %d characters; never exceed the limit.\n",
			question.CharLimit, question.CharLimit*85/100, question.CharLimit*95/100)
	}
	b.WriteString("\n")

	writeCompanySection(&b, posting)
	writeAnalysisGuide(&b, posting)
	b.WriteString(questionGuide(question.Text))
	b.WriteString("\n\n")
	b.WriteString(narrativeGuide)
	b.WriteString("\n\n")
	writeKeywordStrategy(&b)
	b.WriteString(bannedPhrases)
	b.WriteString("\n\n")
	b.WriteString(detectionGuards)
	b.WriteString("\n\nTone:\n")
	b.WriteString(resolveTone(posting.CompanyType))
	b.WriteString("\n\n")
	writeExperienceSection(&b, experiences)
	b.WriteString("\nReturn only the answer text, no preamble or headings.\n")

	return b.String()
}

// BuildImprovement assembles the revision prompt for a draft that failed
// review. strategy carries the targeted advice derived from the weakest
// scoring dimensions and may be empty.
func BuildImprovement(posting *model.Posting, questionText string, charLimit int, draft, feedback, strategy string) string {
	var b strings.Builder

	b.WriteString("Revise the cover letter draft below. A reviewer scored it and it did not pass.\n\n")
	if questionText != "" {
		fmt.Fprintf(&b, "Question being answered: %s\n", questionText)
	}
	if charLimit > 0 {
		fmt.Fprintf(&b, "Hard limit: %d characters.\n", charLimit)
	}
	fmt.Fprintf(&b, "\nCompany: %s\n\n", posting.CompanyName)

	b.WriteString("Reviewer feedback:\n")
	b.WriteString(feedback)
	b.WriteString("\n\n")

	if strategy != "" {
		b.WriteString("Focus the revision on the weakest areas:\n")
		b.WriteString(strategy)
		b.WriteString("\n\n")
	}

	b.WriteString("Rules:\n")
	b.WriteString("- Keep what already works; rewrite only what the feedback targets.\n")
	b.WriteString("- Do not change the factual claims or invent new experiences.\n")
	b.WriteString(bannedPhrases)
	b.WriteString("\n\n")
	b.WriteString(detectionGuards)
	b.WriteString("\n\nTone:\n")
	b.WriteString(resolveTone(posting.CompanyType))
	b.WriteString("\n\nDraft:\n")
	b.WriteString(draft)
	b.WriteString("\n\nReturn only the revised text, no commentary.\n")

	return b.String()
}

func writeCompanySection(b *strings.Builder, posting *model.Posting) {
	b.WriteString("Job posting:\n")
	fmt.Fprintf(b, "Company: %s\n", posting.CompanyName)
	if posting.Description != "" {
		fmt.Fprintf(b, "Role description:\n%s\n", posting.Description)
	}
	if posting.Requirements != "" {
		fmt.Fprintf(b, "Requirements:\n%s\n", posting.Requirements)
	}
	b.WriteString("\n")
}

// companyAnalysis mirrors the JSON the analyzer asks the model to return.
// All fields are optional; whatever decodes is used.
type companyAnalysis struct {
	CoreValues      []string `json:"core_values"`
	TalentProfile   string   `json:"talent_profile"`
	BusinessFocus   string   `json:"business_focus"`
	RecentDirection string   `json:"recent_direction"`
	WritingAngle    string   `json:"writing_angle"`
}

func writeAnalysisGuide(b *strings.Builder, posting *model.Posting) {
	b.WriteString("Company insight:\n")
	defer b.WriteString("\n")

	var ca companyAnalysis
	if posting.CompanyAnalysis == "" || json.Unmarshal([]byte(posting.CompanyAnalysis), &ca) != nil {
		b.WriteString("No deep analysis is available. Infer the company's values from the posting text itself and mirror its vocabulary where it is natural.\n")
		return
	}

	if len(ca.CoreValues) > 0 {
		fmt.Fprintf(b, "Core values: %s\n", strings.Join(ca.CoreValues, ", "))
	}
	if ca.TalentProfile != "" {
		fmt.Fprintf(b, "Talent profile they hire for: %s\n", ca.TalentProfile)
	}
	if ca.BusinessFocus != "" {
		fmt.Fprintf(b, "Business focus: %s\n", ca.BusinessFocus)
	}
	if ca.RecentDirection != "" {
		fmt.Fprintf(b, "Recent direction: %s\n", ca.RecentDirection)
	}
	if ca.WritingAngle != "" {
		fmt.Fprintf(b, "Angle to take: %s\n", ca.WritingAngle)
	}
	b.WriteString("Echo these themes through concrete experience, never by quoting them verbatim.\n")
}

func writeKeywordStrategy(b *strings.Builder) {
	b.WriteString("Keyword strategy:\n")
	b.WriteString("Pick the strongest skill and domain terms from the requirements above and work each into the text exactly once, inside a sentence that proves usage rather than lists it.\n\n")
}

func writeExperienceSection(b *strings.Builder, experiences []model.Experience) {
	if len(experiences) == 0 {
		b.WriteString("Candidate background: none on file. Write from the posting alone and keep claims modest.\n")
		return
	}
	b.WriteString("Candidate background, pick only what serves this posting:\n")
	for i := range experiences {
		b.WriteString(formatExperience(&experiences[i]))
		b.WriteString("\n")
	}
}

func formatExperience(e *model.Experience) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Category, e.Title)
	if e.Period != "" {
		fmt.Fprintf(&b, " (%s)", e.Period)
	}
	b.WriteString("\n")
	b.WriteString(e.Description)
	if e.Skills != "" {
		fmt.Fprintf(&b, "\nSkills: %s", e.Skills)
	}
	b.WriteString("\n")
	return b.String()
}

// questionGuide returns extra instructions keyed off the question's intent.
func questionGuide(questionText string) string {
	switch {
	case containsAny(questionText, "입사 후", "입사후", "포부", "aspiration", "after joining", "goals"):
		return `Question intent: post-hire aspirations.
Anchor the answer in the company's actual roadmap, not generic ambition.
Lay out a near-term contribution and a longer-term growth direction, each
tied to a capability you already demonstrated.`
	case containsAny(questionText, "성장과정", "성장 과정", "가치관", "background", "values", "grew up"):
		return `Question intent: formative background and values.
Pick one formative episode and draw a straight line from it to how you work
today. No chronology dumps; the episode must foreshadow a strength the role
needs.`
	case containsAny(questionText, "지원동기", "지원 동기", "motivation", "why us", "why this company"):
		return `Question intent: motivation for applying.
Name something specific about this company that generic competitors lack,
and connect it to a direction you were already moving in. Admiration without
evidence of fit reads as flattery.`
	default:
		return `Question intent: open.
Answer the question literally and completely before adding color. The first
sentence must already contain the substance of the answer.`
	}
}

func containsAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
