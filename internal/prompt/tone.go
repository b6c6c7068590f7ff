package prompt

import (
	"github.com/careerkit/career-assistant/internal/store/model"
)

// resolveTone returns the writing-tone instruction for a company
// classification.
func resolveTone(companyType model.CompanyType) string {
	switch companyType {
	case model.CompanyTypeEnterprise:
		return `Steady but not stiff. Show experience with structured processes and
cross-team collaboration; frame results at the team level while keeping your
own contribution sharply visible. Read as someone who understands the scale,
decision structures and process discipline of a large organization.`

	case model.CompanyTypeFinance:
		return `Precise and trustworthy. Argue from data and numbers. Let awareness of
risk, compliance and careful verification come through naturally. Read as
someone who understands the regulatory environment and security sensitivity
of finance, and who balances stability with innovation.`

	case model.CompanyTypeStartup:
		return `Honest and energetic. Center experiences where you defined and solved
problems yourself. Show multi-role range, fast execution and judgment under
uncertainty. Read as someone who finds work rather than waits for it, ready
to grow with a growing organization.`

	default: // mid-size IT and unknown
		return `Plain and practice-oriented. Weave the tech stack naturally into
sentences. What problem you solved and how is the core; cut decorative
adjectives. Read as someone deployable to real work from day one, with both
technical depth and business understanding.`
	}
}
