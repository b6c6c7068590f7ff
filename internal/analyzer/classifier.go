// Package analyzer classifies a company from its posting text and, when a
// high-fidelity model is available, produces a deeper company analysis that
// the prompt layer folds into generation.
package analyzer

import (
	"strings"

	"github.com/careerkit/career-assistant/internal/store/model"
)

var classifierKeywords = []struct {
	companyType model.CompanyType
	keywords    []string
}{
	{model.CompanyTypeFinance, []string{
		"은행", "금융", "증권", "보험", "카드", "캐피탈", "저축은행", "자산운용",
		"bank", "finance", "financial", "securities", "insurance", "fintech", "payments",
	}},
	{model.CompanyTypeEnterprise, []string{
		"대기업", "그룹", "계열사", "글로벌", "상장", "공채",
		"삼성", "현대", "lg전자", "sk하이닉스", "sk텔레콤", "롯데", "포스코", "한화",
		"enterprise", "fortune", "conglomerate", "multinational",
	}},
	{model.CompanyTypeStartup, []string{
		"스타트업", "시리즈", "투자유치", "초기 멤버", "유니콘", "빠른 성장",
		"startup", "seed", "series a", "series b", "early-stage", "founding",
	}},
	{model.CompanyTypeMidIT, []string{
		"it서비스", "솔루션", "플랫폼", "에이전시", "si", "중견",
		"software house", "saas", "agency", "solutions",
	}},
}

// Classify tags a company from posting text with keyword matching. The first
// matching class in priority order wins; finance outranks enterprise so that
// a bank inside a conglomerate is still routed as finance.
func Classify(companyName, description, requirements string) model.CompanyType {
	haystack := strings.ToLower(companyName + "\n" + description + "\n" + requirements)
	for _, entry := range classifierKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(haystack, kw) {
				return entry.companyType
			}
		}
	}
	return model.CompanyTypeUnknown
}
