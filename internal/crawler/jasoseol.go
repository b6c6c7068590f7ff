package crawler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// essayQuestionPattern matches numbered essay questions with a character
// limit, e.g. "1. Why do you want to join us (800자)".
var essayQuestionPattern = regexp.MustCompile(`(\d+)\.\s*(.+?)\s*[\(（](\d+)자[\)）]`)

// crawlJasoseol extracts posting context from jasoseol.com pages, which
// carry essay questions. Probes run in order: JSON-LD, og tags, the
// __NEXT_DATA__ payload, then a regex sweep over the page body.
func (c *HTTPCrawler) crawlJasoseol(doc *goquery.Document, url string) (*JobInfo, error) {
	var companyName, description, deadline string
	var questions []EssayQuestion

	// JSON-LD (schema.org/JobPosting) first
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var root any
		if err := json.Unmarshal([]byte(s.Text()), &root); err != nil {
			return
		}
		ld := newNode(root)
		if ld.path("@type").text() != "JobPosting" {
			return
		}
		if companyName == "" {
			companyName = ld.path("hiringOrganization", "name").text()
		}
		if description == "" {
			description = ld.path("description").text()
		}
		// validThrough is the deadline; datePosted is the publish date
		if validThrough := ld.path("validThrough").text(); validThrough != "" {
			deadline = validThrough
		}
	})

	// og:title carries the company name as "<company> 채용공고 - ..."
	if companyName == "" {
		ogTitle, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
		if idx := strings.Index(ogTitle, "채용공고"); idx > 0 {
			companyName = strings.TrimSpace(ogTitle[:idx])
		}
	}

	// __NEXT_DATA__ payload
	if script := doc.Find("script#__NEXT_DATA__").First(); script.Length() > 0 {
		var root any
		if err := json.Unmarshal([]byte(script.Text()), &root); err == nil {
			pageProps := newNode(root).path("props", "pageProps")

			company := pageProps.path("initialEmploymentCompany")
			if !company.missing() {
				if companyName == "" {
					companyName = company.path("name").text()
				}
				if enriched := buildJasoseolCompanyInfo(company); enriched != "" {
					description = enriched
				}
			}

			questions = extractQuestionsFromPayload(pageProps)
		}
	}

	if len(questions) == 0 {
		questions = extractQuestionsFromHTML(doc)
	}

	if companyName == "" {
		title := doc.Find("title").First().Text()
		if idx := strings.Index(title, "채용공고"); idx > 0 {
			companyName = strings.TrimSpace(title[:idx])
		} else {
			companyName = strings.TrimSpace(title)
		}
	}

	if description == "" {
		description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	}
	if description == "" {
		description, _ = doc.Find(`meta[name="description"]`).Attr("content")
	}
	if description == "" {
		body := strings.TrimSpace(doc.Find("body").Text())
		if len(body) > 3000 {
			body = body[:3000]
		}
		description = body
	}

	if deadline != "" && deadlineExpired(deadline) {
		return nil, &SourceUnavailableError{URL: url, Reason: fmt.Sprintf("posting is closed (deadline %s)", deadline)}
	}

	return &JobInfo{
		CompanyName: companyName,
		Description: description,
		Deadline:    deadline,
		Open:        true,
		Questions:   questions,
	}, nil
}

func buildJasoseolCompanyInfo(company node) string {
	var sb strings.Builder

	if about := firstText(company.path("description"), company.path("about")); about != "" {
		fmt.Fprintf(&sb, "[About]\n%s\n\n", about)
	}
	if industry := firstText(company.path("industry"), company.path("industry_name")); industry != "" {
		fmt.Fprintf(&sb, "[Industry] %s\n\n", industry)
	}
	if homepage := firstText(company.path("homepage"), company.path("website")); homepage != "" {
		fmt.Fprintf(&sb, "[Homepage] %s\n\n", homepage)
	}

	if employments := company.path("employments").array(); len(employments) > 0 {
		emp := employments[0]
		if field := emp.path("field").text(); field != "" {
			fmt.Fprintf(&sb, "[Field] %s\n", field)
		}
		if position := firstText(emp.path("title"), emp.path("position_name")); position != "" {
			fmt.Fprintf(&sb, "[Position] %s\n", position)
		}
		if department := emp.path("department").text(); department != "" {
			fmt.Fprintf(&sb, "[Department] %s\n", department)
		}
		if careerType := emp.path("career_type").text(); careerType != "" {
			fmt.Fprintf(&sb, "[Career level] %s\n", careerType)
		}
	}

	return sb.String()
}

// extractQuestionsFromPayload searches the known payload paths for the essay
// question array.
func extractQuestionsFromPayload(pageProps node) []EssayQuestion {
	candidatePaths := []string{
		"essayQuestions", "essay_questions", "questions",
		"selfIntroductionQuestions", "self_introduction_questions",
	}

	for _, path := range candidatePaths {
		if questions := parseQuestionsArray(pageProps.path(path)); len(questions) > 0 {
			return questions
		}
	}

	parentPaths := []string{"initialEmployment", "employment", "jobPosting", "recruit"}
	for _, parent := range parentPaths {
		parentNode := pageProps.path(parent)
		if parentNode.missing() {
			continue
		}
		for _, path := range candidatePaths {
			if questions := parseQuestionsArray(parentNode.path(path)); len(questions) > 0 {
				return questions
			}
		}
	}

	return nil
}

func parseQuestionsArray(questionsNode node) []EssayQuestion {
	var questions []EssayQuestion
	index := 1
	for _, q := range questionsNode.array() {
		text := firstText(q.path("question"), q.path("title"), q.path("questionText"), q.path("content"))
		if text == "" {
			continue
		}
		charLimit := firstInt(0, q.path("charLimit"), q.path("char_limit"), q.path("maxLength"), q.path("max_length"))
		number := firstInt(index, q.path("number"), q.path("order"))

		questions = append(questions, EssayQuestion{
			Number:    number,
			Text:      strings.TrimSpace(text),
			CharLimit: charLimit,
		})
		index++
	}
	return questions
}

// extractQuestionsFromHTML is the regex fallback over the rendered page body.
func extractQuestionsFromHTML(doc *goquery.Document) []EssayQuestion {
	body := doc.Find("body").Text()
	matches := essayQuestionPattern.FindAllStringSubmatch(body, -1)

	var questions []EssayQuestion
	for _, m := range matches {
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		charLimit, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		questions = append(questions, EssayQuestion{
			Number:    number,
			Text:      strings.TrimSpace(m[2]),
			CharLimit: charLimit,
		})
	}
	return questions
}
