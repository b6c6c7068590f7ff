package crawler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// crawlWanted probes the wanted.co.kr Next.js payload. The page embeds the
// posting as JSON inside the __NEXT_DATA__ script tag; HTML parsing is only
// a fallback when the payload is absent or unreadable.
func (c *HTTPCrawler) crawlWanted(doc *goquery.Document, url string) (*JobInfo, error) {
	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		c.logger.Warnw("wanted __NEXT_DATA__ script tag not found, falling back to html parsing", "url", url)
		return c.crawlGeneric(doc), nil
	}

	var root any
	if err := json.Unmarshal([]byte(script.Text()), &root); err != nil {
		c.logger.Warnw("wanted __NEXT_DATA__ payload unreadable, falling back to html parsing", "url", url, "error", err)
		return c.crawlGeneric(doc), nil
	}

	jobDetail := findWantedJobDetail(newNode(root))
	if jobDetail.missing() {
		c.logger.Warnw("wanted payload has no job detail, falling back to html parsing", "url", url)
		return c.crawlGeneric(doc), nil
	}

	companyName := firstText(jobDetail.path("company", "name"), jobDetail.path("company_name"))
	description := firstText(jobDetail.path("position"), jobDetail.path("detail", "main_tasks"))
	requirements := firstText(jobDetail.path("detail", "requirements"), jobDetail.path("detail", "intro"))
	deadline := firstText(jobDetail.path("due_time"), jobDetail.path("end_at"))

	// A thin position line is enriched with the detail sections
	if len(description) < 50 {
		var sb strings.Builder
		appendSection(&sb, jobDetail, "main_tasks", "Main tasks")
		appendSection(&sb, jobDetail, "intro", "About")
		appendSection(&sb, jobDetail, "preferred_points", "Preferred")
		if sb.Len() > 0 {
			description = sb.String()
		}
	}

	return &JobInfo{
		CompanyName:  companyName,
		Description:  description,
		Requirements: requirements,
		Deadline:     deadline,
		Open:         isWantedJobActive(jobDetail, deadline),
		// wanted postings carry no essay questions
		Questions: nil,
	}, nil
}

func findWantedJobDetail(root node) node {
	if detail := root.path("props", "pageProps", "job"); !detail.missing() {
		return detail
	}
	if detail := root.path("props", "pageProps", "jobDetail"); !detail.missing() {
		return detail
	}
	// React Query cache path
	for _, query := range root.path("props", "pageProps", "dehydratedState", "queries").array() {
		state := query.path("state", "data")
		if state.has("company") || state.has("company_name") || state.has("position") {
			return state
		}
	}
	return node{}
}

func isWantedJobActive(jobDetail node, deadline string) bool {
	if status := jobDetail.path("status").text(); status != "" {
		return strings.EqualFold(status, "active") || strings.EqualFold(status, "open")
	}

	if isClosed := jobDetail.path("is_closed"); !isClosed.missing() {
		return !isClosed.boolean(false)
	}

	if !deadlineExpired(deadline) {
		return true
	}
	return false
}

// deadlineExpired parses the leading date of a deadline string; an
// unparseable deadline is treated as still open.
func deadlineExpired(deadline string) bool {
	if len(deadline) < 10 {
		return false
	}
	due, err := time.Parse("2006-01-02", deadline[:10])
	if err != nil {
		return false
	}
	today := time.Now().Truncate(24 * time.Hour)
	return due.Before(today)
}

func appendSection(sb *strings.Builder, jobDetail node, field, label string) {
	if value := jobDetail.path("detail", field).text(); value != "" {
		fmt.Fprintf(sb, "[%s]\n%s\n\n", label, value)
	}
}
