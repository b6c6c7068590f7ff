package crawler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// EssayQuestion is one discrete cover-letter question on a posting.
type EssayQuestion struct {
	Number    int    `json:"number"`
	Text      string `json:"text"`
	CharLimit int    `json:"charLimit"`
}

// JobInfo is the context acquired from one posting page.
type JobInfo struct {
	CompanyName  string
	Description  string
	Requirements string
	Deadline     string
	Open         bool
	Questions    []EssayQuestion
}

// Crawler acquires posting context from a source URL. The call may fail with
// SourceUnavailableError on network or parse failure, or when the posting is
// closed.
type Crawler interface {
	Crawl(ctx context.Context, url string) (*JobInfo, error)
}

// SourceUnavailableError means the posting context could not be acquired.
// It is fatal to the enclosing pipeline run.
type SourceUnavailableError struct {
	URL    string
	Reason string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source unavailable (%s): %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("source unavailable (%s): %s", e.URL, e.Reason)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// HTTPCrawler fetches posting pages over HTTP and extracts context with
// site-specific probes plus a generic HTML fallback.
type HTTPCrawler struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.SugaredLogger
}

// Make sure we conform to Crawler interface
var _ Crawler = (*HTTPCrawler)(nil)

func NewHTTPCrawler(userAgent string, timeout time.Duration) *HTTPCrawler {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPCrawler{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		logger:     zap.S().Named("crawler"),
	}
}

func (c *HTTPCrawler) Crawl(ctx context.Context, url string) (*JobInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &SourceUnavailableError{URL: url, Reason: "invalid url", Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SourceUnavailableError{URL: url, Reason: "failed to fetch posting page", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceUnavailableError{URL: url, Reason: fmt.Sprintf("unexpected status code %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &SourceUnavailableError{URL: url, Reason: "failed to parse posting page", Err: err}
	}

	var info *JobInfo
	switch {
	case strings.Contains(url, "wanted.co.kr"):
		info, err = c.crawlWanted(doc, url)
	case strings.Contains(url, "jasoseol.com"):
		info, err = c.crawlJasoseol(doc, url)
	default:
		info = c.crawlGeneric(doc)
	}
	if err != nil {
		return nil, err
	}

	if !info.Open {
		return nil, &SourceUnavailableError{URL: url, Reason: fmt.Sprintf("posting is closed (deadline %s)", info.Deadline)}
	}

	c.logger.Infow("crawl succeeded",
		"url", url,
		"company", info.CompanyName,
		"deadline", info.Deadline,
		"questions", len(info.Questions),
	)
	return info, nil
}

// crawlGeneric extracts posting context from plain HTML without any
// site-specific knowledge.
func (c *HTTPCrawler) crawlGeneric(doc *goquery.Document) *JobInfo {
	return &JobInfo{
		CompanyName:  extractCompanyName(doc),
		Description:  extractDescription(doc),
		Requirements: extractRequirements(doc),
		Open:         true,
		Questions:    extractQuestionsFromHTML(doc),
	}
}

func extractCompanyName(doc *goquery.Document) string {
	if og, exists := doc.Find(`meta[property="og:site_name"]`).Attr("content"); exists && og != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractDescription(doc *goquery.Document) string {
	if og, exists := doc.Find(`meta[property="og:description"]`).Attr("content"); exists && og != "" {
		return strings.TrimSpace(og)
	}
	if meta, exists := doc.Find(`meta[name="description"]`).Attr("content"); exists && meta != "" {
		return strings.TrimSpace(meta)
	}
	body := strings.TrimSpace(doc.Find("body").Text())
	if len(body) > 3000 {
		return body[:3000]
	}
	return body
}

func extractRequirements(doc *goquery.Document) string {
	var requirements []string
	doc.Find("section, div, ul").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		heading := strings.ToLower(s.Find("h2, h3, strong").First().Text())
		if strings.Contains(heading, "자격요건") || strings.Contains(heading, "requirements") || strings.Contains(heading, "qualifications") {
			requirements = append(requirements, strings.TrimSpace(s.Text()))
			return false
		}
		return true
	})
	return strings.Join(requirements, "\n")
}
