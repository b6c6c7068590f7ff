package pipeline_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/careerkit/career-assistant/internal/ai"
	"github.com/careerkit/career-assistant/internal/crawler"
	"github.com/careerkit/career-assistant/internal/pipeline"
	"github.com/careerkit/career-assistant/internal/review"
	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/internal/store/model"
)

type mockCrawler struct {
	info  *crawler.JobInfo
	err   error
	calls int
}

func (m *mockCrawler) Crawl(ctx context.Context, url string) (*crawler.JobInfo, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

type mockAnalyzer struct {
	analysis string
	err      error
	calls    int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, posting *model.Posting) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.analysis, nil
}

// mockReviewer hands out scripted scores indexed by iteration. A per-question
// script in scoresByQ overrides the shared one, so lineages can converge at
// different iterations.
type mockReviewer struct {
	scores    []int
	scoresByQ map[string][]int
	err       error
	callsByQ  map[string]int
	lastDraft string
}

func newMockReviewer(scores ...int) *mockReviewer {
	return &mockReviewer{scores: scores, callsByQ: make(map[string]int)}
}

func (m *mockReviewer) Assess(ctx context.Context, draft string, posting *model.Posting, questionText string, iteration int) (review.Result, error) {
	m.lastDraft = draft
	m.callsByQ[questionText]++
	if m.err != nil {
		return review.Result{}, m.err
	}

	script := m.scores
	if perQ, ok := m.scoresByQ[questionText]; ok {
		script = perQ
	}
	idx := iteration - 1
	if idx >= len(script) {
		idx = len(script) - 1
	}
	score := script[idx]
	return review.Result{
		TotalScore:     score,
		Grade:          review.Grade(score),
		Violations:     []string{"too generic"},
		Improvements:   []string{"add numbers"},
		OverallComment: "scripted critique",
		RawJSON:        fmt.Sprintf(`{"total":%d}`, score),
	}, nil
}

type mockWriter struct {
	calls  int
	failAt int // 1-based call number to fail on, 0 never
}

func (m *mockWriter) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.failAt != 0 && m.calls >= m.failAt {
		return "", ai.NewCapabilityError(ai.TierFast, errors.New("model down"))
	}
	return fmt.Sprintf("draft-%d", m.calls), nil
}

func (m *mockWriter) GenerateWithSystem(ctx context.Context, systemPrompt, prompt string) (string, error) {
	return m.Generate(ctx, prompt)
}

func (m *mockWriter) Model() string { return "mock-writer" }
func (m *mockWriter) Tier() ai.Tier { return ai.TierFast }

func classifyStartup(string, string, string) model.CompanyType { return model.CompanyTypeStartup }

var _ = Describe("pipeline", Ordered, func() {
	var (
		gormdb *gorm.DB
		s      store.Store
	)

	twoQuestions := []crawler.EssayQuestion{
		{Number: 1, Text: "지원동기", CharLimit: 800},
		{Number: 2, Text: "성장과정", CharLimit: 1000},
	}

	jobInfo := func(questions []crawler.EssayQuestion) *crawler.JobInfo {
		return &crawler.JobInfo{
			CompanyName:  "Acme",
			Description:  "backend role",
			Requirements: "Go",
			Open:         true,
			Questions:    questions,
		}
	}

	newPipeline := func(cr *mockCrawler, an *mockAnalyzer, rv *mockReviewer, writer *mockWriter) *pipeline.Pipeline {
		return pipeline.New(s, cr, classifyStartup, an, rv, ai.NewRouter(writer, writer))
	}

	BeforeAll(func() {
		gormdb = setupTestDB()
		s = store.NewStore(gormdb)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM cover_letters;")
		gormdb.Exec("DELETE FROM postings;")
		gormdb.Exec("DELETE FROM experiences;")
	})

	Context("happy path", func() {
		It("finalizes a posting with one passing letter per question", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions)}
			rv := newMockReviewer(90)
			writer := &mockWriter{}
			p := newPipeline(cr, &mockAnalyzer{analysis: `{"core_values":["speed"]}`}, rv, writer)

			result, err := p.Run(context.TODO(), "https://jobs.example.com/ok")
			Expect(err).To(BeNil())
			Expect(result.Posting.Status).To(Equal(model.StatusFinalized))
			Expect(result.Posting.CompanyType).To(Equal(model.CompanyTypeStartup))
			Expect(result.Letters).To(HaveLen(2))

			// one draft per question, each critiqued once
			Expect(writer.calls).To(Equal(2))
			Expect(rv.callsByQ["지원동기"]).To(Equal(1))
			Expect(rv.callsByQ["성장과정"]).To(Equal(1))

			for _, letter := range result.Letters {
				Expect(letter.Version).To(Equal(1))
				Expect(letter.ReviewScore).ToNot(BeNil())
				Expect(*letter.ReviewScore).To(Equal(90))
				Expect(letter.AiModel).To(Equal("mock-writer"))
			}

			stored, err := s.Posting().GetByURL(context.TODO(), "https://jobs.example.com/ok")
			Expect(err).To(BeNil())
			Expect(stored.CompanyAnalysis).To(Equal(`{"core_values":["speed"]}`))
			Expect(stored.QuestionsJSON).To(ContainSubstring("지원동기"))
		})

		It("writes a single synthetic lineage when the posting has no questions", func() {
			cr := &mockCrawler{info: jobInfo(nil)}
			p := newPipeline(cr, &mockAnalyzer{}, newMockReviewer(90), &mockWriter{})

			result, err := p.Run(context.TODO(), "https://jobs.example.com/noq")
			Expect(err).To(BeNil())
			Expect(result.Letters).To(HaveLen(1))
			Expect(result.Letters[0].QuestionSlot).To(Equal(model.NoQuestionSlot))
		})
	})

	Context("critique loop", func() {
		It("revises until the score passes the threshold", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions[:1])}
			rv := newMockReviewer(70, 90)
			writer := &mockWriter{}
			p := newPipeline(cr, &mockAnalyzer{}, rv, writer)

			result, err := p.Run(context.TODO(), "https://jobs.example.com/converge")
			Expect(err).To(BeNil())

			lineage, err := s.Letter().Lineage(context.TODO(), result.Posting.ID, 1)
			Expect(err).To(BeNil())
			Expect(lineage).To(HaveLen(2))
			Expect(*lineage[0].ReviewScore).To(Equal(70))
			Expect(*lineage[1].ReviewScore).To(Equal(90))

			Expect(result.Letters[0].Version).To(Equal(2))
			Expect(writer.calls).To(Equal(2))
			Expect(rv.callsByQ["지원동기"]).To(Equal(2))
		})

		It("stops at the iteration cap when no draft ever passes", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions[:1])}
			rv := newMockReviewer(60)
			writer := &mockWriter{}
			p := newPipeline(cr, &mockAnalyzer{}, rv, writer)

			result, err := p.Run(context.TODO(), "https://jobs.example.com/cap")
			Expect(err).To(BeNil())
			Expect(result.Posting.Status).To(Equal(model.StatusFinalized))

			lineage, err := s.Letter().Lineage(context.TODO(), result.Posting.ID, 1)
			Expect(err).To(BeNil())
			Expect(lineage).To(HaveLen(pipeline.MaxIterations))
			for i, letter := range lineage {
				Expect(letter.Version).To(Equal(i + 1))
				Expect(*letter.ReviewScore).To(Equal(60))
			}
			Expect(writer.calls).To(Equal(pipeline.MaxIterations))
			Expect(rv.callsByQ["지원동기"]).To(Equal(pipeline.MaxIterations))
		})

		It("converges each question independently", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions)}
			rv := newMockReviewer()
			rv.scoresByQ = map[string][]int{
				"지원동기": {90},
				"성장과정": {70, 88},
			}
			writer := &mockWriter{}
			p := newPipeline(cr, &mockAnalyzer{}, rv, writer)

			result, err := p.Run(context.TODO(), "https://jobs.example.com/perq")
			Expect(err).To(BeNil())
			Expect(result.Posting.Status).To(Equal(model.StatusFinalized))
			Expect(result.Letters).To(HaveLen(2))

			bySlot := map[int]model.CoverLetter{}
			for _, letter := range result.Letters {
				bySlot[letter.QuestionSlot] = letter
			}
			Expect(bySlot[1].Version).To(Equal(1))
			Expect(*bySlot[1].ReviewScore).To(Equal(90))
			Expect(bySlot[2].Version).To(Equal(2))
			Expect(*bySlot[2].ReviewScore).To(Equal(88))

			// question 1 settles on its first draft, question 2 needs one
			// revision
			Expect(rv.callsByQ["지원동기"]).To(Equal(1))
			Expect(rv.callsByQ["성장과정"]).To(Equal(2))
			Expect(writer.calls).To(Equal(3))
		})

		It("reviews the revised draft, not the original", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions[:1])}
			rv := newMockReviewer(70, 90)
			p := newPipeline(cr, &mockAnalyzer{}, rv, &mockWriter{})

			_, err := p.Run(context.TODO(), "https://jobs.example.com/revised")
			Expect(err).To(BeNil())
			Expect(rv.lastDraft).To(Equal("draft-2"))
		})
	})

	Context("failures", func() {
		It("marks the posting failed when the source is unavailable", func() {
			srcErr := &crawler.SourceUnavailableError{URL: "x", Reason: "closed"}
			cr := &mockCrawler{err: srcErr}
			p := newPipeline(cr, &mockAnalyzer{}, newMockReviewer(90), &mockWriter{})

			_, err := p.Run(context.TODO(), "https://jobs.example.com/closed")
			Expect(err).ToNot(BeNil())

			var unavailable *crawler.SourceUnavailableError
			Expect(errors.As(err, &unavailable)).To(BeTrue())

			posting, err := s.Posting().GetByURL(context.TODO(), "https://jobs.example.com/closed")
			Expect(err).To(BeNil())
			Expect(posting.Status).To(Equal(model.StatusFailed))
		})

		It("keeps the unreviewed draft when the critique call fails", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions[:1])}
			rv := newMockReviewer()
			rv.err = ai.NewCapabilityError(ai.TierHighFidelity, errors.New("quota"))
			p := newPipeline(cr, &mockAnalyzer{}, rv, &mockWriter{})

			result, err := p.Run(context.TODO(), "https://jobs.example.com/noreview")
			Expect(err).To(BeNil())
			Expect(result.Posting.Status).To(Equal(model.StatusFinalized))

			lineage, err := s.Letter().Lineage(context.TODO(), result.Posting.ID, 1)
			Expect(err).To(BeNil())
			Expect(lineage).To(HaveLen(1))
			Expect(lineage[0].ReviewScore).To(BeNil())
			Expect(lineage[0].Feedback).To(BeNil())
		})

		It("keeps the scored draft when a revision call fails", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions[:1])}
			rv := newMockReviewer(70)
			writer := &mockWriter{failAt: 2}
			p := newPipeline(cr, &mockAnalyzer{}, rv, writer)

			result, err := p.Run(context.TODO(), "https://jobs.example.com/midfail")
			Expect(err).To(BeNil())
			Expect(result.Posting.Status).To(Equal(model.StatusFinalized))

			lineage, err := s.Letter().Lineage(context.TODO(), result.Posting.ID, 1)
			Expect(err).To(BeNil())
			Expect(lineage).To(HaveLen(1))
			Expect(*lineage[0].ReviewScore).To(Equal(70))
		})

		It("fails the run when the initial draft cannot be generated", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions[:1])}
			writer := &mockWriter{failAt: 1}
			p := newPipeline(cr, &mockAnalyzer{}, newMockReviewer(90), writer)

			_, err := p.Run(context.TODO(), "https://jobs.example.com/nodraft")
			Expect(err).ToNot(BeNil())

			var capErr *ai.CapabilityError
			Expect(errors.As(err, &capErr)).To(BeTrue())

			posting, err := s.Posting().GetByURL(context.TODO(), "https://jobs.example.com/nodraft")
			Expect(err).To(BeNil())
			Expect(posting.Status).To(Equal(model.StatusFailed))
		})

		It("proceeds without a company analysis when the analyzer fails", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions[:1])}
			an := &mockAnalyzer{err: errors.New("analysis model down")}
			p := newPipeline(cr, an, newMockReviewer(90), &mockWriter{})

			result, err := p.Run(context.TODO(), "https://jobs.example.com/noanalysis")
			Expect(err).To(BeNil())
			Expect(result.Posting.Status).To(Equal(model.StatusFinalized))
			Expect(result.Posting.CompanyAnalysis).To(BeEmpty())
		})
	})

	Context("re-running a url", func() {
		It("is idempotent for a finalized posting", func() {
			cr := &mockCrawler{info: jobInfo(twoQuestions)}
			writer := &mockWriter{}
			p := newPipeline(cr, &mockAnalyzer{}, newMockReviewer(90), writer)

			first, err := p.Run(context.TODO(), "https://jobs.example.com/idem")
			Expect(err).To(BeNil())

			second, err := p.Run(context.TODO(), "https://jobs.example.com/idem")
			Expect(err).To(BeNil())
			Expect(second.Posting.ID).To(Equal(first.Posting.ID))
			Expect(second.Letters).To(HaveLen(2))

			// no new crawl, no new model call, no new version
			Expect(cr.calls).To(Equal(1))
			Expect(writer.calls).To(Equal(2))

			letters, err := s.Letter().ListByPosting(context.TODO(), first.Posting.ID)
			Expect(err).To(BeNil())
			Expect(letters).To(HaveLen(2))
		})

		It("rejects a url that previously failed", func() {
			cr := &mockCrawler{err: &crawler.SourceUnavailableError{URL: "x", Reason: "gone"}}
			p := newPipeline(cr, &mockAnalyzer{}, newMockReviewer(90), &mockWriter{})

			_, err := p.Run(context.TODO(), "https://jobs.example.com/deadrun")
			Expect(err).ToNot(BeNil())

			_, err = p.Run(context.TODO(), "https://jobs.example.com/deadrun")
			Expect(errors.Is(err, pipeline.ErrRunAlreadyFailed)).To(BeTrue())
		})

		It("returns stored letters for a stalled posting that already has artifacts", func() {
			postingID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000002")
			gormdb.Exec(fmt.Sprintf(
				"INSERT INTO postings (id, url, status) VALUES ('%s', 'https://jobs.example.com/stalled', 'reviewing');",
				postingID))
			_, err := s.Letter().Create(context.TODO(), model.CoverLetter{
				PostingID:    postingID,
				QuestionSlot: 1,
				QuestionText: "지원동기",
				AiModel:      "mock-writer",
				Content:      "orphaned draft",
			})
			Expect(err).To(BeNil())

			cr := &mockCrawler{info: jobInfo(nil)}
			p := newPipeline(cr, &mockAnalyzer{}, newMockReviewer(90), &mockWriter{})

			result, err := p.Run(context.TODO(), "https://jobs.example.com/stalled")
			Expect(err).To(BeNil())
			Expect(result.Letters).To(HaveLen(1))
			Expect(result.Letters[0].Content).To(Equal("orphaned draft"))
			Expect(cr.calls).To(Equal(0))
		})

		It("rejects a url whose run is still in progress", func() {
			gormdb.Exec(fmt.Sprintf(
				"INSERT INTO postings (id, url, status) VALUES ('%s', 'https://jobs.example.com/busy', 'reviewing');",
				"a1b2c3d4-0000-0000-0000-000000000001"))

			p := newPipeline(&mockCrawler{info: jobInfo(nil)}, &mockAnalyzer{}, newMockReviewer(90), &mockWriter{})
			_, err := p.Run(context.TODO(), "https://jobs.example.com/busy")
			Expect(errors.Is(err, pipeline.ErrRunInProgress)).To(BeTrue())
		})
	})
})
