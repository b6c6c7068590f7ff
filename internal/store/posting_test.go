package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/internal/store/model"
)

const insertPostingStm = "INSERT INTO postings (id, url, status) VALUES ('%s', '%s', '%s');"

var _ = Describe("posting store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

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
	})

	Context("create and get", func() {
		It("creates a posting and finds it by id and url", func() {
			created, err := s.Posting().Create(context.TODO(), model.Posting{
				ID:     uuid.New(),
				URL:    "https://jobs.example.com/1",
				Status: model.StatusFetched,
			})
			Expect(err).To(BeNil())

			byID, err := s.Posting().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(byID.URL).To(Equal("https://jobs.example.com/1"))

			byURL, err := s.Posting().GetByURL(context.TODO(), "https://jobs.example.com/1")
			Expect(err).To(BeNil())
			Expect(byURL.ID).To(Equal(created.ID))
		})

		It("rejects a duplicate url", func() {
			_, err := s.Posting().Create(context.TODO(), model.Posting{
				ID: uuid.New(), URL: "https://jobs.example.com/dup", Status: model.StatusFetched,
			})
			Expect(err).To(BeNil())

			_, err = s.Posting().Create(context.TODO(), model.Posting{
				ID: uuid.New(), URL: "https://jobs.example.com/dup", Status: model.StatusFetched,
			})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})

		It("returns not found for a missing posting", func() {
			_, err := s.Posting().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))

			_, err = s.Posting().GetByURL(context.TODO(), "https://nowhere.example.com")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("stage updates", func() {
		It("stores crawled info and advances to cleaned", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, id, "https://jobs.example.com/2", "fetched"))
			Expect(tx.Error).To(BeNil())

			_, err := s.Posting().UpdateCrawledInfo(context.TODO(), id, "Acme", "desc", "reqs", `[{"number":1}]`)
			Expect(err).To(BeNil())

			posting, err := s.Posting().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(posting.Status).To(Equal(model.StatusCleaned))
			Expect(posting.CompanyName).To(Equal("Acme"))
			Expect(posting.QuestionsJSON).To(Equal(`[{"number":1}]`))
			Expect(posting.UpdatedAt).ToNot(BeNil())
		})

		It("classifies and analyzes in order", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, id, "https://jobs.example.com/3", "cleaned"))
			Expect(tx.Error).To(BeNil())

			_, err := s.Posting().UpdateClassification(context.TODO(), id, model.CompanyTypeFinance)
			Expect(err).To(BeNil())

			_, err = s.Posting().UpdateAnalysis(context.TODO(), id, `{"core_values":["trust"]}`)
			Expect(err).To(BeNil())

			posting, err := s.Posting().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(posting.Status).To(Equal(model.StatusAnalyzed))
			Expect(posting.CompanyType).To(Equal(model.CompanyTypeFinance))
		})

		It("rejects a backward transition", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, id, "https://jobs.example.com/4", "reviewing"))
			Expect(tx.Error).To(BeNil())

			_, err := s.Posting().UpdateCrawledInfo(context.TODO(), id, "Acme", "d", "r", "[]")
			Expect(err).To(MatchError(store.ErrInvalidTransition))
		})

		It("rejects any update of a terminal posting", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, id, "https://jobs.example.com/5", "finalized"))
			Expect(tx.Error).To(BeNil())

			_, err := s.Posting().UpdateStatus(context.TODO(), id, model.StatusFailed)
			Expect(err).To(MatchError(store.ErrInvalidTransition))
		})

		It("allows failing from any non-terminal status", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, id, "https://jobs.example.com/6", "classified"))
			Expect(tx.Error).To(BeNil())

			posting, err := s.Posting().UpdateStatus(context.TODO(), id, model.StatusFailed)
			Expect(err).To(BeNil())
			Expect(posting).ToNot(BeNil())
		})

		It("allows skipping the analyzed stage", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, id, "https://jobs.example.com/7", "classified"))
			Expect(tx.Error).To(BeNil())

			_, err := s.Posting().UpdateStatus(context.TODO(), id, model.StatusReviewing)
			Expect(err).To(BeNil())
		})
	})

	Context("list", func() {
		It("filters by status", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, uuid.New(), "https://jobs.example.com/8", "finalized"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertPostingStm, uuid.New(), "https://jobs.example.com/9", "failed"))
			Expect(tx.Error).To(BeNil())

			postings, err := s.Posting().List(context.TODO(), store.NewPostingQueryFilter().ByStatus("finalized"))
			Expect(err).To(BeNil())
			Expect(postings).To(HaveLen(1))
			Expect(postings[0].Status).To(Equal(model.StatusFinalized))
		})

		It("filters by company name", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, id, "https://jobs.example.com/10", "fetched"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf("UPDATE postings SET company_name = 'Acme Bank' WHERE id = '%s';", id))
			Expect(tx.Error).To(BeNil())

			postings, err := s.Posting().List(context.TODO(), store.NewPostingQueryFilter().ByCompanyNameLike("Bank"))
			Expect(err).To(BeNil())
			Expect(postings).To(HaveLen(1))
		})
	})

	Context("delete", func() {
		It("removes the posting and cascades to its letters", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, id, "https://jobs.example.com/11", "finalized"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(
				"INSERT INTO cover_letters (posting_id, question_slot, content, version) VALUES ('%s', 1, 'text', 1);", id))
			Expect(tx.Error).To(BeNil())

			Expect(s.Posting().Delete(context.TODO(), id)).To(Succeed())

			_, err := s.Posting().Get(context.TODO(), id)
			Expect(err).To(MatchError(store.ErrRecordNotFound))

			var count int64
			gormdb.Table("cover_letters").Where("posting_id = ?", id).Count(&count)
			Expect(count).To(BeZero())
		})
	})
})
