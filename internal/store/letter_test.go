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

var _ = Describe("letter store", Ordered, func() {
	var (
		s         store.Store
		gormdb    *gorm.DB
		postingID uuid.UUID
	)

	BeforeAll(func() {
		gormdb = setupTestDB()
		s = store.NewStore(gormdb)
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		postingID = uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertPostingStm, postingID, "https://jobs.example.com/"+postingID.String(), "reviewing"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM cover_letters;")
		gormdb.Exec("DELETE FROM postings;")
	})

	Context("version sequencing", func() {
		It("assigns contiguous versions starting at 1", func() {
			for i := 1; i <= 3; i++ {
				letter, err := s.Letter().Create(context.TODO(), model.CoverLetter{
					PostingID:    postingID,
					QuestionSlot: 1,
					Content:      fmt.Sprintf("draft %d", i),
				})
				Expect(err).To(BeNil())
				Expect(letter.Version).To(Equal(i))
			}
		})

		It("ignores a caller-supplied version", func() {
			letter, err := s.Letter().Create(context.TODO(), model.CoverLetter{
				PostingID:    postingID,
				QuestionSlot: 1,
				Content:      "draft",
				Version:      42,
			})
			Expect(err).To(BeNil())
			Expect(letter.Version).To(Equal(1))
		})

		It("sequences each question slot independently", func() {
			first, err := s.Letter().Create(context.TODO(), model.CoverLetter{
				PostingID: postingID, QuestionSlot: 1, Content: "q1 v1",
			})
			Expect(err).To(BeNil())
			Expect(first.Version).To(Equal(1))

			second, err := s.Letter().Create(context.TODO(), model.CoverLetter{
				PostingID: postingID, QuestionSlot: 1, Content: "q1 v2",
			})
			Expect(err).To(BeNil())
			Expect(second.Version).To(Equal(2))

			other, err := s.Letter().Create(context.TODO(), model.CoverLetter{
				PostingID: postingID, QuestionSlot: 2, Content: "q2 v1",
			})
			Expect(err).To(BeNil())
			Expect(other.Version).To(Equal(1))
		})
	})

	Context("lineage and listing", func() {
		It("returns a lineage oldest first", func() {
			for i := 0; i < 3; i++ {
				_, err := s.Letter().Create(context.TODO(), model.CoverLetter{
					PostingID: postingID, QuestionSlot: 1, Content: fmt.Sprintf("v%d", i+1),
				})
				Expect(err).To(BeNil())
			}

			lineage, err := s.Letter().Lineage(context.TODO(), postingID, 1)
			Expect(err).To(BeNil())
			Expect(lineage).To(HaveLen(3))
			Expect(lineage[0].Version).To(Equal(1))
			Expect(lineage[2].Version).To(Equal(3))
		})

		It("lists all letters of a posting grouped by slot", func() {
			_, err := s.Letter().Create(context.TODO(), model.CoverLetter{PostingID: postingID, QuestionSlot: 2, Content: "q2"})
			Expect(err).To(BeNil())
			_, err = s.Letter().Create(context.TODO(), model.CoverLetter{PostingID: postingID, QuestionSlot: 1, Content: "q1 v1"})
			Expect(err).To(BeNil())
			_, err = s.Letter().Create(context.TODO(), model.CoverLetter{PostingID: postingID, QuestionSlot: 1, Content: "q1 v2"})
			Expect(err).To(BeNil())

			letters, err := s.Letter().ListByPosting(context.TODO(), postingID)
			Expect(err).To(BeNil())
			Expect(letters).To(HaveLen(3))
			Expect(letters[0].QuestionSlot).To(Equal(1))
			Expect(letters[1].Version).To(Equal(2))
			Expect(letters[2].QuestionSlot).To(Equal(2))

			latest := letters.LatestPerQuestion()
			Expect(latest).To(HaveLen(2))
			Expect(latest[0].Content).To(Equal("q1 v2"))
		})
	})

	Context("review attachment", func() {
		It("attaches feedback and score to the critiqued row", func() {
			letter, err := s.Letter().Create(context.TODO(), model.CoverLetter{
				PostingID: postingID, QuestionSlot: 1, Content: "draft",
			})
			Expect(err).To(BeNil())
			Expect(letter.ReviewScore).To(BeNil())

			updated, err := s.Letter().AttachReview(context.TODO(), letter.ID, `{"scores":{}}`, 87)
			Expect(err).To(BeNil())
			Expect(updated.ReviewScore).ToNot(BeNil())
			Expect(*updated.ReviewScore).To(Equal(87))

			stored, err := s.Letter().Get(context.TODO(), letter.ID)
			Expect(err).To(BeNil())
			Expect(*stored.Feedback).To(Equal(`{"scores":{}}`))
			Expect(*stored.ReviewScore).To(Equal(87))
			Expect(stored.Content).To(Equal("draft"))
			Expect(stored.Version).To(Equal(1))
		})

		It("fails for a missing letter", func() {
			_, err := s.Letter().AttachReview(context.TODO(), 9999, "fb", 50)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("get", func() {
		It("returns not found for a missing letter", func() {
			_, err := s.Letter().Get(context.TODO(), 12345)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
