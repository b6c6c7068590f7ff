package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/internal/store/model"
)

var _ = Describe("transaction context", Ordered, func() {
	var (
		gormdb *gorm.DB
		s      store.Store
	)

	BeforeAll(func() {
		gormdb = setupTestDB()
		s = store.NewStore(gormdb)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM experiences;")
	})

	It("discards writes on rollback", func() {
		txCtx, err := s.NewTransactionContext(context.TODO())
		Expect(err).To(BeNil())

		_, err = s.Experience().Create(txCtx, model.Experience{Title: "internship"})
		Expect(err).To(BeNil())

		_, err = store.Rollback(txCtx)
		Expect(err).To(BeNil())

		experiences, err := s.Experience().List(context.TODO(), nil)
		Expect(err).To(BeNil())
		Expect(experiences).To(BeEmpty())
	})

	It("persists writes on commit", func() {
		txCtx, err := s.NewTransactionContext(context.TODO())
		Expect(err).To(BeNil())

		_, err = s.Experience().Create(txCtx, model.Experience{Title: "side project"})
		Expect(err).To(BeNil())

		// invisible outside the transaction until commit
		experiences, err := s.Experience().List(context.TODO(), nil)
		Expect(err).To(BeNil())
		Expect(experiences).To(BeEmpty())

		_, err = store.Commit(txCtx)
		Expect(err).To(BeNil())

		experiences, err = s.Experience().List(context.TODO(), nil)
		Expect(err).To(BeNil())
		Expect(experiences).To(HaveLen(1))
		Expect(experiences[0].Title).To(Equal("side project"))
	})

	It("reuses an ongoing transaction instead of nesting", func() {
		txCtx, err := s.NewTransactionContext(context.TODO())
		Expect(err).To(BeNil())

		inner, err := s.NewTransactionContext(txCtx)
		Expect(err).To(BeNil())

		_, err = s.Experience().Create(inner, model.Experience{Title: "mentoring"})
		Expect(err).To(BeNil())

		_, err = store.Rollback(txCtx)
		Expect(err).To(BeNil())

		experiences, err := s.Experience().List(context.TODO(), nil)
		Expect(err).To(BeNil())
		Expect(experiences).To(BeEmpty())
	})
})
