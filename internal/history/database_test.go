package history

import (
	"fmt"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/receipt-reconciler/internal/matching"
)

var _ = Describe("BoltDB", func() {
	var db *BoltDB

	newRun := func(id string, at time.Time) *MatchRun {
		return &MatchRun{
			ID:        id,
			CreatedAt: at,
			Report: matching.Report{
				TotalTransactions: 2,
				Matched:           1,
				Unmatched:         1,
				MatchRate:         50,
			},
		}
	}

	BeforeEach(func() {
		var err error
		db, err = NewBoltDB(filepath.Join(GinkgoT().TempDir(), "history.db"), 3)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		db.Close()
	})

	Describe("SaveRun and GetRun", func() {
		It("round-trips a run", func() {
			run := newRun("run-1", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
			Expect(db.SaveRun(run)).To(Succeed())

			got, err := db.GetRun("run-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal("run-1"))
			Expect(got.CreatedAt).To(BeTemporally("==", run.CreatedAt))
			Expect(got.Report.Matched).To(Equal(1))
		})

		It("errors on an unknown ID", func() {
			_, err := db.GetRun("nope")
			Expect(err).To(MatchError(ContainSubstring("not found")))
		})
	})

	Describe("ListRuns", func() {
		It("returns runs newest first", func() {
			base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 3; i++ {
				run := newRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))
				Expect(db.SaveRun(run)).To(Succeed())
			}

			runs, err := db.ListRuns()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(3))
			Expect(runs[0].ID).To(Equal("run-2"))
			Expect(runs[2].ID).To(Equal("run-0"))
		})

		It("returns an empty list for a fresh database", func() {
			runs, err := db.ListRuns()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(BeEmpty())
		})
	})

	Describe("retention", func() {
		It("trims the oldest runs beyond the retention count", func() {
			base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				run := newRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))
				Expect(db.SaveRun(run)).To(Succeed())
			}

			runs, err := db.ListRuns()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(3))
			Expect(runs[0].ID).To(Equal("run-4"))
			Expect(runs[2].ID).To(Equal("run-2"))

			_, err = db.GetRun("run-0")
			Expect(err).To(HaveOccurred())
		})
	})
})
