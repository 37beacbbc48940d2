package scanning

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fixedTimeSource pins "now" for deterministic date correction
type fixedTimeSource struct {
	now time.Time
}

func (t *fixedTimeSource) Now() time.Time {
	return t.now
}

var _ = Describe("ExtractDate", func() {
	var (
		text      string
		extractor *FieldExtractor
		date      *time.Time
	)

	BeforeEach(func() {
		extractor = NewFieldExtractorWithTime(2026, &fixedTimeSource{
			now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		})
	})

	JustBeforeEach(func() {
		date = extractor.ExtractDate(text)
	})

	expectDate := func(year int, month time.Month, day int) {
		GinkgoHelper()
		Expect(date).NotTo(BeNil())
		Expect(*date).To(Equal(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)))
	}

	When("the receipt has a date paid field", func() {
		BeforeEach(func() {
			text = "Invoice number: 42\nDate paid: January 10, 2026\nDue: February 1, 2026"
		})

		It("prefers it over other dates", func() {
			expectDate(2026, time.January, 10)
		})
	})

	When("the receipt has a paid on field with a numeric date", func() {
		BeforeEach(func() {
			text = "Paid on: 10.01.2026"
		})

		It("parses it day-first", func() {
			expectDate(2026, time.January, 10)
		})
	})

	When("the receipt has an email-style timestamp", func() {
		BeforeEach(func() {
			text = "Your order was confirmed 2 January 2026 at 14:05"
		})

		It("parses it", func() {
			expectDate(2026, time.January, 2)
		})
	})

	When("the receipt uses a German written date", func() {
		BeforeEach(func() {
			text = "Berlin, den 10.01.2026\nVielen Dank"
		})

		It("parses it", func() {
			expectDate(2026, time.January, 10)
		})
	})

	When("the receipt uses a German month name", func() {
		BeforeEach(func() {
			text = "Rechnungsdatum 3. Januar 2026"
		})

		It("parses it", func() {
			expectDate(2026, time.January, 3)
		})
	})

	When("an ambiguous numeric date could be month-first", func() {
		BeforeEach(func() {
			text = "05/03/2026"
		})

		It("interprets it day-first", func() {
			expectDate(2026, time.March, 5)
		})
	})

	When("the day is only valid as a day", func() {
		BeforeEach(func() {
			text = "Datum: 25.03.2026"
		})

		It("parses it", func() {
			expectDate(2026, time.March, 25)
		})
	})

	When("an ISO date is present", func() {
		BeforeEach(func() {
			text = "Datum: 2026-01-10"
		})

		It("parses it", func() {
			expectDate(2026, time.January, 10)
		})
	})

	When("OCR misread the year as 2028", func() {
		BeforeEach(func() {
			text = "den 10.01.2028"
		})

		It("snaps back to the reference year", func() {
			expectDate(2026, time.January, 10)
		})
	})

	When("OCR misread the year as 2029", func() {
		BeforeEach(func() {
			text = "10.01.2029"
		})

		It("snaps back to the reference year", func() {
			expectDate(2026, time.January, 10)
		})
	})

	When("the parsed date is in the future", func() {
		BeforeEach(func() {
			text = "31.12.2026"
		})

		It("pushes it back a year", func() {
			expectDate(2025, time.December, 31)
		})
	})

	When("no date is present", func() {
		BeforeEach(func() {
			text = "REWE Markt GmbH, Vielen Dank"
		})

		It("returns nil", func() {
			Expect(date).To(BeNil())
		})
	})

	It("is a pure function of the text", func() {
		first := extractor.ExtractDate("den 10.01.2026")
		second := extractor.ExtractDate("den 10.01.2026")
		Expect(first).NotTo(BeNil())
		Expect(*first).To(Equal(*second))
	})
})
