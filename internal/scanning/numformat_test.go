package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DetectNumberFormat", func() {
	var (
		text   string
		format NumberFormat
	)

	JustBeforeEach(func() {
		format = DetectNumberFormat(text)
	})

	When("the text uses German thousands and decimal separators", func() {
		BeforeEach(func() {
			text = "Gesamtbetrag 1.234,56"
		})

		It("detects the German format", func() {
			Expect(format).To(Equal(NumberFormatGerman))
		})
	})

	When("the text uses English thousands and decimal separators", func() {
		BeforeEach(func() {
			text = "Grand total 1,234.56"
		})

		It("detects the English format", func() {
			Expect(format).To(Equal(NumberFormatEnglish))
		})
	})

	When("the text has only plain German decimals", func() {
		BeforeEach(func() {
			text = "Summe 44,84 und Pfand 1,50"
		})

		It("detects the German format", func() {
			Expect(format).To(Equal(NumberFormatGerman))
		})
	})

	When("a euro sign accompanies an otherwise ambiguous amount", func() {
		BeforeEach(func() {
			text = "zu zahlen: 44,84 € / fee 3.50"
		})

		It("leans German", func() {
			Expect(format).To(Equal(NumberFormatGerman))
		})
	})

	When("the text has no decimal-like numbers at all", func() {
		BeforeEach(func() {
			text = "no numbers here"
		})

		It("resolves the tie to English", func() {
			Expect(format).To(Equal(NumberFormatEnglish))
		})
	})
})

var _ = Describe("NormalizeAmount", func() {
	It("normalizes a German thousands amount", func() {
		Expect(NormalizeAmount("1.234,56", NumberFormatGerman)).To(Equal("1234.56"))
	})

	It("normalizes an English thousands amount", func() {
		Expect(NormalizeAmount("1,234.56", NumberFormatEnglish)).To(Equal("1234.56"))
	})

	It("normalizes a plain German decimal", func() {
		Expect(NormalizeAmount("44,84", NumberFormatGerman)).To(Equal("44.84"))
	})

	It("leaves a plain English decimal alone", func() {
		Expect(NormalizeAmount("44.84", NumberFormatEnglish)).To(Equal("44.84"))
	})
})
