package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func expectAmount(amount *decimal.Decimal, want string) {
	GinkgoHelper()
	Expect(amount).NotTo(BeNil())
	Expect(amount.Equal(decimal.RequireFromString(want))).To(BeTrue(),
		"expected %s, got %s", want, amount.String())
}

var _ = Describe("ExtractAmount", func() {
	var (
		text   string
		amount *decimal.Decimal
	)

	JustBeforeEach(func() {
		amount = ExtractAmount(text)
	})

	When("the receipt has an explicit amount paid line", func() {
		BeforeEach(func() {
			text = "Subtotal: $40.00\nTax: $4.84\nAmount paid: $44.84"
		})

		It("extracts the paid amount", func() {
			expectAmount(amount, "44.84")
		})
	})

	When("the receipt has a German Gesamtbetrag line", func() {
		BeforeEach(func() {
			text = "Zwischensumme 40,00 €\nGesamtbetrag: 44,84 €"
		})

		It("extracts the total", func() {
			expectAmount(amount, "44.84")
		})
	})

	When("a German total uses a thousands separator", func() {
		BeforeEach(func() {
			text = "Rechnungsbetrag: 1.234,56 EUR"
		})

		It("normalizes it", func() {
			expectAmount(amount, "1234.56")
		})
	})

	When("a priority keyword and a generic total both appear", func() {
		BeforeEach(func() {
			text = "Total: 40.00\nGrand total: 44.84"
		})

		It("prefers the higher-priority pattern even though it appears later", func() {
			expectAmount(amount, "44.84")
		})
	})

	When("the same pattern matches several amounts", func() {
		BeforeEach(func() {
			text = "Total: 12.00\nTotal: 44.84"
		})

		It("returns the last match, where grand totals live", func() {
			expectAmount(amount, "44.84")
		})
	})

	When("only a bare currency-adjacent number is present", func() {
		BeforeEach(func() {
			text = "REWE Markt\n44,84 €\nVielen Dank"
		})

		It("falls back to it", func() {
			expectAmount(amount, "44.84")
		})
	})

	When("the only candidate is implausibly large", func() {
		BeforeEach(func() {
			text = "Total: 99999999"
		})

		It("returns nil", func() {
			Expect(amount).To(BeNil())
		})
	})

	When("the text has no amounts at all", func() {
		BeforeEach(func() {
			text = "Danke für Ihren Einkauf"
		})

		It("returns nil", func() {
			Expect(amount).To(BeNil())
		})
	})
})
