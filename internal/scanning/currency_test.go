package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DetectCurrency", func() {
	It("prefers EUR over anything else", func() {
		Expect(DetectCurrency("Total $10.00, billed as 9,20 €")).To(Equal(CurrencyEUR))
	})

	It("detects GBP when pound evidence outweighs dollar evidence", func() {
		Expect(DetectCurrency("Total £12.50, paid £12.50 ($15.80)")).To(Equal(CurrencyGBP))
	})

	It("detects USD from dollar signs alone", func() {
		Expect(DetectCurrency("Total $10.00")).To(Equal(CurrencyUSD))
	})

	It("falls back to country hints", func() {
		Expect(DetectCurrency("Acme Shop, London, United Kingdom, total 12.50")).To(Equal(CurrencyGBP))
		Expect(DetectCurrency("Shipped from the USA, total 10.00")).To(Equal(CurrencyUSD))
		Expect(DetectCurrency("MwSt 19% enthalten")).To(Equal(CurrencyEUR))
	})

	It("defaults to EUR", func() {
		Expect(DetectCurrency("no currency markers here")).To(Equal(CurrencyEUR))
	})
})
