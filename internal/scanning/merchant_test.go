package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractMerchant", func() {
	var (
		text     string
		merchant string
	)

	JustBeforeEach(func() {
		merchant = ExtractMerchant(text)
	})

	When("the receipt has an Empfänger field", func() {
		BeforeEach(func() {
			text = "Überweisung\nEmpfänger: Vattenfall Europe Sales GmbH\nBetrag: 135,01 €"
		})

		It("uses the recipient", func() {
			Expect(merchant).To(Equal("Vattenfall Europe Sales GmbH"))
		})
	})

	When("the receipt has an Ausgestellt von field with an address", func() {
		BeforeEach(func() {
			text = "Rechnung\nAusgestellt von: Beispiel Handel, Hauptstraße 12, Berlin"
		})

		It("strips everything from the first digit on", func() {
			Expect(merchant).To(Equal("Beispiel Handel, Hauptstraße"))
		})
	})

	When("a company legal-form suffix appears in the document", func() {
		BeforeEach(func() {
			text = "Kassenbon 1234\nWir danken\nREWE Markt GmbH\nFiliale 42"
		})

		It("returns the company line", func() {
			Expect(merchant).To(Equal("REWE Markt GmbH"))
		})
	})

	When("the only suffix line is a tax id line", func() {
		BeforeEach(func() {
			text = "Quittung Nr 7\nUst-Id der Muster GmbH: DE123456789\nMusterladen Berlin\nSumme 10,00"
		})

		It("skips it and falls back to the header scan", func() {
			Expect(merchant).To(Equal("Musterladen Berlin"))
		})
	})

	When("a header line mixes the issuer with a bill-to clause", func() {
		BeforeEach(func() {
			text = "ACME INC billed to John Doe\nInvoice 99"
		})

		It("keeps only the issuer half", func() {
			Expect(merchant).To(Equal("ACME INC"))
		})
	})

	When("only a plain header line is available", func() {
		BeforeEach(func() {
			text = "RECEIPT\n2026-01-10\nCorner Coffee House\nLatte 4.50"
		})

		It("returns the first substantial line", func() {
			Expect(merchant).To(Equal("Corner Coffee House"))
		})
	})

	When("the header lines are numbers and UUIDs", func() {
		BeforeEach(func() {
			text = "123456789\nd9428888-122b-11e1-b85c-61cd3cbb3210\n44,84"
		})

		It("returns nothing", func() {
			Expect(merchant).To(BeEmpty())
		})
	})
})
