package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nmoreno/quotecalc/internal/clients"
	"github.com/nmoreno/quotecalc/internal/pricing"
)

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	client, ok := s.clients.GetClient(clientID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "client not found")
		return
	}

	quote, err := s.clients.GetQuote(clientID, chi.URLParam(r, "quoteID"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "quote not found")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(buildQuoteText(client, quote, s.rates.Current())))
}

// buildQuoteText renders a saved quote as a shareable plain-text summary.
// The stored monetary snapshots are used as-is; per-modifier display amounts
// are derived from them, with the rush fee reconstructed by reversing the
// fee step since the pre-rush amount is never stored.
func buildQuoteText(client clients.Client, quote clients.Quote, cfg pricing.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Quote for %s\n", client.Name)
	if cfg.Business.Name != "" {
		fmt.Fprintf(&b, "Prepared by: %s", cfg.Business.Name)
		if cfg.Business.Email != "" {
			fmt.Fprintf(&b, " <%s>", cfg.Business.Email)
		}
		b.WriteString("\n")
	}
	if cfg.Business.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", cfg.Business.Phone)
	}
	fmt.Fprintf(&b, "Date: %s\n", quote.CreatedAt)

	b.WriteString("\nItems:\n")
	for _, item := range quote.Items {
		fmt.Fprintf(&b, "- %s (%s)", item.Type.Label(), item.Complexity.Label())
		if item.ExtraRevisions == 1 {
			b.WriteString(", 1 extra revision")
		} else if item.ExtraRevisions > 1 {
			fmt.Fprintf(&b, ", %d extra revisions", item.ExtraRevisions)
		}
		fmt.Fprintf(&b, ": %s\n", formatAmount(item.CalculatedPrice))
	}
	fmt.Fprintf(&b, "Revisions included per item: %d\n", cfg.RevisionsIncluded)

	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", formatAmount(quote.Subtotal))

	running := quote.Subtotal
	if quote.Modifiers.BundleDiscountApplied {
		amount := pricing.RoundCents(running * cfg.BundleDiscountPercent / 100)
		fmt.Fprintf(&b, "Bundle discount (%s%%): -%s\n", formatPercent(cfg.BundleDiscountPercent), formatAmount(amount))
		running -= running * cfg.BundleDiscountPercent / 100
	}
	if quote.Modifiers.CustomDiscountPercent > 0 {
		amount := pricing.RoundCents(running * quote.Modifiers.CustomDiscountPercent / 100)
		fmt.Fprintf(&b, "Discount (%s%%): -%s\n", formatPercent(quote.Modifiers.CustomDiscountPercent), formatAmount(amount))
	}

	beforeTax := pricing.RoundCents(quote.Total - quote.TaxAmount)
	if quote.Modifiers.RushFee {
		fmt.Fprintf(&b, "Rush fee (%s%%): +%s\n", formatPercent(cfg.RushFeePercent), formatAmount(pricing.RushFeeAmount(beforeTax, cfg)))
	}
	if quote.Modifiers.IncludeTax {
		fmt.Fprintf(&b, "Tax (%s%%): %s\n", formatPercent(cfg.TaxPercent), formatAmount(quote.TaxAmount))
	}

	fmt.Fprintf(&b, "Total: %s\n", formatAmount(quote.Total))

	return b.String()
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f USD", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%g", v)
}
