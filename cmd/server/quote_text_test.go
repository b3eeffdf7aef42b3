package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/nmoreno/quotecalc/internal/clients"
	"github.com/nmoreno/quotecalc/internal/pricing"
)

func TestBuildQuoteTextDerivesModifierLines(t *testing.T) {
	cfg := pricing.DefaultConfig()
	cfg.Business.Name = "Studio Norte"
	cfg.Business.Email = "hello@studionorte.test"

	client := clients.Client{Name: "Acme"}
	quote := clients.Quote{
		CreatedAt: "2026-08-28",
		Items: []pricing.Item{
			{Type: pricing.LandingPage, Complexity: pricing.Medium, ExtraRevisions: 1, CalculatedPrice: 3850},
			{Type: pricing.SEOSetup, Complexity: pricing.Simple, CalculatedPrice: 600},
		},
		Modifiers: pricing.Modifiers{RushFee: true, BundleDiscountApplied: true, IncludeTax: true},
		Subtotal:  4450,
		TaxAmount: 650.82,
		Total:     5656.57,
	}

	text := buildQuoteText(client, quote, cfg)

	for _, expected := range []string{
		"Quote for Acme",
		"Prepared by: Studio Norte <hello@studionorte.test>",
		"Date: 2026-08-28",
		"Items:",
		"- Landing Page (Medium), 1 extra revision: 3850.00 USD",
		"- SEO Setup (Simple): 600.00 USD",
		"Subtotal: 4450.00 USD",
		"Bundle discount (10%): -445.00 USD",
		// beforeTax = 5656.57 - 650.82 = 5005.75; fee = 5005.75 - 5005.75/1.25
		"Rush fee (25%): +1001.15 USD",
		"Tax (13%): 650.82 USD",
		"Total: 5656.57 USD",
	} {
		if !strings.Contains(text, expected) {
			t.Fatalf("expected text to contain %q, got:\n%s", expected, text)
		}
	}

	if strings.Contains(text, "Discount (") {
		t.Fatalf("expected no custom discount line, got:\n%s", text)
	}
}

func TestHandleQuoteTextReturnsPlainText(t *testing.T) {
	srv := newTestServer(t)

	client, err := srv.clients.AddClient("Acme", "")
	if err != nil {
		t.Fatalf("AddClient returned error: %v", err)
	}
	quote, err := srv.clients.AddQuote(client.ID, []pricing.Item{
		{ID: "i1", Type: pricing.Copywriting, Complexity: pricing.Simple, BasePrice: 500, CalculatedPrice: 500},
	}, pricing.Modifiers{}, 500, 0, 500)
	if err != nil {
		t.Fatalf("AddQuote returned error: %v", err)
	}

	rr := doRequest(t, srv, http.MethodGet, "/api/clients/"+client.ID+"/quotes/"+quote.ID+"/text", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected text/plain content type, got %q", rr.Header().Get("Content-Type"))
	}

	body := rr.Body.String()
	for _, expected := range []string{"Quote for Acme", "Copywriting (Simple): 500.00 USD", "Total: 500.00 USD"} {
		if !strings.Contains(body, expected) {
			t.Fatalf("expected body to contain %q, got: %s", expected, body)
		}
	}

	if rr := doRequest(t, srv, http.MethodGet, "/api/clients/"+client.ID+"/quotes/missing/text", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown quote, got %d", rr.Code)
	}
}
