package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nmoreno/quotecalc/internal/clients"
	"github.com/nmoreno/quotecalc/internal/pricing"
)

// newItemID mints the opaque unique token carried by every quote line item.
func newItemID() string {
	return uuid.NewString()
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.rates.Current())
}

// handleUpdateConfig treats the payload as a field-wise update over the
// current record, so a client sending a trimmed document cannot drop rate
// keys.
func (s *server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.rates.Current()
	if !s.decode(w, r, &cfg) {
		return
	}

	if err := s.rates.Save(cfg); err != nil {
		s.log.WithError(err).Error("failed to save config")
		s.writeError(w, http.StatusInternalServerError, "failed to save configuration")
		return
	}

	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *server) handleResetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.rates.Reset()
	if err != nil {
		s.log.WithError(err).Error("failed to reset config")
		s.writeError(w, http.StatusInternalServerError, "failed to reset configuration")
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	bundles := map[pricing.PresetTier]pricing.PresetBundle{}
	for _, tier := range pricing.PresetTiers() {
		bundle, _ := pricing.Preset(tier)
		bundles[tier] = bundle
	}
	s.writeJSON(w, http.StatusOK, bundles)
}

// handleGetPreset returns a priced draft built from a preset bundle using
// the current configuration.
func (s *server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	tier := pricing.PresetTier(chi.URLParam(r, "tier"))
	bundle, ok := pricing.Preset(tier)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown preset tier")
		return
	}

	cfg := s.rates.Current()
	items := make([]pricing.Item, len(bundle.Items))
	for i, preset := range bundle.Items {
		items[i] = pricing.Item{
			ID:         newItemID(),
			Type:       preset.Type,
			Complexity: preset.Complexity,
		}
	}
	if err := pricing.Reprice(items, cfg); err != nil {
		s.log.WithError(err).Error("failed to price preset items")
		s.writeError(w, http.StatusInternalServerError, "failed to price preset")
		return
	}

	s.writeJSON(w, http.StatusOK, struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Items       []pricing.Item `json:"items"`
		Subtotal    float64        `json:"subtotal"`
	}{
		Name:        bundle.Name,
		Description: bundle.Description,
		Items:       items,
		Subtotal:    pricing.Subtotal(items),
	})
}

type clientPayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email"`
}

func (s *server) handleListClients(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.clients.ListClients())
}

func (s *server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var payload clientPayload
	if !s.decode(w, r, &payload) {
		return
	}

	client, err := s.clients.AddClient(payload.Name, payload.Email)
	if err != nil {
		if errors.Is(err, clients.ErrInvalidClient) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.WithError(err).Error("failed to create client")
		s.writeError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	s.writeJSON(w, http.StatusCreated, client)
}

func (s *server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, ok := s.clients.GetClient(chi.URLParam(r, "clientID"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "client not found")
		return
	}
	s.writeJSON(w, http.StatusOK, client)
}

func (s *server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var payload clientPayload
	if !s.decode(w, r, &payload) {
		return
	}

	// Updating an unknown id is a benign no-op by contract.
	s.clients.UpdateClient(chi.URLParam(r, "clientID"), payload.Name, payload.Email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	s.clients.DeleteClient(chi.URLParam(r, "clientID"))
	w.WriteHeader(http.StatusNoContent)
}

type quoteItemPayload struct {
	Type           pricing.DeliverableType `json:"type" validate:"required"`
	Complexity     pricing.ComplexityTier  `json:"complexity" validate:"required"`
	ExtraRevisions int                     `json:"extraRevisions" validate:"gte=0"`
}

type quotePayload struct {
	Items     []quoteItemPayload `json:"items" validate:"dive"`
	Modifiers pricing.Modifiers  `json:"modifiers"`
}

type quoteComputation struct {
	Items     []pricing.Item
	Modifiers pricing.Modifiers
	Subtotal  float64
	Breakdown pricing.TotalBreakdown
}

// computeQuote turns the request payload into fully priced items and totals.
// Price snapshots and the bundle flag are always derived server-side, never
// taken from the payload.
func (s *server) computeQuote(payload quotePayload) (quoteComputation, error) {
	cfg := s.rates.Current()

	items := make([]pricing.Item, len(payload.Items))
	for i, item := range payload.Items {
		items[i] = pricing.Item{
			ID:             newItemID(),
			Type:           item.Type,
			Complexity:     item.Complexity,
			ExtraRevisions: item.ExtraRevisions,
		}
	}
	if err := pricing.Reprice(items, cfg); err != nil {
		return quoteComputation{}, err
	}

	mods := payload.Modifiers
	mods.BundleDiscountApplied = pricing.BundleEligible(items)

	subtotal := pricing.Subtotal(items)

	return quoteComputation{
		Items:     items,
		Modifiers: mods,
		Subtotal:  subtotal,
		Breakdown: pricing.Total(subtotal, mods, cfg),
	}, nil
}

type previewResponse struct {
	Items          []pricing.Item         `json:"items"`
	Modifiers      pricing.Modifiers      `json:"modifiers"`
	Subtotal       float64                `json:"subtotal"`
	BundleEligible bool                   `json:"bundleEligible"`
	Breakdown      pricing.TotalBreakdown `json:"breakdown"`
	RushFeeAmount  float64                `json:"rushFeeAmount"`
}

func (s *server) handlePreviewQuote(w http.ResponseWriter, r *http.Request) {
	var payload quotePayload
	if !s.decode(w, r, &payload) {
		return
	}

	result, err := s.computeQuote(payload)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rushFee := 0.0
	if result.Modifiers.RushFee {
		rushFee = pricing.RushFeeAmount(result.Breakdown.BeforeTax, s.rates.Current())
	}

	s.writeJSON(w, http.StatusOK, previewResponse{
		Items:          result.Items,
		Modifiers:      result.Modifiers,
		Subtotal:       result.Subtotal,
		BundleEligible: result.Modifiers.BundleDiscountApplied,
		Breakdown:      result.Breakdown,
		RushFeeAmount:  rushFee,
	})
}

func (s *server) handleSaveQuote(w http.ResponseWriter, r *http.Request) {
	var payload quotePayload
	if !s.decode(w, r, &payload) {
		return
	}

	result, err := s.computeQuote(payload)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := s.clients.AddQuote(
		chi.URLParam(r, "clientID"),
		result.Items,
		result.Modifiers,
		result.Subtotal,
		result.Breakdown.TaxAmount,
		result.Breakdown.Total,
	)
	if err != nil {
		if errors.Is(err, clients.ErrUnknownClient) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.WithError(err).Error("failed to save quote")
		s.writeError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}

	s.writeJSON(w, http.StatusCreated, quote)
}

func (s *server) handleDeleteQuote(w http.ResponseWriter, r *http.Request) {
	s.clients.DeleteQuote(chi.URLParam(r, "clientID"), chi.URLParam(r, "quoteID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDuplicateQuote(w http.ResponseWriter, r *http.Request) {
	draft, err := s.clients.DuplicateQuote(chi.URLParam(r, "clientID"), chi.URLParam(r, "quoteID"))
	if err != nil {
		if errors.Is(err, clients.ErrUnknownClient) || errors.Is(err, clients.ErrUnknownQuote) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.WithError(err).Error("failed to duplicate quote")
		s.writeError(w, http.StatusInternalServerError, "failed to duplicate quote")
		return
	}

	s.writeJSON(w, http.StatusOK, draft)
}
