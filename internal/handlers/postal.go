package handlers

import (
	"context"
	"errors"

	"github.com/gdg-garage/meibo/internal/format"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/metrics"
	"github.com/gdg-garage/meibo/internal/postal"
	"github.com/gdg-garage/meibo/internal/registry"
	"go.uber.org/zap"
)

// AddressLookup resolves a postal code to an address.
type AddressLookup interface {
	Lookup(ctx context.Context, code string) (string, error)
}

type PostalHandler struct {
	lookup  AddressLookup
	store   *registry.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewPostalHandler(lookup AddressLookup, store *registry.Store, m *metrics.Metrics, logger *zap.Logger) *PostalHandler {
	return &PostalHandler{lookup: lookup, store: store, metrics: m, logger: logger}
}

type PostalRequest struct {
	LangInput
	Code string `path:"code" doc:"Postal code, with or without the hyphen"`
}

type PostalResponse struct {
	Body struct {
		Zip     string `json:"zip"`
		Found   bool   `json:"found"`
		Address string `json:"address,omitempty"`
		Message string `json:"message,omitempty"`
	}
}

// HandleLookup never fails the caller: an unknown code or an unreachable
// service answers found=false with an empty address.
func (h *PostalHandler) HandleLookup(ctx context.Context, input *PostalRequest) (*PostalResponse, error) {
	lang := language(ctx, h.store, input.LangInput)
	res := &PostalResponse{}
	res.Body.Zip = format.JPZip(input.Code)

	addr, err := h.lookup.Lookup(ctx, input.Code)
	switch {
	case errors.Is(err, postal.ErrInvalidCode):
		h.metrics.ObservePostalLookup("invalid")
		res.Body.Message = i18n.T(lang, i18n.MsgZipFormat)
	case err != nil:
		h.metrics.ObservePostalLookup("not_found")
		res.Body.Message = i18n.T(lang, i18n.MsgZipNotFound)
	default:
		h.metrics.ObservePostalLookup("found")
		res.Body.Found = true
		res.Body.Address = addr
	}
	return res, nil
}

type PreferencesHandler struct {
	store  *registry.Store
	logger *zap.Logger
}

func NewPreferencesHandler(store *registry.Store, logger *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{store: store, logger: logger}
}

type LangPreferenceResponse struct {
	Body struct {
		Lang string `json:"lang" enum:"zh,ja"`
	}
}

type GetLangRequest struct {
	AcceptLanguage string `header:"Accept-Language"`
}

// HandleGetLang reports the stored preference, or the negotiated language
// when none is stored.
func (h *PreferencesHandler) HandleGetLang(ctx context.Context, input *GetLangRequest) (*LangPreferenceResponse, error) {
	res := &LangPreferenceResponse{}
	res.Body.Lang = string(language(ctx, h.store, LangInput{AcceptLanguage: input.AcceptLanguage}))
	return res, nil
}

type SetLangRequest struct {
	Body struct {
		Lang string `json:"lang" enum:"zh,ja"`
	}
}

func (h *PreferencesHandler) HandleSetLang(ctx context.Context, input *SetLangRequest) (*LangPreferenceResponse, error) {
	lang, _ := i18n.Parse(input.Body.Lang)
	if err := h.store.SetLangPreference(ctx, string(lang)); err != nil {
		return nil, internalError(h.logger, "Failed to store language", err)
	}
	res := &LangPreferenceResponse{}
	res.Body.Lang = string(lang)
	return res, nil
}
