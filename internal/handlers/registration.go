package handlers

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/meibo/internal/auth"
	"github.com/gdg-garage/meibo/internal/bloodpressure"
	"github.com/gdg-garage/meibo/internal/format"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/metrics"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/gdg-garage/meibo/internal/notifier"
	"github.com/gdg-garage/meibo/internal/registry"
	"github.com/gdg-garage/meibo/internal/validation"
	"go.uber.org/zap"
)

type RegistrationHandler struct {
	store     *registry.Store
	validator *validation.Validator
	resolver  *auth.Resolver
	notifier  notifier.Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewRegistrationHandler(store *registry.Store, validator *validation.Validator, resolver *auth.Resolver, n notifier.Notifier, m *metrics.Metrics, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		store:     store,
		validator: validator,
		resolver:  resolver,
		notifier:  n,
		metrics:   m,
		logger:    logger,
	}
}

type FormatRequest struct {
	Body struct {
		Field string `json:"field" doc:"Form field name, e.g. phone or firstNameFurigana"`
		Value string `json:"value" doc:"Raw input as typed"`
	}
}

type FormatResponse struct {
	Body struct {
		Value string `json:"value"`
	}
}

// HandleFormat normalises one keystroke-level value.
func (h *RegistrationHandler) HandleFormat(ctx context.Context, input *FormatRequest) (*FormatResponse, error) {
	res := &FormatResponse{}
	res.Body.Value = format.ForField(input.Body.Field, input.Body.Value)
	return res, nil
}

type ValidateRequest struct {
	LangInput
	Body struct {
		Field  string                    `json:"field,omitempty" doc:"Validate only this field; empty validates the whole form"`
		Fields models.RegistrationFields `json:"fields"`
	}
}

type ValidateResponse struct {
	Body struct {
		Valid         bool              `json:"valid"`
		Errors        map[string]string `json:"errors"`
		Kinds         map[string]string `json:"kinds,omitempty"`
		BloodPressure string            `json:"bloodPressure,omitempty" doc:"Classification of the entered reading"`
		Severity      string            `json:"severity,omitempty" enum:"ok,low,high"`
		Age           int               `json:"age,omitempty"`
	}
}

// HandleValidate runs the blur-time check of one field, or the full
// submit-time check, without storing anything.
func (h *RegistrationHandler) HandleValidate(ctx context.Context, input *ValidateRequest) (*ValidateResponse, error) {
	lang := language(ctx, h.store, input.LangInput)
	f := input.Body.Fields
	format.Normalize(&f)
	f.ApplySameAddress()

	res := &ValidateResponse{}
	res.Body.Errors = map[string]string{}
	if input.Body.Field != "" {
		if fe := h.validator.Field(f, input.Body.Field, lang); fe != nil {
			res.Body.Errors[fe.Field] = fe.Message
			res.Body.Kinds = map[string]string{fe.Field: string(fe.Kind)}
		}
	} else {
		res.Body.Errors = h.validator.All(f, lang)
	}
	res.Body.Valid = len(res.Body.Errors) == 0

	tier := bloodpressure.ClassifyInput(f.BPHigh, f.BPLow)
	res.Body.BloodPressure = tier.Label(lang)
	res.Body.Severity = tier.Severity()
	res.Body.Age = h.validator.AgeOf(f.Birth)
	return res, nil
}

type RegisterRequest struct {
	LangInput
	Body models.RegistrationFields
}

type RegisterResponse struct {
	Body struct {
		ID                string   `json:"id" doc:"Record id used by the document and account steps"`
		Index             int      `json:"index"`
		Account           string   `json:"account"`
		RequiredDocuments []string `json:"requiredDocuments"`
	}
}

// HandleRegister validates the form and appends it to the list.
func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	lang := language(ctx, h.store, input.LangInput)
	f := input.Body
	format.Normalize(&f)
	f.ApplySameAddress()

	if errs := h.validator.All(f, lang); len(errs) > 0 {
		return nil, fieldErrors(errs)
	}

	rec, index, err := h.store.Append(ctx, models.Record{RegistrationFields: f, Lang: string(lang)})
	if err != nil {
		return nil, internalError(h.logger, "Failed to store registration", err)
	}
	h.metrics.IncrementRegistrations()
	h.logger.Info("registration stored", zap.String("record_id", rec.ID), zap.Int("index", index))
	notify(h.notifier, h.logger, rec, false)

	res := &RegisterResponse{}
	res.Body.ID = rec.ID
	res.Body.Index = index
	res.Body.Account = rec.AccountID()
	res.Body.RequiredDocuments = rec.RequiredDocuments()
	return res, nil
}

func notify(n notifier.Notifier, logger *zap.Logger, rec models.Record, updated bool) {
	if n == nil {
		return
	}
	if err := n.NotifyRegistration(rec, updated); err != nil {
		logger.Warn("registration notification not sent", zap.String("record_id", rec.ID), zap.Error(err))
	}
}

type DocumentsRequest struct {
	LangInput
	ID   string `path:"id"`
	Body struct {
		Documents map[string]string `json:"documents" doc:"Images keyed by document type, as data URIs"`
	}
}

type DocumentsResponse struct {
	Body struct {
		Documents []string `json:"documents" doc:"Document types now on file"`
	}
}

// HandleDocuments attaches identity and insurance document images to a
// record. The request is rejected unless every required document is on
// file afterwards.
func (h *RegistrationHandler) HandleDocuments(ctx context.Context, input *DocumentsRequest) (*DocumentsResponse, error) {
	lang := language(ctx, h.store, input.LangInput)

	for kind, data := range input.Body.Documents {
		if !slices.Contains(models.DocumentTypes, kind) {
			return nil, fieldError("documents."+kind, "unknown document type")
		}
		if !strings.HasPrefix(data, "data:") {
			return nil, fieldError("documents."+kind, "document must be a data URI")
		}
	}

	rec, err := h.store.Modify(ctx, input.ID, func(r *models.Record) error {
		merged := make(map[string]string, len(r.Documents)+len(input.Body.Documents))
		for k, v := range r.Documents {
			merged[k] = v
		}
		for k, v := range input.Body.Documents {
			merged[k] = v
		}

		var details []error
		for _, kind := range r.RequiredDocuments() {
			if merged[kind] == "" {
				details = append(details, &huma.ErrorDetail{
					Location: "body.documents." + kind,
					Message:  i18n.T(lang, i18n.MsgDocumentsMissing),
				})
			}
		}
		if len(details) > 0 {
			return huma.Error422UnprocessableEntity(i18n.T(lang, i18n.MsgDocumentsMissing), details...)
		}
		r.Documents = merged
		return nil
	})
	if errors.Is(err, registry.ErrNotFound) {
		return nil, huma.Error404NotFound("Registration not found")
	}
	var se huma.StatusError
	if errors.As(err, &se) {
		return nil, se
	}
	if err != nil {
		return nil, internalError(h.logger, "Failed to store documents", err)
	}

	res := &DocumentsResponse{}
	for _, kind := range models.DocumentTypes {
		if rec.Documents[kind] != "" {
			res.Body.Documents = append(res.Body.Documents, kind)
		}
	}
	return res, nil
}

type CreateAccountRequest struct {
	LangInput
	ID   string `path:"id"`
	Body struct {
		Password string `json:"password,omitempty" doc:"Six digits"`
		Confirm  string `json:"confirm,omitempty"`
	}
}

type CreateAccountResponse struct {
	Body struct {
		Account string `json:"account" doc:"Account id to log in with"`
	}
}

// HandleCreateAccount sets the first password of a freshly registered
// record's account.
func (h *RegistrationHandler) HandleCreateAccount(ctx context.Context, input *CreateAccountRequest) (*CreateAccountResponse, error) {
	lang := language(ctx, h.store, input.LangInput)

	account, err := h.resolver.CreatePassword(ctx, input.ID, input.Body.Password, input.Body.Confirm)
	if err != nil {
		return nil, accountError(h.logger, lang, err)
	}
	h.logger.Info("account created", zap.String("account", account))

	res := &CreateAccountResponse{}
	res.Body.Account = account
	return res, nil
}
