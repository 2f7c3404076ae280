package handlers

import (
	"context"
	"errors"
	"mime"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/meibo/internal/auth"
	"github.com/gdg-garage/meibo/internal/bloodpressure"
	"github.com/gdg-garage/meibo/internal/export"
	"github.com/gdg-garage/meibo/internal/format"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/metrics"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/gdg-garage/meibo/internal/registry"
	"github.com/gdg-garage/meibo/internal/validation"
	"go.uber.org/zap"
)

type AdminHandler struct {
	authHandler *auth.AuthHandler
	resolver    *auth.Resolver
	store       *registry.Store
	validator   *validation.Validator
	pdf         *export.PDFWriter
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewAdminHandler(authHandler *auth.AuthHandler, resolver *auth.Resolver, store *registry.Store, validator *validation.Validator, pdf *export.PDFWriter, m *metrics.Metrics, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		authHandler: authHandler,
		resolver:    resolver,
		store:       store,
		validator:   validator,
		pdf:         pdf,
		metrics:     m,
		logger:      logger,
	}
}

// RecordItem is a record as the admin list shows it.
type RecordItem struct {
	models.Record
	Index         int      `json:"index"`
	Account       string   `json:"account"`
	DocumentTypes []string `json:"documentTypes,omitempty" doc:"Document types on file"`
	BPLabel       string   `json:"bloodPressureLabel,omitempty"`
	BPSeverity    string   `json:"bloodPressureSeverity,omitempty" enum:"ok,low,high"`
}

func item(index int, rec models.Record, lang i18n.Lang, withDocuments bool) RecordItem {
	it := RecordItem{Index: index, Record: rec, Account: rec.AccountID()}
	for _, kind := range models.DocumentTypes {
		if rec.Documents[kind] != "" {
			it.DocumentTypes = append(it.DocumentTypes, kind)
		}
	}
	if !withDocuments {
		it.Documents = nil
	}
	tier := bloodpressure.ClassifyInput(rec.BPHigh, rec.BPLow)
	it.BPLabel = tier.Label(lang)
	it.BPSeverity = tier.Severity()
	return it
}

type ListRecordsRequest struct {
	auth.AuthInput
	LangInput
}

type ListRecordsResponse struct {
	Body struct {
		Records []RecordItem `json:"records"`
	}
}

func (h *AdminHandler) HandleListRecords(ctx context.Context, input *ListRecordsRequest) (*ListRecordsResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, false); err != nil {
		return nil, err
	}
	lang := language(ctx, h.store, input.LangInput)

	records, err := h.store.List(ctx)
	if err != nil {
		return nil, internalError(h.logger, "Failed to read records", err)
	}
	res := &ListRecordsResponse{}
	res.Body.Records = make([]RecordItem, 0, len(records))
	for i, rec := range records {
		res.Body.Records = append(res.Body.Records, item(i, rec, lang, false))
	}
	return res, nil
}

type RecordRequest struct {
	auth.AuthInput
	LangInput
	Index int `path:"index" minimum:"0"`
}

type RecordResponse struct {
	Body RecordItem
}

func (h *AdminHandler) HandleGetRecord(ctx context.Context, input *RecordRequest) (*RecordResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, false); err != nil {
		return nil, err
	}
	lang := language(ctx, h.store, input.LangInput)

	rec, ok, err := h.store.Get(ctx, input.Index)
	if err != nil {
		return nil, internalError(h.logger, "Failed to read record", err)
	}
	if !ok {
		return nil, huma.Error404NotFound("Record not found")
	}
	return &RecordResponse{Body: item(input.Index, rec, lang, true)}, nil
}

type UpdateRecordRequest struct {
	auth.AuthInput
	LangInput
	Index int `path:"index" minimum:"0"`
	Body  models.RegistrationFields
}

// HandleUpdateRecord is the administrator edit. Only the expiry and
// health-check dates are re-validated.
func (h *AdminHandler) HandleUpdateRecord(ctx context.Context, input *UpdateRecordRequest) (*RecordResponse, error) {
	session, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, true)
	if err != nil {
		return nil, err
	}
	lang := language(ctx, h.store, input.LangInput)

	f := input.Body
	format.Normalize(&f)
	f.ApplySameAddress()
	if errs := h.validator.EditDates(f, lang); len(errs) > 0 {
		return nil, fieldErrors(errs)
	}

	current, ok, err := h.store.Get(ctx, input.Index)
	if err != nil {
		return nil, internalError(h.logger, "Failed to read record", err)
	}
	if !ok {
		return nil, huma.Error404NotFound("Record not found")
	}

	rec, err := h.store.Modify(ctx, current.ID, func(r *models.Record) error {
		r.RegistrationFields = f
		r.ModifiedBy = session.Subject
		return nil
	})
	if errors.Is(err, registry.ErrNotFound) {
		return nil, huma.Error404NotFound("Record not found")
	}
	if err != nil {
		return nil, internalError(h.logger, "Failed to update record", err)
	}
	h.logger.Info("record updated by admin", zap.String("record_id", rec.ID), zap.String("admin", session.Subject))
	return &RecordResponse{Body: item(input.Index, rec, lang, true)}, nil
}

type DeleteRecordRequest struct {
	auth.AuthInput
	Index int `path:"index" minimum:"0"`
}

func (h *AdminHandler) HandleDeleteRecord(ctx context.Context, input *DeleteRecordRequest) (*MessageResponse, error) {
	session, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, true)
	if err != nil {
		return nil, err
	}
	ok, err := h.store.RemoveAt(ctx, input.Index)
	if err != nil {
		return nil, internalError(h.logger, "Failed to delete record", err)
	}
	if !ok {
		return nil, huma.Error404NotFound("Record not found")
	}
	h.logger.Info("record deleted", zap.Int("index", input.Index), zap.String("admin", session.Subject))
	return message("Record deleted"), nil
}

type DeleteRecordsRequest struct {
	auth.AuthInput
	Body struct {
		Indices []int `json:"indices" minItems:"1"`
	}
}

type DeletedResponse struct {
	Body struct {
		Deleted int `json:"deleted"`
	}
}

func (h *AdminHandler) HandleDeleteRecords(ctx context.Context, input *DeleteRecordsRequest) (*DeletedResponse, error) {
	session, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, true)
	if err != nil {
		return nil, err
	}
	n, err := h.store.RemoveMany(ctx, input.Body.Indices)
	if err != nil {
		return nil, internalError(h.logger, "Failed to delete records", err)
	}
	h.logger.Info("records deleted", zap.Int("count", n), zap.String("admin", session.Subject))

	res := &DeletedResponse{}
	res.Body.Deleted = n
	return res, nil
}

type ExportRequest struct {
	auth.AuthInput
	LangInput
	Body struct {
		Indices []int  `json:"indices" minItems:"1"`
		Format  string `json:"format,omitempty" enum:"pdf,xlsx" default:"pdf"`
	}
}

type ExportResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

const (
	formatPDF  = "pdf"
	formatXLSX = "xlsx"

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// HandleExport renders the selected records in list order. Indices outside
// the list are ignored.
func (h *AdminHandler) HandleExport(ctx context.Context, input *ExportRequest) (*ExportResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, false); err != nil {
		return nil, err
	}
	lang := language(ctx, h.store, input.LangInput)

	records, err := h.store.List(ctx)
	if err != nil {
		return nil, internalError(h.logger, "Failed to read records", err)
	}
	indices := append([]int(nil), input.Body.Indices...)
	sort.Ints(indices)
	var selected []models.Record
	for i, idx := range indices {
		if idx < 0 || idx >= len(records) || (i > 0 && indices[i-1] == idx) {
			continue
		}
		selected = append(selected, records[idx])
	}
	if len(selected) == 0 {
		return nil, huma.Error404NotFound("No records selected")
	}

	res := &ExportResponse{}
	var ext string
	switch input.Body.Format {
	case formatXLSX:
		res.Body, err = export.XLSX(selected, lang)
		res.ContentType, ext = contentTypeXLSX, ".xlsx"
	default:
		res.Body, err = h.pdf.Render(selected, lang)
		res.ContentType, ext = contentTypePDF, ".pdf"
	}
	if err != nil {
		return nil, internalError(h.logger, "Failed to export records", err)
	}

	h.metrics.ObserveExport(ext[1:])
	res.ContentDisposition = mime.FormatMediaType("attachment", map[string]string{
		"filename": export.Filename(selected, lang, ext),
	})
	return res, nil
}

type ListAccountsRequest struct {
	auth.AuthInput
}

type ListAccountsResponse struct {
	Body struct {
		Accounts []auth.Account `json:"accounts"`
	}
}

func (h *AdminHandler) HandleListAccounts(ctx context.Context, input *ListAccountsRequest) (*ListAccountsResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, true); err != nil {
		return nil, err
	}
	accounts, err := h.resolver.Accounts(ctx)
	if err != nil {
		return nil, internalError(h.logger, "Failed to list accounts", err)
	}
	res := &ListAccountsResponse{}
	res.Body.Accounts = accounts
	return res, nil
}

type ResetPasswordRequest struct {
	auth.AuthInput
	LangInput
	Account string `path:"account"`
	Body    struct {
		Password string `json:"password,omitempty" doc:"Six digits"`
	}
}

func (h *AdminHandler) HandleResetPassword(ctx context.Context, input *ResetPasswordRequest) (*MessageResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, true); err != nil {
		return nil, err
	}
	lang := language(ctx, h.store, input.LangInput)

	if err := h.resolver.ResetPassword(ctx, input.Account, input.Body.Password); err != nil {
		return nil, accountError(h.logger, lang, err)
	}
	return message("Password updated"), nil
}

type AccountRequest struct {
	auth.AuthInput
	LangInput
	Account string `path:"account"`
}

type LockResponse struct {
	Body struct {
		Account string `json:"account"`
		Locked  bool   `json:"locked"`
	}
}

func (h *AdminHandler) HandleToggleLock(ctx context.Context, input *AccountRequest) (*LockResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, true); err != nil {
		return nil, err
	}
	lang := language(ctx, h.store, input.LangInput)

	locked, err := h.resolver.ToggleLock(ctx, input.Account)
	if err != nil {
		return nil, accountError(h.logger, lang, err)
	}
	res := &LockResponse{}
	res.Body.Account = models.NormalizeAccountID(input.Account)
	res.Body.Locked = locked
	return res, nil
}

func (h *AdminHandler) HandleDeleteAccount(ctx context.Context, input *AccountRequest) (*DeletedResponse, error) {
	session, err := h.authHandler.RequireAdmin(ctx, input.AuthInput, true)
	if err != nil {
		return nil, err
	}
	n, err := h.store.RemoveAccount(ctx, input.Account)
	if err != nil {
		return nil, internalError(h.logger, "Failed to delete account", err)
	}
	h.logger.Info("account deleted",
		zap.String("account", models.NormalizeAccountID(input.Account)),
		zap.Int("records", n),
		zap.String("admin", session.Subject),
	)
	res := &DeletedResponse{}
	res.Body.Deleted = n
	return res, nil
}
