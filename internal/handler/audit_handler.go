package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/repository"
	"github.com/riteshkumar/building-ledger/internal/service"
	u "github.com/riteshkumar/building-ledger/internal/utils"
)

type AuditHandler struct {
	auditService service.AuditService
	loc          *time.Location
	logger       *slog.Logger
}

func NewAuditHandler(auditService service.AuditService, loc *time.Location, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		loc:          loc,
		logger:       logger,
	}
}

func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/audit", h.ListAuditEntries).Methods(http.MethodGet)
	router.HandleFunc("/audit/export.csv", h.ExportCSV).Methods(http.MethodGet)
}

// ListAuditEntries serves GET /audit?action=&user=&from=&to=
func (h *AuditHandler) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		handleServiceError(w, h.logger, err, "list audit entries")
		return
	}

	resp := make([]models.AuditEntryResponse, 0)
	for entry, err := range h.auditService.ListAuditEntries(r.Context(), filter) {
		if err != nil {
			handleServiceError(w, h.logger, err, "list audit entries")
			return
		}
		resp = append(resp, models.NewAuditEntryResponse(&entry))
	}
	u.WriteJSON(w, http.StatusOK, resp)
}

func (h *AuditHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		handleServiceError(w, h.logger, err, "export audit trail")
		return
	}

	var buf bytes.Buffer
	if err := h.auditService.ExportCSV(r.Context(), filter, &buf); err != nil {
		handleServiceError(w, h.logger, err, "export audit trail")
		return
	}

	u.SetAttachment(w, "audit-trail.csv")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *AuditHandler) filter(r *http.Request) (repository.AuditFilter, error) {
	q := r.URL.Query()
	action := models.AuditAction(strings.ToUpper(strings.TrimSpace(q.Get("action"))))
	if action != "" && !action.Valid() {
		return repository.AuditFilter{}, errors.NewValidationError("action", "unknown audit action "+string(action))
	}

	from, to, err := dateRange(r, h.loc)
	if err != nil {
		return repository.AuditFilter{}, err
	}
	return repository.AuditFilter{
		Action: action,
		Actor:  strings.TrimSpace(q.Get("user")),
		From:   from,
		To:     to,
	}, nil
}
