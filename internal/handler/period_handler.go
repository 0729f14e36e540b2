package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/service"
	u "github.com/riteshkumar/building-ledger/internal/utils"
)

type PeriodHandler struct {
	periodService service.PeriodService
	logger        *slog.Logger
}

func NewPeriodHandler(periodService service.PeriodService, logger *slog.Logger) *PeriodHandler {
	return &PeriodHandler{
		periodService: periodService,
		logger:        logger,
	}
}

func (h *PeriodHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/periods", h.ListPeriods).Methods(http.MethodGet)
	router.HandleFunc("/periods/seed", h.SeedPeriod).Methods(http.MethodPost)
	router.HandleFunc("/periods/{year:[0-9]+}/{month}", h.GetMonthlyPeriod).Methods(http.MethodGet)
	router.HandleFunc("/periods/{year:[0-9]+}/{month}/recompute", h.Recompute).Methods(http.MethodPost)
	router.HandleFunc("/periods/{year:[0-9]+}/{month}/lock", h.LockPeriod).Methods(http.MethodPost)
	router.HandleFunc("/periods/{year:[0-9]+}/{month}/unlock", h.UnlockPeriod).Methods(http.MethodPost)
	router.HandleFunc("/periods/{year:[0-9]+}/{month}/report.csv", h.DownloadReport).Methods(http.MethodGet)
}

func (h *PeriodHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periodService.ListPeriods(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "list periods")
		return
	}

	resp := make([]models.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, models.NewPeriodResponse(p))
	}
	u.WriteJSON(w, http.StatusOK, resp)
}

func (h *PeriodHandler) SeedPeriod(w http.ResponseWriter, r *http.Request) {
	var req models.SeedPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid seed period request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	key, err := models.ParsePeriodKey(req.Month, req.Year)
	if err != nil {
		handleServiceError(w, h.logger, errors.NewValidationError("month", err.Error()), "seed period")
		return
	}

	period, err := h.periodService.SeedPeriod(r.Context(), key, req.OpeningBalance, req.User)
	if err != nil {
		handleServiceError(w, h.logger, err, "seed period")
		return
	}
	u.WriteJSON(w, http.StatusCreated, models.NewPeriodResponse(period))
}

func (h *PeriodHandler) GetMonthlyPeriod(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		handleServiceError(w, h.logger, err, "get period")
		return
	}

	period, err := h.periodService.GetMonthlyPeriod(r.Context(), key)
	if err != nil {
		handleServiceError(w, h.logger, err, "get period")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.NewPeriodResponse(period))
}

// Recompute serves POST /periods/{year}/{month}/recompute?override=true
func (h *PeriodHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		handleServiceError(w, h.logger, err, "recompute period")
		return
	}

	override := false
	if v := r.URL.Query().Get("override"); v != "" {
		if override, err = strconv.ParseBool(v); err != nil {
			handleServiceError(w, h.logger, errors.NewValidationError("override", "must be true or false"), "recompute period")
			return
		}
	}

	period, err := h.periodService.Recompute(r.Context(), key, override)
	if err != nil {
		handleServiceError(w, h.logger, err, "recompute period")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.NewPeriodResponse(period))
}

func (h *PeriodHandler) LockPeriod(w http.ResponseWriter, r *http.Request) {
	h.setLocked(w, r, true)
}

func (h *PeriodHandler) UnlockPeriod(w http.ResponseWriter, r *http.Request) {
	h.setLocked(w, r, false)
}

func (h *PeriodHandler) setLocked(w http.ResponseWriter, r *http.Request, locked bool) {
	operation := "unlock period"
	if locked {
		operation = "lock period"
	}

	key, err := periodKey(r)
	if err != nil {
		handleServiceError(w, h.logger, err, operation)
		return
	}

	var req models.ActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid "+operation+" request", "period", key.ID(), "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	var period *models.MonthlyPeriod
	if locked {
		period, err = h.periodService.LockPeriod(r.Context(), key, req.User)
	} else {
		period, err = h.periodService.UnlockPeriod(r.Context(), key, req.User)
	}
	if err != nil {
		handleServiceError(w, h.logger, err, operation)
		return
	}
	u.WriteJSON(w, http.StatusOK, models.NewPeriodResponse(period))
}

// DownloadReport renders the whole report before writing so a failure can still be
// reported with a status code.
func (h *PeriodHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		handleServiceError(w, h.logger, err, "monthly report")
		return
	}

	var buf bytes.Buffer
	if err := h.periodService.WriteMonthlyReport(r.Context(), key, &buf); err != nil {
		handleServiceError(w, h.logger, err, "monthly report")
		return
	}

	u.SetAttachment(w, fmt.Sprintf("ledger-%s.csv", key.ID()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
