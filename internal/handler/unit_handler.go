package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/building-ledger/internal/clock"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/service"
	u "github.com/riteshkumar/building-ledger/internal/utils"
)

type UnitHandler struct {
	unitService service.UnitService
	duesService service.DuesService
	clock       clock.Clock
	loc         *time.Location
	logger      *slog.Logger
}

func NewUnitHandler(unitService service.UnitService, duesService service.DuesService, clk clock.Clock, loc *time.Location, logger *slog.Logger) *UnitHandler {
	return &UnitHandler{
		unitService: unitService,
		duesService: duesService,
		clock:       clk,
		loc:         loc,
		logger:      logger,
	}
}

func (h *UnitHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/units", h.CreateUnit).Methods(http.MethodPost)
	router.HandleFunc("/units", h.ListUnits).Methods(http.MethodGet)
	router.HandleFunc("/units/{id}", h.GetUnit).Methods(http.MethodGet)
	router.HandleFunc("/units/{id}", h.UpdateProfile).Methods(http.MethodPatch)
	router.HandleFunc("/units/{id}/dues", h.GetDues).Methods(http.MethodGet)
}

func (h *UnitHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create unit request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	view, err := h.unitService.CreateUnit(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create unit")
		return
	}
	u.WriteJSON(w, http.StatusCreated, models.NewUnitResponse(view))
}

func (h *UnitHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	views, err := h.unitService.ListUnits(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "list units")
		return
	}

	resp := make([]models.UnitResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, models.NewUnitResponse(v))
	}
	u.WriteJSON(w, http.StatusOK, resp)
}

func (h *UnitHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	view, err := h.unitService.GetUnit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, h.logger, err, "get unit")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.NewUnitResponse(view))
}

// UpdateProfile changes owner details only. Balance fields in the body are ignored.
func (h *UnitHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update profile request", "flat_id", id, "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	view, err := h.unitService.UpdateProfile(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update unit profile")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.NewUnitResponse(view))
}

// GetDues serves GET /units/{id}/dues?asOf=YYYY-MM-DD
func (h *UnitHandler) GetDues(w http.ResponseWriter, r *http.Request) {
	asOf := h.clock.Now()
	if v := r.URL.Query().Get("asOf"); v != "" {
		t, _, err := parseQueryTime(v, h.loc)
		if err != nil {
			u.WriteError(w, http.StatusBadRequest, "validation error", "asOf: "+err.Error())
			return
		}
		asOf = t
	}

	stmt, err := h.duesService.Statement(r.Context(), mux.Vars(r)["id"], asOf)
	if err != nil {
		handleServiceError(w, h.logger, err, "dues statement")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.NewDuesStatementResponse(stmt))
}
