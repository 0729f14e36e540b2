package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/building-ledger/internal/service"
	u "github.com/riteshkumar/building-ledger/internal/utils"
)

type BalanceHandler struct {
	balanceService service.BalanceService
	logger         *slog.Logger
}

func NewBalanceHandler(balanceService service.BalanceService, logger *slog.Logger) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
		logger:         logger,
	}
}

func (h *BalanceHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/balance", h.GetBuildingBalance).Methods(http.MethodGet)
	router.HandleFunc("/units/{id}/balance", h.GetUnitBalance).Methods(http.MethodGet)
}

func (h *BalanceHandler) GetUnitBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balanceService.UnitBalance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, h.logger, err, "get unit balance")
		return
	}
	u.WriteJSON(w, http.StatusOK, balance)
}

func (h *BalanceHandler) GetBuildingBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balanceService.BuildingBalance(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "get building balance")
		return
	}
	u.WriteJSON(w, http.StatusOK, balance)
}
