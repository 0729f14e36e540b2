package handler

import (
	"encoding/json"
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

type TransactionHandler struct {
	transactionService service.TransactionService
	loc                *time.Location
	logger             *slog.Logger
}

func NewTransactionHandler(transactionService service.TransactionService, loc *time.Location, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		loc:                loc,
		logger:             logger,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.RecordTransaction).Methods(http.MethodPost)
	router.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)
	router.HandleFunc("/transactions/{id}/void", h.VoidTransaction).Methods(http.MethodPost)
	router.HandleFunc("/transactions/{id}/correct", h.CorrectTransaction).Methods(http.MethodPost)
}

func (h *TransactionHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid record transaction request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	tx, err := h.transactionService.RecordTransaction(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "record transaction")
		return
	}

	u.WriteJSON(w, http.StatusCreated, models.NewTransactionResponse(tx))
}

// ListTransactions serves GET /transactions?flatId=&type=&category=&from=&to=
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := dateRange(r, h.loc)
	if err != nil {
		handleServiceError(w, h.logger, err, "list transactions")
		return
	}
	filter := repository.TransactionFilter{
		UnitRef:   strings.TrimSpace(q.Get("flatId")),
		Direction: models.Direction(strings.ToUpper(q.Get("type"))),
		Category:  models.Category(strings.ToUpper(q.Get("category"))),
		From:      from,
		To:        to,
	}
	if filter.Direction != "" && !filter.Direction.Valid() {
		handleServiceError(w, h.logger, errors.NewValidationError("type", "must be CREDIT or DEBIT"), "list transactions")
		return
	}
	if filter.Category != "" && !filter.Category.Valid() {
		handleServiceError(w, h.logger, errors.NewValidationError("category", "unknown category "+string(filter.Category)), "list transactions")
		return
	}

	resp := make([]models.TransactionResponse, 0)
	for tx, err := range h.transactionService.ListTransactions(r.Context(), filter) {
		if err != nil {
			handleServiceError(w, h.logger, err, "list transactions")
			return
		}
		resp = append(resp, models.NewTransactionResponse(&tx))
	}

	u.WriteJSON(w, http.StatusOK, resp)
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	tx, err := h.transactionService.GetTransaction(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get transaction")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.NewTransactionResponse(tx))
}

func (h *TransactionHandler) VoidTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.ActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid void transaction request", "transaction_id", id, "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	tx, err := h.transactionService.VoidTransaction(r.Context(), id, req.User)
	if err != nil {
		handleServiceError(w, h.logger, err, "void transaction")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.NewTransactionResponse(tx))
}

func (h *TransactionHandler) CorrectTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.CorrectTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid correct transaction request", "transaction_id", id, "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	tx, err := h.transactionService.CorrectTransaction(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "correct transaction")
		return
	}

	u.WriteJSON(w, http.StatusCreated, models.NewTransactionResponse(tx))
}
