package handler

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	u "github.com/riteshkumar/building-ledger/internal/utils"
)

// handleServiceError maps ledger errors to status codes. Only unexpected failures are
// logged here; the services already logged the rest.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error, operation string) {
	switch {
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "not found", err.Error())
	case errors.IsAlreadyVoided(err):
		u.WriteError(w, http.StatusConflict, "transaction already voided", err.Error())
	case errors.IsAlreadyExists(err):
		u.WriteError(w, http.StatusConflict, "already exists", err.Error())
	case errors.IsPeriodLocked(err):
		u.WriteError(w, http.StatusLocked, "period locked", err.Error())
	case stderrors.Is(err, errors.ErrAmountOverflow):
		u.WriteError(w, http.StatusUnprocessableEntity, "amount overflow", err.Error())
	default:
		logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

// periodKey reads the {year}/{month} route variables. The month may be a name
// ("January", "jan") or a number.
func periodKey(r *http.Request) (models.PeriodKey, error) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		return models.PeriodKey{}, errors.NewValidationError("year", "must be a number")
	}
	key, err := models.ParsePeriodKey(vars["month"], year)
	if err != nil {
		return models.PeriodKey{}, errors.NewValidationError("month", err.Error())
	}
	return key, nil
}

// dateRange parses the from/to query parameters. Both are calendar dates in loc or
// RFC 3339 timestamps; a calendar "to" includes that whole day.
func dateRange(r *http.Request, loc *time.Location) (from, to time.Time, err error) {
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		if from, _, err = parseQueryTime(v, loc); err != nil {
			return time.Time{}, time.Time{}, errors.NewValidationError("from", err.Error())
		}
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		var dateOnly bool
		if to, dateOnly, err = parseQueryTime(v, loc); err != nil {
			return time.Time{}, time.Time{}, errors.NewValidationError("to", err.Error())
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		}
	}
	return from, to, nil
}

func parseQueryTime(v string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(time.DateOnly, v, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, stderrors.New("must be YYYY-MM-DD or an RFC 3339 timestamp")
	}
	return t, false, nil
}
