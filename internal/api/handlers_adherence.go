package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/selune/lunora/pkg/entity"
	"github.com/selune/lunora/pkg/httputil"
)

type MarkTakenRequest struct {
	Date  *string `json:"date"`
	Taken *bool   `json:"taken"`
}

type AdherenceRangeResponse struct {
	UserID string                `json:"uid"`
	From   string                `json:"from"`
	To     string                `json:"to"`
	Logs   []entity.AdherenceLog `json:"logs"`
}

func (s *Server) MarkTaken(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("mark taken error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req MarkTakenRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("mark taken error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	// Omitted fields default to marking today's dose as taken
	date := time.Now()
	if req.Date != nil {
		date, err = parseDate(*req.Date)
		if err != nil {
			logger.Error("mark taken error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
			return
		}
	}
	taken := true
	if req.Taken != nil {
		taken = *req.Taken
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	streak, err := s.adherenceService.MarkTaken(ctx, uid, date, taken)
	if err != nil {
		logger.Error("mark taken error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while marking adherence", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"streakDays": streak,
		"date":       date.Format(time.DateOnly),
	})
	logger.Info("adherence marked")
}

func (s *Server) GetAdherenceRange(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get adherence error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		logger.Error("get adherence error: invalid from date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "from must be YYYY-MM-DD", nil)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		logger.Error("get adherence error: invalid to date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "to must be YYYY-MM-DD", nil)
		return
	}
	if to.Before(from) {
		logger.Error("get adherence error: inverted range")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "to must not be before from", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	logs, err := s.adherenceService.GetRange(ctx, uid, from, to)
	if err != nil {
		logger.Error("get adherence error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting adherence", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, AdherenceRangeResponse{
		UserID: uid.String(),
		From:   from.Format(time.DateOnly),
		To:     to.Format(time.DateOnly),
		Logs:   logs,
	})
}
