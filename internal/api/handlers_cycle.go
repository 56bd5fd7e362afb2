package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/internal/service"
	"github.com/selune/lunora/pkg/httputil"
)

type BaselineRequest struct {
	CycleLength     int    `json:"cycle_length"`
	LutealLength    int    `json:"luteal_length"`
	LastPeriodStart string `json:"last_period_start"`
}

type AddEventRequest struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

func (s *Server) SaveBaseline(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("save baseline error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req BaselineRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("save baseline error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	lastPeriodStart, err := parseDate(req.LastPeriodStart)
	if err != nil {
		logger.Error("save baseline error: invalid date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "last_period_start must be YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	baseline, err := s.cycleService.SaveBaseline(ctx, uid, &service.BaselineRequest{
		CycleLength:     req.CycleLength,
		LutealLength:    req.LutealLength,
		LastPeriodStart: lastPeriodStart,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidBaseline) {
			logger.Error("save baseline error: values out of range")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "cycle baseline values out of range", nil)
			return
		}
		logger.Error("save baseline error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while saving baseline", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, baseline)
	logger.Info("baseline saved")
}

func (s *Server) GetBaseline(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get baseline error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	baseline, err := s.cycleService.GetBaseline(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrBaselineNotFound) {
			logger.Error("get baseline error: not set")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "set up your cycle info first", nil)
			return
		}
		logger.Error("get baseline error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting baseline", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, baseline)
}

func (s *Server) RebuildForecast(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("rebuild forecast error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	result, err := s.forecastService.Rebuild(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrBaselineNotFound) {
			logger.Error("rebuild forecast error: no baseline")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "set up your cycle info first", nil)
			return
		}
		logger.Error("rebuild forecast error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while rebuilding forecast", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"forecastsGenerated": result.ForecastsGenerated,
		"startDate":          result.StartDate.Format(time.DateOnly),
	})
	logger.Info("forecast rebuilt")
}

func (s *Server) GetForecast(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get forecast error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	forecasts, err := s.forecastService.GetWindow(ctx, uid)
	if err != nil {
		logger.Error("get forecast error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting forecast", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":       uid.String(),
		"forecasts": forecasts,
	})
}

func (s *Server) AddCycleEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("add event error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req AddEventRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add event error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		logger.Error("add event error: invalid date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	event, err := s.cycleService.AddEvent(ctx, uid, req.Type, date)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidEventKind):
			logger.Error("add event error: unknown kind")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown event type", nil)
		case errors.Is(err, errorvalues.ErrInvalidDate):
			logger.Error("add event error: date not allowed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "event date not allowed", nil)
		case errors.Is(err, errorvalues.ErrEventExists):
			logger.Error("add event error: duplicate date")
			httputil.WriteErrorResponse(w, http.StatusConflict, "event for this date already exists", nil)
		default:
			logger.Error("add event error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while adding event", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"message": "logged " + string(event.Kind) + " for " + event.Date.Format(time.DateOnly),
	})
	logger.Info("cycle event added")
}

func (s *Server) UndoLastCycleEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("undo event error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	event, err := s.cycleService.UndoLastEvent(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNothingToUndo) {
			logger.Error("undo event error: nothing to undo")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no recent event to undo", nil)
			return
		}
		logger.Error("undo event error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while undoing event", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"message": "removed " + string(event.Kind) + " for " + event.Date.Format(time.DateOnly),
	})
	logger.Info("cycle event undone")
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(time.DateOnly, value)
}
