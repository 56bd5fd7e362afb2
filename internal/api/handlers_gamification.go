package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/internal/service"
	"github.com/selune/lunora/pkg/httputil"
)

type CustomGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      int    `json:"target"`
	Emoji       string `json:"emoji"`
}

type ReminderRequest struct {
	Enabled    bool   `json:"enabled"`
	RemindTime string `json:"remind_time"`
}

func (s *Server) GetChallenges(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get challenges error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	challenges, err := s.challengeService.List(ctx, uid)
	if err != nil {
		logger.Error("get challenges error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting challenges", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":        uid.String(),
		"challenges": challenges,
	})
}

func (s *Server) CreateCustomGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create goal error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CustomGoalRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create goal error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	challenge, err := s.challengeService.CreateCustom(ctx, uid, &service.CustomGoalRequest{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Emoji:       req.Emoji,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidGoal) {
			logger.Error("create goal error: invalid values")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid goal values", nil)
			return
		}
		logger.Error("create goal error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating goal", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, challenge)
	logger.Info("custom goal created")
}

func (s *Server) UpdateCustomGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update goal error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("update goal error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid challenge id in path value", nil)
		return
	}
	var req CustomGoalRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update goal error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	challenge, err := s.challengeService.UpdateCustom(ctx, id, uid, &service.CustomGoalRequest{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Emoji:       req.Emoji,
	})
	if err != nil {
		writeGoalError(w, logger, err, "update")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, challenge)
	logger.Info("custom goal updated")
}

func (s *Server) DeleteCustomGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("delete goal error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("delete goal error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid challenge id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.challengeService.DeleteCustom(ctx, id, uid)
	if err != nil {
		writeGoalError(w, logger, err, "delete")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"message": "goal deleted"})
	logger.Info("custom goal deleted")
}

func writeGoalError(w http.ResponseWriter, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, errorvalues.ErrChallengeNotFound):
		logger.Error(action + " goal error: unexist challenge")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "challenge doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrWrongOwner):
		logger.Error(action + " goal error: different owner")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "challenge doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrNotCustomGoal):
		logger.Error(action + " goal error: preset challenge")
		httputil.WriteErrorResponse(w, http.StatusForbidden, "only custom goals can be changed", nil)
	case errors.Is(err, errorvalues.ErrInvalidGoal):
		logger.Error(action + " goal error: invalid values")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid goal values", nil)
	default:
		logger.Error(action+" goal error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while changing goal", nil)
	}
}

func (s *Server) GetAchievements(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get achievements error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	achievements, err := s.achievementService.List(ctx, uid)
	if err != nil {
		logger.Error("get achievements error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting achievements", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":          uid.String(),
		"achievements": achievements,
	})
}

func (s *Server) GetCoachContext(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("coach context error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	coachContext, err := s.coachService.BuildContext(ctx, uid, time.Now())
	if err != nil {
		logger.Error("coach context error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building coach context", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, coachContext)
}

func (s *Server) SaveReminder(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("save reminder error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req ReminderRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("save reminder error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	setting, err := s.reminderService.SaveSetting(ctx, uid, &service.ReminderRequest{
		Enabled:    req.Enabled,
		RemindTime: req.RemindTime,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidReminder) {
			logger.Error("save reminder error: invalid time")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "remind_time must be HH:MM", nil)
			return
		}
		logger.Error("save reminder error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while saving reminder", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, setting)
	logger.Info("reminder setting saved")
}

func (s *Server) GetDueReminders(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	_, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("due reminders error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	due, err := s.reminderService.DueAt(ctx, time.Now())
	if err != nil {
		logger.Error("due reminders error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while listing due reminders", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"due": due,
	})
}
