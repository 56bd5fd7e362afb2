package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/internal/repository"
	"github.com/selune/lunora/pkg/entity"
)

type ReminderService struct {
	remindersRepo repository.RemindersRepositoryI
}

func NewReminderService(remindersRepo repository.RemindersRepositoryI) *ReminderService {
	if remindersRepo == nil {
		log.Fatal("provided nil remindersRepo")
	}
	return &ReminderService{
		remindersRepo: remindersRepo,
	}
}

func (rs *ReminderService) SaveSetting(ctx context.Context, uid uuid.UUID, req *ReminderRequest) (*entity.ReminderSetting, error) {
	if err := validate.Struct(*req); err != nil {
		return nil, errorvalues.ErrInvalidReminder
	}
	minute, err := ParseClockMinute(req.RemindTime)
	if err != nil {
		return nil, errorvalues.ErrInvalidReminder
	}
	setting := entity.ReminderSetting{
		UserID:       uid,
		Enabled:      req.Enabled,
		RemindMinute: minute,
	}
	err = rs.remindersRepo.Upsert(ctx, &setting)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &setting, nil
}

// DueAt answers the cron trigger: who still needs a nudge right now. The
// sending itself is someone else's job.
func (rs *ReminderService) DueAt(ctx context.Context, now time.Time) ([]entity.ReminderSetting, error) {
	minuteOfDay := now.Hour()*60 + now.Minute()
	due, err := rs.remindersRepo.ListDue(ctx, dateOnly(now), minuteOfDay)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return due, nil
}
