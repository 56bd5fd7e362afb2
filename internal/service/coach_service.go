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

// CoachService assembles the read-only snapshot the external AI coach gets as
// conversation context. It never writes anything.
type CoachService struct {
	baselinesRepo    repository.BaselinesRepositoryI
	forecastsRepo    repository.ForecastsRepositoryI
	adherenceRepo    repository.AdherenceRepositoryI
	challengesRepo   repository.ChallengesRepositoryI
	achievementsRepo repository.AchievementsRepositoryI
}

func NewCoachService(
	baselinesRepo repository.BaselinesRepositoryI,
	forecastsRepo repository.ForecastsRepositoryI,
	adherenceRepo repository.AdherenceRepositoryI,
	challengesRepo repository.ChallengesRepositoryI,
	achievementsRepo repository.AchievementsRepositoryI,
) *CoachService {
	if baselinesRepo == nil || forecastsRepo == nil || adherenceRepo == nil || challengesRepo == nil || achievementsRepo == nil {
		log.Fatal("on coach service provided nil repos")
	}
	return &CoachService{
		baselinesRepo:    baselinesRepo,
		forecastsRepo:    forecastsRepo,
		adherenceRepo:    adherenceRepo,
		challengesRepo:   challengesRepo,
		achievementsRepo: achievementsRepo,
	}
}

func (cs *CoachService) BuildContext(ctx context.Context, uid uuid.UUID, now time.Time) (*CoachContext, error) {
	today := dateOnly(now)
	result := CoachContext{}

	baseline, err := cs.baselinesRepo.GetByUserID(ctx, uid)
	if err != nil && !errors.Is(err, errorvalues.ErrBaselineNotFound) {
		return nil, errors.New("repository error: " + err.Error())
	}
	result.Baseline = baseline

	forecast, err := cs.forecastsRepo.GetByUserAndDate(ctx, uid, today)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	result.TodayPhase = forecast

	logs, err := cs.adherenceRepo.GetRange(ctx, uid, today.AddDate(0, 0, -1), today)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	result.CurrentStreak = currentStreak(logs, today)

	result.TotalTaken, err = cs.adherenceRepo.CountTaken(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}

	result.Challenges, err = cs.challengesRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}

	result.Achievements, err = cs.achievementsRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &result, nil
}

// currentStreak reads the streak off the freshest log row. A streak ending
// yesterday is still alive today; anything older is broken.
func currentStreak(logs []entity.AdherenceLog, today time.Time) int {
	for i := len(logs) - 1; i >= 0; i-- {
		log := logs[i]
		if !log.Taken {
			continue
		}
		if sameDay(log.Date, today) || sameDay(log.Date, today.AddDate(0, 0, -1)) {
			return log.StreakCount
		}
	}
	return 0
}
