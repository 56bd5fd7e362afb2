package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/selune/lunora/internal/repository"
	"github.com/selune/lunora/pkg/entity"
)

type AdherenceService struct {
	adherenceRepo      repository.AdherenceRepositoryI
	challengeService   ChallengeServiceI
	achievementService AchievementServiceI
}

func NewAdherenceService(adherenceRepo repository.AdherenceRepositoryI, challengeService ChallengeServiceI, achievementService AchievementServiceI) *AdherenceService {
	if adherenceRepo == nil || challengeService == nil || achievementService == nil {
		log.Fatal("on adherence service provided nil dependencies")
	}
	return &AdherenceService{
		adherenceRepo:      adherenceRepo,
		challengeService:   challengeService,
		achievementService: achievementService,
	}
}

// MarkTaken recomputes the streak by scanning the trailing year of log rows
// instead of incrementing yesterday's counter, so backfilled or reordered
// marks still converge on the right value. taken=false is an explicit reset:
// the row is stored with streak 0, not skipped.
func (as *AdherenceService) MarkTaken(ctx context.Context, uid uuid.UUID, date time.Time, taken bool) (int, error) {
	day := dateOnly(date)
	streak, err := as.adherenceRepo.MarkTaken(ctx, &entity.AdherenceLog{
		UserID:   uid,
		Date:     day,
		Taken:    taken,
		LoggedAt: time.Now(),
	}, day.AddDate(0, 0, -streakScanBound), func(history []entity.AdherenceLog) int {
		return ComputeStreak(history, day, taken)
	})
	if err != nil {
		return 0, errors.New("repository error: " + err.Error())
	}
	err = as.challengeService.UpdateProgress(ctx, uid, day, streak)
	if err != nil {
		return 0, errors.New("challenge evaluation error: " + err.Error())
	}
	err = as.achievementService.Check(ctx, uid, streak)
	if err != nil {
		return 0, errors.New("achievement evaluation error: " + err.Error())
	}
	return streak, nil
}

func (as *AdherenceService) GetRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.AdherenceLog, error) {
	logs, err := as.adherenceRepo.GetRange(ctx, uid, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return logs, nil
}
