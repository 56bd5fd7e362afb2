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

type achievementRule struct {
	Type string
	// Unlocked is a pure predicate over aggregate history
	Unlocked func(totalTaken, streak int) bool
}

var achievementRules = []achievementRule{
	{Type: "first_week", Unlocked: func(total, _ int) bool { return total >= 7 }},
	{Type: "streak_7", Unlocked: func(_, streak int) bool { return streak >= 7 }},
	{Type: "monthly_devotion", Unlocked: func(total, _ int) bool { return total >= 30 }},
	{Type: "streak_14", Unlocked: func(_, streak int) bool { return streak >= 14 }},
}

type AchievementService struct {
	achievementsRepo repository.AchievementsRepositoryI
	adherenceRepo    repository.AdherenceRepositoryI
}

func NewAchievementService(achievementsRepo repository.AchievementsRepositoryI, adherenceRepo repository.AdherenceRepositoryI) *AchievementService {
	if achievementsRepo == nil || adherenceRepo == nil {
		log.Fatal("on achievement service provided nil repos")
	}
	return &AchievementService{
		achievementsRepo: achievementsRepo,
		adherenceRepo:    adherenceRepo,
	}
}

// Check unlocks every rule whose predicate holds. The repository's conflict
// handling makes re-runs idempotent, and nothing ever revokes an unlock.
func (as *AchievementService) Check(ctx context.Context, uid uuid.UUID, streak int) error {
	totalTaken, err := as.adherenceRepo.CountTaken(ctx, uid)
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	for _, rule := range achievementRules {
		if !rule.Unlocked(totalTaken, streak) {
			continue
		}
		err = as.achievementsRepo.Unlock(ctx, &entity.Achievement{
			UserID:     uid,
			Type:       rule.Type,
			UnlockedAt: time.Now(),
		})
		if err != nil {
			return errors.New("repository error: " + err.Error())
		}
	}
	return nil
}

func (as *AchievementService) List(ctx context.Context, uid uuid.UUID) ([]entity.Achievement, error) {
	achievements, err := as.achievementsRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return achievements, nil
}
