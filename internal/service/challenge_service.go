package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/internal/repository"
	"github.com/selune/lunora/pkg/entity"
)

const customTypePrefix = "custom_"

// earlyRiserHour: doses logged before this hour count toward early_riser.
const earlyRiserHour = 8

type presetChallenge struct {
	Type   string
	Target int
	// Window is the trailing day span a rolling rule counts over; zero for
	// pure streak rules
	Window int
	Emoji  string
}

// presetCatalog is seeded for every user and kept at full strength: a preset
// a user lacks gets recreated on the next evaluation.
var presetCatalog = []presetChallenge{
	{Type: "streak_7", Target: 7, Emoji: "🔥"},
	{Type: "streak_14", Target: 14, Emoji: "💎"},
	{Type: "steady_30", Target: 25, Window: 30, Emoji: "🌙"},
	{Type: "early_riser", Target: 7, Window: 7, Emoji: "🌅"},
}

type ChallengeService struct {
	challengesRepo repository.ChallengesRepositoryI
	adherenceRepo  repository.AdherenceRepositoryI
}

func NewChallengeService(challengesRepo repository.ChallengesRepositoryI, adherenceRepo repository.AdherenceRepositoryI) *ChallengeService {
	if challengesRepo == nil || adherenceRepo == nil {
		log.Fatal("on challenge service provided nil repos")
	}
	return &ChallengeService{
		challengesRepo: challengesRepo,
		adherenceRepo:  adherenceRepo,
	}
}

// UpdateProgress recomputes every active challenge from the authoritative log
// history. Stored progress only moves up, and active→completed is one-way:
// a later, lower recomputation never reopens a finished challenge.
func (cs *ChallengeService) UpdateProgress(ctx context.Context, uid uuid.UUID, date time.Time, streak int) error {
	if err := cs.ensurePresets(ctx, uid); err != nil {
		return err
	}
	challenges, err := cs.challengesRepo.GetByUserID(ctx, uid)
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	day := dateOnly(date)
	history, err := cs.adherenceRepo.GetRange(ctx, uid, day.AddDate(0, 0, -streakScanBound), day)
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	for _, challenge := range challenges {
		if challenge.Status != entity.ChallengeActive {
			continue
		}
		progress := computeProgress(challenge, history, day, streak)
		if progress <= challenge.Progress {
			continue
		}
		status := entity.ChallengeActive
		var completedAt *time.Time
		if progress >= challenge.Target {
			progress = challenge.Target
			status = entity.ChallengeCompleted
			now := time.Now()
			completedAt = &now
		}
		err = cs.challengesRepo.SaveProgress(ctx, challenge.ID, progress, status, completedAt)
		if err != nil {
			return errors.New("repository error: " + err.Error())
		}
	}
	return nil
}

func computeProgress(challenge *entity.Challenge, history []entity.AdherenceLog, day time.Time, streak int) int {
	switch challenge.Type {
	case "streak_7", "streak_14":
		return minInt(streak, challenge.Target)
	case "steady_30":
		return countTakenSince(history, day.AddDate(0, 0, -29))
	case "early_riser":
		return countEarlySince(history, day.AddDate(0, 0, -6))
	default:
		if strings.HasPrefix(challenge.Type, customTypePrefix) {
			// Custom goals count taken days since the goal was created
			return countTakenSince(history, dateOnly(challenge.CreatedAt))
		}
		return 0
	}
}

func countTakenSince(history []entity.AdherenceLog, from time.Time) int {
	count := 0
	for _, log := range history {
		if log.Taken && !dateOnly(log.Date).Before(from) {
			count++
		}
	}
	return count
}

func countEarlySince(history []entity.AdherenceLog, from time.Time) int {
	count := 0
	for _, log := range history {
		if log.Taken && !dateOnly(log.Date).Before(from) && log.LoggedAt.Hour() < earlyRiserHour {
			count++
		}
	}
	return count
}

func (cs *ChallengeService) ensurePresets(ctx context.Context, uid uuid.UUID) error {
	for _, preset := range presetCatalog {
		_, err := cs.challengesRepo.CreateIfAbsent(ctx, &entity.Challenge{
			UserID:   uid,
			Type:     preset.Type,
			Target:   preset.Target,
			Progress: 0,
			Status:   entity.ChallengeActive,
			Emoji:    preset.Emoji,
		})
		if err != nil {
			return errors.New("repository error: " + err.Error())
		}
	}
	return nil
}

func (cs *ChallengeService) List(ctx context.Context, uid uuid.UUID) ([]*entity.Challenge, error) {
	if err := cs.ensurePresets(ctx, uid); err != nil {
		return nil, err
	}
	challenges, err := cs.challengesRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return challenges, nil
}

func (cs *ChallengeService) CreateCustom(ctx context.Context, uid uuid.UUID, req *CustomGoalRequest) (*entity.Challenge, error) {
	if err := validate.Struct(*req); err != nil {
		return nil, errorvalues.ErrInvalidGoal
	}
	challenge := entity.Challenge{
		UserID:   uid,
		Type:     customTypePrefix + uuid.NewString(),
		Target:   req.Target,
		Progress: 0,
		Status:   entity.ChallengeActive,
		Emoji:    req.Emoji,
		Custom: &entity.CustomGoalMeta{
			Title:       req.Title,
			Description: req.Description,
		},
	}
	inserted, err := cs.challengesRepo.CreateIfAbsent(ctx, &challenge)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if !inserted {
		return nil, errorvalues.ErrChallengeExists
	}
	return &challenge, nil
}

// UpdateCustom is the one sanctioned way progress may move down: an explicit
// user edit of their own goal.
func (cs *ChallengeService) UpdateCustom(ctx context.Context, id, uid uuid.UUID, req *CustomGoalRequest) (*entity.Challenge, error) {
	if err := validate.Struct(*req); err != nil {
		return nil, errorvalues.ErrInvalidGoal
	}
	challenge, err := cs.getOwnedCustom(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	challenge.Target = req.Target
	if challenge.Progress > req.Target {
		challenge.Progress = req.Target
	}
	challenge.Custom.Title = req.Title
	challenge.Custom.Description = req.Description
	err = cs.challengesRepo.UpdateCustom(ctx, challenge)
	if err != nil {
		if errors.Is(err, errorvalues.ErrChallengeNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return challenge, nil
}

func (cs *ChallengeService) DeleteCustom(ctx context.Context, id, uid uuid.UUID) error {
	_, err := cs.getOwnedCustom(ctx, id, uid)
	if err != nil {
		return err
	}
	err = cs.challengesRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrChallengeNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (cs *ChallengeService) getOwnedCustom(ctx context.Context, id, uid uuid.UUID) (*entity.Challenge, error) {
	challenge, err := cs.challengesRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrChallengeNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if challenge.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	if !strings.HasPrefix(challenge.Type, customTypePrefix) {
		return nil, errorvalues.ErrNotCustomGoal
	}
	return challenge, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
