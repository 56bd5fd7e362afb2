package api_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/selune/lunora/internal/service"
	"github.com/selune/lunora/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

var (
	username        = "test_name"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	uid             = uuid.New()
	testDate        = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
)

// Service mocks follow one state machine: success returns canned data,
// failure returns Err (or a generic error when Err is nil).

type mockState struct {
	success bool
	Err     error
}

func (m *mockState) ChangeState(success bool) {
	m.success = success
}

func (m *mockState) FailWith(err error) {
	m.success = false
	m.Err = err
}

func (m *mockState) err() error {
	if m.Err != nil {
		return m.Err
	}
	return errors.New("mocked error")
}

type UserServiceMock struct {
	mockState
}

func (usmock *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:           uid,
			Name:         username,
			PasswordHash: string(passwordHash),
		}, nil
	}
	return nil, usmock.err()
}

func (usmock *UserServiceMock) Login(ctx context.Context, name, password string) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:           uid,
			Name:         username,
			PasswordHash: string(passwordHash),
		}, nil
	}
	return nil, usmock.err()
}

func (usmock *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:           uid,
			Name:         username,
			PasswordHash: string(passwordHash),
		}, nil
	}
	return nil, usmock.err()
}

type CycleServiceMock struct {
	mockState
}

func (csmock *CycleServiceMock) SaveBaseline(ctx context.Context, uid uuid.UUID, req *service.BaselineRequest) (*entity.CycleBaseline, error) {
	if csmock.success {
		return &entity.CycleBaseline{
			UserID:          uid,
			CycleLength:     req.CycleLength,
			LutealLength:    req.LutealLength,
			LastPeriodStart: req.LastPeriodStart,
		}, nil
	}
	return nil, csmock.err()
}

func (csmock *CycleServiceMock) GetBaseline(ctx context.Context, uid uuid.UUID) (*entity.CycleBaseline, error) {
	if csmock.success {
		return &entity.CycleBaseline{
			UserID:          uid,
			CycleLength:     28,
			LutealLength:    14,
			LastPeriodStart: testDate,
		}, nil
	}
	return nil, csmock.err()
}

func (csmock *CycleServiceMock) AddEvent(ctx context.Context, uid uuid.UUID, kind string, date time.Time) (*entity.CycleEvent, error) {
	if csmock.success {
		return &entity.CycleEvent{
			ID:        1,
			UserID:    uid,
			Date:      date,
			Kind:      entity.EventKind(kind),
			CreatedAt: time.Now(),
		}, nil
	}
	return nil, csmock.err()
}

func (csmock *CycleServiceMock) UndoLastEvent(ctx context.Context, uid uuid.UUID) (*entity.CycleEvent, error) {
	if csmock.success {
		return &entity.CycleEvent{
			ID:        1,
			UserID:    uid,
			Date:      testDate,
			Kind:      entity.EventPeriodStart,
			CreatedAt: time.Now(),
		}, nil
	}
	return nil, csmock.err()
}

type ForecastServiceMock struct {
	mockState
}

func (fsmock *ForecastServiceMock) Rebuild(ctx context.Context, uid uuid.UUID) (*service.ForecastResult, error) {
	if fsmock.success {
		return &service.ForecastResult{
			ForecastsGenerated: 90,
			StartDate:          testDate,
		}, nil
	}
	return nil, fsmock.err()
}

func (fsmock *ForecastServiceMock) GetWindow(ctx context.Context, uid uuid.UUID) ([]entity.PhaseForecast, error) {
	if fsmock.success {
		return []entity.PhaseForecast{
			{UserID: uid, Date: testDate, Phase: entity.PhaseMenstrual, Confidence: 0.9},
		}, nil
	}
	return nil, fsmock.err()
}

type AdherenceServiceMock struct {
	mockState
}

func (asmock *AdherenceServiceMock) MarkTaken(ctx context.Context, uid uuid.UUID, date time.Time, taken bool) (int, error) {
	if asmock.success {
		return 3, nil
	}
	return 0, asmock.err()
}

func (asmock *AdherenceServiceMock) GetRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.AdherenceLog, error) {
	if asmock.success {
		return []entity.AdherenceLog{
			{UserID: uid, Date: from, Taken: true, StreakCount: 1, LoggedAt: time.Now()},
		}, nil
	}
	return nil, asmock.err()
}

type ChallengeServiceMock struct {
	mockState
}

func (chmock *ChallengeServiceMock) UpdateProgress(ctx context.Context, uid uuid.UUID, date time.Time, streak int) error {
	if chmock.success {
		return nil
	}
	return chmock.err()
}

func (chmock *ChallengeServiceMock) List(ctx context.Context, uid uuid.UUID) ([]*entity.Challenge, error) {
	if chmock.success {
		return []*entity.Challenge{
			{ID: uuid.New(), UserID: uid, Type: "streak_7", Target: 7, Status: entity.ChallengeActive, Emoji: "🔥"},
		}, nil
	}
	return nil, chmock.err()
}

func (chmock *ChallengeServiceMock) CreateCustom(ctx context.Context, uid uuid.UUID, req *service.CustomGoalRequest) (*entity.Challenge, error) {
	if chmock.success {
		return &entity.Challenge{
			ID:     uuid.New(),
			UserID: uid,
			Type:   "custom_test",
			Target: req.Target,
			Status: entity.ChallengeActive,
			Custom: &entity.CustomGoalMeta{Title: req.Title, Description: req.Description},
		}, nil
	}
	return nil, chmock.err()
}

func (chmock *ChallengeServiceMock) UpdateCustom(ctx context.Context, id, uid uuid.UUID, req *service.CustomGoalRequest) (*entity.Challenge, error) {
	if chmock.success {
		return &entity.Challenge{
			ID:     id,
			UserID: uid,
			Type:   "custom_test",
			Target: req.Target,
			Status: entity.ChallengeActive,
			Custom: &entity.CustomGoalMeta{Title: req.Title, Description: req.Description},
		}, nil
	}
	return nil, chmock.err()
}

func (chmock *ChallengeServiceMock) DeleteCustom(ctx context.Context, id, uid uuid.UUID) error {
	if chmock.success {
		return nil
	}
	return chmock.err()
}

type AchievementServiceMock struct {
	mockState
}

func (amock *AchievementServiceMock) Check(ctx context.Context, uid uuid.UUID, streak int) error {
	if amock.success {
		return nil
	}
	return amock.err()
}

func (amock *AchievementServiceMock) List(ctx context.Context, uid uuid.UUID) ([]entity.Achievement, error) {
	if amock.success {
		return []entity.Achievement{
			{UserID: uid, Type: "first_week", UnlockedAt: time.Now()},
		}, nil
	}
	return nil, amock.err()
}

type ReminderServiceMock struct {
	mockState
}

func (rmock *ReminderServiceMock) SaveSetting(ctx context.Context, uid uuid.UUID, req *service.ReminderRequest) (*entity.ReminderSetting, error) {
	if rmock.success {
		return &entity.ReminderSetting{UserID: uid, Enabled: req.Enabled, RemindMinute: 510}, nil
	}
	return nil, rmock.err()
}

func (rmock *ReminderServiceMock) DueAt(ctx context.Context, now time.Time) ([]entity.ReminderSetting, error) {
	if rmock.success {
		return []entity.ReminderSetting{
			{UserID: uid, Enabled: true, RemindMinute: 480},
		}, nil
	}
	return nil, rmock.err()
}

type CoachServiceMock struct {
	mockState
}

func (comock *CoachServiceMock) BuildContext(ctx context.Context, uid uuid.UUID, now time.Time) (*service.CoachContext, error) {
	if comock.success {
		return &service.CoachContext{
			CurrentStreak: 3,
			TotalTaken:    10,
		}, nil
	}
	return nil, comock.err()
}
