package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/internal/service"
	"github.com/selune/lunora/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takenAt(uid uuid.UUID, date string, hour int) entity.AdherenceLog {
	logDate := day(date)
	return entity.AdherenceLog{
		UserID:   uid,
		Date:     logDate,
		Taken:    true,
		LoggedAt: logDate.Add(time.Duration(hour) * time.Hour),
	}
}

func seedAdherence(t *testing.T, repo *fakeAdherenceRepo, logs []entity.AdherenceLog) {
	t.Helper()
	for i := range logs {
		require.NoError(t, repo.Upsert(context.Background(), &logs[i]))
	}
}

func TestListSeedsPresets(t *testing.T) {
	t.Parallel()
	uid := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	serv := service.NewChallengeService(challengesRepo, newFakeAdherenceRepo())

	challenges, err := serv.List(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, challenges, 4)

	byType := make(map[string]*entity.Challenge, len(challenges))
	for _, challenge := range challenges {
		byType[challenge.Type] = challenge
		assert.Equal(t, entity.ChallengeActive, challenge.Status)
		assert.Equal(t, 0, challenge.Progress)
		assert.Nil(t, challenge.Custom)
	}
	assert.Equal(t, 7, byType["streak_7"].Target)
	assert.Equal(t, 14, byType["streak_14"].Target)
	assert.Equal(t, 25, byType["steady_30"].Target)
	assert.Equal(t, 7, byType["early_riser"].Target)

	// Listing again must not duplicate the seeds
	challenges, err = serv.List(context.Background(), uid)
	require.NoError(t, err)
	assert.Len(t, challenges, 4)
}

func TestUpdateProgressStreakChallenges(t *testing.T) {
	t.Parallel()
	uid := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	serv := service.NewChallengeService(challengesRepo, newFakeAdherenceRepo())

	err := serv.UpdateProgress(context.Background(), uid, day("2024-01-05"), 5)
	require.NoError(t, err)

	assert.Equal(t, 5, challengesRepo.find(uid, "streak_7").Progress)
	assert.Equal(t, 5, challengesRepo.find(uid, "streak_14").Progress)
	assert.Equal(t, entity.ChallengeActive, challengesRepo.find(uid, "streak_7").Status)
}

func TestUpdateProgressCompletionIsOneWay(t *testing.T) {
	t.Parallel()
	uid := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	serv := service.NewChallengeService(challengesRepo, newFakeAdherenceRepo())

	err := serv.UpdateProgress(context.Background(), uid, day("2024-01-07"), 7)
	require.NoError(t, err)

	completed := challengesRepo.find(uid, "streak_7")
	assert.Equal(t, entity.ChallengeCompleted, completed.Status)
	assert.Equal(t, 7, completed.Progress)
	require.NotNil(t, completed.CompletedAt)
	stamp := *completed.CompletedAt

	// A later reset leaves the completed challenge untouched
	err = serv.UpdateProgress(context.Background(), uid, day("2024-01-09"), 0)
	require.NoError(t, err)

	completed = challengesRepo.find(uid, "streak_7")
	assert.Equal(t, entity.ChallengeCompleted, completed.Status)
	assert.Equal(t, 7, completed.Progress)
	assert.Equal(t, stamp, *completed.CompletedAt)
}

func TestUpdateProgressNeverDecreases(t *testing.T) {
	t.Parallel()
	uid := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	serv := service.NewChallengeService(challengesRepo, newFakeAdherenceRepo())

	require.NoError(t, serv.UpdateProgress(context.Background(), uid, day("2024-01-05"), 5))
	require.NoError(t, serv.UpdateProgress(context.Background(), uid, day("2024-01-06"), 2))

	assert.Equal(t, 5, challengesRepo.find(uid, "streak_7").Progress)
}

func TestUpdateProgressSteady30(t *testing.T) {
	t.Parallel()
	uid := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	adherenceRepo := newFakeAdherenceRepo()
	serv := service.NewChallengeService(challengesRepo, adherenceRepo)

	// 3 taken days inside the trailing 30, one before it, one skipped
	seedAdherence(t, adherenceRepo, []entity.AdherenceLog{
		takenAt(uid, "2023-12-01", 9),
		takenAt(uid, "2024-01-10", 9),
		takenAt(uid, "2024-01-15", 9),
		takenAt(uid, "2024-01-20", 9),
		{UserID: uid, Date: day("2024-01-18"), Taken: false},
	})

	err := serv.UpdateProgress(context.Background(), uid, day("2024-01-20"), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, challengesRepo.find(uid, "steady_30").Progress)
}

func TestUpdateProgressEarlyRiser(t *testing.T) {
	t.Parallel()
	uid := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	adherenceRepo := newFakeAdherenceRepo()
	serv := service.NewChallengeService(challengesRepo, adherenceRepo)

	// Two early logs in the window, one late log, one early but outside
	seedAdherence(t, adherenceRepo, []entity.AdherenceLog{
		takenAt(uid, "2024-01-05", 6),
		takenAt(uid, "2024-01-14", 7),
		takenAt(uid, "2024-01-15", 6),
		takenAt(uid, "2024-01-16", 21),
	})

	err := serv.UpdateProgress(context.Background(), uid, day("2024-01-16"), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, challengesRepo.find(uid, "early_riser").Progress)
}

func TestCreateCustom(t *testing.T) {
	t.Parallel()
	uid := uuid.New()
	serv := service.NewChallengeService(newFakeChallengesRepo(), newFakeAdherenceRepo())

	testCases := []struct {
		Desc    string
		Error   error
		Request *service.CustomGoalRequest
	}{
		{
			Desc:  "success",
			Error: nil,
			Request: &service.CustomGoalRequest{
				Title:  "evening stretches",
				Target: 20,
				Emoji:  "🧘",
			},
		},
		{
			Desc:    "error empty title",
			Error:   errorvalues.ErrInvalidGoal,
			Request: &service.CustomGoalRequest{Target: 20},
		},
		{
			Desc:    "error zero target",
			Error:   errorvalues.ErrInvalidGoal,
			Request: &service.CustomGoalRequest{Title: "evening stretches"},
		},
		{
			Desc:    "error target beyond a year",
			Error:   errorvalues.ErrInvalidGoal,
			Request: &service.CustomGoalRequest{Title: "evening stretches", Target: 400},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			challenge, err := serv.CreateCustom(context.Background(), uid, tc.Request)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, challenge.ID)
			assert.Equal(t, uid, challenge.UserID)
			assert.Equal(t, entity.ChallengeActive, challenge.Status)
			require.NotNil(t, challenge.Custom)
			assert.Equal(t, "evening stretches", challenge.Custom.Title)
		})
	}
}

func TestCustomGoalProgressCountsFromCreation(t *testing.T) {
	t.Parallel()
	uid := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	adherenceRepo := newFakeAdherenceRepo()
	serv := service.NewChallengeService(challengesRepo, adherenceRepo)

	seedAdherence(t, adherenceRepo, []entity.AdherenceLog{
		takenAt(uid, "2024-01-01", 9),
		takenAt(uid, "2024-01-12", 9),
		takenAt(uid, "2024-01-13", 9),
	})

	goal, err := serv.CreateCustom(context.Background(), uid, &service.CustomGoalRequest{
		Title:  "magnesium",
		Target: 10,
	})
	require.NoError(t, err)
	challengesRepo.byID[goal.ID].CreatedAt = day("2024-01-10")

	err = serv.UpdateProgress(context.Background(), uid, day("2024-01-13"), 2)
	require.NoError(t, err)

	updated, err := challengesRepo.GetByID(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Progress)
}

func TestUpdateCustom(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	stranger := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	serv := service.NewChallengeService(challengesRepo, newFakeAdherenceRepo())

	goal, err := serv.CreateCustom(context.Background(), owner, &service.CustomGoalRequest{
		Title:  "magnesium",
		Target: 30,
	})
	require.NoError(t, err)
	challengesRepo.byID[goal.ID].Progress = 12

	presets, err := serv.List(context.Background(), owner)
	require.NoError(t, err)
	var presetID uuid.UUID
	for _, challenge := range presets {
		if challenge.Type == "streak_7" {
			presetID = challenge.ID
		}
	}

	testCases := []struct {
		Desc    string
		Error   error
		ID      uuid.UUID
		UserID  uuid.UUID
		Request *service.CustomGoalRequest
	}{
		{
			Desc:    "success clamps progress to new target",
			Error:   nil,
			ID:      goal.ID,
			UserID:  owner,
			Request: &service.CustomGoalRequest{Title: "magnesium nightly", Target: 10},
		},
		{
			Desc:    "error unknown id",
			Error:   errorvalues.ErrChallengeNotFound,
			ID:      uuid.New(),
			UserID:  owner,
			Request: &service.CustomGoalRequest{Title: "magnesium", Target: 10},
		},
		{
			Desc:    "error wrong owner",
			Error:   errorvalues.ErrWrongOwner,
			ID:      goal.ID,
			UserID:  stranger,
			Request: &service.CustomGoalRequest{Title: "magnesium", Target: 10},
		},
		{
			Desc:    "error editing a preset",
			Error:   errorvalues.ErrNotCustomGoal,
			ID:      presetID,
			UserID:  owner,
			Request: &service.CustomGoalRequest{Title: "magnesium", Target: 10},
		},
		{
			Desc:    "error invalid payload",
			Error:   errorvalues.ErrInvalidGoal,
			ID:      goal.ID,
			UserID:  owner,
			Request: &service.CustomGoalRequest{Target: 10},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			updated, err := serv.UpdateCustom(context.Background(), tc.ID, tc.UserID, tc.Request)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "magnesium nightly", updated.Custom.Title)
			assert.Equal(t, 10, updated.Target)
			assert.Equal(t, 10, updated.Progress)
		})
	}
}

func TestDeleteCustom(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	challengesRepo := newFakeChallengesRepo()
	serv := service.NewChallengeService(challengesRepo, newFakeAdherenceRepo())

	goal, err := serv.CreateCustom(context.Background(), owner, &service.CustomGoalRequest{
		Title:  "magnesium",
		Target: 30,
	})
	require.NoError(t, err)

	err = serv.DeleteCustom(context.Background(), goal.ID, uuid.New())
	assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)

	err = serv.DeleteCustom(context.Background(), goal.ID, owner)
	require.NoError(t, err)

	_, err = challengesRepo.GetByID(context.Background(), goal.ID)
	assert.ErrorIs(t, err, errorvalues.ErrChallengeNotFound)
}
