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

// undoWindow limits the "undo last" operation to freshly created events.
const undoWindow = time.Hour * 24

type CycleService struct {
	baselinesRepo   repository.BaselinesRepositoryI
	eventsRepo      repository.CycleEventsRepositoryI
	forecastService ForecastServiceI
}

func NewCycleService(baselinesRepo repository.BaselinesRepositoryI, eventsRepo repository.CycleEventsRepositoryI, forecastService ForecastServiceI) *CycleService {
	if baselinesRepo == nil || eventsRepo == nil || forecastService == nil {
		log.Fatal("on cycle service provided nil dependencies")
	}
	return &CycleService{
		baselinesRepo:   baselinesRepo,
		eventsRepo:      eventsRepo,
		forecastService: forecastService,
	}
}

func (cs *CycleService) SaveBaseline(ctx context.Context, uid uuid.UUID, req *BaselineRequest) (*entity.CycleBaseline, error) {
	err := validate.Struct(*req)
	if err != nil {
		return nil, errorvalues.ErrInvalidBaseline
	}
	baseline := entity.CycleBaseline{
		UserID:          uid,
		CycleLength:     req.CycleLength,
		LutealLength:    req.LutealLength,
		LastPeriodStart: dateOnly(req.LastPeriodStart),
	}
	err = cs.baselinesRepo.Upsert(ctx, &baseline)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	// The baseline exists now, so the rebuild can't hit ErrBaselineNotFound
	_, err = cs.forecastService.Rebuild(ctx, uid)
	if err != nil {
		return nil, errors.New("forecast rebuild error: " + err.Error())
	}
	return &baseline, nil
}

func (cs *CycleService) GetBaseline(ctx context.Context, uid uuid.UUID) (*entity.CycleBaseline, error) {
	baseline, err := cs.baselinesRepo.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrBaselineNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return baseline, nil
}

func (cs *CycleService) AddEvent(ctx context.Context, uid uuid.UUID, kind string, date time.Time) (*entity.CycleEvent, error) {
	eventKind, err := parseEventKind(kind)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, errorvalues.ErrInvalidDate
	}
	if dateOnly(date).After(dateOnly(time.Now())) {
		return nil, errorvalues.ErrInvalidDate
	}
	event := entity.CycleEvent{
		UserID: uid,
		Date:   dateOnly(date),
		Kind:   eventKind,
	}
	err = cs.eventsRepo.Create(ctx, &event)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventExists) || errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if eventKind == entity.EventPeriodStart {
		if err = cs.reanchorForecast(ctx, uid); err != nil {
			return nil, err
		}
	}
	return &event, nil
}

func (cs *CycleService) UndoLastEvent(ctx context.Context, uid uuid.UUID) (*entity.CycleEvent, error) {
	event, err := cs.eventsRepo.GetLatestCreated(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if event == nil {
		return nil, errorvalues.ErrNothingToUndo
	}
	if time.Since(event.CreatedAt) > undoWindow {
		return nil, errorvalues.ErrNothingToUndo
	}
	err = cs.eventsRepo.Delete(ctx, event.ID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return nil, errorvalues.ErrNothingToUndo
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if event.Kind == entity.EventPeriodStart {
		if err = cs.reanchorForecast(ctx, uid); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// reanchorForecast rebuilds after a period_start change. Users may log events
// before finishing onboarding, so a missing baseline is not an error here.
func (cs *CycleService) reanchorForecast(ctx context.Context, uid uuid.UUID) error {
	_, err := cs.forecastService.Rebuild(ctx, uid)
	if err != nil && !errors.Is(err, errorvalues.ErrBaselineNotFound) {
		return errors.New("forecast rebuild error: " + err.Error())
	}
	return nil
}

// parseEventKind also accepts the ovulation_edit wire alias some clients send
// and stores it as the plain ovulation kind.
func parseEventKind(kind string) (entity.EventKind, error) {
	switch kind {
	case string(entity.EventPeriodStart):
		return entity.EventPeriodStart, nil
	case string(entity.EventPeriodEnd):
		return entity.EventPeriodEnd, nil
	case string(entity.EventOvulation), "ovulation_edit":
		return entity.EventOvulation, nil
	default:
		return "", errorvalues.ErrInvalidEventKind
	}
}
