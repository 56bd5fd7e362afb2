package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/internal/repository"
	"github.com/selune/lunora/pkg/entity"
)

type ForecastService struct {
	baselinesRepo repository.BaselinesRepositoryI
	eventsRepo    repository.CycleEventsRepositoryI
	forecastsRepo repository.ForecastsRepositoryI
}

func NewForecastService(baselinesRepo repository.BaselinesRepositoryI, eventsRepo repository.CycleEventsRepositoryI, forecastsRepo repository.ForecastsRepositoryI) *ForecastService {
	if baselinesRepo == nil || eventsRepo == nil || forecastsRepo == nil {
		log.Fatal("on forecast service provided nil repos")
	}
	return &ForecastService{
		baselinesRepo: baselinesRepo,
		eventsRepo:    eventsRepo,
		forecastsRepo: forecastsRepo,
	}
}

// Rebuild anchors the cycle at the later of the baseline's last period start
// and the most recent logged period_start event, so a freshly logged period
// immediately re-anchors the window.
func (fs *ForecastService) Rebuild(ctx context.Context, uid uuid.UUID) (*ForecastResult, error) {
	baseline, err := fs.baselinesRepo.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrBaselineNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	latestStart, err := fs.eventsRepo.GetLatestByKind(ctx, uid, entity.EventPeriodStart)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	anchor := dateOnly(baseline.LastPeriodStart)
	if latestStart != nil && dateOnly(latestStart.Date).After(anchor) {
		anchor = dateOnly(latestStart.Date)
	}
	forecasts := BuildForecastWindow(uid, anchor, baseline.CycleLength, baseline.LutealLength, ForecastHorizonDays)
	err = fs.forecastsRepo.ReplaceForUser(ctx, uid, forecasts)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &ForecastResult{
		ForecastsGenerated: len(forecasts),
		StartDate:          anchor,
	}, nil
}

func (fs *ForecastService) GetWindow(ctx context.Context, uid uuid.UUID) ([]entity.PhaseForecast, error) {
	forecasts, err := fs.forecastsRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return forecasts, nil
}
