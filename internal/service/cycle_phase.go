package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/selune/lunora/pkg/entity"
)

// ForecastHorizonDays is the fixed rolling window the forecast engine fills.
const ForecastHorizonDays = 90

// PhaseForDay classifies a 1-based day-in-cycle by fixed bands. The bands are
// deterministic functions of cycleLength and lutealLength only:
// days 1..5 menstrual, then follicular up to cycleLength-lutealLength, then
// 3 ovulatory days, the rest luteal.
func PhaseForDay(dayInCycle, cycleLength, lutealLength int) (entity.Phase, float64) {
	follicularEnd := cycleLength - lutealLength
	switch {
	case dayInCycle <= 5:
		return entity.PhaseMenstrual, 0.9
	case dayInCycle <= follicularEnd:
		return entity.PhaseFollicular, 0.8
	case dayInCycle <= follicularEnd+3:
		return entity.PhaseOvulatory, 0.7
	default:
		return entity.PhaseLuteal, 0.8
	}
}

// BuildForecastWindow generates the per-day phase rows for the rolling
// horizon starting at anchor. dayInCycle = (i mod cycleLength) + 1, so the
// window wraps across cycle boundaries.
func BuildForecastWindow(uid uuid.UUID, anchor time.Time, cycleLength, lutealLength, horizonDays int) []entity.PhaseForecast {
	anchor = dateOnly(anchor)
	forecasts := make([]entity.PhaseForecast, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		dayInCycle := (i % cycleLength) + 1
		phase, confidence := PhaseForDay(dayInCycle, cycleLength, lutealLength)
		forecasts = append(forecasts, entity.PhaseForecast{
			UserID:     uid,
			Date:       anchor.AddDate(0, 0, i),
			Phase:      phase,
			Confidence: confidence,
		})
	}
	return forecasts
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}
