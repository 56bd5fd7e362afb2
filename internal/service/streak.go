package service

import (
	"time"

	"github.com/selune/lunora/pkg/entity"
)

// streakScanBound caps the backward walk so a pathological history can't spin
// the calculator forever.
const streakScanBound = 365

// ComputeStreak walks backward from date through prior log rows and counts
// the unbroken run of taken days ending at date. A taken=false mark is an
// explicit reset to zero. The scan-from-source approach survives out-of-order
// backfills: each call rederives the streak instead of trusting a counter.
func ComputeStreak(history []entity.AdherenceLog, date time.Time, taken bool) int {
	if !taken {
		return 0
	}
	takenByDay := make(map[string]bool, len(history))
	for _, log := range history {
		takenByDay[dateOnly(log.Date).Format(time.DateOnly)] = log.Taken
	}
	streak := 1
	day := dateOnly(date).AddDate(0, 0, -1)
	for i := 0; i < streakScanBound; i++ {
		if !takenByDay[day.Format(time.DateOnly)] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
