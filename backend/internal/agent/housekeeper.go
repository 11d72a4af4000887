// Package agent runs the bot's scheduled housekeeping.
package agent

import (
	"context"
	"fmt"
	"time"

	"pung-bot/backend/internal/constants"
	"pung-bot/backend/internal/metrics"
	"pung-bot/backend/internal/store"
	"pung-bot/backend/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedules
const (
	FlushSchedule        = "@every 5m"
	InactiveScanSchedule = "@every 1h"
	DailySummarySchedule = "0 0 * * *"
)

const jobTimeout = time.Minute

// Store is the part of the database housekeeping touches
type Store interface {
	Flush(ctx context.Context) error
	InactiveUsers(after time.Duration) []string
	DailyStats(day string) (store.DayStats, bool)
}

// Housekeeper periodically flushes the store, scans for inactive users and
// logs a summary of the previous day
type Housekeeper struct {
	cron   *cron.Cron
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewHousekeeper(s Store) (*Housekeeper, error) {
	h := &Housekeeper{
		cron:   cron.New(),
		store:  s,
		logger: logger.Named("housekeeping"),
		now:    time.Now,
	}

	jobs := []struct {
		spec string
		run  func()
	}{
		{FlushSchedule, h.flush},
		{InactiveScanSchedule, h.scanInactive},
		{DailySummarySchedule, h.dailySummary},
	}
	for _, job := range jobs {
		if _, err := h.cron.AddFunc(job.spec, job.run); err != nil {
			return nil, fmt.Errorf("failed to schedule %q: %w", job.spec, err)
		}
	}
	return h, nil
}

// Start runs the scheduler in its own goroutine
func (h *Housekeeper) Start() {
	h.cron.Start()
	h.logger.Info("Housekeeping started", zap.Int("jobs", len(h.cron.Entries())))
}

// Stop halts scheduling and waits for running jobs until ctx is done
func (h *Housekeeper) Stop(ctx context.Context) {
	done := h.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		h.logger.Warn("Housekeeping jobs still running at shutdown")
	}
}

func (h *Housekeeper) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := h.store.Flush(ctx); err != nil {
		metrics.Flushes.WithLabelValues("error").Inc()
		h.logger.Error("Scheduled flush failed", zap.Error(err))
		return
	}
	metrics.Flushes.WithLabelValues("ok").Inc()
}

func (h *Housekeeper) scanInactive() {
	ids := h.store.InactiveUsers(constants.InactiveAfter)
	metrics.InactiveUsers.Set(float64(len(ids)))
	h.logger.Info("Inactive user scan", zap.Int("inactive", len(ids)))
}

// dailySummary runs just after midnight and reports the day that ended
func (h *Housekeeper) dailySummary() {
	day := h.now().AddDate(0, 0, -1).Format("2006-01-02")
	stats, ok := h.store.DailyStats(day)
	if !ok {
		h.logger.Info("No activity recorded", zap.String("day", day))
		return
	}
	h.logger.Info("Daily summary",
		zap.String("day", day),
		zap.Int("messages", stats.Messages),
		zap.Int("active_users", len(stats.Users)),
	)
}
