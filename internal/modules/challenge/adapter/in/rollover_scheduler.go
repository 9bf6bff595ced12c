package in

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	challengein "urworld/internal/modules/challenge/port/in"
	"urworld/internal/platform/logging"
)

const RolloverSpec = "@midnight"

// RolloverScheduler regenerates the daily challenge when the calendar day
// changes under a long-running process.
type RolloverScheduler struct {
	cron    *cron.Cron
	usecase challengein.Usecase
	logger  *slog.Logger
}

func NewRolloverScheduler(usecase challengein.Usecase, loc *time.Location, logger *slog.Logger) *RolloverScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &RolloverScheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		usecase: usecase,
		logger:  logging.OrDiscard(logger),
	}
}

func (s *RolloverScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(RolloverSpec, func() { s.Rollover(ctx) }); err != nil {
		return fmt.Errorf("schedule challenge rollover: %w", err)
	}
	s.cron.Start()
	s.logger.Info("challenge rollover scheduled", "spec", RolloverSpec)
	return nil
}

// Stop waits for a running rollover to finish.
func (s *RolloverScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *RolloverScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *RolloverScheduler) Rollover(ctx context.Context) {
	out, err := s.usecase.Today(ctx)
	if err != nil {
		s.logger.Warn("challenge rollover failed", "error", err)
		return
	}
	s.logger.Info("daily challenge", "id", out.ID, "date", out.Date, "regenerated", out.Regenerated)
}
