package refresher

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunScheduled runs the refresher on a standard five-field cron schedule until ctx is
// cancelled. Runs are not serialized against each other.
func (r *Refresher) RunScheduled(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithLogger(cronLogger{log: r.log.Sugar()}))

	if _, err := c.AddFunc(schedule, func() {
		_, _ = r.Run(ctx)
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	r.log.Info("refresh schedule started", zap.String("schedule", schedule))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	r.log.Info("refresh schedule stopped")
	return nil
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
