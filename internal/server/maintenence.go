package server

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Maintenance interface {
	ID() string
	Clean(ctx context.Context) error
}

type GroupMaintenance struct {
	logger          *zap.Logger
	maintenanceList []Maintenance
}

func NewGroupMaintenance(logger *zap.Logger, m ...Maintenance) GroupMaintenance {
	return GroupMaintenance{
		logger:          logger,
		maintenanceList: m,
	}
}

func (o *GroupMaintenance) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		o.runOnce(ctx)
	}
}

func (o *GroupMaintenance) runOnce(ctx context.Context) {
	var wg errgroup.Group

	for _, m := range o.maintenanceList {
		m := m

		wg.Go(func() error {
			o.logger.Info("clean: start",
				zap.String("id", m.ID()),
			)

			start := time.Now()

			err := m.Clean(ctx)
			if err != nil {
				o.logger.Error("failed to clean",
					zap.String("id", m.ID()),
					zap.Error(err),
				)

				return err
			}

			o.logger.Info("clean: finish",
				zap.Duration("duration", time.Since(start)),
				zap.String("id", m.ID()),
			)

			return nil
		})
	}

	_ = wg.Wait()
}
