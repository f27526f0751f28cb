package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/rocketshoes-cart/pkg/logger"
)

const defaultNoticeRetention = 24 * time.Hour

type NoticeRetentionJobParams struct {
	Logger    *logger.Logger
	Feed      noticePruner
	Retention time.Duration
}

type noticePruner interface {
	DeleteOlderThan(cutoff time.Time) int
}

// NewNoticeRetentionJob builds the job that drops notices older than the
// retention window from the feed.
func NewNoticeRetentionJob(params NoticeRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Feed == nil {
		return nil, fmt.Errorf("notice feed required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultNoticeRetention
	}
	return &noticeRetentionJob{
		logg:      params.Logger,
		feed:      params.Feed,
		retention: retention,
		now:       time.Now,
	}, nil
}

type noticeRetentionJob struct {
	logg      *logger.Logger
	feed      noticePruner
	retention time.Duration
	now       func() time.Time
}

func (j *noticeRetentionJob) Name() string { return "notice-retention" }

func (j *noticeRetentionJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cutoff := j.now().UTC().Add(-j.retention)
	removed := j.feed.DeleteOlderThan(cutoff)

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":          cutoff,
		"retention":       j.retention.String(),
		"notices_removed": removed,
	})
	j.logg.Info(logCtx, "notice retention complete")
	return nil
}
