package jobs

import (
	"context"
	"time"

	"github.com/Alexotieno1717/bonga-survey-sub000/log"
	"github.com/Alexotieno1717/bonga-survey-sub000/model"
	"github.com/Alexotieno1717/bonga-survey-sub000/survey"
)

const lockTTL = 5 * time.Minute

type Syncer interface {
	Run(ctx context.Context, today model.Date) (survey.SyncResult, error)
}

// StatusSync runs the survey status sync on a fixed interval.
type StatusSync struct {
	Syncer   Syncer
	Lock     Lock
	Interval time.Duration
	Now      func() time.Time
}

func NewStatusSync(syncer Syncer, lock Lock, interval time.Duration, loc *time.Location) *StatusSync {
	return &StatusSync{
		Syncer:   syncer,
		Lock:     lock,
		Interval: interval,
		Now:      func() time.Time { return time.Now().In(loc) },
	}
}

// RunOnce syncs statuses for the current day. ran is false when another
// replica holds the lock.
func (j *StatusSync) RunOnce(ctx context.Context) (res survey.SyncResult, ran bool, err error) {
	today := model.DateOf(j.Now())
	key := "bonga:status-sync:" + today.String()

	ok, err := j.Lock.TryLock(ctx, key, lockTTL)
	if err != nil || !ok {
		return
	}
	defer func() {
		if err := j.Lock.Unlock(context.WithoutCancel(ctx), key); err != nil {
			log.Warnf("jobs.status_sync.unlock: %s", err)
		}
	}()

	res, err = j.Syncer.Run(ctx, today)
	return res, err == nil, err
}

// Loop runs the sync immediately and then every Interval until ctx is done.
func (j *StatusSync) Loop(ctx context.Context) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		j.runLogged(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (j *StatusSync) runLogged(ctx context.Context) {
	res, ran, err := j.RunOnce(ctx)
	switch {
	case err != nil:
		log.Errorf("jobs.status_sync: %s", err)
	case !ran:
		log.Debugf("jobs.status_sync: skipped, lock held elsewhere")
	default:
		log.WithFields(log.Fields{
			"activated": res.Activated,
			"completed": res.Completed,
		}).Info("jobs.status_sync: done")
	}
}
