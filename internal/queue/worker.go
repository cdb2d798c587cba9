package queue

import (
	"context"
	"errors"
	"time"

	"github.com/orceu/orceu-api-saas/internal/logging"
	"github.com/sirupsen/logrus"
)

// Handler processes one task.
type Handler func(ctx context.Context, task Task) error

// pollWait is how long each Dequeue call blocks.
const pollWait = time.Second

// RunWorker takes tasks from c and passes them to handle until ctx is
// cancelled. Handler failures are logged and do not stop the worker.
func RunWorker(ctx context.Context, c Consumer, handle Handler) error {
	log := logging.FromContext(ctx)

	for {
		task, err := c.Dequeue(ctx, pollWait)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrEmpty):
			continue
		case err != nil:
			log.WithError(err).Warn("dequeue failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollWait):
			}
			continue
		}

		if err := handle(ctx, task); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"import_id": task.ImportID,
				"kind":      task.Kind,
			}).Error("import task failed")
		}
	}
}
