package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/msto63/gecli/foundation/cli/argument"
	"github.com/msto63/gecli/foundation/cli/session"
)

// delayJob completes once its deadline has passed. Cooperative instances
// poll it once per tick; under threaded scheduling the step sleeps.
type delayJob struct {
	sess     session.Session
	deadline time.Time
	started  time.Time
	now      func() time.Time
}

func (j *delayJob) Step(ctx context.Context) bool {
	remaining := j.deadline.Sub(j.now())
	if remaining > 0 {
		if j.sess.Cooperative() {
			return true
		}
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			j.sess.Printf("delay cancelled\r\n")
			return false
		case <-timer.C:
		}
	}
	j.sess.Printf("delay done after %s\r\n", j.now().Sub(j.started).Round(time.Millisecond))
	return false
}

func (a *App) delay(ctx context.Context, args *argument.Arguments) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		fmt.Fprint(session.Output(ctx), "delay needs a session\r\n")
		return
	}

	start := a.now()
	sess.StartJob(ctx, &delayJob{
		sess:     sess,
		deadline: start.Add(time.Duration(args.Uint32(0)) * time.Millisecond),
		started:  start,
		now:      a.now,
	})
}
