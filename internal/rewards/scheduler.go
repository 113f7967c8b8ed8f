// internal/rewards/scheduler.go
//
// Optional automatic distribution: a weekly job that pays the previous
// week's prizes every Monday at 12:00 UTC. Enabled from main via
// REWARDS_AUTO_DISTRIBUTE; manual distribution through the admin endpoint
// works either way.

package rewards

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// StartScheduler launches the weekly distribution job and returns the
// running scheduler so main can shut it down.
func StartScheduler(d *Distributor) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.WeeklyJob(1,
			gocron.NewWeekdays(time.Monday),
			gocron.NewAtTimes(gocron.NewAtTime(12, 0, 0)),
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			outcomes, err := d.Distribute(ctx, time.Now())
			if err != nil {
				log.Error().Err(err).Msg("scheduled reward distribution failed")
				return
			}
			sent := 0
			for _, o := range outcomes {
				if o.Status == "sent" {
					sent++
				}
			}
			log.Info().Int("winners", len(outcomes)).Int("sent", sent).
				Msg("scheduled reward distribution finished")
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	log.Info().Msg("weekly reward scheduler started")
	return s, nil
}
