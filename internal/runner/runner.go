package runner

import (
	"context"
	"time"

	"dnsdelay/internal/models"
)

// DefaultDelay is the pause between attempts, keeping probes from bursting.
const DefaultDelay = 500 * time.Millisecond

// Prober performs a single timed resolution attempt.
type Prober interface {
	Probe(ctx context.Context, server, domain string) models.Attempt
}

// Runner drives a full probe session: a fixed number of strictly sequential
// attempts against one server, with a fixed delay after every attempt except
// the last. A failing attempt never stops the session.
type Runner struct {
	Prober   Prober
	Server   string
	Domain   string
	Attempts int
	Delay    time.Duration

	// OnAttempt, when set, observes each attempt as it completes.
	OnAttempt func(models.Attempt)

	sleep func(time.Duration)
	now   func() time.Time
}

// New builds a runner with the default inter-attempt delay.
func New(p Prober, server, domain string, attempts int) *Runner {
	return &Runner{
		Prober:   p,
		Server:   server,
		Domain:   domain,
		Attempts: attempts,
		Delay:    DefaultDelay,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Run executes the session and returns the collected report. The attempt
// count is always honoured in full; per-attempt failures surface only as
// failed entries in the report.
func (r *Runner) Run(ctx context.Context) models.Report {
	report := models.Report{
		Server:    r.Server,
		Domain:    r.Domain,
		StartedAt: r.now().UTC(),
		Attempts:  make([]models.Attempt, 0, r.Attempts),
	}

	for i := 1; i <= r.Attempts; i++ {
		attempt := r.Prober.Probe(ctx, r.Server, r.Domain)
		attempt.Index = i
		report.Attempts = append(report.Attempts, attempt)

		if r.OnAttempt != nil {
			r.OnAttempt(attempt)
		}
		if i < r.Attempts {
			r.sleep(r.Delay)
		}
	}

	report.FinishedAt = r.now().UTC()
	return report
}
