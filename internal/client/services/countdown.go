package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
)

// Clock is the countdown's time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// Deadline is an offer end time.
type Deadline struct {
	ID     string
	Label  string
	EndsAt time.Time
}

// Remaining is a deadline still in the future, with the time left rounded
// down to whole seconds.
type Remaining struct {
	Deadline
	Left time.Duration
}

// Countdown recomputes time left on a fixed set of deadlines.
type Countdown struct {
	deadlines []Deadline
	clock     Clock
}

func NewCountdown(clock Clock, deadlines ...Deadline) *Countdown {
	if clock == nil {
		clock = SystemClock
	}
	ds := append([]Deadline(nil), deadlines...)
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].EndsAt.Before(ds[j].EndsAt) })
	return &Countdown{deadlines: ds, clock: clock}
}

// Snapshot lists the deadlines that have not passed at now. Passed ones are
// left out entirely.
func (c *Countdown) Snapshot(now time.Time) []Remaining {
	out := make([]Remaining, 0, len(c.deadlines))
	for _, d := range c.deadlines {
		left := d.EndsAt.Sub(now)
		if left <= 0 {
			continue
		}
		out = append(out, Remaining{Deadline: d, Left: left.Truncate(time.Second)})
	}
	return out
}

// Current is Snapshot at the clock's now.
func (c *Countdown) Current() []Remaining {
	return c.Snapshot(c.clock.Now())
}

// Done reports whether every deadline has passed at now.
func (c *Countdown) Done(now time.Time) bool {
	for _, d := range c.deadlines {
		if d.EndsAt.After(now) {
			return false
		}
	}
	return true
}

// Run calls fn with a snapshot taken at each tick's time until ctx is done
// or every deadline has passed. fn receives the final empty snapshot once.
func (c *Countdown) Run(ctx context.Context, ticks <-chan time.Time, fn func([]Remaining)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			fn(c.Snapshot(now))
			if c.Done(now) {
				return nil
			}
		}
	}
}

// RunEvery drives Run from a ticker that is stopped when Run returns.
func (c *Countdown) RunEvery(ctx context.Context, interval time.Duration, fn func([]Remaining)) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	return c.Run(ctx, t.C, fn)
}

// FormatRemaining renders d as "2d 03:04:05" or "03:04:05".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	secs %= 86400
	hms := fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	if days > 0 {
		return fmt.Sprintf("%dd %s", days, hms)
	}
	return hms
}

// OfferDeadlines picks the products that carry an offer end time.
func OfferDeadlines(products []models.Product) []Deadline {
	var out []Deadline
	for _, p := range products {
		if p.OfferEndsAt == nil || p.OfferEndsAt.IsZero() {
			continue
		}
		out = append(out, Deadline{ID: p.ID, Label: p.Name, EndsAt: *p.OfferEndsAt})
	}
	return out
}
