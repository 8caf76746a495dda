package guide

import (
	"github.com/robfig/cron/v3"

	"athena/internal/observability"
)

// StartReaper schedules the idle-session sweep on a fixed cadence. The
// returned cron is already running; callers stop it on shutdown. The reaper
// only deletes, it never mutates live session content.
func (g *Engine) StartReaper() *cron.Cron {
	c := cron.New()
	c.Schedule(cron.Every(g.cfg.SweepInterval()), cron.FuncJob(func() {
		if n := g.Sweep(); n > 0 {
			observability.Logger().Info("swept idle guide sessions", "removed", n, "remaining", g.store.Len())
		}
	}))
	c.Start()
	return c
}
