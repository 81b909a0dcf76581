package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/gocsv/internal/csvfile"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.csv.enabled") {
		closer, err := csvfile.New(csvfile.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
		})
		if err != nil {
			slog.Error("failed to init module csv", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["CSV"] = closer
		}
	}
}
