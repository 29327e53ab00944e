package commands

import (
	"context"
	"log/slog"
	"sync"
)

type task struct {
	name string
	fn   func(context.Context) error
}

// runAllSettled runs every task concurrently and waits for all of them:
// outcomes are collected, not short-circuited, so one failing notification
// never blocks or cancels the others.
func runAllSettled(ctx context.Context, tasks []task) {
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("post-commit task panicked", "task", t.name, "panic", rec)
				}
			}()
			if err := t.fn(ctx); err != nil {
				slog.Warn("post-commit task failed", "task", t.name, "error", err)
				return
			}
			slog.Debug("post-commit task done", "task", t.name)
		}(t)
	}
	wg.Wait()
}
