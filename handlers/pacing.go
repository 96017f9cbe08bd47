package handlers

import (
	"context"
	"time"
)

// Pacer holds a response back for a fixed presentation delay.
type Pacer struct {
	Delay time.Duration
}

// Wait returns early with ctx.Err() if the request goes away.
func (p Pacer) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
