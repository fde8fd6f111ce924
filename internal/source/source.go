package source

import (
	"context"
	"time"

	"github.com/rafau/kiwi-rates/internal/rates"
)

// Result is one successful fetch from a rate source: the publication date
// the source reports plus the unstamped rate listing in feed order.
type Result struct {
	LastUpdated time.Time
	Snapshot    rates.Snapshot
}

// Source retrieves the current published rates for one bank. Each source is
// tracked as one independent history file.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Result, error)
}
