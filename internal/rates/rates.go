package rates

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Rate is an interest rate percentage, normalised to two decimal places.
type Rate struct {
	decimal.Decimal
}

// NewRate rounds d to the canonical two-decimal representation.
func NewRate(d decimal.Decimal) Rate {
	return Rate{d.Round(2)}
}

// RateFromFloat builds a Rate from a float value.
func RateFromFloat(f float64) Rate {
	return NewRate(decimal.NewFromFloat(f))
}

// ParseRate parses a decimal string such as "4.49".
func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("parse rate %q: %w", s, err)
	}
	return NewRate(d), nil
}

// Equal reports whether two rates are numerically identical.
func (r Rate) Equal(other Rate) bool {
	return r.Decimal.Equal(other.Decimal)
}

// MarshalJSON encodes the rate as a bare two-decimal number, matching the
// persisted file format.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.StringFixed(2)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (r *Rate) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parse rate %q: %w", s, err)
	}
	r.Decimal = d.Round(2)
	return nil
}

// Key identifies one rate series within a source.
type Key struct {
	Product string
	Term    string
}

func (k Key) String() string {
	return k.Product + " " + k.Term
}

// Entry is one unstamped rate from a fresh fetch.
type Entry struct {
	ProductName    string `json:"product_name"`
	Term           string `json:"term"`
	RatePercentage Rate   `json:"rate_percentage"`
}

// Key returns the identity key of the entry.
func (e Entry) Key() Key {
	return Key{Product: e.ProductName, Term: e.Term}
}

// Snapshot is one fetch cycle's rate listing, in feed order.
type Snapshot []Entry

// Observation is one persisted data point.
type Observation struct {
	ProductName    string    `json:"product_name"`
	Term           string    `json:"term"`
	RatePercentage Rate      `json:"rate_percentage"`
	ObservedAt     time.Time `json:"observed_at"`
}

// Key returns the identity key of the observation.
func (o Observation) Key() Key {
	return Key{Product: o.ProductName, Term: o.Term}
}

// History is the append-only observation log for one source. Insertion order
// is chronological order; the reducer relies on this rather than re-sorting
// by timestamp.
type History struct {
	SourceLastUpdated *time.Time    `json:"source_last_updated"`
	Observations      []Observation `json:"observations"`
}

// LatestByKey maps each key to its most recent rate. Later entries win on
// key collision, so the result reflects the current state of the log.
func LatestByKey(h History) map[Key]Rate {
	latest := make(map[Key]Rate, len(h.Observations))
	for _, obs := range h.Observations {
		latest[obs.Key()] = obs.RatePercentage
	}
	return latest
}

// EnrichedState is the latest observation for a key plus derived change,
// recency, and novelty fields. Computed on read, never persisted.
type EnrichedState struct {
	Observation
	RateChange               Rate
	IsRecentChange           bool
	IsNewProduct             bool
	DaysSinceFirstAppearance int
	DaysSinceUpdate          int
}
