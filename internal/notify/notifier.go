package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rafau/kiwi-rates/internal/rates"
)

// Notifier delivers a rate-change push message. Delivery is best-effort:
// callers log failures and carry on.
type Notifier interface {
	Notify(ctx context.Context, bank string, changed rates.Snapshot, previous map[rates.Key]rates.Rate) error
}

// NtfyNotifier pushes messages to an ntfy.sh topic.
type NtfyNotifier struct {
	topic   string
	baseURL string
	tags    string
	client  *http.Client
	logger  zerolog.Logger
}

// NewNtfy constructs an ntfy notifier.
func NewNtfy(topic, baseURL, tags string, timeout time.Duration, logger zerolog.Logger) *NtfyNotifier {
	if baseURL == "" {
		baseURL = "https://ntfy.sh"
	}
	if tags == "" {
		tags = "chart_with_upwards_trend"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &NtfyNotifier{
		topic:   topic,
		baseURL: strings.TrimRight(baseURL, "/"),
		tags:    tags,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "notifier").Logger(),
	}
}

// Notify formats and publishes one message for a batch of changed rates.
func (n *NtfyNotifier) Notify(ctx context.Context, bank string, changed rates.Snapshot, previous map[rates.Key]rates.Rate) error {
	title, body := FormatMessage(bank, changed, previous)

	url := n.baseURL + "/" + n.topic
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("create ntfy request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Tags", n.tags)
	req.Header.Set("Markdown", "yes")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy returned status %d", resp.StatusCode)
	}

	n.logger.Info().Str("bank", bank).Int("changes", len(changed)).Msg("notification sent")
	return nil
}

// FormatMessage builds the push title and markdown body. Each changed entry
// becomes one bullet, showing the prior value when the key has one.
func FormatMessage(bank string, changed rates.Snapshot, previous map[rates.Key]rates.Rate) (string, string) {
	plural := "s"
	if len(changed) == 1 {
		plural = ""
	}
	title := fmt.Sprintf("%s: %d rate%s changed", bank, len(changed), plural)

	lines := make([]string, 0, len(changed))
	for _, entry := range changed {
		if old, ok := previous[entry.Key()]; ok {
			lines = append(lines, fmt.Sprintf("- %s %s: %s%% -> %s%%",
				entry.ProductName, entry.Term, old.StringFixed(2), entry.RatePercentage.StringFixed(2)))
		} else {
			lines = append(lines, fmt.Sprintf("- %s %s: %s%% (new)",
				entry.ProductName, entry.Term, entry.RatePercentage.StringFixed(2)))
		}
	}
	return title, strings.Join(lines, "\n")
}

var _ Notifier = (*NtfyNotifier)(nil)
