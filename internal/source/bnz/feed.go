package bnz

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rafau/kiwi-rates/internal/rates"
)

const feedTimezone = "Pacific/Auckland"

type rateElement struct {
	Label    string `xml:"label"`
	Term     string `xml:"term"`
	Interest string `xml:"interest"`
}

// ParseFeed decodes the BNZ home-loan rates XML feed into the bank's
// last-updated date and the rate listing in feed order. Zero parsed rates is
// an error: the feed format changed or the source is down, never an
// empty-but-valid result.
func ParseFeed(body string) (time.Time, rates.Snapshot, error) {
	var (
		lastUpdatedText string
		snapshot        rates.Snapshot
	)

	decoder := xml.NewDecoder(strings.NewReader(body))
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("parse rates feed: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "lastupdated":
			if err := decoder.DecodeElement(&lastUpdatedText, &start); err != nil {
				return time.Time{}, nil, fmt.Errorf("parse rates feed: %w", err)
			}
		case "rate":
			var elem rateElement
			if err := decoder.DecodeElement(&elem, &start); err != nil {
				return time.Time{}, nil, fmt.Errorf("parse rates feed: %w", err)
			}

			label := strings.TrimSpace(elem.Label)
			term := strings.TrimSpace(elem.Term)
			interest := strings.TrimSpace(elem.Interest)
			if label == "" || term == "" || interest == "" {
				continue
			}

			rate, err := rates.ParseRate(interest)
			if err != nil {
				return time.Time{}, nil, fmt.Errorf("parse rates feed: %w", err)
			}
			snapshot = append(snapshot, rates.Entry{
				ProductName:    label,
				Term:           term,
				RatePercentage: rate,
			})
		}
	}

	if lastUpdatedText == "" {
		return time.Time{}, nil, errors.New("no lastupdated element found in feed")
	}
	lastUpdated, err := parseLastUpdated(lastUpdatedText)
	if err != nil {
		return time.Time{}, nil, err
	}

	if len(snapshot) == 0 {
		return time.Time{}, nil, errors.New("no rates found in feed: source format changed or source may be down")
	}

	return lastUpdated, snapshot, nil
}

// parseLastUpdated handles dates like "Thursday, 18 December 2025", stripping
// the leading day name and anchoring the result in Pacific/Auckland.
func parseLastUpdated(text string) (time.Time, error) {
	dateText := strings.TrimSpace(text)
	if _, rest, found := strings.Cut(dateText, ", "); found {
		dateText = rest
	}

	parsed, err := time.Parse("2 January 2006", dateText)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse lastupdated %q: %w", text, err)
	}

	loc, err := time.LoadLocation(feedTimezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone %s: %w", feedTimezone, err)
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc), nil
}
