package bnz

import (
	"errors"
	"regexp"
)

// The rates feed requires a short-lived API key that the public compare-rates
// page embeds in its window.__bootstrap object.
var apiKeyPattern = regexp.MustCompile(`apiKey\s*:\s*["']([^"']+)["']`)

// ExtractAPIKey pulls the feed API key out of the compare-rates HTML page.
func ExtractAPIKey(html string) (string, error) {
	match := apiKeyPattern.FindStringSubmatch(html)
	if match == nil {
		return "", errors.New("api key not found in page")
	}
	return match[1], nil
}
