// Package orderid extracts canonical order identifiers ("TD-…") from the
// free-form text of chat messages and embeds.
//
// Extraction is a pure function: input text is NFKC-normalized (so
// full-width characters pasted from other tools still match), scanned for the
// first word-bounded "TD-" token that forms a valid identifier once trimmed
// and uppercased.
package orderid

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-booster-bot/internal/chat"
	"github.com/tbourn/go-booster-bot/internal/domain"
)

const prefix = "TD-"

// minSuffixLen is the minimum number of characters after "TD-". Three is
// deliberate: short numeric ids such as TD-001 are real orders and must parse.
const minSuffixLen = 3

var (
	// tokenRE matches a bare order token anywhere in text.
	tokenRE = regexp.MustCompile(`(?i)\bTD-[A-Z0-9-]{3,}`)

	// labeledRE matches an explicit "Order ID:" label, optionally in bold
	// markdown ("**Order ID:** TD-…").
	labeledRE = regexp.MustCompile(`(?i)Order\s*ID\s*:?\s*\**\s*:?\s*(TD-[A-Z0-9-]{3,})`)
)

// Extract returns the first order identifier found in text.
func Extract(text string) (domain.OrderID, bool) {
	if text == "" {
		return "", false
	}
	return firstValid(tokenRE.FindAllString(norm.NFKC.String(text), -1))
}

// firstValid returns the first candidate that normalizes. A match such as
// "TD-AB-" is trimmed below the minimum length and must not hide a valid
// token later in the same text.
func firstValid(candidates []string) (domain.OrderID, bool) {
	for _, m := range candidates {
		if id, ok := normalize(m); ok {
			return id, true
		}
	}
	return "", false
}

// extractLabeled returns the order identifier following an "Order ID:" label.
func extractLabeled(text string) (domain.OrderID, bool) {
	if text == "" {
		return "", false
	}
	matches := labeledRE.FindAllStringSubmatch(norm.NFKC.String(text), -1)
	candidates := make([]string, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, m[1])
	}
	return firstValid(candidates)
}

// FromMessage extracts an order identifier from a chat message, trying its
// text sources in a fixed priority order:
//
//  1. an explicit "Order ID:" label in the content or an embed description
//  2. the message content
//  3. embed titles
//  4. embed descriptions
//  5. embed field values
//  6. embed footers
//
// The first match wins; no further disambiguation is attempted.
func FromMessage(msg chat.Message) (domain.OrderID, bool) {
	return FromTexts(msg.Content, msg.Embeds)
}

// FromTexts is FromMessage for callers that only hold content and embeds
// (e.g. the embeds attached to a pressed button's message).
func FromTexts(content string, embeds []chat.Embed) (domain.OrderID, bool) {
	if id, ok := extractLabeled(content); ok {
		return id, true
	}
	for _, e := range embeds {
		if id, ok := extractLabeled(e.Description); ok {
			return id, true
		}
	}

	if id, ok := Extract(content); ok {
		return id, true
	}
	for _, e := range embeds {
		if id, ok := Extract(e.Title); ok {
			return id, true
		}
	}
	for _, e := range embeds {
		if id, ok := Extract(e.Description); ok {
			return id, true
		}
	}
	for _, e := range embeds {
		for _, f := range e.Fields {
			if id, ok := Extract(f.Value); ok {
				return id, true
			}
		}
	}
	for _, e := range embeds {
		if id, ok := Extract(e.Footer); ok {
			return id, true
		}
	}
	return "", false
}

// Normalize canonicalizes an identifier that is already known to be an
// order token (e.g. from a button payload). It returns false when s does not
// look like an order identifier.
func Normalize(s string) (domain.OrderID, bool) {
	s = strings.TrimSpace(norm.NFKC.String(s))
	return firstValid(tokenRE.FindAllString(s, -1))
}

func normalize(raw string) (domain.OrderID, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimRight(s, "-")
	if !strings.HasPrefix(s, prefix) || len(s)-len(prefix) < minSuffixLen {
		return "", false
	}
	return domain.OrderID(s), true
}
