package chat

import (
	"strings"
)

// Button actions encoded in custom identifiers.
const (
	ActionClaim = "claim"
	ActionLog   = "log"
)

// CustomID encodes a button identifier as "<action>:<order>".
func CustomID(action, orderID string) string {
	return action + ":" + orderID
}

// ParseCustomID splits a button identifier into action and order id.
// ok is false when either half is missing.
func ParseCustomID(id string) (action, orderID string, ok bool) {
	action, orderID, found := strings.Cut(strings.TrimSpace(id), ":")
	if !found || action == "" || strings.TrimSpace(orderID) == "" {
		return "", "", false
	}
	return action, strings.TrimSpace(orderID), true
}

// UserMention renders a user reference the platform turns into a ping.
func UserMention(userID string) string { return "<@" + userID + ">" }

// ChannelMention renders a clickable channel reference.
func ChannelMention(channelID string) string { return "<#" + channelID + ">" }

// CloneEmbeds returns a deep copy of embeds so callers can edit footers
// without touching the inbound event.
func CloneEmbeds(embeds []Embed) []Embed {
	if len(embeds) == 0 {
		return nil
	}
	out := make([]Embed, len(embeds))
	for i, e := range embeds {
		out[i] = e
		if len(e.Fields) > 0 {
			out[i].Fields = append([]EmbedField(nil), e.Fields...)
		}
	}
	return out
}
