package orderid

import (
	"testing"

	"github.com/tbourn/go-booster-bot/internal/chat"
	"github.com/tbourn/go-booster-bot/internal/domain"
)

func TestExtract_Table(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want domain.OrderID
		ok   bool
	}{
		{"plain", "TD-8FJ2K1", "TD-8FJ2K1", true},
		{"lowercase prefix", "td-8fj2k1", "TD-8FJ2K1", true},
		{"mixed case", "Td-abc-123", "TD-ABC-123", true},
		{"surrounded by text", "new job: TD-ABC123 please", "TD-ABC123", true},
		{"punctuation", "(TD-XYZ789).", "TD-XYZ789", true},
		{"bold markdown", "**TD-XYZ789**", "TD-XYZ789", true},
		{"trailing hyphen trimmed", "see TD-ABC123- now", "TD-ABC123", true},
		{"short numeric", "TD-001", "TD-001", true},
		{"first of many", "TD-AAA111 then TD-BBB222", "TD-AAA111", true},
		{"skips too-short match", "ref TD-AB- then TD-ABC123", "TD-ABC123", true},
		{"full-width input", "ＴＤ－ＡＢＣ１２３", "TD-ABC123", true},
		{"leading whitespace", "   TD-ABC123   ", "TD-ABC123", true},
		{"too short", "TD-12", "", false},
		{"embedded in word", "XTD-ABC123", "", false},
		{"no prefix", "order ABC123", "", false},
		{"empty", "", "", false},
		{"hyphens only", "TD----", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Extract(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Extract(%q) = (%q,%v); want (%q,%v)", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestFromMessage_Priority(t *testing.T) {
	// Explicit label in the description beats a token in the content.
	msg := chat.Message{
		Content: "ref TD-CONTENT1",
		Embeds: []chat.Embed{{
			Title:       "Claimable Job • TD-TITLE1",
			Description: "**Order ID:** TD-LABEL1\nGame: x",
		}},
	}
	if got, ok := FromMessage(msg); !ok || got != "TD-LABEL1" {
		t.Fatalf("label priority: got %q,%v", got, ok)
	}

	// Without a label, content comes first.
	msg.Embeds[0].Description = "Game: x"
	if got, ok := FromMessage(msg); !ok || got != "TD-CONTENT1" {
		t.Fatalf("content priority: got %q,%v", got, ok)
	}

	// Then embed title.
	msg.Content = ""
	if got, ok := FromMessage(msg); !ok || got != "TD-TITLE1" {
		t.Fatalf("title priority: got %q,%v", got, ok)
	}

	// Then description, fields, footer.
	msg.Embeds[0].Title = "Claimable Job"
	msg.Embeds[0].Description = "details TD-DESC01"
	msg.Embeds[0].Fields = []chat.EmbedField{{Name: "Order", Value: "TD-FIELD1"}}
	if got, ok := FromMessage(msg); !ok || got != "TD-DESC01" {
		t.Fatalf("description priority: got %q,%v", got, ok)
	}
	msg.Embeds[0].Description = ""
	if got, ok := FromMessage(msg); !ok || got != "TD-FIELD1" {
		t.Fatalf("field priority: got %q,%v", got, ok)
	}
	msg.Embeds[0].Fields = nil
	msg.Embeds[0].Footer = "footer td-foot01"
	if got, ok := FromMessage(msg); !ok || got != "TD-FOOT01" {
		t.Fatalf("footer priority: got %q,%v", got, ok)
	}
}

func TestFromMessage_None(t *testing.T) {
	msg := chat.Message{Content: "hello", Embeds: []chat.Embed{{Title: "hi"}}}
	if got, ok := FromMessage(msg); ok {
		t.Fatalf("expected no order id, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got, ok := Normalize(" td-abc123 "); !ok || got != "TD-ABC123" {
		t.Fatalf("Normalize = %q,%v", got, ok)
	}
	if _, ok := Normalize("nope"); ok {
		t.Fatalf("Normalize should reject non-order input")
	}
}
