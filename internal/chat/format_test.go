package chat

import "testing"

func TestCustomID_RoundTrip(t *testing.T) {
	id := CustomID(ActionClaim, "TD-ABC123")
	if id != "claim:TD-ABC123" {
		t.Fatalf("CustomID = %q", id)
	}
	action, order, ok := ParseCustomID(id)
	if !ok || action != ActionClaim || order != "TD-ABC123" {
		t.Fatalf("ParseCustomID(%q) = %q,%q,%v", id, action, order, ok)
	}
}

func TestParseCustomID_Invalid(t *testing.T) {
	for _, in := range []string{"", "claim", "claim:", ":TD-1", "   "} {
		if _, _, ok := ParseCustomID(in); ok {
			t.Fatalf("ParseCustomID(%q) should fail", in)
		}
	}
}

func TestMentions(t *testing.T) {
	if got := UserMention("42"); got != "<@42>" {
		t.Fatalf("UserMention = %q", got)
	}
	if got := ChannelMention("900"); got != "<#900>" {
		t.Fatalf("ChannelMention = %q", got)
	}
}

func TestCloneEmbeds_Deep(t *testing.T) {
	src := []Embed{{Title: "job", Fields: []EmbedField{{Name: "a", Value: "1"}}}}
	cp := CloneEmbeds(src)
	cp[0].Footer = "Claimed by x"
	cp[0].Fields[0].Value = "2"
	if src[0].Footer != "" || src[0].Fields[0].Value != "1" {
		t.Fatalf("CloneEmbeds aliased the source: %+v", src[0])
	}
	if CloneEmbeds(nil) != nil {
		t.Fatalf("CloneEmbeds(nil) should be nil")
	}
}
