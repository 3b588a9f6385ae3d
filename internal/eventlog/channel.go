package eventlog

import (
	"context"
	"fmt"

	"github.com/tbourn/go-booster-bot/internal/chat"
)

// ChannelStore keeps the log as plain-text messages in a dedicated chat
// channel. Entry sequences are the message snowflakes.
type ChannelStore struct {
	client    chat.Client
	channelID string
	selfID    string
}

// NewChannelStore returns a store backed by channelID. When selfID is set,
// Recent only returns lines authored by that user, so other members of the
// log channel cannot inject records.
func NewChannelStore(client chat.Client, channelID, selfID string) *ChannelStore {
	return &ChannelStore{client: client, channelID: channelID, selfID: selfID}
}

// Append implements Store.
func (s *ChannelStore) Append(ctx context.Context, line string) (Entry, error) {
	msg, err := s.client.Send(ctx, s.channelID, chat.Outbound{Content: line})
	if err != nil {
		return Entry{}, err
	}
	seq, ok := chat.Seq(msg.ID)
	if !ok {
		return Entry{}, fmt.Errorf("log message id %q is not a snowflake", msg.ID)
	}
	return Entry{Seq: seq, ID: msg.ID, AuthorID: msg.AuthorID, Line: line}, nil
}

// Recent implements Store. Messages whose ids cannot be ordered are dropped.
func (s *ChannelStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	msgs, err := s.client.History(ctx, s.channelID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		if s.selfID != "" && m.AuthorID != s.selfID {
			continue
		}
		seq, ok := chat.Seq(m.ID)
		if !ok {
			continue
		}
		out = append(out, Entry{Seq: seq, ID: m.ID, AuthorID: m.AuthorID, Line: m.Content})
	}
	return out, nil
}
