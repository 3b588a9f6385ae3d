// Package chattest provides an in-memory chat.Client that records every
// outbound command, for use in tests.
package chattest

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/tbourn/go-booster-bot/internal/chat"
)

// ErrNotFound is returned for unknown channels.
var ErrNotFound = errors.New("chattest: not found")

// Sent is a recorded Send call.
type Sent struct {
	ChannelID string
	Message   chat.Message
	Outbound  chat.Outbound
}

// Edited is a recorded Edit call.
type Edited struct {
	ChannelID string
	MessageID string
	Outbound  chat.Outbound
}

// Grant is a recorded GrantAccess call.
type Grant struct {
	ChannelID string
	UserID    string
}

// Response is a recorded Respond call.
type Response struct {
	Interaction chat.Interaction
	Content     string
}

// Client is a fake chat.Client. Message ids are numeric and increasing so
// they parse as snowflakes. The zero value is not usable; call New.
type Client struct {
	mu sync.Mutex

	SelfID string

	next      int64
	channels  map[string]chat.Channel
	history   map[string][]chat.Message // oldest first
	sent      []Sent
	edited    []Edited
	deleted   []string
	grants    []Grant
	responses []Response

	// Failure injection.
	SendErr    error
	EditErr    error
	DeleteErr  error
	HistoryErr error
	GrantErr   error
	RespondErr error
}

// New returns an empty fake whose own messages are authored by selfID.
func New(selfID string) *Client {
	return &Client{
		SelfID:   selfID,
		next:     1_000_000,
		channels: map[string]chat.Channel{},
		history:  map[string][]chat.Message{},
	}
}

// AddChannel registers channel metadata.
func (c *Client) AddChannel(ch chat.Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[ch.ID] = ch
}

// Seed appends messages to a channel's history as if posted by authorID.
func (c *Client) Seed(channelID, authorID string, contents ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, content := range contents {
		c.next++
		c.history[channelID] = append(c.history[channelID], chat.Message{
			ID:        strconv.FormatInt(c.next, 10),
			ChannelID: channelID,
			AuthorID:  authorID,
			Content:   content,
		})
	}
}

// NextID hands out a fresh increasing id (useful for interaction ids).
func (c *Client) NextID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return strconv.FormatInt(c.next, 10)
}

// Send implements chat.Client.
func (c *Client) Send(_ context.Context, channelID string, out chat.Outbound) (chat.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return chat.Message{}, c.SendErr
	}
	c.next++
	msg := chat.Message{
		ID:            strconv.FormatInt(c.next, 10),
		ChannelID:     channelID,
		AuthorID:      c.SelfID,
		AuthorBot:     true,
		Content:       out.Content,
		Embeds:        chat.CloneEmbeds(out.Embeds),
		HasComponents: len(out.Buttons) > 0,
	}
	c.history[channelID] = append(c.history[channelID], msg)
	c.sent = append(c.sent, Sent{ChannelID: channelID, Message: msg, Outbound: out})
	return msg, nil
}

// Edit implements chat.Client.
func (c *Client) Edit(_ context.Context, channelID, messageID string, out chat.Outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EditErr != nil {
		return c.EditErr
	}
	c.edited = append(c.edited, Edited{ChannelID: channelID, MessageID: messageID, Outbound: out})
	return nil
}

// Delete implements chat.Client.
func (c *Client) Delete(_ context.Context, channelID, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	c.deleted = append(c.deleted, channelID+"/"+messageID)
	return nil
}

// Channel implements chat.Client.
func (c *Client) Channel(_ context.Context, channelID string) (chat.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.channels[channelID]
	if !ok {
		return chat.Channel{}, ErrNotFound
	}
	return ch, nil
}

// History implements chat.Client (newest first).
func (c *Client) History(_ context.Context, channelID string, limit int) ([]chat.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.HistoryErr != nil {
		return nil, c.HistoryErr
	}
	h := c.history[channelID]
	out := make([]chat.Message, 0, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, h[i])
	}
	return out, nil
}

// GrantAccess implements chat.Client.
func (c *Client) GrantAccess(_ context.Context, channelID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GrantErr != nil {
		return c.GrantErr
	}
	c.grants = append(c.grants, Grant{ChannelID: channelID, UserID: userID})
	return nil
}

// Respond implements chat.Client.
func (c *Client) Respond(_ context.Context, in chat.Interaction, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.RespondErr != nil {
		return c.RespondErr
	}
	c.responses = append(c.responses, Response{Interaction: in, Content: content})
	return nil
}

// SentTo returns the Send calls addressed to channelID.
func (c *Client) SentTo(channelID string) []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Sent
	for _, s := range c.sent {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out
}

// Edits returns all recorded Edit calls.
func (c *Client) Edits() []Edited {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Edited(nil), c.edited...)
}

// Deleted returns "channel/message" keys of deleted messages.
func (c *Client) Deleted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.deleted...)
}

// Grants returns all recorded GrantAccess calls.
func (c *Client) Grants() []Grant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Grant(nil), c.grants...)
}

// Responses returns all recorded Respond calls.
func (c *Client) Responses() []Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Response(nil), c.responses...)
}
