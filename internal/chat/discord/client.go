// Package discord implements the chat collaborator on top of
// github.com/bwmarrin/discordgo: a REST-backed chat.Client and a Gateway that
// turns websocket events into coordinator calls.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/tbourn/go-booster-bot/internal/chat"
)

// MaxPageSize is the largest history page the API returns.
const MaxPageSize = 100

// accessPerms are granted to a claimant on a ticket channel.
const accessPerms = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory

// restAPI is the subset of *discordgo.Session used by Client.
type restAPI interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// channelCache is satisfied by *discordgo.State.
type channelCache interface {
	Channel(channelID string) (*discordgo.Channel, error)
}

// Client is a chat.Client over the Discord REST API.
type Client struct {
	api      restAPI
	cache    channelCache
	pageSize int
}

var _ chat.Client = (*Client)(nil)

// NewClient wraps a session. pageSize bounds each history request and is
// clamped to 1..MaxPageSize.
func NewClient(s *discordgo.Session, pageSize int) *Client {
	c := newClient(s, pageSize)
	if s.State != nil {
		c.cache = s.State
	}
	return c
}

func newClient(api restAPI, pageSize int) *Client {
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &Client{api: api, pageSize: pageSize}
}

// Send implements chat.Client.
func (c *Client) Send(ctx context.Context, channelID string, msg chat.Outbound) (chat.Message, error) {
	data := &discordgo.MessageSend{
		Content:         msg.Content,
		Embeds:          fromEmbeds(msg.Embeds),
		AllowedMentions: userMentionsOnly(),
	}
	if len(msg.Buttons) > 0 {
		data.Components = fromButtons(msg.Buttons)
	}
	m, err := c.api.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(ctx))
	if err != nil {
		return chat.Message{}, fmt.Errorf("send to %s: %w", channelID, err)
	}
	return toMessage(m), nil
}

// Edit implements chat.Client.
func (c *Client) Edit(ctx context.Context, channelID, messageID string, msg chat.Outbound) error {
	content := msg.Content
	embeds := fromEmbeds(msg.Embeds)
	components := fromButtons(msg.Buttons)
	_, err := c.api.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         messageID,
		Channel:    channelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit %s/%s: %w", channelID, messageID, err)
	}
	return nil
}

// Delete implements chat.Client.
func (c *Client) Delete(ctx context.Context, channelID, messageID string) error {
	if err := c.api.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete %s/%s: %w", channelID, messageID, err)
	}
	return nil
}

// Channel implements chat.Client, answering from the gateway cache when it
// has the channel.
func (c *Client) Channel(ctx context.Context, channelID string) (chat.Channel, error) {
	if c.cache != nil {
		if ch, err := c.cache.Channel(channelID); err == nil && ch != nil {
			return toChannel(ch), nil
		}
	}
	ch, err := c.api.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return chat.Channel{}, fmt.Errorf("channel %s: %w", channelID, err)
	}
	return toChannel(ch), nil
}

// History implements chat.Client by paging backwards from the newest
// message until limit messages were read or the channel is exhausted.
func (c *Client) History(ctx context.Context, channelID string, limit int) ([]chat.Message, error) {
	var (
		out    []chat.Message
		before string
	)
	for len(out) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := min(c.pageSize, limit-len(out))
		page, err := c.api.ChannelMessages(channelID, n, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", channelID, err)
		}
		for _, m := range page {
			out = append(out, toMessage(m))
		}
		if len(page) < n {
			break
		}
		before = page[len(page)-1].ID
	}
	return out, nil
}

// GrantAccess implements chat.Client with a member permission overwrite.
// Re-granting rewrites the same overwrite.
func (c *Client) GrantAccess(ctx context.Context, channelID, userID string) error {
	err := c.api.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember,
		accessPerms, 0, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("grant %s on %s: %w", userID, channelID, err)
	}
	return nil
}

// Respond implements chat.Client with an ephemeral channel message.
func (c *Client) Respond(ctx context.Context, in chat.Interaction, content string) error {
	i, ok := in.Ref.(*discordgo.Interaction)
	if !ok || i == nil {
		return fmt.Errorf("respond %s: interaction handle missing", in.ID)
	}
	err := c.api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			Flags:           discordgo.MessageFlagsEphemeral,
			AllowedMentions: userMentionsOnly(),
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("respond %s: %w", in.ID, err)
	}
	return nil
}

// userMentionsOnly lets user mentions ping while @everyone and role mentions
// pasted into a job post stay inert.
func userMentionsOnly() *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers}}
}
