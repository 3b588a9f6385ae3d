// Package chat defines the contract between the claim/link workflow and the
// chat platform it runs on. Inbound events (messages, button presses) are
// delivered as plain structs; outbound commands go through the Client
// interface. Nothing in this package knows about a specific wire protocol.
package chat

import "context"

// EmbedField is a name/value pair rendered inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is a structured rich block attached to a message.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// ButtonStyle selects the visual style of a Button.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

// Button is an interactive control attached to an outbound message.
type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

// Message is an inbound message-created event.
//
// ParentID is the category (or parent channel) of ChannelID; the platform
// adapter resolves it so handlers can tell ticket channels apart.
type Message struct {
	ID            string
	ChannelID     string
	ParentID      string
	AuthorID      string
	AuthorName    string
	AuthorBot     bool
	WebhookID     string
	Content       string
	Embeds        []Embed
	HasComponents bool
}

// Interaction is an inbound button press. MessageContent and Embeds describe
// the message the pressed button is attached to.
//
// Ref is an opaque handle owned by the platform adapter; it is passed back
// unchanged to Client.Respond.
type Interaction struct {
	ID             string
	Seq            uint64
	CustomID       string
	UserID         string
	UserName       string
	ChannelID      string
	MessageID      string
	MessageContent string
	Embeds         []Embed
	Ref            any
}

// Channel is the subset of channel metadata the workflow needs.
type Channel struct {
	ID       string
	ParentID string
	Name     string
}

// Outbound is the payload of a post or edit.
type Outbound struct {
	Content string
	Embeds  []Embed
	Buttons []Button
}

// Client is the outbound half of the chat collaborator. Implementations
// must be safe for concurrent use.
type Client interface {
	// Send posts a new message to channelID and returns it as stored.
	Send(ctx context.Context, channelID string, msg Outbound) (Message, error)
	// Edit replaces the content, embeds and controls of an existing message.
	Edit(ctx context.Context, channelID, messageID string, msg Outbound) error
	// Delete removes a message.
	Delete(ctx context.Context, channelID, messageID string) error
	// Channel fetches channel metadata by id.
	Channel(ctx context.Context, channelID string) (Channel, error)
	// History returns up to limit of the most recent messages in channelID,
	// newest first.
	History(ctx context.Context, channelID string, limit int) ([]Message, error)
	// GrantAccess gives userID view/send/read-history rights on channelID.
	GrantAccess(ctx context.Context, channelID, userID string) error
	// Respond answers an interaction privately (visible to the presser only).
	Respond(ctx context.Context, in Interaction, content string) error
}
