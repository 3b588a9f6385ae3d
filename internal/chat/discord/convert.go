package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/tbourn/go-booster-bot/internal/chat"
	"github.com/tbourn/go-booster-bot/internal/sysutil"
)

func toEmbeds(in []*discordgo.MessageEmbed) []chat.Embed {
	if len(in) == 0 {
		return nil
	}
	out := make([]chat.Embed, 0, len(in))
	for _, e := range in {
		if e == nil {
			continue
		}
		ce := chat.Embed{Title: e.Title, Description: e.Description, URL: e.URL, Color: e.Color}
		if e.Footer != nil {
			ce.Footer = e.Footer.Text
		}
		for _, f := range e.Fields {
			if f != nil {
				ce.Fields = append(ce.Fields, chat.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
			}
		}
		out = append(out, ce)
	}
	return out
}

func fromEmbeds(in []chat.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(in))
	for _, e := range in {
		me := &discordgo.MessageEmbed{Title: e.Title, Description: e.Description, URL: e.URL, Color: e.Color}
		if e.Footer != "" {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		out = append(out, me)
	}
	return out
}

var buttonStyles = map[chat.ButtonStyle]discordgo.ButtonStyle{
	chat.ButtonPrimary:   discordgo.PrimaryButton,
	chat.ButtonSecondary: discordgo.SecondaryButton,
	chat.ButtonSuccess:   discordgo.SuccessButton,
	chat.ButtonDanger:    discordgo.DangerButton,
}

// fromButtons lays buttons out in a single action row. An empty slice
// yields an empty component list, which clears controls on edit.
func fromButtons(in []chat.Button) []discordgo.MessageComponent {
	if len(in) == 0 {
		return []discordgo.MessageComponent{}
	}
	row := discordgo.ActionsRow{Components: make([]discordgo.MessageComponent, 0, len(in))}
	for _, b := range in {
		style, ok := buttonStyles[b.Style]
		if !ok {
			style = discordgo.SecondaryButton
		}
		row.Components = append(row.Components, discordgo.Button{
			Label:    b.Label,
			Style:    style,
			CustomID: b.CustomID,
			Disabled: b.Disabled,
		})
	}
	return []discordgo.MessageComponent{row}
}

// toMessage converts a REST or gateway message. ParentID is left empty; the
// gateway resolves it.
func toMessage(m *discordgo.Message) chat.Message {
	if m == nil {
		return chat.Message{}
	}
	out := chat.Message{
		ID:            m.ID,
		ChannelID:     m.ChannelID,
		WebhookID:     m.WebhookID,
		Content:       m.Content,
		Embeds:        toEmbeds(m.Embeds),
		HasComponents: len(m.Components) > 0,
	}
	if m.Author != nil {
		out.AuthorID = m.Author.ID
		out.AuthorName = sysutil.FirstNonEmpty(m.Author.GlobalName, m.Author.Username)
		out.AuthorBot = m.Author.Bot
	}
	return out
}

// toInteraction converts a component interaction. ok is false for every
// other interaction type.
func toInteraction(i *discordgo.Interaction) (chat.Interaction, bool) {
	if i == nil || i.Type != discordgo.InteractionMessageComponent {
		return chat.Interaction{}, false
	}
	in := chat.Interaction{
		ID:        i.ID,
		CustomID:  i.MessageComponentData().CustomID,
		ChannelID: i.ChannelID,
		Ref:       i,
	}
	in.Seq, _ = chat.Seq(i.ID)

	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
		in.UserName = i.Member.Nick
	}
	if user != nil {
		in.UserID = user.ID
		in.UserName = sysutil.FirstNonEmpty(in.UserName, user.GlobalName, user.Username)
	}
	if i.Message != nil {
		in.MessageID = i.Message.ID
		in.MessageContent = i.Message.Content
		in.Embeds = toEmbeds(i.Message.Embeds)
	}
	return in, true
}

func toChannel(c *discordgo.Channel) chat.Channel {
	if c == nil {
		return chat.Channel{}
	}
	return chat.Channel{ID: c.ID, ParentID: c.ParentID, Name: c.Name}
}
