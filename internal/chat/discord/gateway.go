package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-booster-bot/internal/chat"
)

// Intents needed to see guild messages (with content) and button presses.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent

// EventHandler consumes converted gateway events.
type EventHandler interface {
	HandleMessage(ctx context.Context, msg chat.Message) error
	HandleInteraction(ctx context.Context, in chat.Interaction) error
}

// Gateway forwards websocket events to an EventHandler. Handler errors are
// already logged by the handler and are dropped here.
type Gateway struct {
	Client  chat.Client
	Handler EventHandler
	Logger  zerolog.Logger

	mu sync.Mutex
	// +checklocks:mu
	closed bool
	wg     sync.WaitGroup
}

// Attach registers the gateway on s. Events are handled with ctx, which
// should be cancelled at shutdown. It returns a function that detaches the
// handlers; events still delivered after that are dropped.
func (g *Gateway) Attach(ctx context.Context, s *discordgo.Session) (detach func()) {
	s.Identify.Intents = Intents
	rmMsg := s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		g.track(func() { g.dispatchMessage(ctx, m.Message) })
	})
	rmIn := s.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		g.track(func() { g.dispatchInteraction(ctx, i.Interaction) })
	})
	return func() {
		rmMsg()
		rmIn()
		g.close()
	}
}

// Wait stops accepting events and blocks until every in-flight event
// finished.
func (g *Gateway) Wait() {
	g.close()
	g.wg.Wait()
}

func (g *Gateway) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

// track runs fn as an in-flight event. Add and the closed check share the
// lock so no Add can start once Wait is under way.
func (g *Gateway) track(fn func()) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.Logger.Debug().Msg("event dropped after shutdown")
		return
	}
	g.wg.Add(1)
	g.mu.Unlock()

	defer g.wg.Done()
	fn()
}

func (g *Gateway) dispatchMessage(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.GuildID == "" {
		return
	}
	msg := toMessage(m)
	if ch, err := g.Client.Channel(ctx, m.ChannelID); err == nil {
		msg.ParentID = ch.ParentID
	} else {
		g.Logger.Debug().Err(err).Str("channel_id", m.ChannelID).Msg("parent lookup failed")
	}
	_ = g.Handler.HandleMessage(ctx, msg)
}

func (g *Gateway) dispatchInteraction(ctx context.Context, i *discordgo.Interaction) {
	in, ok := toInteraction(i)
	if !ok {
		return
	}
	_ = g.Handler.HandleInteraction(ctx, in)
}
