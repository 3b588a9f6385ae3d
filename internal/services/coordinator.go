// Package services – Coordinator
//
// This file implements the workflow coordinator: it reacts to job postings,
// ticket messages and claim/log button presses, drives the claim and link
// registries, appends event-log records and issues the outbound chat
// commands that follow.
//
// Registry transitions for one order run under that order's lock together
// with the cross-registry check, so whichever of claim and link happens
// second is the one that grants ticket access, exactly once. Outbound I/O
// (log appends, posts, edits, grants) happens after the lock is released and
// is best-effort: failures are logged and never roll back the registries.
//
// Observability: public methods are OpenTelemetry-instrumented and every
// inbound event is logged through a child logger carrying an event id.

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-booster-bot/internal/chat"
	"github.com/tbourn/go-booster-bot/internal/domain"
	"github.com/tbourn/go-booster-bot/internal/eventlog"
	"github.com/tbourn/go-booster-bot/internal/orderid"
	"github.com/tbourn/go-booster-bot/internal/registry"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	kindJob    = "job"
	kindTicket = "ticket"
	kindClaim  = chat.ActionClaim
	kindButton = "button"

	// grant triggers
	kindLink = "link"
)

// Coordinator owns the workflow state and reacts to inbound chat events.
// Handlers may be invoked concurrently.
type Coordinator struct {
	Client chat.Client
	Log    *eventlog.Log
	State  *registry.State

	BoosterChannelID string
	TicketCategoryID string
	// SelfID is the bot's own user id; its messages are never handled.
	SelfID string

	Logger zerolog.Logger
}

// ClaimOutcome describes the result of a claim attempt.
//
// Claim is the record in force after the attempt: the new one on success, the
// existing one when the order was already claimed.
type ClaimOutcome struct {
	OrderID domain.OrderID
	Claim   domain.ClaimRecord
	// Ticket is set when the order was already linked at claim time.
	Ticket  *domain.TicketLink
	Granted bool
}

// LinkOutcome describes the result of a ticket message.
type LinkOutcome struct {
	Link   domain.TicketLink
	Linked bool
	// ClaimantID is set when the order was already claimed at link time.
	ClaimantID string
	Granted    bool
}

func (c *Coordinator) tracer() trace.Tracer { return otel.Tracer("services/Coordinator") }

// HandleMessage classifies a message-created event and runs the matching
// workflow step. Messages outside the booster channel and the ticket
// category are ignored. Errors are logged here; the returned error is
// informational and panics are converted into errors.
func (c *Coordinator) HandleMessage(ctx context.Context, msg chat.Message) (err error) {
	kind := c.messageKind(msg)
	if kind == "" {
		return nil
	}

	ctx, span := c.tracer().Start(ctx, "HandleMessage",
		trace.WithAttributes(
			attribute.String("event.kind", kind),
			attribute.String("channel.id", msg.ChannelID),
			attribute.String("user.id", msg.AuthorID),
		),
	)
	defer span.End()

	ctx = c.eventContext(ctx, kind, msg.ChannelID, msg.AuthorID)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic handling %s message: %v", kind, r)
		}
		c.finish(ctx, span, kind, start, err)
	}()

	switch kind {
	case kindJob:
		_, err = c.RepostJob(ctx, msg)
	case kindTicket:
		_, err = c.LinkTicket(ctx, msg)
	}
	return err
}

// HandleInteraction decodes a button press and runs the claim or log step,
// then answers the presser privately. Unexpected failures are answered with
// a generic fallback notice.
func (c *Coordinator) HandleInteraction(ctx context.Context, in chat.Interaction) (err error) {
	action, raw, ok := chat.ParseCustomID(in.CustomID)
	kind := kindButton
	if ok && (action == chat.ActionClaim || action == chat.ActionLog) {
		kind = action
	}

	ctx, span := c.tracer().Start(ctx, "HandleInteraction",
		trace.WithAttributes(
			attribute.String("event.kind", kind),
			attribute.String("channel.id", in.ChannelID),
			attribute.String("user.id", in.UserID),
		),
	)
	defer span.End()

	ctx = c.eventContext(ctx, kind, in.ChannelID, in.UserID)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic handling %s interaction: %v", kind, r)
		}
		if outcomeOf(err) == "error" {
			c.respond(ctx, in, noticeFallback)
		}
		c.finish(ctx, span, kind, start, err)
	}()

	if !ok {
		return fmt.Errorf("%w: %q", ErrMalformedCustomID, in.CustomID)
	}
	orderID, found := orderid.Normalize(raw)
	if !found {
		orderID, found = orderid.FromTexts(in.MessageContent, in.Embeds)
	}
	if !found {
		return ErrNoOrderID
	}
	withOrder(ctx, orderID)

	// The interaction is answered as soon as the registries have decided;
	// log appends, edits and grants follow the answer.
	switch action {
	case chat.ActionClaim:
		out, cerr := c.reserveClaim(ctx, in, orderID)
		switch {
		case errors.Is(cerr, ErrWrongChannel):
			c.respond(ctx, in, noticeWrongChannel)
			return cerr
		case errors.Is(cerr, ErrAlreadyClaimed):
			c.respond(ctx, in, noticeAlreadyClaimed(out.Claim.ClaimantID))
			return cerr
		case cerr != nil:
			return cerr
		}
		if out.Ticket != nil {
			c.respond(ctx, in, noticeClaimedWithTicket(orderID, out.Ticket.TicketChannelID))
		} else {
			c.respond(ctx, in, noticeClaimedPending(orderID))
		}
		c.completeClaim(ctx, in, &out)
		return nil

	case chat.ActionLog:
		if in.ChannelID != c.BoosterChannelID {
			c.respond(ctx, in, noticeWrongChannel)
			return ErrWrongChannel
		}
		c.respond(ctx, in, noticeLogged)
		c.Inspect(ctx, in, orderID)
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// Claim attempts to make the presser the claimant of orderID.
//
// A press outside the booster channel returns ErrWrongChannel and changes
// nothing. When the order is already claimed the outcome carries the existing
// claim and the error wraps ErrAlreadyClaimed. On success the CLAIM record is
// appended, the job posting is re-rendered as claimed and, if a ticket is
// already linked, the claimant is granted access to it.
func (c *Coordinator) Claim(ctx context.Context, in chat.Interaction, orderID domain.OrderID) (ClaimOutcome, error) {
	out, err := c.reserveClaim(ctx, in, orderID)
	if err != nil {
		return out, err
	}
	c.completeClaim(ctx, in, &out)
	return out, nil
}

// reserveClaim runs the registry side of a claim: the channel check and the
// first-write-wins transition. It performs no outbound I/O.
func (c *Coordinator) reserveClaim(ctx context.Context, in chat.Interaction, orderID domain.OrderID) (ClaimOutcome, error) {
	_, span := c.tracer().Start(ctx, "Claim",
		trace.WithAttributes(
			attribute.String("order.id", orderID.String()),
			attribute.String("user.id", in.UserID),
		),
	)
	defer span.End()

	out := ClaimOutcome{OrderID: orderID}
	if in.ChannelID != c.BoosterChannelID {
		claimsTotal.WithLabelValues("wrong_channel").Inc()
		return out, ErrWrongChannel
	}

	at := in.Seq
	if at == 0 {
		at, _ = chat.Seq(in.ID)
	}

	unlock := c.State.Lock(orderID)
	rec, claimed := c.State.Claims.TryClaim(orderID, in.UserID, at)
	var link domain.TicketLink
	var linked bool
	if claimed {
		link, linked = c.State.Links.LinkOf(orderID)
	}
	unlock()

	out.Claim = rec
	if !claimed {
		claimsTotal.WithLabelValues("already_claimed").Inc()
		return out, fmt.Errorf("%w: %s by %s", ErrAlreadyClaimed, orderID, rec.ClaimantID)
	}
	claimsTotal.WithLabelValues("claimed").Inc()
	span.SetAttributes(attribute.Bool("order.linked", linked))
	if linked {
		out.Ticket = &link
	}
	return out, nil
}

// completeClaim performs the best-effort I/O that follows a reserved claim.
// Once the CLAIM record is stored, the claim position is moved to the log
// sequence so that live state matches what a replay would rebuild.
func (c *Coordinator) completeClaim(ctx context.Context, in chat.Interaction, out *ClaimOutcome) {
	orderID := out.OrderID
	if h, ok := c.appendRecord(ctx, eventlog.Claim(orderID, in.UserID)); ok && h.Seq != 0 {
		if c.State.Claims.Restamp(orderID, in.UserID, h.Seq) {
			out.Claim.ClaimedAt = h.Seq
		}
	}

	if in.MessageID != "" {
		name := in.UserName
		if name == "" {
			name = chat.UserMention(in.UserID)
		}
		edit := chat.Outbound{
			Content: in.MessageContent,
			Embeds:  claimedEmbeds(in.Embeds, name),
			Buttons: jobButtons(orderID, true),
		}
		if err := c.Client.Edit(ctx, in.ChannelID, in.MessageID, edit); err != nil {
			c.ioFailed(ctx, "edit job posting", err)
		}
	}

	if out.Ticket != nil {
		out.Granted = c.grant(ctx, kindClaim, orderID, out.Ticket.TicketChannelID, in.UserID)
	}
}

// LinkTicket binds the ticket channel of msg to the order it mentions.
//
// Messages in a channel that is already bound are ignored, as are messages
// for an order that is already linked elsewhere. On a new link the LINK
// record is appended, the ticket is acknowledged and, if the order is already
// claimed, the claimant is granted access.
func (c *Coordinator) LinkTicket(ctx context.Context, msg chat.Message) (LinkOutcome, error) {
	ctx, span := c.tracer().Start(ctx, "LinkTicket",
		trace.WithAttributes(attribute.String("channel.id", msg.ChannelID)),
	)
	defer span.End()

	if bound, ok := c.State.Links.OrderForChannel(msg.ChannelID); ok {
		link, _ := c.State.Links.LinkOf(bound)
		return LinkOutcome{Link: link}, nil
	}
	orderID, ok := orderid.FromMessage(msg)
	if !ok {
		return LinkOutcome{}, ErrNoOrderID
	}
	withOrder(ctx, orderID)
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	unlock := c.State.Lock(orderID)
	link, linked := c.State.Links.TryLink(orderID, msg.ChannelID, msg.AuthorID)
	var claimant string
	var claimed bool
	if linked {
		claimant, claimed = c.State.Claims.ClaimantOf(orderID)
	}
	unlock()

	out := LinkOutcome{Link: link, Linked: linked}
	if !linked {
		return out, nil
	}
	linksTotal.Inc()

	c.appendRecord(ctx, eventlog.Link(orderID, msg.ChannelID, msg.AuthorID))
	c.post(ctx, msg.ChannelID, noticeLinked(orderID))

	if claimed {
		out.ClaimantID = claimant
		out.Granted = c.grant(ctx, kindLink, orderID, msg.ChannelID, claimant)
	}
	return out, nil
}

// RepostJob re-posts a job message in the booster channel with claim and log
// controls, removing the original when it came from a webhook. Orders that
// are already claimed are rendered in claimed state.
func (c *Coordinator) RepostJob(ctx context.Context, msg chat.Message) (chat.Message, error) {
	ctx, span := c.tracer().Start(ctx, "RepostJob",
		trace.WithAttributes(attribute.String("message.id", msg.ID)),
	)
	defer span.End()

	orderID, ok := orderid.FromMessage(msg)
	if !ok {
		return chat.Message{}, ErrNoOrderID
	}
	withOrder(ctx, orderID)
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	out := chat.Outbound{Content: msg.Content, Embeds: chat.CloneEmbeds(msg.Embeds)}
	rec, claimed := c.State.Claims.Get(orderID)
	if claimed {
		out.Embeds = claimedEmbeds(out.Embeds, chat.UserMention(rec.ClaimantID))
	}
	out.Buttons = jobButtons(orderID, claimed)

	posted, err := c.Client.Send(ctx, c.BoosterChannelID, out)
	if err != nil {
		c.ioFailed(ctx, "repost job", err)
		return chat.Message{}, nil
	}
	jobsReposted.Inc()

	if msg.WebhookID != "" {
		if err := c.Client.Delete(ctx, msg.ChannelID, msg.ID); err != nil {
			c.ioFailed(ctx, "delete webhook original", err)
		}
	}
	c.note(ctx, eventlog.TagJob,
		eventlog.Field{Key: "order", Value: orderID.String()},
		eventlog.Field{Key: "message", Value: posted.ID},
	)
	return posted, nil
}

// Inspect appends an informational line with the current claim status of
// orderID. It never changes state.
func (c *Coordinator) Inspect(ctx context.Context, in chat.Interaction, orderID domain.OrderID) {
	status := "unclaimed"
	if who, ok := c.State.Claims.ClaimantOf(orderID); ok {
		status = chat.UserMention(who)
	}
	c.note(ctx, eventlog.TagInspect,
		eventlog.Field{Key: "order", Value: orderID.String()},
		eventlog.Field{Key: "status", Value: status},
		eventlog.Field{Key: "by", Value: in.UserID},
	)
}

func (c *Coordinator) messageKind(msg chat.Message) string {
	if c.SelfID != "" && msg.AuthorID == c.SelfID {
		return ""
	}
	switch {
	case msg.ChannelID == c.BoosterChannelID:
		// Already reposted, or another bot's chatter.
		if msg.HasComponents || (msg.AuthorBot && msg.WebhookID == "") {
			return ""
		}
		return kindJob
	case c.TicketCategoryID != "" && msg.ParentID == c.TicketCategoryID:
		if msg.AuthorBot {
			return ""
		}
		return kindTicket
	}
	return ""
}

// grant gives userID access to the ticket and announces it there.
func (c *Coordinator) grant(ctx context.Context, trigger string, orderID domain.OrderID, ticketChannelID, userID string) bool {
	if err := c.Client.GrantAccess(ctx, ticketChannelID, userID); err != nil {
		grantsTotal.WithLabelValues(trigger, "error").Inc()
		c.ioFailed(ctx, "grant ticket access", err)
		return false
	}
	grantsTotal.WithLabelValues(trigger, "ok").Inc()
	zerolog.Ctx(ctx).Info().
		Str("ticket_channel_id", ticketChannelID).
		Str("claimant_id", userID).
		Str("trigger", trigger).
		Msg("ticket access granted")
	c.post(ctx, ticketChannelID, noticeAssigned(orderID, userID))
	return true
}

func (c *Coordinator) appendRecord(ctx context.Context, rec eventlog.Record) (eventlog.Handle, bool) {
	h, err := c.Log.Append(ctx, rec)
	if err != nil {
		logAppendFailures.WithLabelValues(string(rec.Tag)).Inc()
		zerolog.Ctx(ctx).Warn().Err(err).Str("record", rec.String()).Msg("event log append failed")
		return eventlog.Handle{}, false
	}
	return h, true
}

func (c *Coordinator) note(ctx context.Context, tag eventlog.Tag, fields ...eventlog.Field) {
	if _, err := c.Log.Note(ctx, tag, fields...); err != nil {
		logAppendFailures.WithLabelValues(string(tag)).Inc()
		zerolog.Ctx(ctx).Warn().Err(err).Str("tag", string(tag)).Msg("event log note failed")
	}
}

func (c *Coordinator) post(ctx context.Context, channelID, content string) {
	if _, err := c.Client.Send(ctx, channelID, chat.Outbound{Content: content}); err != nil {
		c.ioFailed(ctx, "post notice", err)
	}
}

func (c *Coordinator) respond(ctx context.Context, in chat.Interaction, content string) {
	if err := c.Client.Respond(ctx, in, content); err != nil {
		c.ioFailed(ctx, "respond to interaction", err)
	}
}

func (c *Coordinator) ioFailed(ctx context.Context, op string, err error) {
	zerolog.Ctx(ctx).Warn().Err(err).Str("op", op).Msg("chat call failed")
}

// eventContext attaches a per-event child logger to ctx.
func (c *Coordinator) eventContext(ctx context.Context, kind, channelID, userID string) context.Context {
	l := c.Logger.With().
		Str("event_id", uuid.NewString()).
		Str("kind", kind).
		Str("channel_id", channelID).
		Str("user_id", userID).
		Logger()
	return l.WithContext(ctx)
}

func withOrder(ctx context.Context, orderID domain.OrderID) {
	zerolog.Ctx(ctx).UpdateContext(func(zc zerolog.Context) zerolog.Context {
		return zc.Str("order_id", orderID.String())
	})
}

// outcomeOf classifies a handler result for logs and metrics.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoOrderID), errors.Is(err, ErrMalformedCustomID), errors.Is(err, ErrUnknownAction):
		return "ignored"
	case errors.Is(err, ErrWrongChannel), errors.Is(err, ErrAlreadyClaimed):
		return "rejected"
	default:
		return "error"
	}
}

func (c *Coordinator) finish(ctx context.Context, span trace.Span, kind string, start time.Time, err error) {
	took := time.Since(start)
	outcome := outcomeOf(err)
	eventDuration.WithLabelValues(kind).Observe(took.Seconds())
	eventsTotal.WithLabelValues(kind, outcome).Inc()

	lg := zerolog.Ctx(ctx)
	switch outcome {
	case "error":
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		lg.Error().Err(err).Dur("took", took).Msg("event handling failed")
	case "rejected":
		lg.Info().Err(err).Dur("took", took).Msg("event rejected")
	case "ignored":
		lg.Debug().Err(err).Dur("took", took).Msg("event ignored")
	default:
		lg.Debug().Dur("took", took).Msg("event handled")
	}
}
