package services

import (
	"github.com/tbourn/go-booster-bot/internal/chat"
	"github.com/tbourn/go-booster-bot/internal/domain"
)

// User-facing notices.
const (
	noticeWrongChannel = "Wrong channel."
	noticeLogged       = "Logged ✅"
	noticeFallback     = "Error handling that."
)

func noticeAlreadyClaimed(claimantID string) string {
	return "Too late, already claimed by " + chat.UserMention(claimantID) + "."
}

func noticeClaimedWithTicket(orderID domain.OrderID, ticketChannelID string) string {
	return "You claimed **" + orderID.String() + "**. Ticket: " + chat.ChannelMention(ticketChannelID)
}

func noticeClaimedPending(orderID domain.OrderID) string {
	return "You claimed **" + orderID.String() + "**. You will be added to the ticket as soon as the customer opens one."
}

func noticeLinked(orderID domain.OrderID) string {
	return "Thanks! This ticket is now linked to order **" + orderID.String() + "**."
}

func noticeAssigned(orderID domain.OrderID, claimantID string) string {
	return chat.UserMention(claimantID) + " has been assigned to **" + orderID.String() + "** and now has access to this ticket."
}

// jobButtons renders the controls of a job posting.
func jobButtons(orderID domain.OrderID, claimed bool) []chat.Button {
	claim := chat.Button{
		CustomID: chat.CustomID(chat.ActionClaim, orderID.String()),
		Label:    "Claim",
		Style:    chat.ButtonSuccess,
	}
	if claimed {
		claim.Label = "Claimed"
		claim.Disabled = true
	}
	return []chat.Button{
		claim,
		{
			CustomID: chat.CustomID(chat.ActionLog, orderID.String()),
			Label:    "Log",
			Style:    chat.ButtonSecondary,
		},
	}
}

// claimedEmbeds copies embeds and stamps the claimant on the first one.
func claimedEmbeds(embeds []chat.Embed, claimantName string) []chat.Embed {
	out := chat.CloneEmbeds(embeds)
	if len(out) > 0 && claimantName != "" {
		out[0].Footer = "Claimed by " + claimantName
	}
	return out
}
