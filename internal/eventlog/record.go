// Package eventlog implements the append-only event log that is the
// workflow's only durable state.
//
// Records serialize to one deterministic text line:
//
//	[CLAIM] order=<ID> booster=<userId>
//	[LINK] order=<ID> channel=<channelId> customer=<userId>
//
// The same grammar is parsed back during recovery, so the format must stay
// stable. Any other line (including informational [JOB] and [INSPECT]
// notes) is ignored by Parse.
package eventlog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tbourn/go-booster-bot/internal/domain"
)

// Tag discriminates record kinds.
type Tag string

const (
	TagClaim Tag = "CLAIM"
	TagLink  Tag = "LINK"

	// Informational tags; never replayed.
	TagJob     Tag = "JOB"
	TagInspect Tag = "INSPECT"
)

// ErrUnparseable is returned by Parse for lines that are not CLAIM or LINK
// records, or that are missing required fields.
var ErrUnparseable = errors.New("eventlog: unparseable line")

// Record is a replayable log record.
type Record struct {
	Tag             Tag
	OrderID         domain.OrderID
	ClaimantID      string // CLAIM
	TicketChannelID string // LINK
	CustomerID      string // LINK
}

// Claim builds a CLAIM record.
func Claim(orderID domain.OrderID, claimantID string) Record {
	return Record{Tag: TagClaim, OrderID: orderID, ClaimantID: claimantID}
}

// Link builds a LINK record.
func Link(orderID domain.OrderID, ticketChannelID, customerID string) Record {
	return Record{Tag: TagLink, OrderID: orderID, TicketChannelID: ticketChannelID, CustomerID: customerID}
}

// Field is one key=value pair of a log line.
type Field struct {
	Key   string
	Value string
}

// FormatLine renders "[TAG] k=v k=v". Whitespace inside values is replaced
// by underscores so the line stays splittable.
func FormatLine(tag Tag, fields ...Field) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(tag))
	b.WriteString("]")
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(strings.Join(strings.Fields(f.Value), "_"))
	}
	return b.String()
}

// String serializes r using the stable log grammar.
func (r Record) String() string {
	switch r.Tag {
	case TagClaim:
		return FormatLine(TagClaim,
			Field{"order", r.OrderID.String()},
			Field{"booster", r.ClaimantID},
		)
	case TagLink:
		return FormatLine(TagLink,
			Field{"order", r.OrderID.String()},
			Field{"channel", r.TicketChannelID},
			Field{"customer", r.CustomerID},
		)
	default:
		return FormatLine(r.Tag, Field{"order", r.OrderID.String()})
	}
}

// Validate reports whether r carries every field its tag requires.
func (r Record) Validate() error {
	if r.OrderID.IsZero() {
		return fmt.Errorf("%w: missing order", ErrUnparseable)
	}
	switch r.Tag {
	case TagClaim:
		if r.ClaimantID == "" {
			return fmt.Errorf("%w: missing booster", ErrUnparseable)
		}
	case TagLink:
		if r.TicketChannelID == "" || r.CustomerID == "" {
			return fmt.Errorf("%w: missing channel or customer", ErrUnparseable)
		}
	default:
		return fmt.Errorf("%w: tag %q is not replayable", ErrUnparseable, r.Tag)
	}
	return nil
}

var (
	headRE  = regexp.MustCompile(`^\s*\[([A-Za-z]+)\]\s*(.*)$`)
	fieldRE = regexp.MustCompile(`([a-z]+)=([^\s]+)`)
	orderRE = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

// Parse decodes a CLAIM or LINK line. Leading/trailing whitespace and
// unknown extra fields are tolerated; anything else yields ErrUnparseable.
func Parse(line string) (Record, error) {
	m := headRE.FindStringSubmatch(line)
	if m == nil {
		return Record{}, ErrUnparseable
	}
	tag := Tag(strings.ToUpper(m[1]))
	if tag != TagClaim && tag != TagLink {
		return Record{}, fmt.Errorf("%w: tag %q is not replayable", ErrUnparseable, tag)
	}

	fields := make(map[string]string, 3)
	for _, f := range fieldRE.FindAllStringSubmatch(m[2], -1) {
		if _, seen := fields[f[1]]; !seen {
			fields[f[1]] = f[2]
		}
	}

	order := fields["order"]
	if !orderRE.MatchString(order) {
		return Record{}, fmt.Errorf("%w: bad order %q", ErrUnparseable, order)
	}
	rec := Record{Tag: tag, OrderID: domain.OrderID(strings.ToUpper(order))}
	switch tag {
	case TagClaim:
		rec.ClaimantID = fields["booster"]
	case TagLink:
		rec.TicketChannelID = fields["channel"]
		rec.CustomerID = fields["customer"]
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}
