package capability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/model"
	"github.com/TonySuccar/autogen-realestate/resolver"
	"github.com/TonySuccar/autogen-realestate/tool"
)

const bookingInstructions = `You are a real estate booking assistant. Schedule property viewings with the create_viewing tool; the property_reference argument may be a title, a partial title or a description the user gave. Use list_viewings to show existing appointments. Confirm every scheduled viewing with the property title, date and time. When the request has been fully handled, end your reply with TERMINATE.`

// Booking handles viewing-scheduling turns. Free-text property references
// are resolved to catalog records before any booking is created; an
// ambiguous reference turns into a clarification question instead of a
// booking.
type Booking struct {
	exchange *exchange
}

var _ Capability = (*Booking)(nil)

// NewBooking builds the booking capability.
func NewBooking(
	m model.Model,
	catalog core.PropertyCatalog,
	bookings core.BookingService,
	res *resolver.Resolver,
	optFns ...func(o *Options),
) *Booking {
	opts := buildOptions(optFns)
	return &Booking{
		exchange: &exchange{
			model:        m,
			tools:        bookingTools(catalog, bookings, res),
			instructions: bookingInstructions,
			opts:         opts,
		},
	}
}

// Name implements Capability.
func (b *Booking) Name() core.Intent { return core.IntentBooking }

// Handle implements Capability. When the turn answers a pending
// clarification, the earlier question and its options are surfaced to the
// model so the user's reply is interpreted as the property choice.
func (b *Booking) Handle(ctx context.Context, turn *Turn) (*Outcome, error) {
	instructions := b.exchange.instructions
	if turn.Pending != nil {
		instructions = fmt.Sprintf(
			"%s\n\nThe user was previously asked: %q (candidates: %s). Their latest message answers that question; treat it as the property choice for the original request %q.",
			instructions, turn.Pending.Question, strings.Join(turn.Pending.Options, "; "), turn.Pending.Query,
		)
	}
	outcome, err := b.exchange.run(ctx, turn, instructions)
	if err != nil {
		return nil, err
	}
	if outcome.Clarification != nil {
		outcome.Clarification.Capability = core.IntentBooking
	}
	return outcome, nil
}

func bookingTools(catalog core.PropertyCatalog, bookings core.BookingService, res *resolver.Resolver) []tool.Tool {
	createViewing := tool.NewFunctionTool(
		"create_viewing",
		"Schedule a property viewing. The property reference is resolved against the catalog; dates use YYYY-MM-DD and times use HH:MM (24h).",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_reference": map[string]any{"type": "string", "description": "Title, partial title or description of the property"},
				"date":               map[string]any{"type": "string", "description": "Viewing date, YYYY-MM-DD"},
				"time":               map[string]any{"type": "string", "description": "Viewing time, HH:MM 24h. Defaults to 10:00"},
				"user_id":            map[string]any{"type": "integer", "description": "Identifier of the requesting user. Defaults to 1"},
			},
			"required": []string{"property_reference", "date"},
		},
		func(tc *tool.Context, args map[string]any) (any, error) {
			ref, _ := stringArg(args, "property_reference")
			date, _ := stringArg(args, "date")
			clock, ok := stringArg(args, "time")
			if !ok || clock == "" {
				clock = "10:00"
			}
			userID, ok := intArg(args, "user_id")
			if !ok {
				userID = 1
			}

			scheduledAt, err := time.Parse("2006-01-02 15:04", date+" "+clock)
			if err != nil {
				return nil, tool.NewError("create_viewing",
					fmt.Sprintf("invalid date or time %q %q: use YYYY-MM-DD and HH:MM", date, clock),
					tool.CodeValidation)
			}

			rec, err := resolveReference(tc.Context(), catalog, res, ref)
			if err != nil {
				return nil, err
			}

			booking, err := bookings.Create(tc.Context(), rec.ID, userID, scheduledAt)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"booking_id":   booking.ID,
				"property":     rec.Title,
				"city":         rec.City,
				"scheduled_at": booking.ScheduledAt.Format("2006-01-02 15:04"),
				"status":       string(booking.Status),
			}, nil
		},
	)

	listViewings := tool.NewFunctionTool(
		"list_viewings",
		"List the viewings scheduled for a user, oldest first.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_id": map[string]any{"type": "integer", "description": "Identifier of the user. Defaults to 1"},
			},
			"required": []string{},
		},
		func(tc *tool.Context, args map[string]any) (any, error) {
			userID, ok := intArg(args, "user_id")
			if !ok {
				userID = 1
			}
			records, err := bookings.List(tc.Context(), userID)
			if err != nil {
				return nil, err
			}
			out := make([]map[string]any, 0, len(records))
			for _, r := range records {
				entry := map[string]any{
					"booking_id":   r.ID,
					"property_id":  r.PropertyID,
					"scheduled_at": r.ScheduledAt.Format("2006-01-02 15:04"),
					"status":       string(r.Status),
				}
				if prop, err := catalog.Get(tc.Context(), r.PropertyID); err == nil {
					entry["property"] = prop.Title
				}
				out = append(out, entry)
			}
			return map[string]any{"count": len(out), "viewings": out}, nil
		},
	)

	return []tool.Tool{createViewing, listViewings}
}

// resolveReference maps a free-text reference to exactly one catalog record.
// Ambiguity and no-match surface as domain errors wrapped in *tool.Error so
// the exchange loop can distinguish them.
func resolveReference(ctx context.Context, catalog core.PropertyCatalog, res *resolver.Resolver, ref string) (core.PropertyRecord, error) {
	records, err := catalog.List(ctx, core.Filter{})
	if err != nil {
		return core.PropertyRecord{}, err
	}

	outcome := res.Resolve(ref, records)
	switch outcome.Kind {
	case resolver.OutcomeUnique:
		return outcome.Match.Record, nil
	case resolver.OutcomeAmbiguous:
		candidates := make([]core.PropertyRecord, 0, len(outcome.Candidates))
		for _, c := range outcome.Candidates {
			candidates = append(candidates, c.Record)
		}
		amb := &core.AmbiguousReferenceError{Query: ref, Candidates: candidates}
		return core.PropertyRecord{}, &tool.Error{
			Tool:    "create_viewing",
			Message: amb.Error(),
			Code:    tool.CodeExecution,
			Err:     amb,
		}
	default:
		return core.PropertyRecord{}, &tool.Error{
			Tool:    "create_viewing",
			Message: fmt.Sprintf("no property matches %q", ref),
			Code:    tool.CodeExecution,
			Err:     core.ErrNoMatch,
		}
	}
}
