package capability

import (
	"context"
	"errors"
	"fmt"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/model"
	"github.com/TonySuccar/autogen-realestate/tool"
)

const searchInstructions = `You are a real estate search assistant. Help the user find properties using the search_properties tool, and fetch full details for a specific property with get_property_details. Present results concisely with title, city, price and size. When the user's request has been fully answered, end your reply with TERMINATE.`

// Search handles property-search turns. The model drives the tools; the
// capability only supplies catalog access.
type Search struct {
	exchange *exchange
}

var _ Capability = (*Search)(nil)

// NewSearch builds the search capability over a catalog.
func NewSearch(m model.Model, catalog core.PropertyCatalog, optFns ...func(o *Options)) *Search {
	opts := buildOptions(optFns)
	return &Search{
		exchange: &exchange{
			model:        m,
			tools:        searchTools(catalog),
			instructions: searchInstructions,
			opts:         opts,
		},
	}
}

// Name implements Capability.
func (s *Search) Name() core.Intent { return core.IntentSearch }

// Handle implements Capability.
func (s *Search) Handle(ctx context.Context, turn *Turn) (*Outcome, error) {
	return s.exchange.run(ctx, turn, s.exchange.instructions)
}

func searchTools(catalog core.PropertyCatalog) []tool.Tool {
	searchProperties := tool.NewFunctionTool(
		"search_properties",
		"Search the property catalog. All filters are optional; omit them to list everything.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city":      map[string]any{"type": "string", "description": "City to search in, matched as a substring"},
				"min_price": map[string]any{"type": "number", "description": "Minimum price in dollars"},
				"max_price": map[string]any{"type": "number", "description": "Maximum price in dollars"},
			},
			"required": []string{},
		},
		func(tc *tool.Context, args map[string]any) (any, error) {
			var f core.Filter
			if city, ok := stringArg(args, "city"); ok {
				f.City = city
			}
			if min, ok := floatArg(args, "min_price"); ok {
				f.MinPrice = &min
			}
			if max, ok := floatArg(args, "max_price"); ok {
				f.MaxPrice = &max
			}
			records, err := catalog.List(tc.Context(), f)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"count":      len(records),
				"properties": summarizeProperties(records),
			}, nil
		},
	)

	getDetails := tool.NewFunctionTool(
		"get_property_details",
		"Fetch the full record of a single property by its numeric id.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_id": map[string]any{"type": "integer", "description": "Catalog identifier of the property"},
			},
			"required": []string{"property_id"},
		},
		func(tc *tool.Context, args map[string]any) (any, error) {
			id, ok := intArg(args, "property_id")
			if !ok {
				return nil, tool.NewError("get_property_details", "property_id must be an integer", tool.CodeValidation)
			}
			rec, err := catalog.Get(tc.Context(), id)
			if err != nil {
				if errors.Is(err, core.ErrNoMatch) {
					return nil, &tool.Error{
						Tool:    "get_property_details",
						Message: fmt.Sprintf("no property with id %d", id),
						Code:    tool.CodeExecution,
						Err:     core.ErrNoMatch,
					}
				}
				return nil, err
			}
			return rec, nil
		},
	)

	return []tool.Tool{searchProperties, getDetails}
}

func summarizeProperties(records []core.PropertyRecord) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]any{
			"id":        r.ID,
			"title":     r.Title,
			"city":      r.City,
			"price":     r.Price,
			"size_sqft": r.SizeSqft,
		})
	}
	return out
}
