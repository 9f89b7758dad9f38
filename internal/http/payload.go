package http

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wadani-market/cms/internal/collection"
	"github.com/wadani-market/cms/internal/locale"
)

// itemPayload is the wire form of one collection item. Fields maps a logical
// field name to its per-language values. Items without an id are treated as
// new rows; ids the server no longer knows are treated the same way.
type itemPayload struct {
	ID     string                       `json:"id,omitempty"`
	Order  int                          `json:"order"`
	Active bool                         `json:"active"`
	Fields map[string]map[string]string `json:"fields"`
}

type failurePayload struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type reconcileRequest struct {
	Items []itemPayload `json:"items"`
}

type reconcileResponse struct {
	Items     []itemPayload    `json:"items"`
	Failures  []failurePayload `json:"failures,omitempty"`
	Saved     bool             `json:"saved"`
	Submitted int              `json:"submitted"`
}

func itemFromPayload(payload itemPayload) (collection.Item, error) {
	identity := collection.NewItemIdentity()
	if trimmed := strings.TrimSpace(payload.ID); trimmed != "" {
		id, err := uuid.Parse(trimmed)
		if err != nil {
			return collection.Item{}, fmt.Errorf("invalid item id %q", payload.ID)
		}
		identity = collection.ExistingIdentity(id)
	}

	fields := make(map[string]locale.Field, len(payload.Fields))
	for name, values := range payload.Fields {
		field := make(locale.Field, len(values))
		for code, value := range values {
			field[locale.Language(code)] = value
		}
		fields[name] = field
	}

	return collection.Item{
		Identity: identity,
		Order:    payload.Order,
		Active:   payload.Active,
		Fields:   fields,
	}, nil
}

func itemsFromPayload(payloads []itemPayload) ([]collection.Item, error) {
	items := make([]collection.Item, 0, len(payloads))
	for i, payload := range payloads {
		item, err := itemFromPayload(payload)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func payloadFromItem(item collection.Item) itemPayload {
	fields := make(map[string]map[string]string, len(item.Fields))
	for name, field := range item.Fields {
		values := make(map[string]string, len(field))
		for code, value := range field {
			values[string(code)] = value
		}
		fields[name] = values
	}

	payload := itemPayload{
		Order:  item.Order,
		Active: item.Active,
		Fields: fields,
	}
	if item.Identity.Known() {
		payload.ID = item.Identity.UUID().String()
	}
	return payload
}

func payloadsFromItems(items []collection.Item) []itemPayload {
	out := make([]itemPayload, 0, len(items))
	for _, item := range items {
		out = append(out, payloadFromItem(item))
	}
	return out
}

func payloadsFromFailures(failures []collection.Failure) []failurePayload {
	if len(failures) == 0 {
		return nil
	}
	out := make([]failurePayload, 0, len(failures))
	for _, failure := range failures {
		payload := failurePayload{
			Index:   failure.Index,
			Op:      failure.Op,
			Message: failure.Message,
		}
		if failure.Identity != uuid.Nil {
			payload.ID = failure.Identity.String()
		}
		out = append(out, payload)
	}
	return out
}
