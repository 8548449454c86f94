package order

import (
	"encoding/json"
	"strings"
)

// Field validation mirrors the API contract exactly: fail fast, the
// first invalid field wins, messages are part of the contract.

func normalizeText(value, field string, min, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < min || len(trimmed) > max {
		return "", validationf("%s must be between %d and %d characters", field, min, max)
	}
	return trimmed, nil
}

// optionalText treats empty and whitespace-only values as absent.
func optionalText(value *string, field string, max int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > max {
		return nil, validationf("%s must be at most %d characters", field, max)
	}
	return &trimmed, nil
}

func optionalInt(value *int, field string) (*int, error) {
	if value == nil {
		return nil, nil
	}
	if *value < 0 {
		return nil, validationf("%s must be a non-negative integer", field)
	}
	return value, nil
}

func parsePriority(value *string) (*Priority, error) {
	if value == nil {
		return nil, nil
	}
	if !ValidPriority(*value) {
		return nil, validationf("priority must be one of: low, medium, high")
	}
	p := Priority(*value)
	return &p, nil
}

func parseStatus(value string) (Status, error) {
	if !ValidStatus(value) {
		return "", validationf("status must be one of: new, in_progress, done, closed")
	}
	return Status(value), nil
}

func parseItems(items []ItemInput) ([]ItemInput, error) {
	seen := make(map[int64]struct{}, len(items))
	for i, it := range items {
		if it.LiteratureID <= 0 {
			return nil, validationf("items[%d].literatureId must be a positive integer", i)
		}
		if it.Quantity <= 0 {
			return nil, validationf("items[%d].quantity must be a positive integer", i)
		}
		if _, dup := seen[it.LiteratureID]; dup {
			return nil, validationf("Duplicate literatureId in items payload")
		}
		seen[it.LiteratureID] = struct{}{}
	}
	return items, nil
}

// ParseUpdate decodes a partial-update body. Field presence matters: an
// absent field is left alone, an explicit null clears it, so the body
// is walked key by key instead of being decoded into a struct.
func ParseUpdate(body []byte) (UpdatePatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return UpdatePatch{}, validationf("invalid request body")
	}

	var p UpdatePatch

	if v, ok := raw["title"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return UpdatePatch{}, validationf("title must be a string")
		}
		title, err := normalizeText(s, "title", 1, 100)
		if err != nil {
			return UpdatePatch{}, err
		}
		p.Title = &title
	}

	if v, ok := raw["description"]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return UpdatePatch{}, validationf("description must be a string")
		}
		desc, err := optionalText(s, "description", 2000)
		if err != nil {
			return UpdatePatch{}, err
		}
		p.Description = desc
		p.DescriptionSet = true
	}

	if v, ok := raw["unit"]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return UpdatePatch{}, validationf("unit must be a string")
		}
		unit, err := optionalText(s, "unit", 50)
		if err != nil {
			return UpdatePatch{}, err
		}
		p.Unit = unit
		p.UnitSet = true
	}

	if v, ok := raw["quantity"]; ok {
		var n *int
		if err := json.Unmarshal(v, &n); err != nil {
			return UpdatePatch{}, validationf("quantity must be a non-negative integer")
		}
		qty, err := optionalInt(n, "quantity")
		if err != nil {
			return UpdatePatch{}, err
		}
		p.Quantity = qty
		p.QuantitySet = true
	}

	if v, ok := raw["priority"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return UpdatePatch{}, validationf("priority must be a string")
		}
		prio, err := parsePriority(&s)
		if err != nil {
			return UpdatePatch{}, err
		}
		p.Priority = prio
	}

	if p.Title == nil && !p.DescriptionSet && !p.UnitSet && !p.QuantitySet && p.Priority == nil {
		return UpdatePatch{}, validationf("No valid fields provided for update")
	}
	return p, nil
}
