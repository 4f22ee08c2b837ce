package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Selection is the (year, categories) pair chosen by a client.
type Selection struct {
	Year       int         `json:"year"`
	Categories CategorySet `json:"affected_by"`
}

// NewSelection builds a Selection, normalizing categories into a set.
func NewSelection(year int, categories ...string) Selection {
	return Selection{Year: year, Categories: NewCategorySet(categories...)}
}

// CategorySet is an ordered set of "Affected by" values. It decodes from
// either a JSON string or a JSON array of strings; a scalar becomes a
// one-element set.
type CategorySet []string

// NewCategorySet removes duplicates while keeping first-seen order.
func NewCategorySet(values ...string) CategorySet {
	set := make(CategorySet, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		set = append(set, v)
	}
	return set
}

// UnmarshalJSON accepts "Pesticides", ["Pesticides", "Disease"] or null.
func (c *CategorySet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = NewCategorySet(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("affected_by must be a string or a list of strings: %w", err)
	}
	*c = NewCategorySet(many...)
	return nil
}

func (c CategorySet) index() map[string]struct{} {
	idx := make(map[string]struct{}, len(c))
	for _, s := range c {
		idx[s] = struct{}{}
	}
	return idx
}
