package models

import "encoding/json"

// Estimate is the root of a parsed estimate.
type Estimate struct {
	// Name is the work/project title.
	Name *string `json:"name"`
	// BdiGlobal is the overhead rate as a fraction (0.15 for 15%).
	BdiGlobal *float64 `json:"bdi_global" validate:"omitempty,gte=0"`
	// Items are the top-level items, normally stages.
	Items []Item `json:"estimate_items"`
}

// MarshalJSON writes an empty list instead of null when there are no items.
func (e Estimate) MarshalJSON() ([]byte, error) {
	type alias Estimate
	a := alias(e)
	if a.Items == nil {
		a.Items = []Item{}
	}
	return marshal(a)
}

// UnmarshalJSON decodes the item union of a stored estimate.
func (e *Estimate) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      *string           `json:"name"`
		BdiGlobal *float64          `json:"bdi_global"`
		Items     []json.RawMessage `json:"estimate_items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	items, err := decodeItems(raw.Items)
	if err != nil {
		return err
	}

	e.Name = raw.Name
	e.BdiGlobal = raw.BdiGlobal
	e.Items = items
	return nil
}
