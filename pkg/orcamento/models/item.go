// Package models defines the estimate tree produced by the parser.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ItemType is the discriminator written as estimate_item_type.
type ItemType string

const (
	// ItemTypeStage marks a grouping node (a construction phase).
	ItemTypeStage ItemType = "stage"
	// ItemTypeComposition marks a priced item built from resources.
	ItemTypeComposition ItemType = "composition"
	// ItemTypeResource marks an atomic priced input.
	ItemTypeResource ItemType = "resource"
)

// Item is one node of the estimate tree. The set of implementations is
// closed: *Stage, *Composition and *Resource.
type Item interface {
	ItemType() ItemType
	ItemIndex() string
	isItem()
}

// Stage is a container node holding child items of any kind.
type Stage struct {
	// Index is the dotted path of the stage (e.g. "2.5").
	Index string `json:"index,omitempty"`
	// Name is the stage title.
	Name *string `json:"name"`
	// PriceTotal is the rollup total printed on the stage line, if any.
	PriceTotal *float64 `json:"price_total"`
	// Items are the ordered children of the stage.
	Items []Item `json:"-"`
	// SingularItemsKey makes the children serialize under "estimate_item".
	// Only the finalization pass sets it.
	SingularItemsKey bool `json:"-"`
}

// Priced holds the fields shared by compositions and resources.
type Priced struct {
	// Index is the dotted path of the item, empty for nested resources.
	Index string `json:"index,omitempty"`
	// Code is the catalogue code (e.g. SINAPI code).
	Code *string `json:"code"`
	// Bank is the price source or supplier.
	Bank *string `json:"bank"`
	// Name is the item description.
	Name *string `json:"name"`
	// Type is the free-form type column of the sheet.
	Type *string `json:"type"`
	// UnitSymbol is the normalized unit of measure.
	UnitSymbol *string `json:"unit_symbol"`
	// Quantity is the amount of the item.
	Quantity *float64 `json:"quantity"`
	// PriceUnit is the price per unit.
	PriceUnit *float64 `json:"price_unit"`
	// PriceTotal is the line total.
	PriceTotal *float64 `json:"price_total"`
}

// Composition is a priced item aggregating resources one level deep.
type Composition struct {
	Priced
	// Children are the resources listed under the composition.
	Children []*Resource `json:"composition_child"`
}

// Resource is a priced leaf item.
type Resource struct {
	Priced
}

func (*Stage) ItemType() ItemType       { return ItemTypeStage }
func (*Composition) ItemType() ItemType { return ItemTypeComposition }
func (*Resource) ItemType() ItemType    { return ItemTypeResource }

func (s *Stage) ItemIndex() string       { return s.Index }
func (c *Composition) ItemIndex() string { return c.Index }
func (r *Resource) ItemIndex() string    { return r.Index }

func (*Stage) isItem()       {}
func (*Composition) isItem() {}
func (*Resource) isItem()    {}

type stageHead struct {
	Type       ItemType `json:"estimate_item_type"`
	Index      string   `json:"index,omitempty"`
	Name       *string  `json:"name"`
	PriceTotal *float64 `json:"price_total"`
}

// MarshalJSON writes the stage with its discriminator. The child key is
// "estimate_item" when SingularItemsKey is set, "estimate_items" otherwise.
func (s *Stage) MarshalJSON() ([]byte, error) {
	head := stageHead{
		Type:       ItemTypeStage,
		Index:      s.Index,
		Name:       s.Name,
		PriceTotal: s.PriceTotal,
	}
	items := s.Items
	if items == nil {
		items = []Item{}
	}
	if s.SingularItemsKey {
		return marshal(struct {
			stageHead
			Items []Item `json:"estimate_item"`
		}{head, items})
	}
	return marshal(struct {
		stageHead
		Items []Item `json:"estimate_items"`
	}{head, items})
}

// UnmarshalJSON reads a stage written by MarshalJSON, with either child key.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw struct {
		stageHead
		Items []json.RawMessage `json:"estimate_items"`
		Item  []json.RawMessage `json:"estimate_item"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	children := raw.Items
	singular := false
	if raw.Item != nil {
		children = raw.Item
		singular = true
	}
	items, err := decodeItems(children)
	if err != nil {
		return err
	}

	*s = Stage{
		Index:            raw.Index,
		Name:             raw.Name,
		PriceTotal:       raw.PriceTotal,
		Items:            items,
		SingularItemsKey: singular,
	}
	return nil
}

// MarshalJSON writes the composition with its discriminator.
func (c *Composition) MarshalJSON() ([]byte, error) {
	children := c.Children
	if children == nil {
		children = []*Resource{}
	}
	return marshal(struct {
		Type ItemType `json:"estimate_item_type"`
		Priced
		Children []*Resource `json:"composition_child"`
	}{ItemTypeComposition, c.Priced, children})
}

// MarshalJSON writes the resource with its discriminator.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		Type ItemType `json:"estimate_item_type"`
		Priced
	}{ItemTypeResource, r.Priced})
}

// DecodeItem decodes one item using its estimate_item_type field.
func DecodeItem(data []byte) (Item, error) {
	var head struct {
		Type ItemType `json:"estimate_item_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case ItemTypeStage:
		s := &Stage{}
		if err := json.Unmarshal(data, s); err != nil {
			return nil, err
		}
		return s, nil
	case ItemTypeComposition:
		c := &Composition{}
		if err := json.Unmarshal(data, c); err != nil {
			return nil, err
		}
		return c, nil
	case ItemTypeResource:
		r := &Resource{}
		if err := json.Unmarshal(data, r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown estimate_item_type %q", head.Type)
	}
}

func decodeItems(raws []json.RawMessage) ([]Item, error) {
	items := make([]Item, 0, len(raws))
	for i, raw := range raws {
		item, err := DecodeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// marshal is json.Marshal without HTML escaping, so nested items keep
// characters such as '<' and '&' as written.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
