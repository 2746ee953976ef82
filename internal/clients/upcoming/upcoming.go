// Package upcoming models the declarative upcoming-order configuration a
// client holds. The stored form is a JSON document; this package decodes it
// into a tagged union keyed by service type so the rest of the system never
// probes raw JSON shapes.
package upcoming

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ServiceType discriminates the configuration variants.
type ServiceType string

const (
	ServiceFood   ServiceType = "Food"
	ServiceMeal   ServiceType = "Meal"
	ServiceBoxes  ServiceType = "Boxes"
	ServiceCustom ServiceType = "Custom"
)

// Valid reports whether the service type is one of the known variants.
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceFood, ServiceMeal, ServiceBoxes, ServiceCustom:
		return true
	}
	return false
}

// VendorSelection is one vendor's item picks within a configuration.
type VendorSelection struct {
	VendorID  uuid.UUID            `json:"vendorId"`
	Items     map[uuid.UUID]int    `json:"items"`
	ItemNotes map[uuid.UUID]string `json:"itemNotes,omitempty"`
}

// DayOrder groups the vendor selections for a single delivery weekday.
type DayOrder struct {
	VendorSelections []VendorSelection `json:"vendorSelections"`
}

// FoodConfig holds grocery-style selections. DeliveryDayOrders is the
// preferred day-keyed form; VendorSelections is the legacy flat form whose
// delivery day is inferred from each vendor's own delivery days.
type FoodConfig struct {
	DeliveryDayOrders map[string]DayOrder `json:"deliveryDayOrders,omitempty"`
	VendorSelections  []VendorSelection   `json:"vendorSelections,omitempty"`
}

// MealConfig holds one vendor selection per named meal slot.
type MealConfig struct {
	MealSelections map[string]VendorSelection `json:"mealSelections"`
}

// BoxOrder is a single box line: a box type filled with items from one vendor.
type BoxOrder struct {
	BoxTypeID uuid.UUID            `json:"boxTypeId"`
	VendorID  *uuid.UUID           `json:"vendorId,omitempty"`
	Quantity  int                  `json:"quantity"`
	Items     map[uuid.UUID]int    `json:"items"`
	ItemNotes map[uuid.UUID]string `json:"itemNotes,omitempty"`
}

// BoxesConfig holds all box lines for a client.
type BoxesConfig struct {
	BoxOrders []BoxOrder `json:"boxOrders"`
}

// CustomConfig is a single free-form order. CustomName may encode several
// comma-separated item names; CustomPriceCents is the total across them.
type CustomConfig struct {
	DeliveryDay      string    `json:"deliveryDay"`
	VendorID         uuid.UUID `json:"vendorId"`
	CustomName       string    `json:"custom_name"`
	CustomPriceCents int64     `json:"custom_price"`
	Notes            string    `json:"notes,omitempty"`
}

// Config is the decoded upcoming-order configuration. Exactly one variant
// pointer is set, matching ServiceType.
type Config struct {
	ServiceType ServiceType
	Notes       string
	CaseID      string
	Food        *FoodConfig
	Meal        *MealConfig
	Boxes       *BoxesConfig
	Custom      *CustomConfig
}

// envelope is the raw stored shape: a superset of all variant fields plus the
// discriminant.
type envelope struct {
	ServiceType string `json:"serviceType"`
	Notes       string `json:"notes"`
	CaseID      string `json:"caseId"`

	DeliveryDayOrders map[string]DayOrder        `json:"deliveryDayOrders"`
	VendorSelections  []VendorSelection          `json:"vendorSelections"`
	MealSelections    map[string]VendorSelection `json:"mealSelections"`
	BoxOrders         []BoxOrder                 `json:"boxOrders"`

	DeliveryDay      string     `json:"deliveryDay"`
	VendorID         *uuid.UUID `json:"vendorId"`
	CustomName       string     `json:"custom_name"`
	CustomPriceCents int64      `json:"custom_price"`
}

// Decode parses a stored configuration document. A nil, empty, or JSON-null
// document decodes to (nil, nil): the client simply has no upcoming order.
// A missing serviceType means Food (legacy documents predate the field).
func Decode(raw []byte) (*Config, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode upcoming order config: %w", err)
	}

	serviceType := ServiceType(env.ServiceType)
	if env.ServiceType == "" {
		serviceType = ServiceFood
	}
	if !serviceType.Valid() {
		return nil, fmt.Errorf("decode upcoming order config: unknown service type %q", env.ServiceType)
	}

	cfg := &Config{
		ServiceType: serviceType,
		Notes:       env.Notes,
		CaseID:      env.CaseID,
	}

	switch serviceType {
	case ServiceFood:
		cfg.Food = &FoodConfig{
			DeliveryDayOrders: env.DeliveryDayOrders,
			VendorSelections:  env.VendorSelections,
		}
	case ServiceMeal:
		cfg.Meal = &MealConfig{MealSelections: env.MealSelections}
	case ServiceBoxes:
		cfg.Boxes = &BoxesConfig{BoxOrders: env.BoxOrders}
	case ServiceCustom:
		var vendorID uuid.UUID
		if env.VendorID != nil {
			vendorID = *env.VendorID
		}
		cfg.Custom = &CustomConfig{
			DeliveryDay:      env.DeliveryDay,
			VendorID:         vendorID,
			CustomName:       env.CustomName,
			CustomPriceCents: env.CustomPriceCents,
			Notes:            env.Notes,
		}
	}

	return cfg, nil
}

// Encode serializes a configuration back to its stored form.
func Encode(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, nil
	}

	env := envelope{
		ServiceType: string(cfg.ServiceType),
		Notes:       cfg.Notes,
		CaseID:      cfg.CaseID,
	}
	switch {
	case cfg.Food != nil:
		env.DeliveryDayOrders = cfg.Food.DeliveryDayOrders
		env.VendorSelections = cfg.Food.VendorSelections
	case cfg.Meal != nil:
		env.MealSelections = cfg.Meal.MealSelections
	case cfg.Boxes != nil:
		env.BoxOrders = cfg.Boxes.BoxOrders
	case cfg.Custom != nil:
		env.DeliveryDay = cfg.Custom.DeliveryDay
		vendorID := cfg.Custom.VendorID
		env.VendorID = &vendorID
		env.CustomName = cfg.Custom.CustomName
		env.CustomPriceCents = cfg.Custom.CustomPriceCents
		if env.Notes == "" {
			env.Notes = cfg.Custom.Notes
		}
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode upcoming order config: %w", err)
	}
	return data, nil
}

// VendorIDs returns every vendor id the configuration references.
func (c *Config) VendorIDs() []uuid.UUID {
	if c == nil {
		return nil
	}

	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	switch {
	case c.Food != nil:
		for _, day := range c.Food.DeliveryDayOrders {
			for _, sel := range day.VendorSelections {
				add(sel.VendorID)
			}
		}
		for _, sel := range c.Food.VendorSelections {
			add(sel.VendorID)
		}
	case c.Meal != nil:
		for _, sel := range c.Meal.MealSelections {
			add(sel.VendorID)
		}
	case c.Boxes != nil:
		for _, box := range c.Boxes.BoxOrders {
			if box.VendorID != nil {
				add(*box.VendorID)
			}
		}
	case c.Custom != nil:
		add(c.Custom.VendorID)
	}

	return ids
}

// ItemIDs returns every catalog item id the configuration references.
func (c *Config) ItemIDs() []uuid.UUID {
	if c == nil {
		return nil
	}

	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	addAll := func(items map[uuid.UUID]int) {
		for id := range items {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	switch {
	case c.Food != nil:
		for _, day := range c.Food.DeliveryDayOrders {
			for _, sel := range day.VendorSelections {
				addAll(sel.Items)
			}
		}
		for _, sel := range c.Food.VendorSelections {
			addAll(sel.Items)
		}
	case c.Meal != nil:
		for _, sel := range c.Meal.MealSelections {
			addAll(sel.Items)
		}
	case c.Boxes != nil:
		for _, box := range c.Boxes.BoxOrders {
			addAll(box.Items)
		}
	}

	return ids
}
