package service

import (
	"github.com/google/uuid"

	"mealbenefits_backend/internal/catalog/repository"
)

// Snapshot is an immutable view of the reference data a materialization run
// needs: every vendor, item, and box type, indexed by id. It is loaded once
// per run so the per-client loop never touches the catalog store.
type Snapshot struct {
	vendors  map[uuid.UUID]repository.Vendor
	items    map[uuid.UUID]repository.Item
	boxTypes map[uuid.UUID]repository.BoxType
}

// NewSnapshot builds a snapshot from loaded reference data.
func NewSnapshot(vendors []repository.Vendor, items []repository.Item, boxTypes []repository.BoxType) *Snapshot {
	s := &Snapshot{
		vendors:  make(map[uuid.UUID]repository.Vendor, len(vendors)),
		items:    make(map[uuid.UUID]repository.Item, len(items)),
		boxTypes: make(map[uuid.UUID]repository.BoxType, len(boxTypes)),
	}
	for _, v := range vendors {
		s.vendors[v.ID] = v
	}
	for _, it := range items {
		s.items[it.ID] = it
	}
	for _, b := range boxTypes {
		s.boxTypes[b.ID] = b
	}
	return s
}

// Vendor returns the vendor record for an id.
func (s *Snapshot) Vendor(id uuid.UUID) (repository.Vendor, bool) {
	v, ok := s.vendors[id]
	return v, ok
}

// VendorActive reports whether the id resolves to an active vendor.
func (s *Snapshot) VendorActive(id uuid.UUID) bool {
	v, ok := s.vendors[id]
	return ok && v.Active
}

// VendorName returns the vendor's display name, or the empty string when the
// id does not resolve.
func (s *Snapshot) VendorName(id uuid.UUID) string {
	if v, ok := s.vendors[id]; ok {
		return v.Name
	}
	return ""
}

// VendorDeliveryDays returns the vendor's supported weekday names, or nil
// when the id does not resolve.
func (s *Snapshot) VendorDeliveryDays(id uuid.UUID) []string {
	if v, ok := s.vendors[id]; ok {
		return v.DeliveryDays
	}
	return nil
}

// ItemKnown reports whether the item id exists in the catalog at all. An
// unknown id is an orphaned reference to a deleted item.
func (s *Snapshot) ItemKnown(id uuid.UUID) bool {
	_, ok := s.items[id]
	return ok
}

// ItemActive reports whether an item may be ordered: the item exists, is
// active, and its category (when it has one) is active too.
func (s *Snapshot) ItemActive(id uuid.UUID) bool {
	it, ok := s.items[id]
	if !ok || !it.Active {
		return false
	}
	if it.CategoryActive != nil && !*it.CategoryActive {
		return false
	}
	return true
}

// Item returns the item record for an id.
func (s *Snapshot) Item(id uuid.UUID) (repository.Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// ItemValueCents returns the item's unit value in cents.
func (s *Snapshot) ItemValueCents(id uuid.UUID) (int64, bool) {
	it, ok := s.items[id]
	if !ok {
		return 0, false
	}
	return it.ValueCents, true
}

// BoxType returns the box type record for an id.
func (s *Snapshot) BoxType(id uuid.UUID) (repository.BoxType, bool) {
	b, ok := s.boxTypes[id]
	return b, ok
}
