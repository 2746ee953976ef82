package service

import (
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
)

const (
	reasonBlockedItems  = "Configuration references deleted or inactive items"
	reasonBlockedVendor = "Configuration references a missing or inactive vendor"
)

// CheckBlockingIssues walks every item and vendor reference a configuration
// makes and reports whether any of them blocks materialization. An item
// blocks when its id is absent from the catalog entirely (orphaned reference
// to a deleted item) or present but inactive, directly or via an inactive
// category. A vendor blocks when its id does not resolve to an active vendor.
// Any hit skips the whole client for the run; the valid portion of the
// configuration is never partially materialized, so upstream cleanup can fix
// the reference before the next run.
func CheckBlockingIssues(cfg *upcoming.Config, snap *catalogsvc.Snapshot) (bool, string) {
	if cfg == nil {
		return false, ""
	}

	for _, itemID := range cfg.ItemIDs() {
		if !snap.ItemKnown(itemID) || !snap.ItemActive(itemID) {
			return true, reasonBlockedItems
		}
	}

	for _, vendorID := range cfg.VendorIDs() {
		if !snap.VendorActive(vendorID) {
			return true, reasonBlockedVendor
		}
	}

	return false, ""
}
