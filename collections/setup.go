package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all quotation engine collections:
// master data (currencies, uoms, charges, customers, vendors, locations),
// rule tables (charge_rules, margin_rules, exchange_rates, vendor rate
// cards, volumetric_divisors) and the quotation documents themselves.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "currencies", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "symbol", Required: false})
		c.AddIndex("idx_currencies_code", true, "code", "")
	})

	uoms := ensureCollection(app, "uoms", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "basis",
			Required:  true,
			Values:    []string{"weight", "volume", "shipment"},
			MaxSelect: 1,
		})
		c.AddIndex("idx_uoms_code", true, "code", "")
	})

	charges := ensureCollection(app, "charges", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "default_uom",
			Required:     true,
			CollectionId: uoms.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.AddIndex("idx_charges_code", true, "code", "")
	})

	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "code", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "city", Required: false})
		c.Fields.Add(&core.TextField{Name: "country", Required: false})
	})

	vendors := ensureCollection(app, "vendors", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "code", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "city", Required: false})
		c.Fields.Add(&core.TextField{Name: "country", Required: false})
	})

	locations := ensureCollection(app, "locations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "country", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  false,
			Values:    []string{"airport", "seaport", "city"},
			MaxSelect: 1,
		})
		c.AddIndex("idx_locations_code", true, "code", "")
	})

	ensureCollection(app, "charge_rules", func(c *core.Collection) {
		c.Fields.Add(&core.SelectField{
			Name:      "mode",
			Required:  true,
			Values:    []string{"AIR", "SEA", "ROAD", "RAIL"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "movement",
			Required:  true,
			Values:    []string{"IMPORT", "EXPORT"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "terms", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "charge",
			Required:     true,
			CollectionId: charges.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.BoolField{Name: "active"})
		c.AddIndex("idx_charge_rules_tuple", true, "mode, movement, terms, charge", "")
	})

	ensureCollection(app, "margin_rules", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "charge",
			Required:     false,
			CollectionId: charges.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "precedence", Required: true})
		c.Fields.Add(&core.NumberField{Name: "margin_percent", Required: false})
		c.Fields.Add(&core.NumberField{Name: "margin_fixed", Required: false})
		c.Fields.Add(&core.BoolField{Name: "active"})
		c.AddIndex("idx_margin_rules_tuple", true, "charge, customer, precedence", "")
	})

	ensureCollection(app, "exchange_rates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "from_currency", Required: true})
		c.Fields.Add(&core.TextField{Name: "to_currency", Required: true})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: true})
		c.Fields.Add(&core.NumberField{Name: "inverse_rate", Required: false})
		c.Fields.Add(&core.DateField{Name: "effective_date", Required: true})
		c.Fields.Add(&core.DateField{Name: "expiry_date", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"active", "inactive"},
			MaxSelect: 1,
		})
		c.AddIndex("idx_exchange_rates_tuple", true, "from_currency, to_currency, effective_date", "")
	})

	rateHeaders := ensureCollection(app, "vendor_rate_headers", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "vendor",
			Required:     true,
			CollectionId: vendors.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "mode",
			Required:  true,
			Values:    []string{"AIR", "SEA", "ROAD", "RAIL"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "movement",
			Required:  true,
			Values:    []string{"IMPORT", "EXPORT"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "origin",
			Required:     true,
			CollectionId: locations.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "destination",
			Required:     true,
			CollectionId: locations.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "incoterm", Required: true})
		c.Fields.Add(&core.TextField{Name: "currency", Required: true})
		c.Fields.Add(&core.DateField{Name: "valid_from", Required: true})
		c.Fields.Add(&core.DateField{Name: "valid_upto", Required: false})
		c.Fields.Add(&core.BoolField{Name: "active"})
	})

	ensureCollection(app, "vendor_rate_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "header",
			Required:      true,
			CollectionId:  rateHeaders.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "charge",
			Required:     true,
			CollectionId: charges.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "uom",
			Required:     true,
			CollectionId: uoms.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: true})
		c.Fields.Add(&core.NumberField{Name: "slab_min", Required: false})
		c.Fields.Add(&core.NumberField{Name: "slab_max", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_fixed_rate"})
		c.Fields.Add(&core.NumberField{Name: "sequence", Required: true})
		c.AddIndex("idx_vendor_rate_lines_slab", true, "header, charge, slab_min, slab_max, uom", "")
	})

	quotations := ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "mode",
			Required:  true,
			Values:    []string{"AIR", "SEA", "ROAD", "RAIL"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "movement",
			Required:  true,
			Values:    []string{"IMPORT", "EXPORT"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "incoterm", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "origin",
			Required:     true,
			CollectionId: locations.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "destination",
			Required:     true,
			CollectionId: locations.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "base_currency", Required: true})
		c.Fields.Add(&core.DateField{Name: "pricing_date", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:     "status",
			Required: true,
			Values: []string{
				"draft", "pending_costing", "pending_approval",
				"sent", "won", "lost", "cancelled",
			},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "total_pieces", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_weight_kg", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_cbm", Required: false})
		c.Fields.Add(&core.NumberField{Name: "volumetric_weight_kg", Required: false})
		c.Fields.Add(&core.NumberField{Name: "chargeable_weight_kg", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_sale", Required: false})
		c.Fields.Add(&core.NumberField{Name: "margin", Required: false})
		c.Fields.Add(&core.NumberField{Name: "margin_percent", Required: false})
		c.Fields.Add(&core.NumberField{Name: "revision", Required: false})
		c.Fields.Add(&core.BoolField{Name: "deleted"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotations_number", true, "quote_number", "")
	})

	ensureCollection(app, "quotation_dimensions", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "length_cm", Required: true})
		c.Fields.Add(&core.NumberField{Name: "width_cm", Required: true})
		c.Fields.Add(&core.NumberField{Name: "height_cm", Required: true})
		c.Fields.Add(&core.NumberField{Name: "pieces", Required: true})
		c.Fields.Add(&core.NumberField{Name: "weight_per_piece_kg", Required: true})
		c.Fields.Add(&core.NumberField{Name: "cbm_per_piece", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_cbm", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_weight_kg", Required: false})
	})

	ensureCollection(app, "quotation_cost_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "charge",
			Required:     true,
			CollectionId: charges.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "uom",
			Required:     false,
			CollectionId: uoms.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.JSONField{Name: "vendor_costs", MaxSize: 51200})
		c.Fields.Add(&core.RelationField{
			Name:         "selected_vendor",
			Required:     false,
			CollectionId: vendors.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
		c.Fields.Add(&core.TextField{Name: "currency", Required: false})
		c.Fields.Add(&core.NumberField{Name: "fx_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_cost", Required: false})
		c.Fields.Add(&core.BoolField{Name: "uncosted"})
		c.AddIndex("idx_cost_lines_charge", true, "quotation, charge", "")
	})

	ensureCollection(app, "quotation_sale_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "charge",
			Required:     true,
			CollectionId: charges.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "charge_name", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_rate", Required: false})
		c.Fields.Add(&core.TextField{Name: "currency", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_sale_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_with_tax", Required: false})
		c.Fields.Add(&core.NumberField{Name: "internal_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "margin_percent", Required: false})
		c.AddIndex("idx_sale_lines_charge", true, "quotation, charge", "")
	})

	ensureCollection(app, "quotation_approvals", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "approval_status",
			Required:  true,
			Values:    []string{"pending", "approved", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "submitted_by", Required: true})
		c.Fields.Add(&core.TextField{Name: "approver", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_sale", Required: false})
		c.Fields.Add(&core.NumberField{Name: "margin_percent", Required: false})
		c.Fields.Add(&core.TextField{Name: "comments", Required: false})
		c.Fields.Add(&core.TextField{Name: "rejection_reason", Required: false})
		c.Fields.Add(&core.DateField{Name: "submitted_at", Required: false})
		c.Fields.Add(&core.DateField{Name: "decided_at", Required: false})
	})

	ensureCollection(app, "volumetric_divisors", func(c *core.Collection) {
		c.Fields.Add(&core.SelectField{
			Name:      "mode",
			Required:  true,
			Values:    []string{"AIR", "SEA", "ROAD", "RAIL"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "divisor", Required: true})
		c.AddIndex("idx_volumetric_divisors_mode", true, "mode", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
