package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/services"
)

// HandleChargesApplicable resolves which charges apply to a shipment context.
// Exact-incoterm rules win over ALL_TERMS wildcards.
// Route: GET /charges/applicable?mode=AIR&movement=EXPORT&terms=FOB
func HandleChargesApplicable(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := e.Request.URL.Query()
		mode := strings.ToUpper(query.Get("mode"))
		movement := strings.ToUpper(query.Get("movement"))
		terms := strings.ToUpper(query.Get("terms"))
		if mode == "" || movement == "" || terms == "" {
			return jsonError(e, http.StatusBadRequest, "mode, movement and terms are required")
		}

		ruleRecords, err := app.FindRecordsByFilter("charge_rules", "active = true", "", 0, 0)
		if err != nil {
			log.Printf("charges_applicable: could not query charge rules: %v", err)
			return serviceError(e, err)
		}
		rules := make([]services.ChargeRule, 0, len(ruleRecords))
		for _, r := range ruleRecords {
			rules = append(rules, services.ChargeRule{
				ID:       r.Id,
				Mode:     r.GetString("mode"),
				Movement: r.GetString("movement"),
				Terms:    r.GetString("terms"),
				ChargeID: r.GetString("charge"),
				Active:   r.GetBool("active"),
			})
		}

		chargeIDs := services.ResolveApplicableCharges(rules, mode, movement, terms)

		charges := make([]map[string]any, 0, len(chargeIDs))
		for _, id := range chargeIDs {
			charge, err := app.FindRecordById("charges", id)
			if err != nil {
				log.Printf("charges_applicable: rule references missing charge %s: %v", id, err)
				continue
			}
			charges = append(charges, map[string]any{
				"id":       charge.Id,
				"code":     charge.GetString("code"),
				"name":     charge.GetString("name"),
				"tax_rate": charge.GetFloat("tax_rate"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"charges": charges})
	}
}
