package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"freightquote/collections"
	"freightquote/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed reference data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Quotations ───────────────────────────────────────────
		se.Router.POST("/quotations", handlers.HandleQuotationCreate(app))
		se.Router.GET("/quotations", handlers.HandleQuotationList(app))
		se.Router.GET("/quotations/{id}", handlers.HandleQuotationView(app))
		se.Router.DELETE("/quotations/{id}", handlers.HandleQuotationDelete(app))

		// ── Dimensions ───────────────────────────────────────────
		se.Router.POST("/quotations/{id}/dimensions", handlers.HandleDimensionCreate(app))
		se.Router.PATCH("/quotations/{id}/dimensions/{dimId}", handlers.HandleDimensionEdit(app))
		se.Router.DELETE("/quotations/{id}/dimensions/{dimId}", handlers.HandleDimensionDelete(app))

		// ── Costing & workflow ───────────────────────────────────
		se.Router.POST("/quotations/{id}/recompute", handlers.HandleQuotationRecompute(app))
		se.Router.POST("/quotations/{id}/cost-lines/{chargeId}/vendor", handlers.HandleVendorSelect(app))
		se.Router.POST("/quotations/{id}/submit", handlers.HandleQuotationSubmit(app))
		se.Router.POST("/approvals/{id}/decide", handlers.HandleApprovalDecide(app))
		se.Router.POST("/quotations/{id}/outcome", handlers.HandleQuotationOutcome(app))

		// ── Reference data ───────────────────────────────────────
		se.Router.GET("/charges/applicable", handlers.HandleChargesApplicable(app))
		se.Router.POST("/exchange-rates/validate", handlers.HandleExchangeRateValidate(app))
		se.Router.POST("/exchange-rates", handlers.HandleExchangeRateUpsert(app))

		// ── Rate cards & exports ─────────────────────────────────
		se.Router.GET("/rate-cards/template", handlers.HandleRateCardTemplate(app))
		se.Router.POST("/rate-cards/import", handlers.HandleRateCardImport(app))
		se.Router.GET("/quotations/{id}/export/excel", handlers.HandleQuotationExport(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
