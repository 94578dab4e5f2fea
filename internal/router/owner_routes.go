package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/handler"    // owner handlers
	"github.com/reelworks/production-runner/internal/middleware" // JWT + role middlewares
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and OWNER role.  reportCache is the Redis
// response cache applied to the report GETs only; pass nil to disable.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string, reportCache echo.MiddlewareFunc) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Productions ----
	g.POST("/productions", o.CreateProduction)
	g.GET("/productions", o.ListProductions)
	g.GET("/productions/:id", o.GetProduction)
	g.PUT("/productions/:id", o.UpdateProduction)
	g.PATCH("/productions/:id", o.UpdateProduction) // allow partial/semantic updates via PATCH as well
	g.DELETE("/productions/:id", o.DeleteProduction)

	// ---- Stripboard ----
	g.POST("/productions/:id/scenes", o.CreateScene)
	g.GET("/productions/:id/scenes", o.ListScenes)
	// reorder before :sceneId so Echo does not swallow the literal segment
	g.PUT("/productions/:id/scenes/reorder", o.ReorderScenes)
	g.POST("/productions/:id/scenes/import", o.ImportScenes)
	g.GET("/productions/:id/scenes/:sceneId", o.GetScene)
	g.PUT("/productions/:id/scenes/:sceneId", o.UpdateScene)
	g.DELETE("/productions/:id/scenes/:sceneId", o.DeleteScene)

	// ---- Cast ----
	g.POST("/productions/:id/cast", o.CreateCastMember)
	g.GET("/productions/:id/cast", o.ListCastMembers)
	g.PUT("/productions/:id/cast/:castId", o.UpdateCastMember)
	g.DELETE("/productions/:id/cast/:castId", o.DeleteCastMember)

	// ---- Contacts ----
	g.POST("/productions/:id/contacts", o.CreateContact)
	g.GET("/productions/:id/contacts", o.ListContacts)
	g.PUT("/productions/:id/contacts/:contactId", o.UpdateContact)
	g.DELETE("/productions/:id/contacts/:contactId", o.DeleteContact)

	// ---- Reports ----
	// Reports are pure reads rebuilt from the stripboard; the Redis
	// response cache absorbs repeated generation.
	if reportCache != nil {
		g.GET("/productions/:id/reports/one-liner", o.OneLinerReport, reportCache)
		g.GET("/productions/:id/reports/dood", o.DOODReport, reportCache)
	} else {
		g.GET("/productions/:id/reports/one-liner", o.OneLinerReport)
		g.GET("/productions/:id/reports/dood", o.DOODReport)
	}

	// ---- Budget ----
	g.POST("/productions/:id/budget", o.CreateBudgetItem)
	g.GET("/productions/:id/budget", o.ListBudgetItems)
	g.GET("/productions/:id/budget/summary", o.BudgetSummary)
	g.POST("/productions/:id/budget/clear-all", o.ClearBudget)
	g.PUT("/productions/:id/budget/:itemId", o.UpdateBudgetItem)
	g.DELETE("/productions/:id/budget/:itemId", o.DeleteBudgetItem)

	// ---- Call sheets ----
	g.POST("/productions/:id/call-sheets", o.CreateCallSheet)
	g.GET("/productions/:id/call-sheets", o.ListCallSheets)
	g.GET("/productions/:id/call-sheets/:sheetId", o.GetCallSheet)
	g.PUT("/productions/:id/call-sheets/:sheetId", o.UpdateCallSheet)
	g.DELETE("/productions/:id/call-sheets/:sheetId", o.DeleteCallSheet)
	g.GET("/productions/:id/call-sheets/:sheetId/weather", o.CallSheetWeather)

	// ---- Deliveries ----
	g.POST("/productions/:id/call-sheets/:sheetId/deliveries", o.SendCallSheet)
	g.GET("/deliveries/:deliveryId", o.GetDelivery)
	g.POST("/deliveries/:deliveryId/resend-failed", o.ResendFailed)
	g.POST("/deliveries/:deliveryId/refresh", o.RefreshDelivery)
}
