package routes

import (
	"github.com/labstack/echo/v4"

	"claims-platform/internal/controllers"
)

func registerDispatchRoutes(
	g *echo.Group,
	rules *controllers.RoutingRuleController,
	settings *controllers.AssignmentSettingsController,
	reports *controllers.ReportController,
) {
	r := g.Group("/routing-rules")
	r.POST("", rules.Create)
	r.GET("", rules.GetAll)
	r.GET("/:id", rules.FindByID)
	r.PUT("/:id", rules.Update)
	r.DELETE("/:id", rules.Delete)

	s := g.Group("/assignment-settings")
	s.POST("", settings.Create)
	s.GET("", settings.GetAll)
	s.GET("/:id", settings.FindByID)
	s.PUT("/:id", settings.Update)
	s.DELETE("/:id", settings.Delete)

	g.GET("/reports/assignments", reports.ExportAssignments)
}
