package routes

import (
	"github.com/labstack/echo/v4"

	"claims-platform/internal/controllers"
)

func registerDirectoryRoutes(g *echo.Group, craftsmen *controllers.CraftsmanController, partners *controllers.PartnerController) {
	c := g.Group("/craftsmen")
	c.POST("", craftsmen.Create)
	c.GET("", craftsmen.GetAll)
	c.GET("/:id", craftsmen.FindByID)

	p := g.Group("/partners")
	p.POST("", partners.Create)
	p.GET("", partners.GetAll)
	p.GET("/:id", partners.FindByID)
}
