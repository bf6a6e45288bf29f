package routes

import (
	"github.com/labstack/echo/v4"

	"claims-platform/internal/controllers"
)

func registerOrderRoutes(g *echo.Group, ctrl *controllers.OrderController) {
	orders := g.Group("/orders")
	orders.POST("", ctrl.Create)
	orders.GET("", ctrl.GetAll)
	orders.GET("/:id", ctrl.FindByID)
	orders.POST("/:id/assign", ctrl.Assign)
	orders.POST("/:id/accept", ctrl.Accept)
}
