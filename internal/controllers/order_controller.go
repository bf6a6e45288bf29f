package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claims-platform/internal/dto"
	"claims-platform/internal/services"
	"claims-platform/pkg/api"
	apperrors "claims-platform/pkg/errors"
	"claims-platform/pkg/utils"
)

type OrderController struct {
	service services.OrderServiceInterface
	logger  *zap.Logger
}

func NewOrderController(service services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{service: service, logger: logger}
}

func (ctrl *OrderController) Create(c echo.Context) error {
	var d dto.CreateOrderDTO
	if err := c.Bind(&d); err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), ctrl.logger)
	}
	if err := c.Validate(&d); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	order, err := ctrl.service.Create(c.Request().Context(), d)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Order created", order)
}

func (ctrl *OrderController) FindByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	order, err := ctrl.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Order found", order)
}

func (ctrl *OrderController) GetAll(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	orders, total, err := ctrl.service.GetAll(c.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Orders fetched", orders, total, filter.Page, filter.Limit)
}

func (ctrl *OrderController) Assign(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var d dto.ManualAssignDTO
	if err := c.Bind(&d); err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), ctrl.logger)
	}
	if err := c.Validate(&d); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	order, err := ctrl.service.ManualAssign(c.Request().Context(), id, d)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Order assigned", order)
}

func (ctrl *OrderController) Accept(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var d dto.AcceptOfferDTO
	if err := c.Bind(&d); err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), ctrl.logger)
	}
	if err := c.Validate(&d); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	outcome, err := ctrl.service.Accept(c.Request().Context(), id, d)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Offer processed", outcome)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid id", err, nil)
	}
	return id, nil
}
