package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claims-platform/internal/dto"
	"claims-platform/internal/services"
	"claims-platform/pkg/api"
	apperrors "claims-platform/pkg/errors"
	"claims-platform/pkg/utils"
)

type RoutingRuleController struct {
	service services.RoutingRuleServiceInterface
	logger  *zap.Logger
}

func NewRoutingRuleController(service services.RoutingRuleServiceInterface, logger *zap.Logger) *RoutingRuleController {
	return &RoutingRuleController{service: service, logger: logger}
}

func (ctrl *RoutingRuleController) Create(c echo.Context) error {
	var d dto.CreateRoutingRuleDTO
	if err := c.Bind(&d); err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), ctrl.logger)
	}
	if err := c.Validate(&d); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	rule, err := ctrl.service.Create(c.Request().Context(), d)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Routing rule created", rule)
}

func (ctrl *RoutingRuleController) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var d dto.UpdateRoutingRuleDTO
	if err := c.Bind(&d); err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), ctrl.logger)
	}
	if err := c.Validate(&d); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	rule, err := ctrl.service.Update(c.Request().Context(), id, d)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Routing rule updated", rule)
}

func (ctrl *RoutingRuleController) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.service.Delete(c.Request().Context(), id); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Routing rule deleted", struct{}{})
}

func (ctrl *RoutingRuleController) FindByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	rule, err := ctrl.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Routing rule found", rule)
}

func (ctrl *RoutingRuleController) GetAll(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	rules, total, err := ctrl.service.GetAll(c.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Routing rules fetched", rules, total, filter.Page, filter.Limit)
}
