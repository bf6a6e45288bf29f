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

type PartnerController struct {
	service services.PartnerServiceInterface
	logger  *zap.Logger
}

func NewPartnerController(service services.PartnerServiceInterface, logger *zap.Logger) *PartnerController {
	return &PartnerController{service: service, logger: logger}
}

func (ctrl *PartnerController) Create(c echo.Context) error {
	var d dto.CreatePartnerDTO
	if err := c.Bind(&d); err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), ctrl.logger)
	}
	if err := c.Validate(&d); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	partner, err := ctrl.service.Create(c.Request().Context(), d)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Partner created", partner)
}

func (ctrl *PartnerController) FindByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	partner, err := ctrl.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Partner found", partner)
}

func (ctrl *PartnerController) GetAll(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	list, total, err := ctrl.service.GetAll(c.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Partners fetched", list, total, filter.Page, filter.Limit)
}
