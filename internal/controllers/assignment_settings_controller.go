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

type AssignmentSettingsController struct {
	service services.AssignmentSettingsServiceInterface
	logger  *zap.Logger
}

func NewAssignmentSettingsController(service services.AssignmentSettingsServiceInterface, logger *zap.Logger) *AssignmentSettingsController {
	return &AssignmentSettingsController{service: service, logger: logger}
}

func (ctrl *AssignmentSettingsController) Create(c echo.Context) error {
	var d dto.CreateAssignmentSettingsDTO
	if err := c.Bind(&d); err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), ctrl.logger)
	}
	if err := c.Validate(&d); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	settings, err := ctrl.service.Create(c.Request().Context(), d)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Assignment settings created", settings)
}

func (ctrl *AssignmentSettingsController) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var d dto.UpdateAssignmentSettingsDTO
	if err := c.Bind(&d); err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), ctrl.logger)
	}
	if err := c.Validate(&d); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	settings, err := ctrl.service.Update(c.Request().Context(), id, d)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Assignment settings updated", settings)
}

func (ctrl *AssignmentSettingsController) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.service.Delete(c.Request().Context(), id); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Assignment settings deleted", struct{}{})
}

func (ctrl *AssignmentSettingsController) FindByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	settings, err := ctrl.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Assignment settings found", settings)
}

func (ctrl *AssignmentSettingsController) GetAll(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())

	list, total, err := ctrl.service.GetAll(c.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Assignment settings fetched", list, total, filter.Page, filter.Limit)
}
