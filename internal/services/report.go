package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"claims-platform/internal/repositories"
)

const reportRowLimit = 10000

type ReportServiceInterface interface {
	// ExportAssignments renders the assignment overview as an xlsx workbook.
	ExportAssignments(ctx context.Context) (*excelize.File, error)
}

type ReportService struct {
	repo   repositories.ReportRepositoryInterface
	logger *zap.Logger
}

func NewReportService(repo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{repo: repo, logger: logger}
}

func (s *ReportService) ExportAssignments(ctx context.Context) (*excelize.File, error) {
	rows, err := s.repo.ListAssignments(ctx, reportRowLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Assignments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order ID", "Damage Type", "Postal Code", "State",
		"Assignee Type", "Assignee Name", "Created At", "Updated At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.OrderID, row.DamageType, row.PostalCode, row.State,
			row.AssigneeType, row.AssigneeName,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
			row.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing report cell %s: %w", cell, err)
			}
		}
	}

	s.logger.Info("assignment report exported", zap.Int("rows", len(rows)))
	return f, nil
}
