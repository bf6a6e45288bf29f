package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"claims-platform/internal/dto"
	"claims-platform/internal/entities"
	"claims-platform/internal/events"
	"claims-platform/internal/repositories"
	"claims-platform/pkg/constants"
	"claims-platform/pkg/eventbus"
	apperrors "claims-platform/pkg/errors"
	"claims-platform/pkg/utils"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, d dto.CreateOrderDTO) (*dto.OrderResponseDTO, error)
	FindByID(ctx context.Context, id int64) (*entities.Order, error)
	GetAll(ctx context.Context, filter utils.Filter) ([]*entities.Order, uint64, error)

	// ManualAssign is the dispatcher override. It goes through the same
	// guarded write as automatic routing, so it can never double-assign.
	ManualAssign(ctx context.Context, orderID int64, d dto.ManualAssignDTO) (*dto.OrderResponseDTO, error)

	// Accept lets a broadcast candidate claim an order.
	Accept(ctx context.Context, orderID int64, d dto.AcceptOfferDTO) (*dto.AcceptResponseDTO, error)
}

type OrderService struct {
	orderRepo       repositories.OrderRepositoryInterface
	craftsmanRepo   repositories.CraftsmanRepositoryInterface
	partnerRepo     repositories.PartnerRepositoryInterface
	txManager       repositories.TxManagerInterface
	dispatch        DispatchServiceInterface
	executor        AssignmentExecutorInterface
	coordinator     BroadcastCoordinatorInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
	dispatchTimeout time.Duration
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	craftsmanRepo repositories.CraftsmanRepositoryInterface,
	partnerRepo repositories.PartnerRepositoryInterface,
	txManager repositories.TxManagerInterface,
	dispatch DispatchServiceInterface,
	executor AssignmentExecutorInterface,
	coordinator BroadcastCoordinatorInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
	dispatchTimeout time.Duration,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:       orderRepo,
		craftsmanRepo:   craftsmanRepo,
		partnerRepo:     partnerRepo,
		txManager:       txManager,
		dispatch:        dispatch,
		executor:        executor,
		coordinator:     coordinator,
		bus:             bus,
		logger:          logger,
		dispatchTimeout: dispatchTimeout,
	}
}

func (s *OrderService) Create(ctx context.Context, d dto.CreateOrderDTO) (*dto.OrderResponseDTO, error) {
	order := &entities.Order{
		DamageType:      d.DamageType,
		PostalCode:      extractPostalCode(d),
		Description:     d.Description,
		CustomerPayload: d.CustomerPayload,
	}

	var id int64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var txErr error
		id, txErr = s.orderRepo.Create(ctx, tx, order)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	order.ID = id

	// Routing runs after the order is durable and under its own deadline.
	// Whatever it reports, the order was created.
	routeCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()
	result := s.dispatch.RouteOrder(routeCtx, order)

	saved, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("re-reading created order failed",
			zap.Int64("order_id", id), zap.Error(err))
		saved = order
	}

	return &dto.OrderResponseDTO{Order: saved, Routing: routingDTO(result)}, nil
}

func (s *OrderService) FindByID(ctx context.Context, id int64) (*entities.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *OrderService) GetAll(ctx context.Context, filter utils.Filter) ([]*entities.Order, uint64, error) {
	return s.orderRepo.GetAll(ctx, uint64(filter.Limit), uint64(filter.Offset), filter.Search)
}

func (s *OrderService) ManualAssign(ctx context.Context, orderID int64, d dto.ManualAssignDTO) (*dto.OrderResponseDTO, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}

	ref, err := s.resolveAssignee(ctx, d.AssigneeType, d.AssigneeID)
	if err != nil {
		return nil, err
	}

	result := s.executor.Commit(ctx, orderID, ref)
	if !result.Applied {
		if result.Reason == constants.ReasonStalePrecondition {
			return nil, apperrors.NewHttpError(http.StatusConflict,
				"order is already assigned or currently broadcasting", apperrors.ErrStalePrecondition, nil)
		}
		return nil, apperrors.NewHttpError(http.StatusInternalServerError,
			"assignment could not be persisted", nil, nil)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.OrderAssignedEvent{
			OrderID:      orderID,
			AssigneeType: string(ref.Kind),
			AssigneeID:   ref.ID,
			Source:       "manual",
		})
	}

	saved, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &dto.OrderResponseDTO{
		Order: saved,
		Routing: &dto.AssignmentResultDTO{
			Applied:      true,
			AssigneeID:   ref.ID,
			AssigneeType: string(ref.Kind),
		},
	}, nil
}

func (s *OrderService) Accept(ctx context.Context, orderID int64, d dto.AcceptOfferDTO) (*dto.AcceptResponseDTO, error) {
	ref := entities.AssigneeRef{Kind: entities.AssigneeKind(d.AssigneeType), ID: d.AssigneeID}

	outcome, err := s.coordinator.Accept(ctx, orderID, ref)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusNotFound,
				"no open offer for this candidate and order", err, nil)
		}
		return nil, err
	}
	return &dto.AcceptResponseDTO{OrderID: orderID, Outcome: outcome}, nil
}

// resolveAssignee checks the target of a manual assignment actually exists.
func (s *OrderService) resolveAssignee(ctx context.Context, assigneeType string, assigneeID int64) (entities.AssigneeRef, error) {
	switch entities.AssigneeKind(assigneeType) {
	case entities.AssigneeKindInternal:
		if _, err := s.craftsmanRepo.FindByID(ctx, assigneeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return entities.AssigneeRef{}, apperrors.NewHttpError(http.StatusUnprocessableEntity,
					"craftsman does not exist", err, nil)
			}
			return entities.AssigneeRef{}, err
		}
		return entities.AssigneeRef{Kind: entities.AssigneeKindInternal, ID: assigneeID}, nil
	case entities.AssigneeKindExternal:
		if _, err := s.partnerRepo.FindByID(ctx, assigneeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return entities.AssigneeRef{}, apperrors.NewHttpError(http.StatusUnprocessableEntity,
					"partner does not exist", err, nil)
			}
			return entities.AssigneeRef{}, err
		}
		return entities.AssigneeRef{Kind: entities.AssigneeKindExternal, ID: assigneeID}, nil
	default:
		return entities.AssigneeRef{}, apperrors.NewInvalidInputError("unknown assignee type %q", assigneeType)
	}
}

// extractPostalCode prefers the explicit field, then digs through the raw
// intake document. The wizard stores the code either at the top level or
// inside an address object, depending on the damage type flow.
func extractPostalCode(d dto.CreateOrderDTO) string {
	if code := utils.NormalizePostalCode(d.PostalCode); code != "" {
		return code
	}
	if len(d.CustomerPayload) == 0 {
		return ""
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(d.CustomerPayload, &doc); err != nil {
		return ""
	}

	for _, key := range []string{"postal_code", "zip", "plz"} {
		if code := stringField(doc, key); code != "" {
			return code
		}
	}
	if raw, ok := doc["address"]; ok {
		var address map[string]json.RawMessage
		if err := json.Unmarshal(raw, &address); err == nil {
			for _, key := range []string{"postal_code", "zip", "plz"} {
				if code := stringField(address, key); code != "" {
					return code
				}
			}
		}
	}
	return ""
}

func stringField(doc map[string]json.RawMessage, key string) string {
	raw, ok := doc[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return utils.NormalizePostalCode(value)
}

func routingDTO(result RouteResult) *dto.AssignmentResultDTO {
	return &dto.AssignmentResultDTO{
		Applied:      result.Applied,
		AssigneeID:   result.AssigneeID,
		AssigneeType: string(result.AssigneeType),
		Reason:       result.Reason,
		BroadcastID:  result.BroadcastID,
	}
}
