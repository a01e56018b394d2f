package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/internal/agents"
	"github.com/angelmondragon/deliverydesk-backend/internal/clients"
	"github.com/angelmondragon/deliverydesk-backend/internal/inventory"
	"github.com/angelmondragon/deliverydesk-backend/internal/products"
	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/internal/warehouses"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/metrics"
	"github.com/angelmondragon/deliverydesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockLedger is the slice of the inventory ledger orders depend on.
type StockLedger interface {
	QuantityInTx(ctx context.Context, tx *gorm.DB, key inventory.Key) (int, error)
	DecrementInTx(ctx context.Context, tx *gorm.DB, key inventory.Key, amount int) error
	RestockInTx(ctx context.Context, tx *gorm.DB, key inventory.Key, amount int) error
}

type numberGenerator interface {
	OrderNumber() string
}

// ServiceParams groups dependencies for the order lifecycle manager.
type ServiceParams struct {
	Tx            txRunner
	Repo          Repository
	Inventory     StockLedger
	VendorRepo    vendors.Repository
	WarehouseRepo warehouses.Repository
	ProductRepo   products.Repository
	ClientRepo    clients.Repository
	AgentRepo     agents.Repository
	Numbers       numberGenerator
	Metrics       *metrics.OperationMetrics
	Logger        *logger.Logger
}

// Service drives delivery orders from placement to a terminal state.
type Service interface {
	CreateVendorOrder(ctx context.Context, input CreateVendorOrderInput) (*OrderDTO, error)
	CreateClientOrder(ctx context.Context, input CreateClientOrderInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	AssignAgent(ctx context.Context, orderID uuid.UUID, agentID *uuid.UUID) (*OrderDTO, error)
	RecordCollection(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filters ListFilters) (pagination.Page[OrderDTO], error)
}

type service struct {
	tx         txRunner
	repo       Repository
	inventory  StockLedger
	vendors    vendors.Repository
	warehouses warehouses.Repository
	products   products.Repository
	clients    clients.Repository
	agents     agents.Repository
	numbers    numberGenerator
	metrics    *metrics.OperationMetrics
	logg       *logger.Logger
}

// NewService builds the order lifecycle manager.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	case params.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repo is required")
	case params.Inventory == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory ledger is required")
	case params.VendorRepo == nil, params.WarehouseRepo == nil, params.ProductRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendor, warehouse and product repos are required")
	case params.ClientRepo == nil, params.AgentRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "client and agent repos are required")
	case params.Numbers == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order number generator is required")
	}
	return &service{
		tx:         params.Tx,
		repo:       params.Repo,
		inventory:  params.Inventory,
		vendors:    params.VendorRepo,
		warehouses: params.WarehouseRepo,
		products:   params.ProductRepo,
		clients:    params.ClientRepo,
		agents:     params.AgentRepo,
		numbers:    params.Numbers,
		metrics:    params.Metrics,
		logg:       params.Logger,
	}, nil
}

// CreateVendorOrder checks stock, reserves it and records the order in one
// transaction. If the insert fails the reservation is rolled back with it.
func (s *service) CreateVendorOrder(ctx context.Context, input CreateVendorOrderInput) (_ *OrderDTO, err error) {
	defer s.metrics.Observe("orders.create_vendor", time.Now(), &err)

	destination := strings.TrimSpace(input.Destination)
	switch {
	case input.VendorID == uuid.Nil || input.WarehouseID == uuid.Nil || input.ProductID == uuid.Nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor, warehouse and product ids are required")
	case input.Quantity <= 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	case input.Cost.IsNegative():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must be zero or greater")
	case destination == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	}

	key := inventory.Key{VendorID: input.VendorID, WarehouseID: input.WarehouseID, ProductID: input.ProductID}
	var created models.DeliveryOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureVendorOrderRefs(ctx, tx, input); err != nil {
			return err
		}

		available, err := s.inventory.QuantityInTx(ctx, tx, key)
		if err != nil {
			return err
		}
		if available < input.Quantity {
			return inventory.InsufficientStock(inventory.ShortageFor(input.ProductID, input.Quantity, available))
		}
		if err := s.inventory.DecrementInTx(ctx, tx, key, input.Quantity); err != nil {
			return err
		}

		order := models.DeliveryOrder{
			OrderNumber:       s.numbers.OrderNumber(),
			Kind:              enums.OrderKindVendor,
			VendorID:          &input.VendorID,
			ProductID:         &input.ProductID,
			WarehouseID:       &input.WarehouseID,
			RecipientClientID: input.ClientID,
			Quantity:          input.Quantity,
			Destination:       destination,
			Cost:              input.Cost.Round(2),
			AmountReceived:    decimal.Zero,
			Status:            enums.OrderStatusPending,
			Notes:             trimmed(input.Notes),
		}
		if err := s.repo.WithTx(tx).Create(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "insert order")
		}
		created = order
		return nil
	})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodePersistence) && s.logg != nil {
			s.logg.Error(s.logg.WithVendorID(ctx, input.VendorID.String()), "vendor order rolled back", err)
		}
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, created.ID.String())
		s.logg.Info(s.logg.WithField(logCtx, "quantity", created.Quantity), "vendor order created")
	}
	return s.toDTO(created)
}

func (s *service) ensureVendorOrderRefs(ctx context.Context, tx *gorm.DB, input CreateVendorOrderInput) error {
	if _, err := s.vendors.WithTx(tx).FindByID(ctx, input.VendorID); err != nil {
		return vendors.MapLookupError(err)
	}
	if _, err := s.warehouses.WithTx(tx).FindByID(ctx, input.WarehouseID); err != nil {
		return warehouses.MapLookupError(err)
	}
	product, err := s.products.WithTx(tx).FindByID(ctx, input.ProductID)
	if err != nil {
		return products.MapLookupError(err)
	}
	if product.VendorID != input.VendorID {
		return pkgerrors.New(pkgerrors.CodeValidation, "product does not belong to the vendor")
	}
	if input.ClientID != nil {
		if _, err := s.clients.WithTx(tx).FindByID(ctx, *input.ClientID); err != nil {
			return clients.MapLookupError(err)
		}
	}
	return nil
}

// CreateClientOrder records a service-only order; no stock is involved.
func (s *service) CreateClientOrder(ctx context.Context, input CreateClientOrderInput) (_ *OrderDTO, err error) {
	defer s.metrics.Observe("orders.create_client", time.Now(), &err)

	destination := strings.TrimSpace(input.Destination)
	switch {
	case input.ClientID == uuid.Nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	case destination == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	case input.Cost.IsNegative():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must be zero or greater")
	case input.Quantity < 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if _, err := s.clients.FindByID(ctx, input.ClientID); err != nil {
		return nil, clients.MapLookupError(err)
	}

	order := models.DeliveryOrder{
		OrderNumber:    s.numbers.OrderNumber(),
		Kind:           enums.OrderKindClient,
		ClientID:       &input.ClientID,
		Quantity:       quantity,
		Destination:    destination,
		Cost:           input.Cost.Round(2),
		AmountReceived: decimal.Zero,
		Status:         enums.OrderStatusPending,
		Notes:          trimmed(input.Notes),
	}
	if err := s.repo.Create(ctx, &order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "insert order")
	}
	return s.toDTO(order)
}

// UpdateStatus moves an order forward. Cancelling a vendor order returns its
// units to the warehouse it was reserved from.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (_ *OrderDTO, err error) {
	defer s.metrics.Observe("orders.update_status", time.Now(), &err)
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated models.DeliveryOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID, true)
		if err != nil {
			return mapLookupError(err)
		}
		if order.Status == status {
			updated = *order
			return nil
		}
		if !order.Status.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition").
				WithDetails(map[string]any{"from": order.Status, "to": status})
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": status}
		switch status {
		case enums.OrderStatusAssigned:
			if order.AssignedAt == nil {
				updates["assigned_at"] = now
			}
		case enums.OrderStatusCompleted:
			updates["completed_at"] = now
		case enums.OrderStatusCancelled:
			updates["cancelled_at"] = now
			if key, ok := stockKey(order); ok {
				if err := s.inventory.RestockInTx(ctx, tx, key, order.Quantity); err != nil {
					return err
				}
			}
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return err
		}
		reloaded, err := repo.FindByID(ctx, order.ID, false)
		if err != nil {
			return err
		}
		updated = *reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(updated)
}

// AssignAgent sets or clears the delivering agent. Status and stock are untouched.
func (s *service) AssignAgent(ctx context.Context, orderID uuid.UUID, agentID *uuid.UUID) (*OrderDTO, error) {
	var updated models.DeliveryOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID, true)
		if err != nil {
			return mapLookupError(err)
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already closed")
		}

		updates := map[string]any{"agent_id": nil, "assigned_at": nil}
		if agentID != nil {
			agent, err := s.agents.WithTx(tx).FindByID(ctx, *agentID)
			if err != nil {
				return agents.MapLookupError(err)
			}
			if agent.Status != enums.PartyStatusActive {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "agent is inactive")
			}
			updates["agent_id"] = agent.ID
			updates["assigned_at"] = time.Now().UTC()
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return err
		}
		reloaded, err := repo.FindByID(ctx, order.ID, false)
		if err != nil {
			return err
		}
		updated = *reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(updated)
}

// RecordCollection adds money collected on delivery to the order.
func (s *service) RecordCollection(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (*OrderDTO, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	var updated models.DeliveryOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID, true)
		if err != nil {
			return mapLookupError(err)
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot collect on a cancelled order")
		}
		received := order.AmountReceived.Add(amount).Round(2)
		if err := repo.Update(ctx, order.ID, map[string]any{"amount_received": received}); err != nil {
			return err
		}
		order.AmountReceived = received
		updated = *order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(updated)
}

// DeleteOrder removes an order. Units reserved by an open vendor order are
// restocked; completed orders consumed theirs and cancelled ones were already
// returned. Orders that belong to a remittance cannot be deleted.
func (s *service) DeleteOrder(ctx context.Context, orderID uuid.UUID) (err error) {
	defer s.metrics.Observe("orders.delete", time.Now(), &err)
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID, true)
		if err != nil {
			return mapLookupError(err)
		}
		remitted, err := repo.IsRemitted(ctx, order.ID)
		if err != nil {
			return err
		}
		if remitted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is part of a remittance")
		}
		if key, ok := stockKey(order); ok && !order.Status.IsTerminal() {
			if err := s.inventory.RestockInTx(ctx, tx, key, order.Quantity); err != nil {
				return err
			}
		}
		return repo.Delete(ctx, order.ID)
	})
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID, false)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return s.toDTO(*order)
}

func (s *service) List(ctx context.Context, filters ListFilters) (pagination.Page[OrderDTO], error) {
	cursor, err := pagination.ParseCursor(filters.Pagination.Cursor)
	if err != nil {
		return pagination.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := filters.Pagination.Limit
	rows, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return pagination.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list orders")
	}
	items := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dto, err := FromModel(row)
		if err != nil {
			return pagination.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "decode order")
		}
		items = append(items, dto)
	}
	return pagination.BuildPage(items, limit, func(o OrderDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	}), nil
}

func (s *service) toDTO(order models.DeliveryOrder) (*OrderDTO, error) {
	dto, err := FromModel(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "decode order")
	}
	return &dto, nil
}

func stockKey(order *models.DeliveryOrder) (inventory.Key, bool) {
	if order.Kind != enums.OrderKindVendor || order.VendorID == nil || order.WarehouseID == nil || order.ProductID == nil {
		return inventory.Key{}, false
	}
	return inventory.Key{VendorID: *order.VendorID, WarehouseID: *order.WarehouseID, ProductID: *order.ProductID}, true
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return err
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
