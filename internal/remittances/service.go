package remittances

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/internal/clients"
	"github.com/angelmondragon/deliverydesk-backend/internal/vendors"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
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

type referenceGenerator interface {
	RemittanceReference() string
}

type ServiceParams struct {
	Tx         txRunner
	Repo       Repository
	VendorRepo vendors.Repository
	ClientRepo clients.Repository
	References referenceGenerator
	Metrics    *metrics.OperationMetrics
	Logger     *logger.Logger
}

// Service computes remittances and records the payments made against them.
type Service interface {
	Compute(ctx context.Context, input ComputeInput) (*RemittanceDTO, error)
	RecordPayment(ctx context.Context, remittanceID uuid.UUID, input RecordPaymentInput) (*RemittanceDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RemittanceDTO, error)
	List(ctx context.Context, filters ListFilters) (pagination.Page[RemittanceDTO], error)
}

type service struct {
	tx      txRunner
	repo    Repository
	vendors vendors.Repository
	clients clients.Repository
	refs    referenceGenerator
	metrics *metrics.OperationMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	case params.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "remittance repo is required")
	case params.VendorRepo == nil, params.ClientRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendor and client repos are required")
	case params.References == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reference generator is required")
	}
	return &service{
		tx:      params.Tx,
		repo:    params.Repo,
		vendors: params.VendorRepo,
		clients: params.ClientRepo,
		refs:    params.References,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// Compute opens a PENDING remittance whose charged total is the sum of the
// expected amounts. Every order must belong to the party, fall inside the
// period and not already be part of another remittance.
func (s *service) Compute(ctx context.Context, input ComputeInput) (_ *RemittanceDTO, err error) {
	defer s.metrics.Observe("remittances.compute", time.Now(), &err)
	if err := validateCompute(input); err != nil {
		return nil, err
	}

	start, end, until := periodBounds(input.PeriodStart, input.PeriodEnd)
	var created models.Remittance
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureParty(ctx, tx, input.PartyType, input.PartyID); err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		orders, err := repo.FindOrders(ctx, input.OrderIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]models.DeliveryOrder, len(orders))
		for _, o := range orders {
			byID[o.ID] = o
		}

		total := decimal.Zero
		lines := make([]models.RemittanceOrder, 0, len(input.OrderIDs))
		for i, id := range input.OrderIDs {
			order, ok := byID[id]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
					WithDetails(map[string]any{"order_id": id})
			}
			if !belongsTo(order, input.PartyType, input.PartyID) {
				return pkgerrors.New(pkgerrors.CodeValidation, "order does not belong to the party").
					WithDetails(map[string]any{"order_id": id})
			}
			if order.CreatedAt.Before(start) || !order.CreatedAt.Before(until) {
				return pkgerrors.New(pkgerrors.CodeValidation, "order falls outside the remittance period").
					WithDetails(map[string]any{"order_id": id})
			}
			if order.Status == enums.OrderStatusCancelled {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot be remitted").
					WithDetails(map[string]any{"order_id": id})
			}
			amount := input.ExpectedAmounts[i].Round(2)
			total = total.Add(amount)
			lines = append(lines, models.RemittanceOrder{OrderID: id, ExpectedAmount: amount})
		}

		remitted, err := repo.RemittedOrderIDs(ctx, input.OrderIDs)
		if err != nil {
			return err
		}
		if len(remitted) > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "orders already remitted").
				WithDetails(map[string]any{"order_ids": remitted})
		}

		remittance := models.Remittance{
			Reference:     s.refs.RemittanceReference(),
			PartyType:     input.PartyType,
			PartyID:       input.PartyID,
			PeriodStart:   start,
			PeriodEnd:     end,
			TotalCharged:  total,
			TotalReceived: decimal.Zero,
			Status:        enums.RemittanceStatusPending,
			Version:       1,
			Orders:        lines,
		}
		if err := repo.Create(ctx, &remittance); err != nil {
			if db.IsUniqueViolation(err, "order_id") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order remitted concurrently")
			}
			return err
		}
		created = remittance
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(created)
	return &dto, nil
}

// periodBounds resolves the window a remittance covers: orders created in
// [start, until) qualify and end is the inclusive instant stored on the row.
// An end at exactly midnight UTC names that whole day.
func periodBounds(periodStart, periodEnd time.Time) (start, end, until time.Time) {
	start, end = periodStart.UTC(), periodEnd.UTC()
	if end.Equal(end.Truncate(24 * time.Hour)) {
		until = end.AddDate(0, 0, 1)
		return start, until.Add(-time.Microsecond), until
	}
	return start, end, end.Add(time.Nanosecond)
}

func validateCompute(input ComputeInput) error {
	if !input.PartyType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "party type must be vendor or client")
	}
	if input.PartyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "party id is required")
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() || input.PeriodEnd.Before(input.PeriodStart) {
		return pkgerrors.New(pkgerrors.CodeValidation, "period end must not precede period start")
	}
	if len(input.OrderIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one order is required")
	}
	if len(input.OrderIDs) != len(input.ExpectedAmounts) {
		return pkgerrors.New(pkgerrors.CodeValidation, "order ids and expected amounts must align")
	}
	seen := make(map[uuid.UUID]struct{}, len(input.OrderIDs))
	for i, id := range input.OrderIDs {
		if _, dup := seen[id]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate order id").
				WithDetails(map[string]any{"order_id": id})
		}
		seen[id] = struct{}{}
		if input.ExpectedAmounts[i].IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "expected amounts must be zero or greater").
				WithDetails(map[string]any{"order_id": id})
		}
	}
	return nil
}

func (s *service) ensureParty(ctx context.Context, tx *gorm.DB, partyType enums.PartyType, partyID uuid.UUID) error {
	switch partyType {
	case enums.PartyTypeVendor:
		if _, err := s.vendors.WithTx(tx).FindByID(ctx, partyID); err != nil {
			return vendors.MapLookupError(err)
		}
	case enums.PartyTypeClient:
		if _, err := s.clients.WithTx(tx).FindByID(ctx, partyID); err != nil {
			return clients.MapLookupError(err)
		}
	}
	return nil
}

func belongsTo(order models.DeliveryOrder, partyType enums.PartyType, partyID uuid.UUID) bool {
	switch partyType {
	case enums.PartyTypeVendor:
		return order.Kind == enums.OrderKindVendor && order.VendorID != nil && *order.VendorID == partyID
	case enums.PartyTypeClient:
		return order.Kind == enums.OrderKindClient && order.ClientID != nil && *order.ClientID == partyID
	}
	return false
}

// RecordPayment appends a payment and flips the remittance to PAID once the
// received total covers the charged total. A PAID remittance stays PAID and
// keeps accumulating.
func (s *service) RecordPayment(ctx context.Context, remittanceID uuid.UUID, input RecordPaymentInput) (_ *RemittanceDTO, err error) {
	defer s.metrics.Observe("remittances.record_payment", time.Now(), &err)
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	var method *enums.PaymentMethod
	if input.Method != nil && strings.TrimSpace(*input.Method) != "" {
		parsed, err := enums.ParsePaymentMethod(strings.ToLower(strings.TrimSpace(*input.Method)))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		method = &parsed
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		remittance, err := repo.FindByID(ctx, remittanceID, true)
		if err != nil {
			return mapLookupError(err)
		}

		payment := models.RemittancePayment{
			RemittanceID: remittance.ID,
			Amount:       input.Amount.Round(2),
			Method:       method,
			Reference:    trimmed(input.Reference),
			Notes:        trimmed(input.Notes),
		}
		if err := repo.AddPayment(ctx, &payment); err != nil {
			return err
		}

		received := remittance.TotalReceived.Add(payment.Amount)
		updates := map[string]any{"total_received": received}
		if remittance.Status != enums.RemittanceStatusPaid && received.GreaterThanOrEqual(remittance.TotalCharged) {
			updates["status"] = enums.RemittanceStatusPaid
			updates["paid_at"] = time.Now().UTC()
		}
		rows, err := repo.UpdateVersioned(ctx, remittance.ID, remittance.Version, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "remittance changed concurrently")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, remittanceID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RemittanceDTO, error) {
	remittance, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "remittance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load remittance")
	}
	dto := FromModel(*remittance)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (pagination.Page[RemittanceDTO], error) {
	cursor, err := pagination.ParseCursor(filters.Pagination.Cursor)
	if err != nil {
		return pagination.Page[RemittanceDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := filters.Pagination.Limit
	rows, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return pagination.Page[RemittanceDTO]{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list remittances")
	}
	items := make([]RemittanceDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row))
	}
	return pagination.BuildPage(items, limit, func(r RemittanceDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	}), nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "remittance not found")
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
