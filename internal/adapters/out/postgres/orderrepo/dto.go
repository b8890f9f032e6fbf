// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status columns hold the wire names so raw read-side queries and the
// acceptance sweeper can filter without enum decoding.
type OrderDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_orders_tenant_number"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
	Number     int64     `gorm:"uniqueIndex:idx_orders_tenant_number"`

	TotalCents int64

	Status           string `gorm:"index:idx_orders_pending_sweep"`
	AcceptanceStatus string `gorm:"index:idx_orders_pending_sweep"`
	DeliveryType     string
	PaymentStatus    string

	CreatedAt          time.Time
	AcceptanceDeadline time.Time `gorm:"index:idx_orders_pending_sweep"`
	AcceptedAt         *time.Time
	AcceptedBy         *uuid.UUID `gorm:"type:uuid"`
	AutoAccepted       bool

	Address        string
	Phone          string
	Notes          string
	TrackingNumber string

	EstimatedDeliveryTime *time.Time

	Items []ItemDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one immutable order line. Lines are written once with the
// order and never updated.
type ItemDTO struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	ProductID      uuid.UUID `gorm:"type:uuid"`
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// TableName specifies the database table name for order line entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO represents one append-only status ledger row.
type HistoryDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;index"`
	FromStatus      *string
	ToStatus        string
	ActorAdminID    *uuid.UUID `gorm:"type:uuid"`
	ActorCustomerID *uuid.UUID `gorm:"type:uuid"`
	ActorName       string
	Note            string
	CreatedAt       time.Time
}

// TableName specifies the database table name for status ledger entities.
func (HistoryDTO) TableName() string {
	return "order_status_history"
}

// CounterDTO holds the per-tenant order number sequence. One row per tenant,
// advanced atomically by NextNumber.
type CounterDTO struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber int64
}

// TableName specifies the database table name for order number counters.
func (CounterDTO) TableName() string {
	return "order_counters"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:        aggregate.ID().Bytes(),
			ProductID:      item.ProductID().Bytes(),
			Name:           item.Name(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
		})
	}

	var acceptedBy *uuid.UUID
	if id := aggregate.AcceptedBy(); id != nil {
		raw := id.Bytes()
		acceptedBy = &raw
	}

	return OrderDTO{
		ID:                    aggregate.ID().Bytes(),
		TenantID:              aggregate.TenantID().Bytes(),
		CustomerID:            aggregate.CustomerID().Bytes(),
		Number:                aggregate.Number(),
		TotalCents:            aggregate.Total().Cents(),
		Status:                aggregate.Status().String(),
		AcceptanceStatus:      aggregate.AcceptanceStatus().String(),
		DeliveryType:          aggregate.DeliveryType().String(),
		PaymentStatus:         string(aggregate.PaymentStatus()),
		CreatedAt:             aggregate.CreatedAt(),
		AcceptanceDeadline:    aggregate.AcceptanceDeadline(),
		AcceptedAt:            aggregate.AcceptedAt(),
		AcceptedBy:            acceptedBy,
		AutoAccepted:          aggregate.AutoAccepted(),
		Address:               aggregate.Address(),
		Phone:                 aggregate.Phone(),
		Notes:                 aggregate.Notes(),
		TrackingNumber:        aggregate.TrackingNumber(),
		EstimatedDeliveryTime: aggregate.EstimatedDeliveryTime(),
		Items:                 items,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including line items using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	acceptanceStatus, err := order.AcceptanceStatusFromString(dto.AcceptanceStatus)
	if err != nil {
		return nil, err
	}
	deliveryType, err := order.DeliveryTypeFromString(dto.DeliveryType)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalCents)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var acceptedBy *kernel.UUID
	if dto.AcceptedBy != nil {
		adminID, adminErr := kernel.UUIDFromBytes((*dto.AcceptedBy)[:])
		if adminErr != nil {
			return nil, adminErr
		}
		acceptedBy = &adminID
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                    id,
		TenantID:              tenantID,
		CustomerID:            customerID,
		Number:                dto.Number,
		Items:                 items,
		Total:                 total,
		Status:                status,
		AcceptanceStatus:      acceptanceStatus,
		DeliveryType:          deliveryType,
		PaymentStatus:         order.PaymentStatus(dto.PaymentStatus),
		CreatedAt:             dto.CreatedAt,
		AcceptanceDeadline:    dto.AcceptanceDeadline,
		AcceptedAt:            dto.AcceptedAt,
		AcceptedBy:            acceptedBy,
		AutoAccepted:          dto.AutoAccepted,
		Address:               dto.Address,
		Phone:                 dto.Phone,
		Notes:                 dto.Notes,
		TrackingNumber:        dto.TrackingNumber,
		EstimatedDeliveryTime: dto.EstimatedDeliveryTime,
	})
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	unitPrice, err := kernel.NewMoney(dto.UnitPriceCents)
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, dto.Name, dto.Quantity, unitPrice)
}

// historyFromDomain converts a ledger record to its database representation.
func historyFromDomain(record order.HistoryRecord) HistoryDTO {
	var fromStatus *string
	if record.FromStatus != nil {
		name := record.FromStatus.String()
		fromStatus = &name
	}

	var adminID, customerID *uuid.UUID
	if record.ActorAdminID != nil {
		raw := record.ActorAdminID.Bytes()
		adminID = &raw
	}
	if record.ActorCustomerID != nil {
		raw := record.ActorCustomerID.Bytes()
		customerID = &raw
	}

	return HistoryDTO{
		ID:              record.ID.Bytes(),
		OrderID:         record.OrderID.Bytes(),
		FromStatus:      fromStatus,
		ToStatus:        record.ToStatus.String(),
		ActorAdminID:    adminID,
		ActorCustomerID: customerID,
		ActorName:       record.ActorName,
		Note:            record.Note,
		CreatedAt:       record.CreatedAt,
	}
}

// historyToDomain converts a ledger row back into a domain record.
func historyToDomain(dto HistoryDTO) (order.HistoryRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.HistoryRecord{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.HistoryRecord{}, err
	}

	var fromStatus *order.Status
	if dto.FromStatus != nil {
		parsed, parseErr := order.StatusFromString(*dto.FromStatus)
		if parseErr != nil {
			return order.HistoryRecord{}, parseErr
		}
		fromStatus = &parsed
	}
	toStatus, err := order.StatusFromString(dto.ToStatus)
	if err != nil {
		return order.HistoryRecord{}, err
	}

	var adminID, customerID *kernel.UUID
	if dto.ActorAdminID != nil {
		converted, convErr := kernel.UUIDFromBytes((*dto.ActorAdminID)[:])
		if convErr != nil {
			return order.HistoryRecord{}, convErr
		}
		adminID = &converted
	}
	if dto.ActorCustomerID != nil {
		converted, convErr := kernel.UUIDFromBytes((*dto.ActorCustomerID)[:])
		if convErr != nil {
			return order.HistoryRecord{}, convErr
		}
		customerID = &converted
	}

	return order.HistoryRecord{
		ID:              id,
		OrderID:         orderID,
		FromStatus:      fromStatus,
		ToStatus:        toStatus,
		ActorAdminID:    adminID,
		ActorCustomerID: customerID,
		ActorName:       dto.ActorName,
		Note:            dto.Note,
		CreatedAt:       dto.CreatedAt,
	}, nil
}
