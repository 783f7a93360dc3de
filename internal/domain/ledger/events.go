package ledger

import "github.com/fieldline/backend/internal/domain/shared"

// Event types published after committed ledger writes
const (
	EventTypeOrderCommitted = "ledger.order.committed"
	EventTypeOrderDeleted   = "ledger.order.deleted"
)

// OrderCommittedEvent is published after an order and its line items were
// durably inserted
type OrderCommittedEvent struct {
	shared.BaseDomainEvent
	OrderID    uint   `json:"order_id"`
	SalesmanID string `json:"salesman_id"`
	ClientID   string `json:"client_id"`
}

// NewOrderCommittedEvent creates an OrderCommittedEvent for the given order
func NewOrderCommittedEvent(order *Order) *OrderCommittedEvent {
	return &OrderCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCommitted),
		OrderID:         order.ID,
		SalesmanID:      order.SalesmanID,
		ClientID:        order.ClientID,
	}
}

// OrderDeletedEvent is published after an order and its line items were
// removed from the ledger
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID    uint   `json:"order_id"`
	SalesmanID string `json:"salesman_id"`
}

// NewOrderDeletedEvent creates an OrderDeletedEvent
func NewOrderDeletedEvent(orderID uint, salesmanID string) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted),
		OrderID:         orderID,
		SalesmanID:      salesmanID,
	}
}
