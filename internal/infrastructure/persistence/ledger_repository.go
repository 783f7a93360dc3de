package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fieldline/backend/internal/domain/ledger"
	"github.com/fieldline/backend/internal/infrastructure/persistence/models"
)

// GormLedgerRepository implements ledger.Repository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new ledger repository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Insert persists an order and its line items atomically and returns the
// assigned id. Writing an order that already has an id replaces the stored
// row and all of its line items: the last write wins.
func (r *GormLedgerRepository) Insert(ctx context.Context, order *ledger.Order) (uint, error) {
	model := toOrderModel(order)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if model.ID == 0 {
			return tx.Create(model).Error
		}

		// Replace any line items from a previous write of this order.
		// The cascade constraint is not relied on here: sqlite only
		// enforces it when foreign keys are enabled per connection.
		if err := tx.Where("order_id = ?", model.ID).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		items := model.Items
		model.Items = nil
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = model.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		model.Items = items
		return nil
	})
	if err != nil {
		return 0, ledger.NewStorageError("insert order", err)
	}

	order.ID = model.ID
	return model.ID, nil
}

// Delete removes an order and all of its line items. Deleting an id that is
// not present is not an error.
func (r *GormLedgerRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.OrderModel{}, id).Error
	})
	if err != nil {
		return ledger.NewStorageError("delete order", err)
	}
	return nil
}

// OrdersByOwner returns all orders committed by the given salesman, newest
// first, with line items loaded.
func (r *GormLedgerRepository) OrdersByOwner(ctx context.Context, ownerID string) ([]ledger.Order, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("salesman_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, ledger.NewStorageError("query orders", err)
	}

	orders := make([]ledger.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, toDomainOrder(&row))
	}
	return orders, nil
}

// LineItemsByOrder returns the line items of a single order
func (r *GormLedgerRepository) LineItemsByOrder(ctx context.Context, orderID uint) ([]ledger.LineItem, error) {
	var rows []models.LineItemModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&rows).Error
	if err != nil {
		return nil, ledger.NewStorageError("query line items", err)
	}
	return toDomainItems(rows), nil
}

// LineItemsByOwner returns the line items of every order committed by the
// given salesman.
func (r *GormLedgerRepository) LineItemsByOwner(ctx context.Context, ownerID string) ([]ledger.LineItem, error) {
	var rows []models.LineItemModel
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_line_items.order_id").
		Where("orders.salesman_id = ?", ownerID).
		Find(&rows).Error
	if err != nil {
		return nil, ledger.NewStorageError("query line items", err)
	}
	return toDomainItems(rows), nil
}

func toOrderModel(order *ledger.Order) *models.OrderModel {
	model := &models.OrderModel{
		ID:         order.ID,
		ClientID:   order.ClientID,
		SalesmanID: order.SalesmanID,
		Total:      order.Total,
		CreatedAt:  order.CreatedAt,
	}
	for _, item := range order.Items {
		model.Items = append(model.Items, models.LineItemModel{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return model
}

func toDomainOrder(model *models.OrderModel) ledger.Order {
	return ledger.Order{
		ID:         model.ID,
		ClientID:   model.ClientID,
		SalesmanID: model.SalesmanID,
		Items:      toDomainItems(model.Items),
		Total:      model.Total,
		CreatedAt:  model.CreatedAt,
	}
}

func toDomainItems(rows []models.LineItemModel) []ledger.LineItem {
	items := make([]ledger.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ledger.LineItem{
			OrderID:   row.OrderID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
		})
	}
	return items
}

// IsNotFound reports whether an error from the repository indicates a
// missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
