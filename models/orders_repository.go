package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

// orderPreloads hydrates everything the order representations need: items
// with their product (variants, images) and chosen variant, plus the address
// snapshot.
func orderPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items.Product.VariantGroups.Choices").
		Preload("Items.Product.Images").
		Preload("Items.VariantChoice").
		Preload("ShippingAddress")
}

// PlaceOrder persists a checkout as one transaction: the shipping address
// snapshot, the order row with its items, the conditional stock decrements,
// the coupon usage increment and the cart wipe. Any failure rolls the whole
// unit back, so a checkout can never leave partial state behind.
func (r *OrdersRepository) PlaceOrder(ctx context.Context, order *Order, address *ShippingAddress, decrements []StockAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("create shipping address: %w", err)
		}

		order.ShippingAddressUID = address.UID
		for i := range order.Items {
			order.Items[i].OrderUID = order.UID
		}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrOrderUIDTaken
			}
			return fmt.Errorf("create order: %w", err)
		}
		for i := range order.Items {
			if err := tx.Omit(clause.Associations).Create(&order.Items[i]).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		if err := applyStockAdjustments(tx, decrements); err != nil {
			return err
		}

		if order.CouponCode != "" {
			res := tx.Model(&Discount{}).
				Where("code = ? AND (usage_limit IS NULL OR used_count < usage_limit)", order.CouponCode).
				UpdateColumn("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return fmt.Errorf("consume discount: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrDiscountUsageLimitReached
			}
		}

		if err := tx.Where("user_id = ?", order.UserID).Delete(&Cart{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
}

// GetForUser returns a fully hydrated order owned by the user.
func (r *OrdersRepository) GetForUser(ctx context.Context, userID uuid.UUID, uid string) (*Order, error) {
	var order Order
	if err := orderPreloads(r.db.WithContext(ctx)).
		Where("uid = ? AND user_id = ?", uid, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListForUser returns the user's non-canceled orders, newest first.
func (r *OrdersRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	var orders []Order
	if err := orderPreloads(r.db.WithContext(ctx)).
		Where("user_id = ? AND status <> ?", userID, OrderStatusCanceled).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns any order by uid (admin path).
func (r *OrdersRepository) Get(ctx context.Context, uid string) (*Order, error) {
	var order Order
	if err := orderPreloads(r.db.WithContext(ctx)).
		Where("uid = ?", uid).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List returns one page of all orders, newest first, plus the total count.
func (r *OrdersRepository) List(ctx context.Context, offset, limit int) ([]Order, int64, error) {
	var orders []Order
	var total int64

	query := r.db.WithContext(ctx).Model(&Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := orderPreloads(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// TransitionStatus applies one status change and all of its stock side
// effects in a single transaction. The status update is a compare-and-swap
// against the status the caller observed, so two racing transitions (say a
// user cancel and an admin cancel planned from the same snapshot) cannot both
// apply their stock adjustments: the loser matches no row and the whole
// transaction rolls back with ErrTransitionConflict. A reduction that would
// oversell likewise fails the entire transition.
func (r *OrdersRepository) TransitionStatus(ctx context.Context, uid string, prev, next OrderStatus, adjustments []StockAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Order{}).
			Where("uid = ? AND status = ?", uid, prev).
			Update("status", next)
		if res.Error != nil {
			return fmt.Errorf("update order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&Order{}).Where("uid = ?", uid).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return ErrOrderNotFound
			}
			return ErrTransitionConflict
		}
		return applyStockAdjustments(tx, adjustments)
	})
}
