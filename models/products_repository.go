package models

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

type ProductFilters struct {
	Search        string
	PriceLessThan *float64
	ActiveOnly    bool
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// GetFilteredProducts returns one page of products plus the total count after
// filtering. Variant groups and images are hydrated for stock derivation.
func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{}).
		Preload("VariantGroups.Choices").
		Preload("Images")

	if filters.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}
	if filters.Search != "" {
		query = query.Where("products.title ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.PriceLessThan != nil {
		query = query.Where("products.price < ?", *filters.PriceLessThan)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetByUID hydrates a single product with its variant groups, choices and
// images.
func (r *ProductsRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("VariantGroups.Choices").
		Preload("Images").
		Where("uid = ?", uid).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

// productUpdateColumns is the explicit whitelist of columns an admin product
// update may touch. The uid, timestamps managed by gorm hooks excepted, and
// all associations stay out of reach of an update.
var productUpdateColumns = []string{"title", "description", "price", "cost_price", "stock", "is_active"}

// variantChoiceUpdateColumns is the matching whitelist for variant choices.
var variantChoiceUpdateColumns = []string{"value", "stock", "extra_price"}

// Create inserts a product row without touching associations.
func (r *ProductsRepository) Create(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// Update writes exactly the whitelisted product columns, zero values
// included. Selecting the columns keeps the update away from struct-driven
// blanket assignment.
func (r *ProductsRepository) Update(ctx context.Context, product *Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select(productUpdateColumns).
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product together with its variant groups, choices, images
// and any cart lines referencing it, in one transaction.
func (r *ProductsRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id IN (?)",
			tx.Model(&VariantGroup{}).Select("id").Where("product_uid = ?", uid),
		).Delete(&VariantChoice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_uid = ?", uid).Delete(&VariantGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_uid = ?", uid).Delete(&ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_uid = ?", uid).Delete(&Cart{}).Error; err != nil {
			return err
		}
		res := tx.Where("uid = ?", uid).Delete(&Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

// CreateVariantGroup inserts a group together with its initial choices.
func (r *ProductsRepository) CreateVariantGroup(ctx context.Context, group *VariantGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetVariantGroup returns a group with its choices, scoped to a product so a
// group id cannot be addressed through a different product.
func (r *ProductsRepository) GetVariantGroup(ctx context.Context, productUID, groupID uuid.UUID) (*VariantGroup, error) {
	var group VariantGroup
	if err := r.db.WithContext(ctx).
		Preload("Choices").
		Where("id = ? AND product_uid = ?", groupID, productUID).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// DeleteVariantGroup removes a group and its choices in one transaction.
func (r *ProductsRepository) DeleteVariantGroup(ctx context.Context, group *VariantGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", group.ID).Delete(&VariantChoice{}).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
}

// GetVariantChoice returns a choice, verifying through its group that it
// belongs to the given product.
func (r *ProductsRepository) GetVariantChoice(ctx context.Context, productUID, choiceID uuid.UUID) (*VariantChoice, error) {
	var choice VariantChoice
	if err := r.db.WithContext(ctx).
		Joins("JOIN variant_groups ON variant_groups.id = variant_choices.group_id").
		Where("variant_choices.id = ? AND variant_groups.product_uid = ?", choiceID, productUID).
		First(&choice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return &choice, nil
}

// UpdateVariantChoice writes exactly the whitelisted choice columns.
func (r *ProductsRepository) UpdateVariantChoice(ctx context.Context, choice *VariantChoice) error {
	res := r.db.WithContext(ctx).Model(choice).
		Select(variantChoiceUpdateColumns).
		Updates(choice)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func (r *ProductsRepository) DeleteVariantChoice(ctx context.Context, choice *VariantChoice) error {
	return r.db.WithContext(ctx).Delete(choice).Error
}

// GetActiveByUID is GetByUID restricted to active products; used by cart
// operations so hidden products cannot be added.
func (r *ProductsRepository) GetActiveByUID(ctx context.Context, uid uuid.UUID) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("VariantGroups.Choices").
		Preload("Images").
		Where("uid = ? AND is_active = ?", uid, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}
