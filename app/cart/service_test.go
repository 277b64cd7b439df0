package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backoffice/models"
)

// --- Mocks ---

type mockCartStore struct {
	lines []models.Cart

	saveErr   error
	lastSaved *models.Cart
	deleted   *models.Cart
	cleared   bool
}

func lineKey(productUID uuid.UUID, variantChoiceID *uuid.UUID) string {
	key := productUID.String()
	if variantChoiceID != nil {
		key += "/" + variantChoiceID.String()
	}
	return key
}

func (m *mockCartStore) Lines(context.Context, uuid.UUID) ([]models.Cart, error) {
	return m.lines, nil
}

func (m *mockCartStore) Line(_ context.Context, _ uuid.UUID, productUID uuid.UUID, variantChoiceID *uuid.UUID) (*models.Cart, error) {
	want := lineKey(productUID, variantChoiceID)
	for i := range m.lines {
		if lineKey(m.lines[i].ProductUID, m.lines[i].VariantChoiceID) == want {
			return &m.lines[i], nil
		}
	}
	return nil, models.ErrCartItemNotFound
}

func (m *mockCartStore) Save(_ context.Context, line *models.Cart) error {
	m.lastSaved = line
	return m.saveErr
}

func (m *mockCartStore) Delete(_ context.Context, line *models.Cart) error {
	m.deleted = line
	return nil
}

func (m *mockCartStore) Clear(context.Context, uuid.UUID) error {
	m.cleared = true
	return nil
}

type mockProducts struct {
	products map[uuid.UUID]*models.Product
}

func (m *mockProducts) GetActiveByUID(_ context.Context, uid uuid.UUID) (*models.Product, error) {
	if p, ok := m.products[uid]; ok {
		return p, nil
	}
	return nil, models.ErrProductNotFound
}

type mockDiscounts struct {
	discount *models.Discount
	err      error
}

func (m *mockDiscounts) GetByCode(context.Context, string) (*models.Discount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.discount, nil
}

// --- Helpers ---

func simpleProduct(title string, price float64, stock int) *models.Product {
	return &models.Product{
		UID:      uuid.New(),
		Title:    title,
		Price:    decimal.NewFromFloat(price),
		Stock:    stock,
		IsActive: true,
	}
}

func productWithVariants(title string, base float64, choiceStocks map[string]int) *models.Product {
	p := &models.Product{
		UID:      uuid.New(),
		Title:    title,
		Price:    decimal.NewFromFloat(base),
		IsActive: true,
	}
	group := models.VariantGroup{ID: uuid.New(), ProductUID: p.UID, Name: "Size"}
	for value, stock := range choiceStocks {
		group.Choices = append(group.Choices, models.VariantChoice{
			ID:      uuid.New(),
			GroupID: group.ID,
			Value:   value,
			Stock:   stock,
		})
	}
	p.VariantGroups = []models.VariantGroup{group}
	return p
}

func catalogOf(products ...*models.Product) *mockProducts {
	m := &mockProducts{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		m.products[p.UID] = p
	}
	return m
}

// --- Tests: AddItem ---

func TestAddItem(t *testing.T) {
	userID := uuid.New()

	t.Run("adds a new line for a simple product", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 5)
		store := &mockCartStore{}
		svc := NewService(store, catalogOf(product), &mockDiscounts{})

		line, err := svc.AddItem(context.Background(), userID, product.UID, nil, 2)
		require.NoError(t, err)

		assert.Equal(t, 2, line.Quantity)
		assert.Equal(t, product.UID, line.ProductUID)
		assert.Nil(t, line.VariantChoiceID)
		assert.NotNil(t, store.lastSaved)
	})

	t.Run("adding the same combination increments the quantity", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 5)
		store := &mockCartStore{lines: []models.Cart{{
			UID:        uuid.New(),
			UserID:     userID,
			ProductUID: product.UID,
			Quantity:   2,
		}}}
		svc := NewService(store, catalogOf(product), &mockDiscounts{})

		line, err := svc.AddItem(context.Background(), userID, product.UID, nil, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, line.Quantity)
	})

	t.Run("the stock check counts what is already in the cart", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 3)
		store := &mockCartStore{lines: []models.Cart{{
			UID:        uuid.New(),
			UserID:     userID,
			ProductUID: product.UID,
			Quantity:   2,
		}}}
		svc := NewService(store, catalogOf(product), &mockDiscounts{})

		_, err := svc.AddItem(context.Background(), userID, product.UID, nil, 2)
		var stockErr *models.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
	})

	t.Run("variant products require a variant choice", func(t *testing.T) {
		product := productWithVariants("Wool Sweater", 15.50, map[string]int{"Large": 3})
		svc := NewService(&mockCartStore{}, catalogOf(product), &mockDiscounts{})

		_, err := svc.AddItem(context.Background(), userID, product.UID, nil, 1)
		assert.ErrorIs(t, err, models.ErrVariantRequired)
	})

	t.Run("simple products reject a variant choice", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 5)
		bogus := uuid.New()
		svc := NewService(&mockCartStore{}, catalogOf(product), &mockDiscounts{})

		_, err := svc.AddItem(context.Background(), userID, product.UID, &bogus, 1)
		assert.ErrorIs(t, err, models.ErrNoVariants)
	})

	t.Run("unknown variant choice", func(t *testing.T) {
		product := productWithVariants("Wool Sweater", 15.50, map[string]int{"Large": 3})
		bogus := uuid.New()
		svc := NewService(&mockCartStore{}, catalogOf(product), &mockDiscounts{})

		_, err := svc.AddItem(context.Background(), userID, product.UID, &bogus, 1)
		assert.ErrorIs(t, err, models.ErrVariantNotFound)
	})

	t.Run("variant stock bounds the quantity", func(t *testing.T) {
		product := productWithVariants("Wool Sweater", 15.50, map[string]int{"Large": 2})
		choiceID := product.VariantGroups[0].Choices[0].ID
		svc := NewService(&mockCartStore{}, catalogOf(product), &mockDiscounts{})

		_, err := svc.AddItem(context.Background(), userID, product.UID, &choiceID, 3)
		var stockErr *models.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Wool Sweater - Large", stockErr.Item)
	})

	t.Run("inactive or missing product", func(t *testing.T) {
		svc := NewService(&mockCartStore{}, catalogOf(), &mockDiscounts{})

		_, err := svc.AddItem(context.Background(), userID, uuid.New(), nil, 1)
		assert.ErrorIs(t, err, models.ErrProductNotFound)
	})

	t.Run("quantity below one defaults to one", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 5)
		store := &mockCartStore{}
		svc := NewService(store, catalogOf(product), &mockDiscounts{})

		line, err := svc.AddItem(context.Background(), userID, product.UID, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, line.Quantity)
	})
}

// --- Tests: UpdateQuantity ---

func TestUpdateQuantity(t *testing.T) {
	userID := uuid.New()

	t.Run("sets a new quantity", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 5)
		store := &mockCartStore{lines: []models.Cart{{
			UID:        uuid.New(),
			UserID:     userID,
			ProductUID: product.UID,
			Quantity:   1,
		}}}
		svc := NewService(store, catalogOf(product), &mockDiscounts{})

		line, err := svc.UpdateQuantity(context.Background(), userID, product.UID, nil, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, line.Quantity)
	})

	t.Run("quantity zero deletes the line", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 5)
		store := &mockCartStore{lines: []models.Cart{{
			UID:        uuid.New(),
			UserID:     userID,
			ProductUID: product.UID,
			Quantity:   1,
		}}}
		svc := NewService(store, catalogOf(product), &mockDiscounts{})

		line, err := svc.UpdateQuantity(context.Background(), userID, product.UID, nil, 0)
		require.NoError(t, err)
		assert.Nil(t, line)
		assert.NotNil(t, store.deleted)
	})

	t.Run("new quantity must fit the stock", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 3)
		store := &mockCartStore{lines: []models.Cart{{
			UID:        uuid.New(),
			UserID:     userID,
			ProductUID: product.UID,
			Quantity:   1,
		}}}
		svc := NewService(store, catalogOf(product), &mockDiscounts{})

		_, err := svc.UpdateQuantity(context.Background(), userID, product.UID, nil, 4)
		var stockErr *models.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
	})

	t.Run("missing line", func(t *testing.T) {
		product := simpleProduct("Canvas Tote", 10.00, 3)
		svc := NewService(&mockCartStore{}, catalogOf(product), &mockDiscounts{})

		_, err := svc.UpdateQuantity(context.Background(), userID, product.UID, nil, 2)
		assert.ErrorIs(t, err, models.ErrCartItemNotFound)
	})
}

// --- Tests: CalculateTotals ---

func TestCalculateTotals(t *testing.T) {
	userID := uuid.New()

	cartLines := func() []models.Cart {
		tote := simpleProduct("Canvas Tote", 10.00, 5)
		sweater := productWithVariants("Wool Sweater", 15.50, map[string]int{"Large": 3})
		choice := &sweater.VariantGroups[0].Choices[0]
		choice.ExtraPrice = decimal.NewFromFloat(2.25)
		return []models.Cart{
			{UID: uuid.New(), UserID: userID, ProductUID: tote.UID, Quantity: 2, Product: *tote},
			{UID: uuid.New(), UserID: userID, ProductUID: sweater.UID, VariantChoiceID: &choice.ID, Quantity: 1, Product: *sweater, VariantChoice: choice},
		}
	}

	t.Run("subtotal without coupon", func(t *testing.T) {
		store := &mockCartStore{lines: cartLines()}
		svc := NewService(store, catalogOf(), &mockDiscounts{})

		totals, err := svc.CalculateTotals(context.Background(), userID, "")
		require.NoError(t, err)

		// 2 x 10.00 + 1 x 17.75
		assert.Equal(t, "37.75", totals.Subtotal.StringFixed(2))
		assert.Equal(t, "0.00", totals.Discount.StringFixed(2))
		assert.Equal(t, "37.75", totals.Total.StringFixed(2))
	})

	t.Run("percent coupon", func(t *testing.T) {
		store := &mockCartStore{lines: cartLines()}
		discounts := &mockDiscounts{discount: &models.Discount{
			Code:         "SAVE10",
			DiscountType: models.DiscountTypePercent,
			Value:        decimal.NewFromInt(10),
			IsActive:     true,
		}}
		svc := NewService(store, catalogOf(), discounts)

		totals, err := svc.CalculateTotals(context.Background(), userID, "SAVE10")
		require.NoError(t, err)

		assert.Equal(t, "3.78", totals.Discount.StringFixed(2), "10% of 37.75 rounds half-up")
		assert.Equal(t, "33.97", totals.Total.StringFixed(2))
	})

	t.Run("coupon validation failures surface", func(t *testing.T) {
		limit := 1
		store := &mockCartStore{lines: cartLines()}
		discounts := &mockDiscounts{discount: &models.Discount{
			Code:         "ONCE",
			DiscountType: models.DiscountTypeAmount,
			Value:        decimal.NewFromInt(5),
			IsActive:     true,
			UsageLimit:   &limit,
			UsedCount:    1,
		}}
		svc := NewService(store, catalogOf(), discounts)

		_, err := svc.CalculateTotals(context.Background(), userID, "ONCE")
		assert.ErrorIs(t, err, models.ErrDiscountUsageLimitReached)
	})

	t.Run("unknown coupon", func(t *testing.T) {
		store := &mockCartStore{lines: cartLines()}
		svc := NewService(store, catalogOf(), &mockDiscounts{err: models.ErrDiscountNotFound})

		_, err := svc.CalculateTotals(context.Background(), userID, "NOPE")
		assert.ErrorIs(t, err, models.ErrDiscountNotFound)
	})
}

// --- Tests: RemoveItem / Clear ---

func TestRemoveItem(t *testing.T) {
	userID := uuid.New()
	product := simpleProduct("Canvas Tote", 10.00, 5)
	store := &mockCartStore{lines: []models.Cart{{
		UID:        uuid.New(),
		UserID:     userID,
		ProductUID: product.UID,
		Quantity:   1,
	}}}
	svc := NewService(store, catalogOf(product), &mockDiscounts{})

	require.NoError(t, svc.RemoveItem(context.Background(), userID, product.UID, nil))
	assert.NotNil(t, store.deleted)

	err := svc.RemoveItem(context.Background(), userID, uuid.New(), nil)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
}

func TestClear(t *testing.T) {
	store := &mockCartStore{}
	svc := NewService(store, catalogOf(), &mockDiscounts{})

	require.NoError(t, svc.Clear(context.Background(), uuid.New()))
	assert.True(t, store.cleared)
}
