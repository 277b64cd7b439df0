package models

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func variantProduct(stocks ...int) Product {
	group := VariantGroup{ID: uuid.New(), Name: "Size"}
	for _, s := range stocks {
		group.Choices = append(group.Choices, VariantChoice{
			ID:      uuid.New(),
			GroupID: group.ID,
			Stock:   s,
		})
	}
	return Product{
		UID:           uuid.New(),
		Title:         "Sweater",
		Stock:         99, // product-level stock must be ignored for variant products
		VariantGroups: []VariantGroup{group},
	}
}

func TestHasVariants(t *testing.T) {
	assert.False(t, (&Product{}).HasVariants())

	emptyGroup := Product{VariantGroups: []VariantGroup{{ID: uuid.New(), Name: "Size"}}}
	assert.False(t, emptyGroup.HasVariants(), "A group without choices does not make a variant product")

	p := variantProduct(1)
	assert.True(t, p.HasVariants())
}

func TestAvailableStock(t *testing.T) {
	simple := Product{Stock: 7}
	assert.Equal(t, 7, simple.AvailableStock())
	assert.True(t, simple.InStock())

	p := variantProduct(3, 0, 2)
	assert.Equal(t, 5, p.AvailableStock(), "Variant product stock is the sum over choices")

	soldOut := variantProduct(0, 0)
	assert.Equal(t, 0, soldOut.AvailableStock())
	assert.False(t, soldOut.InStock())
}

func TestFindChoice(t *testing.T) {
	p := variantProduct(3, 2)
	want := p.VariantGroups[0].Choices[1]

	found := p.FindChoice(want.ID)
	assert.NotNil(t, found)
	assert.Equal(t, want.ID, found.ID)

	assert.Nil(t, p.FindChoice(uuid.New()), "Unknown choice id returns nil")
}

func TestMainImage(t *testing.T) {
	p := Product{
		Images: []ProductImage{
			{Filename: "side.jpg"},
			{Filename: "front.jpg", IsMain: true},
		},
	}
	assert.Equal(t, "front.jpg", p.MainImage())

	noMain := Product{Images: []ProductImage{{Filename: "side.jpg"}}}
	assert.Equal(t, "", noMain.MainImage())
}

func TestNewOrderUID(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-[0-9A-F]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		uid := NewOrderUID()
		assert.Regexp(t, pattern, uid)
		seen[uid] = true
	}
	assert.Greater(t, len(seen), 1, "uids must not be constant")
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled,
	} {
		assert.True(t, ValidOrderStatus(s))
	}
	assert.False(t, ValidOrderStatus("returned"))
	assert.False(t, ValidOrderStatus(""))
}

func TestOrderStockAdjustments(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	choiceB := uuid.New()

	order := Order{
		Items: []OrderItem{
			{
				ProductUID: productA,
				Quantity:   2,
				Product:    Product{Title: "Tote"},
			},
			{
				ProductUID:      productB,
				VariantChoiceID: &choiceB,
				Quantity:        1,
				Product:         Product{Title: "Sweater"},
				VariantChoice:   &VariantChoice{ID: choiceB, Value: "Large"},
			},
		},
	}

	restorations := order.StockRestorations()
	assert.Len(t, restorations, 2)
	assert.Equal(t, productA, restorations[0].ProductUID)
	assert.Nil(t, restorations[0].VariantChoiceID)
	assert.Equal(t, 2, restorations[0].Quantity)
	assert.Equal(t, "Tote", restorations[0].Item)

	assert.Equal(t, &choiceB, restorations[1].VariantChoiceID)
	assert.Equal(t, 1, restorations[1].Quantity)
	assert.Equal(t, "Sweater - Large", restorations[1].Item)

	reductions := order.StockReductions()
	assert.Len(t, reductions, 2)
	assert.Equal(t, -2, reductions[0].Quantity)
	assert.Equal(t, -1, reductions[1].Quantity)
}
