package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/pricing"
	"github.com/shopcore/backoffice/web"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Product struct {
	UID            string  `json:"uid"`
	Title          string  `json:"title"`
	Price          float64 `json:"price"`
	MainImageURL   string  `json:"main_image_url,omitempty"`
	AvailableStock int     `json:"available_stock"`
	HasVariants    bool    `json:"has_variants"`
}

type VariantChoice struct {
	ID    string  `json:"id"`
	Value string  `json:"value"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type VariantGroup struct {
	Name    string          `json:"name"`
	Choices []VariantChoice `json:"choices"`
}

type ProductDetail struct {
	UID            string         `json:"uid"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	AvailableStock int            `json:"available_stock"`
	Images         []string       `json:"images"`
	VariantGroups  []VariantGroup `json:"variant_groups"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*models.Product, error)
}

type CatalogHandler struct {
	repo ProductProvider
}

func NewCatalogHandler(r ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		repo: r,
	}
}

// HandleGet handles GET /catalog: active products only, paginated, with
// optional search and price_lt filters.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	var priceFilter *float64
	if priceStr := r.URL.Query().Get("price_lt"); priceStr != "" {
		if val, err := strconv.ParseFloat(priceStr, 64); err == nil {
			priceFilter = &val
		}
	}

	filters := models.ProductFilters{
		Search:        r.URL.Query().Get("search"),
		PriceLessThan: priceFilter,
		ActiveOnly:    true,
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), offset, limit, filters)
	if err != nil {
		web.WriteServerError(w)
		return
	}

	products := make([]Product, len(res))
	for i := range res {
		p := &res[i]
		products[i] = Product{
			UID:            p.UID.String(),
			Title:          p.Title,
			Price:          p.Price.InexactFloat64(),
			MainImageURL:   p.MainImage(),
			AvailableStock: p.AvailableStock(),
			HasVariants:    p.HasVariants(),
		}
	}

	web.WriteJSON(w, http.StatusOK, Response{
		Total:    int(total),
		Products: products,
	})
}

// HandleGetProduct handles GET /catalog/{uid}: full detail with variant
// groups, per-choice effective price and stock, and images.
func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}

	product, err := h.repo.GetByUID(r.Context(), uid)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			web.WriteError(w, http.StatusNotFound, "product_not_found", err.Error())
			return
		}
		web.WriteServerError(w)
		return
	}

	groups := make([]VariantGroup, len(product.VariantGroups))
	for i, g := range product.VariantGroups {
		choices := make([]VariantChoice, len(g.Choices))
		for j, c := range g.Choices {
			choices[j] = VariantChoice{
				ID:    c.ID.String(),
				Value: c.Value,
				Price: pricing.Round(pricing.LinePrice(product.Price, c.ExtraPrice)).InexactFloat64(),
				Stock: c.Stock,
			}
		}
		groups[i] = VariantGroup{
			Name:    g.Name,
			Choices: choices,
		}
	}

	images := make([]string, len(product.Images))
	for i, img := range product.Images {
		images[i] = img.Filename
	}

	web.WriteJSON(w, http.StatusOK, ProductDetail{
		UID:            product.UID.String(),
		Title:          product.Title,
		Description:    product.Description,
		Price:          product.Price.InexactFloat64(),
		AvailableStock: product.AvailableStock(),
		Images:         images,
		VariantGroups:  groups,
	})
}
