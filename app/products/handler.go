// Package products exposes the admin surface for catalog management:
// product CRUD, variant groups and choices, and stock edits.
package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/web"
)

// --- Request / Response DTOs ---

type CreateProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CostPrice   float64 `json:"cost_price"`
	Stock       int     `json:"stock"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateProductRequest is a partial update: only fields present in the body
// are written, and each one is assigned explicitly below. There is no
// catch-all field copy.
type UpdateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	CostPrice   *float64 `json:"cost_price"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"is_active"`
}

// apply copies the submitted fields onto the product, one explicit
// assignment per updatable field.
func (req *UpdateProductRequest) apply(p *models.Product) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.CostPrice != nil {
		p.CostPrice = decimal.NewFromFloat(*req.CostPrice)
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

func (req *UpdateProductRequest) validate() string {
	switch {
	case req.Title != nil && *req.Title == "":
		return "title must not be empty"
	case req.Price != nil && *req.Price <= 0:
		return "price must be positive"
	case req.CostPrice != nil && *req.CostPrice < 0:
		return "cost_price must not be negative"
	case req.Stock != nil && *req.Stock < 0:
		return "stock must not be negative"
	}
	return ""
}

type CreateVariantGroupRequest struct {
	Name    string                 `json:"name"`
	Choices []VariantChoiceRequest `json:"choices"`
}

type VariantChoiceRequest struct {
	Value      string  `json:"value"`
	Stock      int     `json:"stock"`
	ExtraPrice float64 `json:"extra_price"`
}

// UpdateVariantChoiceRequest mirrors UpdateProductRequest: present fields
// only, assigned explicitly.
type UpdateVariantChoiceRequest struct {
	Value      *string  `json:"value"`
	Stock      *int     `json:"stock"`
	ExtraPrice *float64 `json:"extra_price"`
}

func (req *UpdateVariantChoiceRequest) apply(c *models.VariantChoice) {
	if req.Value != nil {
		c.Value = *req.Value
	}
	if req.Stock != nil {
		c.Stock = *req.Stock
	}
	if req.ExtraPrice != nil {
		c.ExtraPrice = decimal.NewFromFloat(*req.ExtraPrice)
	}
}

func (req *UpdateVariantChoiceRequest) validate() string {
	switch {
	case req.Value != nil && *req.Value == "":
		return "value must not be empty"
	case req.Stock != nil && *req.Stock < 0:
		return "stock must not be negative"
	case req.ExtraPrice != nil && *req.ExtraPrice < 0:
		return "extra_price must not be negative"
	}
	return ""
}

type VariantChoiceResponse struct {
	ID         string  `json:"id"`
	Value      string  `json:"value"`
	Stock      int     `json:"stock"`
	ExtraPrice float64 `json:"extra_price"`
}

type VariantGroupResponse struct {
	ID      string                  `json:"id"`
	Name    string                  `json:"name"`
	Choices []VariantChoiceResponse `json:"choices"`
}

// ProductResponse is the admin view: cost price and active flag included,
// stock shown both raw and derived.
type ProductResponse struct {
	UID            string                 `json:"uid"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price"`
	CostPrice      float64                `json:"cost_price"`
	Stock          int                    `json:"stock"`
	AvailableStock int                    `json:"available_stock"`
	IsActive       bool                   `json:"is_active"`
	HasVariants    bool                   `json:"has_variants"`
	MainImageURL   string                 `json:"main_image_url,omitempty"`
	VariantGroups  []VariantGroupResponse `json:"variant_groups"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type ListResponse struct {
	Total    int64             `json:"total"`
	Products []ProductResponse `json:"products"`
}

func newVariantChoiceResponse(c *models.VariantChoice) VariantChoiceResponse {
	return VariantChoiceResponse{
		ID:         c.ID.String(),
		Value:      c.Value,
		Stock:      c.Stock,
		ExtraPrice: c.ExtraPrice.InexactFloat64(),
	}
}

func newVariantGroupResponse(g *models.VariantGroup) VariantGroupResponse {
	response := VariantGroupResponse{
		ID:      g.ID.String(),
		Name:    g.Name,
		Choices: make([]VariantChoiceResponse, len(g.Choices)),
	}
	for i := range g.Choices {
		response.Choices[i] = newVariantChoiceResponse(&g.Choices[i])
	}
	return response
}

func newProductResponse(p *models.Product) ProductResponse {
	groups := make([]VariantGroupResponse, len(p.VariantGroups))
	for i := range p.VariantGroups {
		groups[i] = newVariantGroupResponse(&p.VariantGroups[i])
	}
	return ProductResponse{
		UID:            p.UID.String(),
		Title:          p.Title,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		CostPrice:      p.CostPrice.InexactFloat64(),
		Stock:          p.Stock,
		AvailableStock: p.AvailableStock(),
		IsActive:       p.IsActive,
		HasVariants:    p.HasVariants(),
		MainImageURL:   p.MainImage(),
		VariantGroups:  groups,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// --- Handler ---

type ProductStore interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, uid uuid.UUID) error
	CreateVariantGroup(ctx context.Context, group *models.VariantGroup) error
	GetVariantGroup(ctx context.Context, productUID, groupID uuid.UUID) (*models.VariantGroup, error)
	DeleteVariantGroup(ctx context.Context, group *models.VariantGroup) error
	GetVariantChoice(ctx context.Context, productUID, choiceID uuid.UUID) (*models.VariantChoice, error)
	UpdateVariantChoice(ctx context.Context, choice *models.VariantChoice) error
	DeleteVariantChoice(ctx context.Context, choice *models.VariantChoice) error
}

type Handler struct {
	repo ProductStore
}

func NewHandler(repo ProductStore) *Handler {
	return &Handler{repo: repo}
}

// HandleList handles GET /admin/products. Unlike the storefront catalog it
// includes inactive products.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset := 0
	limit := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = min(v, 100)
	}

	filters := models.ProductFilters{Search: r.URL.Query().Get("search")}
	products, total, err := h.repo.GetFilteredProducts(r.Context(), offset, limit, filters)
	if err != nil {
		web.WriteServerError(w)
		return
	}

	response := ListResponse{Total: total, Products: make([]ProductResponse, len(products))}
	for i := range products {
		response.Products[i] = newProductResponse(&products[i])
	}
	web.WriteJSON(w, http.StatusOK, response)
}

// HandleGet handles GET /admin/products/{uid}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	web.WriteJSON(w, http.StatusOK, newProductResponse(product))
}

// HandleCreate handles POST /admin/products.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	switch {
	case req.Title == "":
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "title is required")
		return
	case req.Price <= 0:
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "price must be positive")
		return
	case req.CostPrice < 0:
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "cost_price must not be negative")
		return
	case req.Stock < 0:
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "stock must not be negative")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	product := &models.Product{
		UID:         uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Price:       decimal.NewFromFloat(req.Price),
		CostPrice:   decimal.NewFromFloat(req.CostPrice),
		Stock:       req.Stock,
		IsActive:    active,
	}
	if err := h.repo.Create(r.Context(), product); err != nil {
		web.WriteServerError(w)
		return
	}
	web.WriteJSON(w, http.StatusCreated, newProductResponse(product))
}

// HandleUpdate handles PATCH /admin/products/{uid}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", msg)
		return
	}

	req.apply(product)
	if err := h.repo.Update(r.Context(), product); err != nil {
		writeProductError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, newProductResponse(product))
}

// HandleDelete handles DELETE /admin/products/{uid}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if err := h.repo.Delete(r.Context(), uid); err != nil {
		writeProductError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateVariantGroup handles POST /admin/products/{uid}/variant-groups.
// A group must carry at least one choice; a choiceless group would make the
// product unorderable.
func (h *Handler) HandleCreateVariantGroup(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	var req CreateVariantGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if req.Name == "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "name is required")
		return
	}
	if len(req.Choices) == 0 {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "a variant group needs at least one choice")
		return
	}

	group := &models.VariantGroup{
		ID:         uuid.New(),
		ProductUID: product.UID,
		Name:       req.Name,
		Choices:    make([]models.VariantChoice, len(req.Choices)),
	}
	for i, c := range req.Choices {
		if c.Value == "" {
			web.WriteError(w, http.StatusBadRequest, "invalid_body", "every choice needs a value")
			return
		}
		if c.Stock < 0 || c.ExtraPrice < 0 {
			web.WriteError(w, http.StatusBadRequest, "invalid_body", "choice stock and extra_price must not be negative")
			return
		}
		group.Choices[i] = models.VariantChoice{
			ID:         uuid.New(),
			GroupID:    group.ID,
			Value:      c.Value,
			Stock:      c.Stock,
			ExtraPrice: decimal.NewFromFloat(c.ExtraPrice),
		}
	}

	if err := h.repo.CreateVariantGroup(r.Context(), group); err != nil {
		web.WriteServerError(w)
		return
	}
	web.WriteJSON(w, http.StatusCreated, newVariantGroupResponse(group))
}

// HandleDeleteVariantGroup handles
// DELETE /admin/products/{uid}/variant-groups/{group_id}.
func (h *Handler) HandleDeleteVariantGroup(w http.ResponseWriter, r *http.Request) {
	productUID, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "variant_group_not_found", "variant group not found")
		return
	}

	group, err := h.repo.GetVariantGroup(r.Context(), productUID, groupID)
	if err != nil {
		writeProductError(w, err)
		return
	}
	if err := h.repo.DeleteVariantGroup(r.Context(), group); err != nil {
		writeProductError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateVariantChoice handles
// PATCH /admin/products/{uid}/variant-choices/{choice_id}. The choice must
// belong to the addressed product.
func (h *Handler) HandleUpdateVariantChoice(w http.ResponseWriter, r *http.Request) {
	choice, ok := h.loadChoice(w, r)
	if !ok {
		return
	}
	var req UpdateVariantChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", msg)
		return
	}

	req.apply(choice)
	if err := h.repo.UpdateVariantChoice(r.Context(), choice); err != nil {
		writeProductError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, newVariantChoiceResponse(choice))
}

// HandleDeleteVariantChoice handles
// DELETE /admin/products/{uid}/variant-choices/{choice_id}.
func (h *Handler) HandleDeleteVariantChoice(w http.ResponseWriter, r *http.Request) {
	choice, ok := h.loadChoice(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteVariantChoice(r.Context(), choice); err != nil {
		writeProductError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	uid, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "product_not_found", "product not found")
		return nil, false
	}
	product, err := h.repo.GetByUID(r.Context(), uid)
	if err != nil {
		writeProductError(w, err)
		return nil, false
	}
	return product, true
}

func (h *Handler) loadChoice(w http.ResponseWriter, r *http.Request) (*models.VariantChoice, bool) {
	productUID, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "product_not_found", "product not found")
		return nil, false
	}
	choiceID, err := uuid.Parse(chi.URLParam(r, "choice_id"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "variant_not_found", "variant choice not found")
		return nil, false
	}
	choice, err := h.repo.GetVariantChoice(r.Context(), productUID, choiceID)
	if err != nil {
		writeProductError(w, err)
		return nil, false
	}
	return choice, true
}

func writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		web.WriteError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, models.ErrVariantGroupNotFound):
		web.WriteError(w, http.StatusNotFound, "variant_group_not_found", err.Error())
	case errors.Is(err, models.ErrVariantNotFound):
		web.WriteError(w, http.StatusNotFound, "variant_not_found", err.Error())
	default:
		web.WriteServerError(w)
	}
}
