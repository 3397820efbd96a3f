package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"github.com/shopspring/decimal"
)

// numeric(10,2) の上限
var maxPrice = decimal.RequireFromString("99999999.99")

type ProductUsecase struct {
	tx           repo.TransactionManager
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	CategoryID *int64
	InStock    bool
	Search     string
}

type ProductOutput struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	Stock        int64     `json:"stock"`
	CategoryID   int64     `json:"category"`
	CategoryName string    `json:"category_name"`
	IsActive     bool      `json:"is_active"`
	IsInStock    bool      `json:"is_in_stock"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// 作成・更新の入力。nil は「指定なし」
type ProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int64
	CategoryID  *int64
	IsActive    *bool
	Image       *string
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) ([]ProductOutput, error) {
	if len(in.Search) > 100 {
		return []ProductOutput{}, errValidation("search too long")
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return []ProductOutput{}, errValidation("invalid category")
	}

	items, err := u.productRepo.ListActive(ctx, repo.ProductListQuery{
		CategoryID: in.CategoryID,
		InStock:    in.InStock,
		Search:     strings.TrimSpace(in.Search),
	})
	if err != nil {
		return []ProductOutput{}, errDB()
	}
	return toProductOutputs(items), nil
}

// 非公開の商品は存在しない扱い
func (u *ProductUsecase) Get(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, errValidation("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, errNotFound("product not found")
	}
	if err != nil {
		return ProductOutput{}, errDB()
	}

	if !p.IsActive {
		return ProductOutput{}, errNotFound("product not found")
	}
	return toProductOutput(p), nil
}

// 在庫僅少（0 < stock < 10）
func (u *ProductUsecase) LowStock(ctx context.Context) ([]ProductOutput, error) {
	items, err := u.productRepo.ListLowStock(ctx)
	if err != nil {
		return []ProductOutput{}, errDB()
	}
	return toProductOutputs(items), nil
}

func (u *ProductUsecase) Create(ctx context.Context, actor Actor, in ProductInput) (ProductOutput, error) {
	if !actor.Authenticated() {
		return ProductOutput{}, errUnauthorized()
	}
	if !actor.IsStaff() {
		return ProductOutput{}, errForbidden()
	}
	if in.Name == nil || in.Price == nil || in.CategoryID == nil {
		return ProductOutput{}, errValidation("name, price and category required")
	}

	p := model.Product{IsActive: true}
	applyProductInput(&p, in)
	if err := validateProduct(p); err != nil {
		return ProductOutput{}, err
	}
	if err := u.ensureCategory(ctx, p.CategoryID); err != nil {
		return ProductOutput{}, err
	}

	var out ProductOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Products().Create(ctx, p)
		if err != nil {
			return errDB()
		}

		//初期在庫も履歴に残す
		if created.Stock > 0 {
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID:   created.ID,
				ActorUserID: actor.UserID,
				Delta:       created.Stock,
				Reason:      model.ReasonStaffEdit,
			}); err != nil {
				return errDB()
			}
		}

		saved, err := r.Products().FindByID(ctx, created.ID)
		if err != nil {
			return errDB()
		}
		out = toProductOutput(saved)
		return nil
	})
	if err != nil {
		return ProductOutput{}, err
	}
	return out, nil
}

// partial=false (PUT) は name/price/category 必須
func (u *ProductUsecase) Update(ctx context.Context, actor Actor, productID int64, in ProductInput, partial bool) (ProductOutput, error) {
	if !actor.Authenticated() {
		return ProductOutput{}, errUnauthorized()
	}
	if !actor.IsStaff() {
		return ProductOutput{}, errForbidden()
	}
	if productID <= 0 {
		return ProductOutput{}, errValidation("invalid product id")
	}
	if !partial && (in.Name == nil || in.Price == nil || in.CategoryID == nil) {
		return ProductOutput{}, errValidation("name, price and category required")
	}
	if in.CategoryID != nil {
		if err := u.ensureCategory(ctx, *in.CategoryID); err != nil {
			return ProductOutput{}, err
		}
	}

	var out ProductOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前（ロック）
		locked, err := r.Products().FindByIDsForUpdate(ctx, []int64{productID})
		if err != nil {
			return errDB()
		}
		if len(locked) == 0 {
			return errNotFound("product not found")
		}
		before := locked[0]

		after := before
		applyProductInput(&after, in)
		if err := validateProduct(after); err != nil {
			return err
		}

		if err := r.Products().Update(ctx, after); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("product not found")
			}
			return errDB()
		}

		//在庫が変わったら履歴
		if delta := after.Stock - before.Stock; delta != 0 {
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID:   productID,
				ActorUserID: actor.UserID,
				Delta:       delta,
				Reason:      model.ReasonStaffEdit,
			}); err != nil {
				return errDB()
			}
			if err := writeAudit(ctx, r, actor, model.AuditActionUpdateStock, model.AuditResourceProduct, productID,
				map[string]any{"stock": before.Stock},
				map[string]any{"stock": after.Stock},
			); err != nil {
				return err
			}
		}

		if err := writeAudit(ctx, r, actor, model.AuditActionUpdateProduct, model.AuditResourceProduct, productID,
			productAuditView(before), productAuditView(after),
		); err != nil {
			return err
		}

		saved, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return errDB()
		}
		out = toProductOutput(saved)
		return nil
	})
	if err != nil {
		return ProductOutput{}, err
	}
	return out, nil
}

// DELETE は論理削除（is_active=false）
func (u *ProductUsecase) Deactivate(ctx context.Context, actor Actor, productID int64) error {
	if !actor.Authenticated() {
		return errUnauthorized()
	}
	if !actor.IsStaff() {
		return errForbidden()
	}
	if productID <= 0 {
		return errValidation("invalid product id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		if err != nil {
			return errDB()
		}

		if err := r.Products().Deactivate(ctx, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("product not found")
			}
			return errDB()
		}

		return writeAudit(ctx, r, actor, model.AuditActionDeactivateProduct, model.AuditResourceProduct, productID,
			map[string]any{"is_active": p.IsActive},
			map[string]any{"is_active": false},
		)
	})
}

func (u *ProductUsecase) ensureCategory(ctx context.Context, categoryID int64) error {
	if categoryID <= 0 {
		return errValidation("invalid category")
	}
	_, err := u.categoryRepo.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return errValidation("category does not exist")
	}
	if err != nil {
		return errDB()
	}
	return nil
}

func applyProductInput(p *model.Product, in ProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
}

func validateProduct(p model.Product) error {
	if p.Name == "" {
		return errValidation("name required")
	}
	if len(p.Name) > 200 {
		return errValidation("name too long")
	}
	if p.Price.IsNegative() {
		return errValidation("price must be >= 0")
	}
	if p.Price.GreaterThan(maxPrice) {
		return errValidation("price too large")
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return errValidation("price must have at most 2 decimal places")
	}
	if p.Stock < 0 {
		return errValidation("stock must be >= 0")
	}
	if len(p.Image) > 255 {
		return errValidation("image too long")
	}
	return nil
}

func productAuditView(p model.Product) map[string]any {
	return map[string]any{
		"name":        p.Name,
		"price":       p.Price.StringFixed(2),
		"stock":       p.Stock,
		"category_id": p.CategoryID,
		"is_active":   p.IsActive,
	}
}

// 監査ログ（スタッフ操作）をtx内で残す
func writeAudit(
	ctx context.Context,
	r repo.TxRepos,
	actor Actor,
	action model.AuditAction,
	resource model.AuditResourceType,
	resourceID int64,
	before, after any,
) error {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    time.Now(),
	}); err != nil {
		return errDB()
	}
	return nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.StringFixed(2),
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
		IsActive:     p.IsActive,
		IsInStock:    p.IsInStock(),
		Image:        p.Image,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductOutputs(ps []model.Product) []ProductOutput {
	outs := make([]ProductOutput, 0, len(ps))
	for _, p := range ps {
		outs = append(outs, toProductOutput(p))
	}
	return outs
}
