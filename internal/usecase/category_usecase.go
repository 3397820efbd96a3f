package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
}

// DI
func NewCategoryUsecase(categoryRepo repo.CategoryRepository, productRepo repo.ProductRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo, productRepo: productRepo}
}

type CategoryOutput struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// PATCH は指定されたものだけ、PUT は name 必須
type CategoryInput struct {
	Name        *string
	Description *string
}

func (u *CategoryUsecase) List(ctx context.Context) ([]CategoryOutput, error) {
	cs, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []CategoryOutput{}, errDB()
	}

	ids := make([]int64, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	counts, err := u.categoryRepo.CountProducts(ctx, ids)
	if err != nil {
		return []CategoryOutput{}, errDB()
	}

	outs := make([]CategoryOutput, 0, len(cs))
	for _, c := range cs {
		outs = append(outs, toCategoryOutput(c, counts[c.ID]))
	}
	return outs, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id int64) (CategoryOutput, error) {
	c, err := u.find(ctx, id)
	if err != nil {
		return CategoryOutput{}, err
	}
	return u.withCount(ctx, c)
}

// カテゴリ内の公開商品
func (u *CategoryUsecase) Products(ctx context.Context, id int64) ([]ProductOutput, error) {
	if _, err := u.find(ctx, id); err != nil {
		return []ProductOutput{}, err
	}

	ps, err := u.productRepo.ListActive(ctx, repo.ProductListQuery{CategoryID: &id})
	if err != nil {
		return []ProductOutput{}, errDB()
	}
	return toProductOutputs(ps), nil
}

func (u *CategoryUsecase) Create(ctx context.Context, actor Actor, in CategoryInput) (CategoryOutput, error) {
	if !actor.Authenticated() {
		return CategoryOutput{}, errUnauthorized()
	}
	if !actor.IsStaff() {
		return CategoryOutput{}, errForbidden()
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return CategoryOutput{}, errValidation("name required")
	}

	c := model.Category{Name: strings.TrimSpace(*in.Name)}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if err := validateCategory(c); err != nil {
		return CategoryOutput{}, err
	}

	created, err := u.categoryRepo.Create(ctx, c)
	if err != nil {
		return CategoryOutput{}, errDB()
	}
	return toCategoryOutput(created, 0), nil
}

func (u *CategoryUsecase) Update(ctx context.Context, actor Actor, id int64, in CategoryInput, partial bool) (CategoryOutput, error) {
	if !actor.Authenticated() {
		return CategoryOutput{}, errUnauthorized()
	}
	if !actor.IsStaff() {
		return CategoryOutput{}, errForbidden()
	}
	if !partial && in.Name == nil {
		return CategoryOutput{}, errValidation("name required")
	}

	c, err := u.find(ctx, id)
	if err != nil {
		return CategoryOutput{}, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	} else if !partial {
		c.Description = ""
	}
	if err := validateCategory(c); err != nil {
		return CategoryOutput{}, err
	}

	if err := u.categoryRepo.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CategoryOutput{}, errNotFound("category not found")
		}
		return CategoryOutput{}, errDB()
	}
	return u.withCount(ctx, c)
}

// 商品が残っているカテゴリは消せない
func (u *CategoryUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if !actor.Authenticated() {
		return errUnauthorized()
	}
	if !actor.IsStaff() {
		return errForbidden()
	}
	if _, err := u.find(ctx, id); err != nil {
		return err
	}

	counts, err := u.categoryRepo.CountProducts(ctx, []int64{id})
	if err != nil {
		return errDB()
	}
	if counts[id] > 0 {
		return errConflict("category still has products")
	}

	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("category not found")
		}
		return errDB()
	}
	return nil
}

func (u *CategoryUsecase) find(ctx context.Context, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, errValidation("invalid category id")
	}
	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, errNotFound("category not found")
	}
	if err != nil {
		return model.Category{}, errDB()
	}
	return c, nil
}

func (u *CategoryUsecase) withCount(ctx context.Context, c model.Category) (CategoryOutput, error) {
	counts, err := u.categoryRepo.CountProducts(ctx, []int64{c.ID})
	if err != nil {
		return CategoryOutput{}, errDB()
	}
	return toCategoryOutput(c, counts[c.ID]), nil
}

func validateCategory(c model.Category) error {
	if c.Name == "" {
		return errValidation("name required")
	}
	if len(c.Name) > 100 {
		return errValidation("name too long")
	}
	return nil
}

func toCategoryOutput(c model.Category, productCount int64) CategoryOutput {
	return CategoryOutput{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: productCount,
		CreatedAt:    c.CreatedAt,
	}
}
