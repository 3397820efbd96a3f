package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) List(ctx context.Context) ([]model.Category, error) {
	var cs []model.Category
	if err := r.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&cs).Error; err != nil {
		return []model.Category{}, err
	}
	return cs, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Category{}, mapErr(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) CountProducts(ctx context.Context, categoryIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		CategoryID int64
		Cnt        int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category_id, COUNT(*) AS cnt").
		Where("category_id IN ?", categoryIDs).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CategoryID] = row.Cnt
	}
	return out, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, mapErr(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) Update(ctx context.Context, c model.Category) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
	})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CategoryGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
