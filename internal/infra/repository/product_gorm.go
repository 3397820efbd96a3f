package repository

import (
	"context"
	"strings"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開商品のみを、カテゴリ/在庫/検索で絞り込んで新しい順で返す。
func (r *ProductGormRepository) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).Model(&model.Product{}).Preload("Category")

	// 公開（is_active=true）のものだけ
	tx = tx.Where("is_active = ?", true)

	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.InStock {
		tx = tx.Where("stock > 0")
	}

	// 名前の部分一致のみ（% と _ は文字として扱う）
	if s := strings.TrimSpace(q.Search); s != "" {
		tx = tx.Where(`name ILIKE ? ESCAPE '\'`, containsPattern(s))
	}

	if err := tx.Order("created_at desc").Order("id desc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LIKE用の部分一致パターン
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// 在庫僅少（有効・無効を問わない）
func (r *ProductGormRepository) ListLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("stock > 0 AND stock < ?", model.LowStockThreshold).
		Order("stock asc").Order("id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		return model.Product{}, mapErr(err)
	}
	return p, nil
}

// SELECT ... FOR UPDATE。id順で取ってデッドロックを避ける
func (r *ProductGormRepository) FindByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Category").Create(&p).Error; err != nil {
		return model.Product{}, mapErr(err)
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
		"is_active":   p.IsActive,
		"image":       p.Image,
	})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 論理削除（is_active=false）
func (r *ProductGormRepository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
