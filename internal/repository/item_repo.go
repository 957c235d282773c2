package repository

import (
	"go-gudang-ws/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository interface {
	InsertIgnore(item *model.CanonicalItem) error
	FindByKey(key string) (*model.CanonicalItem, error)
	FindAll() ([]model.CanonicalItem, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

// InsertIgnore is the registry's atomic upsert: INSERT ... ON CONFLICT
// (name_key) DO NOTHING. The row that loses a first-insert race simply
// doesn't exist afterwards; callers read back by key to get the winner.
func (r *itemRepo) InsertIgnore(item *model.CanonicalItem) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name_key"}},
		DoNothing: true,
	}).Create(item).Error
}

func (r *itemRepo) FindByKey(key string) (*model.CanonicalItem, error) {
	var item model.CanonicalItem
	err := r.db.First(&item, "name_key = ?", key).Error
	return &item, err
}

func (r *itemRepo) FindAll() ([]model.CanonicalItem, error) {
	var items []model.CanonicalItem
	err := r.db.Order("name ASC").Find(&items).Error
	return items, err
}
