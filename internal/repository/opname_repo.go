package repository

import (
	"go-gudang-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpnameRepository interface {
	Create(record *model.StockOpname) error
	FindByID(id uuid.UUID) (*model.StockOpname, error)
	FindAll() ([]model.StockOpname, error)
	Update(record *model.StockOpname) error
	CountDiscrepancies() (int64, error)
}

type opnameRepo struct {
	db *gorm.DB
}

func NewOpnameRepo(db *gorm.DB) OpnameRepository {
	return &opnameRepo{db}
}

func (r *opnameRepo) Create(record *model.StockOpname) error {
	return r.db.Create(record).Error
}

func (r *opnameRepo) FindByID(id uuid.UUID) (*model.StockOpname, error) {
	var record model.StockOpname
	err := r.db.First(&record, "id = ?", id).Error
	return &record, err
}

func (r *opnameRepo) FindAll() ([]model.StockOpname, error) {
	var records []model.StockOpname
	err := r.db.Order("date DESC, created_at DESC").Find(&records).Error
	return records, err
}

func (r *opnameRepo) Update(record *model.StockOpname) error {
	return r.db.Save(record).Error
}

// CountDiscrepancies counts opname records where the physical count did not
// match the system quantity.
func (r *opnameRepo) CountDiscrepancies() (int64, error) {
	var count int64
	err := r.db.Model(&model.StockOpname{}).
		Where("discrepancy <> 0").
		Count(&count).Error
	return count, err
}
