package repository

import (
	"time"

	"go-gudang-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IncomingRepository interface {
	Create(tx *model.IncomingTransaction) error
	FindByID(id uuid.UUID) (*model.IncomingTransaction, error)
	FindAll() ([]model.IncomingTransaction, error)
	Update(tx *model.IncomingTransaction) error
	Delete(id uuid.UUID, deletedBy string) error
	ListByItem(itemName string) ([]model.IncomingTransaction, error)
	DistinctItems() ([]string, error)
	DailyTotals(startDate, endDate time.Time) (map[string]float64, error)
}

type incomingRepo struct {
	db *gorm.DB
}

func NewIncomingRepo(db *gorm.DB) IncomingRepository {
	return &incomingRepo{db}
}

func (r *incomingRepo) Create(tx *model.IncomingTransaction) error {
	return r.db.Create(tx).Error
}

func (r *incomingRepo) FindByID(id uuid.UUID) (*model.IncomingTransaction, error) {
	var tx model.IncomingTransaction
	err := r.db.First(&tx, "id = ?", id).Error
	return &tx, err
}

func (r *incomingRepo) FindAll() ([]model.IncomingTransaction, error) {
	var txs []model.IncomingTransaction
	err := r.db.Order("date DESC, created_at DESC").Find(&txs).Error
	return txs, err
}

func (r *incomingRepo) Update(tx *model.IncomingTransaction) error {
	return r.db.Save(tx).Error
}

func (r *incomingRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.IncomingTransaction{}).
		Where("id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.IncomingTransaction{}, "id = ?", id).Error
}

// ListByItem returns the item's batches in FIFO order (date, then id) for
// the aggregation engine.
func (r *incomingRepo) ListByItem(itemName string) ([]model.IncomingTransaction, error) {
	var txs []model.IncomingTransaction
	err := r.db.Where("item_name = ?", itemName).
		Order("date ASC, id ASC").
		Find(&txs).Error
	return txs, err
}

func (r *incomingRepo) DistinctItems() ([]string, error) {
	var items []string
	err := r.db.Model(&model.IncomingTransaction{}).
		Distinct("item_name").
		Pluck("item_name", &items).Error
	return items, err
}

// DailyTotals aggregates received quantity per day for the movement chart.
func (r *incomingRepo) DailyTotals(startDate, endDate time.Time) (map[string]float64, error) {
	rows, err := r.db.Model(&model.IncomingTransaction{}).
		Select("DATE(date) as day, COALESCE(SUM(quantity), 0) as total").
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(date)").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var day string
		var total float64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		totals[day] = total
	}
	return totals, rows.Err()
}
