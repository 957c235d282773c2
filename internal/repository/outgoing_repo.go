package repository

import (
	"time"

	"go-gudang-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutgoingRepository interface {
	Create(tx *model.OutgoingTransaction) error
	FindByID(id uuid.UUID) (*model.OutgoingTransaction, error)
	FindAll() ([]model.OutgoingTransaction, error)
	Update(tx *model.OutgoingTransaction) error
	Delete(id uuid.UUID, deletedBy string) error
	SumByItem(itemName string) (float64, error)
	DistinctItems() ([]string, error)
	DailyTotals(startDate, endDate time.Time) (map[string]float64, error)
}

type outgoingRepo struct {
	db *gorm.DB
}

func NewOutgoingRepo(db *gorm.DB) OutgoingRepository {
	return &outgoingRepo{db}
}

func (r *outgoingRepo) Create(tx *model.OutgoingTransaction) error {
	return r.db.Create(tx).Error
}

func (r *outgoingRepo) FindByID(id uuid.UUID) (*model.OutgoingTransaction, error) {
	var tx model.OutgoingTransaction
	err := r.db.First(&tx, "id = ?", id).Error
	return &tx, err
}

func (r *outgoingRepo) FindAll() ([]model.OutgoingTransaction, error) {
	var txs []model.OutgoingTransaction
	err := r.db.Order("date DESC, created_at DESC").Find(&txs).Error
	return txs, err
}

func (r *outgoingRepo) Update(tx *model.OutgoingTransaction) error {
	return r.db.Save(tx).Error
}

func (r *outgoingRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.OutgoingTransaction{}).
		Where("id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.OutgoingTransaction{}, "id = ?", id).Error
}

func (r *outgoingRepo) SumByItem(itemName string) (float64, error) {
	var total float64
	err := r.db.Model(&model.OutgoingTransaction{}).
		Where("item_name = ?", itemName).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *outgoingRepo) DistinctItems() ([]string, error) {
	var items []string
	err := r.db.Model(&model.OutgoingTransaction{}).
		Distinct("item_name").
		Pluck("item_name", &items).Error
	return items, err
}

func (r *outgoingRepo) DailyTotals(startDate, endDate time.Time) (map[string]float64, error) {
	rows, err := r.db.Model(&model.OutgoingTransaction{}).
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
