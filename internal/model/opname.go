package model

import "time"

type OpnameCondition string

const (
	ConditionGood    OpnameCondition = "GOOD"
	ConditionDamaged OpnameCondition = "DAMAGED"
	ConditionExpired OpnameCondition = "EXPIRED"
)

// StockOpname records one physical-count reconciliation. SystemQty is the
// item total frozen at creation time and Discrepancy = PhysicalQty −
// SystemQty; neither is ever recomputed, no matter what the ledger does
// afterwards. The record is a pure audit artifact and never feeds back into
// the ledger.
type StockOpname struct {
	BaseModel
	Date        time.Time       `gorm:"not null;index" json:"date" validate:"required"`
	ItemName    string          `gorm:"type:varchar(255);not null;index" json:"item_name"`
	SystemQty   float64         `gorm:"not null" json:"system_qty"`
	PhysicalQty float64         `gorm:"not null" json:"physical_qty" validate:"gte=0"`
	Discrepancy float64         `gorm:"not null" json:"discrepancy"`
	Unit        string          `gorm:"type:varchar(20)" json:"unit"`
	Condition   OpnameCondition `gorm:"type:varchar(10);not null" json:"condition" validate:"required,oneof=GOOD DAMAGED EXPIRED"`
	Note        string          `json:"note"`
	Officer     string          `gorm:"type:varchar(255);not null" json:"officer"`
}
