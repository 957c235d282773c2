package model

import (
	"time"

	"github.com/google/uuid"
)

// IncomingTransaction (bahan masuk) is a receipt of raw material from a
// supplier. ItemName always holds the canonical spelling from the registry,
// never the raw user input. SupplierName is a snapshot captured at write
// time; it is deliberately denormalized and never re-joined to the supplier
// directory.
type IncomingTransaction struct {
	BaseModel
	Date         time.Time `gorm:"not null;index" json:"date" validate:"required"`
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	SupplierName string    `gorm:"type:varchar(255);not null" json:"supplier_name"`
	ItemName     string    `gorm:"type:varchar(255);not null;index" json:"item_name"`
	Quantity     float64   `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Unit         string    `gorm:"type:varchar(20)" json:"unit"`
	Note         string    `json:"note"`
}

// OutgoingTransaction (bahan keluar) is an issuance of raw material. It
// carries no supplier reference: issuance is against the item as a whole and
// is allocated to supplier batches FIFO by the aggregation engine.
type OutgoingTransaction struct {
	BaseModel
	Date     time.Time `gorm:"not null;index" json:"date" validate:"required"`
	ItemName string    `gorm:"type:varchar(255);not null;index" json:"item_name"`
	Quantity float64   `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Unit     string    `gorm:"type:varchar(20)" json:"unit"`
	Note     string    `json:"note"`
}
