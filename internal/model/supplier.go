package model

// Supplier is external reference data: the directory is owned and maintained
// outside this service, we only read it. Incoming transactions reference a
// supplier by ID but store the name as a snapshot (see IncomingTransaction),
// so renaming a supplier here never rewrites history.
type Supplier struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Address string `gorm:"type:varchar(500)" json:"address"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
}
