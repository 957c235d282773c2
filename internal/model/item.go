package model

// CanonicalItem is the single authoritative spelling for one physical raw
// material. Rows are created implicitly the first time an item name is seen
// on a transaction. There is no create or delete endpoint; the registry
// only grows.
//
// NameKey is the case-folded, whitespace-collapsed form of Name and carries
// the unique index, so "Tepung Terigu" and "TEPUNG TERIGU" can never become
// two registry entries.
type CanonicalItem struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	NameKey string `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
}
