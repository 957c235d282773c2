// Package registry resolves free-text item names to one canonical identity.
// The first recorded spelling of a name wins permanently; every later
// variant in case or whitespace maps back to it, which is what keeps one
// physical item from fragmenting into several aggregate buckets.
package registry

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"go-gudang-ws/internal/model"
)

var ErrEmptyName = errors.New("item name is empty")

// ItemStore is the persistence surface the registry needs. InsertIgnore must
// be an atomic insert-if-absent on the name key (ON CONFLICT DO NOTHING), so
// that two concurrent first-time inserts of the same name produce exactly
// one row.
type ItemStore interface {
	InsertIgnore(item *model.CanonicalItem) error
	FindByKey(key string) (*model.CanonicalItem, error)
}

// Normalize returns the display form of a raw item name: NFC-normalized,
// trimmed, internal whitespace collapsed to single spaces. Case is kept;
// it only matters for the comparison key.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
}

// Key is the comparison form used for the unique index.
func Key(raw string) string {
	return strings.ToLower(Normalize(raw))
}

type Registry struct {
	store ItemStore
}

func New(store ItemStore) *Registry {
	return &Registry{store: store}
}

// Resolve maps rawName to its canonical spelling, inserting a new registry
// entry when the name has never been seen. A race between two first-time
// callers is absorbed by the store's atomic upsert: the loser reads back the
// winner's spelling and never sees an error.
func (r *Registry) Resolve(rawName string) (string, error) {
	normalized := Normalize(rawName)
	if normalized == "" {
		return "", ErrEmptyName
	}
	key := strings.ToLower(normalized)

	if err := r.store.InsertIgnore(&model.CanonicalItem{Name: normalized, NameKey: key}); err != nil {
		return "", err
	}
	item, err := r.store.FindByKey(key)
	if err != nil {
		return "", err
	}
	return item.Name, nil
}
