// Package stock holds the aggregate math for the raw-material ledger: the
// FIFO allocation of supplier-less outgoing quantities across incoming
// supplier batches, and the per-item rollup.
//
// Allocation policy: outgoing transactions carry no supplier, so their total
// quantity depletes incoming batches oldest-first, ordered by transaction
// date with ties broken by transaction ID. What remains of each batch is
// summed per supplier into that supplier's bucket.
package stock

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Batch is one incoming transaction as seen by the allocator.
type Batch struct {
	ID           uuid.UUID
	Date         time.Time
	SupplierID   uuid.UUID
	SupplierName string
	Quantity     float64
}

// SupplierStock is the remaining stock of one item held against one supplier.
type SupplierStock struct {
	SupplierID   uuid.UUID
	SupplierName string
	TotalStock   float64
}

// Allocate depletes outgoingTotal across batches FIFO and returns the
// per-supplier buckets (sorted by supplier name) together with the item
// total. The item total always equals the sum of the buckets: if concurrent
// writers over-issued past the available quantity, the excess is charged to
// the newest batch's bucket, which then goes negative rather than silently
// disappearing.
func Allocate(batches []Batch, outgoingTotal float64) ([]SupplierStock, float64) {
	sorted := make([]Batch, len(batches))
	copy(sorted, batches)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return bytes.Compare(sorted[i].ID[:], sorted[j].ID[:]) < 0
	})

	remaining := make([]float64, len(sorted))
	out := outgoingTotal
	for i, b := range sorted {
		if out >= b.Quantity {
			out -= b.Quantity
			remaining[i] = 0
		} else {
			remaining[i] = b.Quantity - out
			out = 0
		}
	}
	if out > 0 && len(sorted) > 0 {
		remaining[len(sorted)-1] -= out
		out = 0
	}

	totals := make(map[uuid.UUID]float64)
	names := make(map[uuid.UUID]string)
	for i, b := range sorted {
		if _, ok := names[b.SupplierID]; !ok {
			names[b.SupplierID] = b.SupplierName
		}
		totals[b.SupplierID] += remaining[i]
	}
	buckets := make([]SupplierStock, 0, len(totals))
	for id, total := range totals {
		buckets = append(buckets, SupplierStock{SupplierID: id, SupplierName: names[id], TotalStock: total})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].SupplierName < buckets[j].SupplierName })

	itemTotal := -out
	for _, b := range buckets {
		itemTotal += b.TotalStock
	}
	return buckets, itemTotal
}

// Total is the direct Σincoming − Σoutgoing cross-check for one item,
// computed without the FIFO walk.
func Total(batches []Batch, outgoingTotal float64) float64 {
	var in float64
	for _, b := range batches {
		in += b.Quantity
	}
	return in - outgoingTotal
}
