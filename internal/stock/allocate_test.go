package stock

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	supplierX = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	supplierY = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func day(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func batch(idByte byte, d time.Time, supplier uuid.UUID, name string, qty float64) Batch {
	var id uuid.UUID
	id[15] = idByte
	return Batch{ID: id, Date: d, SupplierID: supplier, SupplierName: name, Quantity: qty}
}

func bucketFor(t *testing.T, buckets []SupplierStock, supplier uuid.UUID) SupplierStock {
	t.Helper()
	for _, b := range buckets {
		if b.SupplierID == supplier {
			return b
		}
	}
	t.Fatalf("no bucket for supplier %s", supplier)
	return SupplierStock{}
}

func TestAllocateSingleSupplier(t *testing.T) {
	batches := []Batch{
		batch(1, day(1), supplierX, "Supplier X", 50),
		batch(2, day(2), supplierX, "Supplier X", 30),
	}

	buckets, total := Allocate(batches, 0)
	if total != 80 {
		t.Fatalf("itemTotal = %v, want 80", total)
	}
	if got := bucketFor(t, buckets, supplierX).TotalStock; got != 80 {
		t.Fatalf("totalStock(X) = %v, want 80", got)
	}

	buckets, total = Allocate(batches, 80)
	if total != 0 {
		t.Fatalf("itemTotal after full issue = %v, want 0", total)
	}
	if got := bucketFor(t, buckets, supplierX).TotalStock; got != 0 {
		t.Fatalf("totalStock(X) after full issue = %v, want 0", got)
	}
}

func TestAllocateFIFODepletesOldestFirst(t *testing.T) {
	batches := []Batch{
		batch(2, day(5), supplierY, "Supplier Y", 40),
		batch(1, day(1), supplierX, "Supplier X", 30),
	}

	// 35 out: the day-1 batch (X, 30) empties first, then 5 from Y.
	buckets, total := Allocate(batches, 35)
	if total != 35 {
		t.Fatalf("itemTotal = %v, want 35", total)
	}
	if got := bucketFor(t, buckets, supplierX).TotalStock; got != 0 {
		t.Fatalf("totalStock(X) = %v, want 0", got)
	}
	if got := bucketFor(t, buckets, supplierY).TotalStock; got != 35 {
		t.Fatalf("totalStock(Y) = %v, want 35", got)
	}
}

func TestAllocateDateTieBrokenByID(t *testing.T) {
	batches := []Batch{
		batch(9, day(1), supplierY, "Supplier Y", 20),
		batch(1, day(1), supplierX, "Supplier X", 20),
	}

	// Same date: lower ID goes first.
	buckets, _ := Allocate(batches, 20)
	if got := bucketFor(t, buckets, supplierX).TotalStock; got != 0 {
		t.Fatalf("totalStock(X) = %v, want 0", got)
	}
	if got := bucketFor(t, buckets, supplierY).TotalStock; got != 20 {
		t.Fatalf("totalStock(Y) = %v, want 20", got)
	}
}

func TestAllocatePartialBatch(t *testing.T) {
	batches := []Batch{
		batch(1, day(1), supplierX, "Supplier X", 50),
		batch(2, day(2), supplierY, "Supplier Y", 30),
	}

	buckets, total := Allocate(batches, 20)
	if got := bucketFor(t, buckets, supplierX).TotalStock; got != 30 {
		t.Fatalf("totalStock(X) = %v, want 30", got)
	}
	if got := bucketFor(t, buckets, supplierY).TotalStock; got != 30 {
		t.Fatalf("totalStock(Y) = %v, want 30", got)
	}
	if total != 60 {
		t.Fatalf("itemTotal = %v, want 60", total)
	}
}

func TestAllocateOverIssueChargesNewestBatch(t *testing.T) {
	batches := []Batch{
		batch(1, day(1), supplierX, "Supplier X", 50),
	}

	// Concurrent writers can push outgoing past the available quantity; the
	// bucket goes negative rather than the excess vanishing.
	buckets, total := Allocate(batches, 60)
	if total != -10 {
		t.Fatalf("itemTotal = %v, want -10", total)
	}
	if got := bucketFor(t, buckets, supplierX).TotalStock; got != -10 {
		t.Fatalf("totalStock(X) = %v, want -10", got)
	}
}

// Bucket sum must equal the direct Σin − Σout for any input.
func TestAllocateMatchesDirectTotal(t *testing.T) {
	batches := []Batch{
		batch(1, day(1), supplierX, "Supplier X", 12.5),
		batch(2, day(3), supplierY, "Supplier Y", 7.25),
		batch(3, day(2), supplierX, "Supplier X", 40),
		batch(4, day(2), supplierY, "Supplier Y", 3),
	}

	for _, out := range []float64{0, 1, 12.5, 13, 45.5, 62.75, 70} {
		buckets, total := Allocate(batches, out)
		var sum float64
		for _, b := range buckets {
			sum += b.TotalStock
		}
		if math.Abs(sum-total) > 1e-9 {
			t.Fatalf("out=%v: bucket sum %v != itemTotal %v", out, sum, total)
		}
		if direct := Total(batches, out); math.Abs(direct-total) > 1e-9 {
			t.Fatalf("out=%v: direct total %v != itemTotal %v", out, direct, total)
		}
	}
}

func TestAllocateNoBatches(t *testing.T) {
	buckets, total := Allocate(nil, 0)
	if len(buckets) != 0 || total != 0 {
		t.Fatalf("empty ledger: buckets=%v total=%v", buckets, total)
	}
}

func TestAllocateBucketsSortedBySupplierName(t *testing.T) {
	batches := []Batch{
		batch(1, day(1), supplierY, "Toko Berkah", 10),
		batch(2, day(2), supplierX, "CV Amanah", 10),
	}
	buckets, _ := Allocate(batches, 0)
	if buckets[0].SupplierName != "CV Amanah" || buckets[1].SupplierName != "Toko Berkah" {
		t.Fatalf("buckets not sorted by name: %+v", buckets)
	}
}
