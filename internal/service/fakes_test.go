package service

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"go-gudang-ws/internal/model"
	"go-gudang-ws/internal/notify"
	"go-gudang-ws/internal/registry"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the Postgres repositories closely
// enough for service behavior: gorm.ErrRecordNotFound on misses, FIFO
// ordering from ListByItem, sum semantics from SumByItem.

type fakeIncomingRepo struct {
	mu  sync.Mutex
	txs []model.IncomingTransaction
}

func (r *fakeIncomingRepo) Create(tx *model.IncomingTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *fakeIncomingRepo) FindByID(id uuid.UUID) (*model.IncomingTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		if r.txs[i].ID == id {
			tx := r.txs[i]
			return &tx, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeIncomingRepo) FindAll() ([]model.IncomingTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.IncomingTransaction, len(r.txs))
	copy(out, r.txs)
	return out, nil
}

func (r *fakeIncomingRepo) Update(tx *model.IncomingTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		if r.txs[i].ID == tx.ID {
			r.txs[i] = *tx
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeIncomingRepo) Delete(id uuid.UUID, deletedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		if r.txs[i].ID == id {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeIncomingRepo) ListByItem(itemName string) ([]model.IncomingTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.IncomingTransaction
	for _, tx := range r.txs {
		if tx.ItemName == itemName {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out, nil
}

func (r *fakeIncomingRepo) DistinctItems() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	var items []string
	for _, tx := range r.txs {
		if _, ok := seen[tx.ItemName]; !ok {
			seen[tx.ItemName] = struct{}{}
			items = append(items, tx.ItemName)
		}
	}
	return items, nil
}

func (r *fakeIncomingRepo) DailyTotals(startDate, endDate time.Time) (map[string]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := make(map[string]float64)
	for _, tx := range r.txs {
		if tx.Date.Before(startDate) || tx.Date.After(endDate) {
			continue
		}
		totals[tx.Date.Format("2006-01-02")] += tx.Quantity
	}
	return totals, nil
}

type fakeOutgoingRepo struct {
	mu  sync.Mutex
	txs []model.OutgoingTransaction
}

func (r *fakeOutgoingRepo) Create(tx *model.OutgoingTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *fakeOutgoingRepo) FindByID(id uuid.UUID) (*model.OutgoingTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		if r.txs[i].ID == id {
			tx := r.txs[i]
			return &tx, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOutgoingRepo) FindAll() ([]model.OutgoingTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.OutgoingTransaction, len(r.txs))
	copy(out, r.txs)
	return out, nil
}

func (r *fakeOutgoingRepo) Update(tx *model.OutgoingTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		if r.txs[i].ID == tx.ID {
			r.txs[i] = *tx
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOutgoingRepo) Delete(id uuid.UUID, deletedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		if r.txs[i].ID == id {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOutgoingRepo) SumByItem(itemName string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, tx := range r.txs {
		if tx.ItemName == itemName {
			total += tx.Quantity
		}
	}
	return total, nil
}

func (r *fakeOutgoingRepo) DistinctItems() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	var items []string
	for _, tx := range r.txs {
		if _, ok := seen[tx.ItemName]; !ok {
			seen[tx.ItemName] = struct{}{}
			items = append(items, tx.ItemName)
		}
	}
	return items, nil
}

func (r *fakeOutgoingRepo) DailyTotals(startDate, endDate time.Time) (map[string]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := make(map[string]float64)
	for _, tx := range r.txs {
		if tx.Date.Before(startDate) || tx.Date.After(endDate) {
			continue
		}
		totals[tx.Date.Format("2006-01-02")] += tx.Quantity
	}
	return totals, nil
}

type fakeSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]model.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]model.Supplier)}
}

func (r *fakeSupplierRepo) add(name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.suppliers[id] = model.Supplier{BaseModel: model.BaseModel{ID: id}, Name: name}
	return id
}

func (r *fakeSupplierRepo) rename(id uuid.UUID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.suppliers[id]
	s.Name = name
	r.suppliers[id] = s
}

func (r *fakeSupplierRepo) FindAll() ([]model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Supplier
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSupplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]model.CanonicalItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]model.CanonicalItem)}
}

func (r *fakeItemRepo) InsertIgnore(item *model.CanonicalItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.NameKey]; ok {
		return nil
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.NameKey] = *item
	return nil
}

func (r *fakeItemRepo) FindByKey(key string) (*model.CanonicalItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *fakeItemRepo) FindAll() ([]model.CanonicalItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CanonicalItem
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

type fakeOpnameRepo struct {
	mu      sync.Mutex
	records []model.StockOpname
}

func (r *fakeOpnameRepo) Create(record *model.StockOpname) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeOpnameRepo) FindByID(id uuid.UUID) (*model.StockOpname, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			record := r.records[i]
			return &record, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOpnameRepo) FindAll() ([]model.StockOpname, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.StockOpname, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *fakeOpnameRepo) Update(record *model.StockOpname) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == record.ID {
			r.records[i] = *record
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOpnameRepo) CountDiscrepancies() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, record := range r.records {
		if record.Discrepancy != 0 {
			count++
		}
	}
	return count, nil
}

// env wires the full core over the fakes.
type env struct {
	incomingRepo *fakeIncomingRepo
	outgoingRepo *fakeOutgoingRepo
	supplierRepo *fakeSupplierRepo
	itemRepo     *fakeItemRepo
	opnameRepo   *fakeOpnameRepo
	broker       *notify.Broker
	stockSvc     StockService
	ledgerSvc    LedgerService
	opnameSvc    OpnameService
}

func newEnv() *env {
	e := &env{
		incomingRepo: &fakeIncomingRepo{},
		outgoingRepo: &fakeOutgoingRepo{},
		supplierRepo: newFakeSupplierRepo(),
		itemRepo:     newFakeItemRepo(),
		opnameRepo:   &fakeOpnameRepo{},
		broker:       notify.NewBroker(),
	}
	log := zap.NewNop()
	reg := registry.New(e.itemRepo)
	e.stockSvc = NewStockService(e.incomingRepo, e.outgoingRepo, e.broker, log)
	e.ledgerSvc = NewLedgerService(e.incomingRepo, e.outgoingRepo, e.supplierRepo, reg, e.stockSvc, log)
	e.opnameSvc = NewOpnameService(e.opnameRepo, reg, e.stockSvc)
	return e
}

func drain(sub *notify.Subscriber) []notify.Event {
	var events []notify.Event
	for {
		select {
		case ev := <-sub.C:
			events = append(events, ev)
		default:
			return events
		}
	}
}
