package service

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go-gudang-ws/internal/model"
	"go-gudang-ws/internal/notify"
	"go-gudang-ws/internal/repository"
	"go-gudang-ws/internal/stock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierStockRow is one (item, supplier) line of the aggregate view.
type SupplierStockRow struct {
	ItemName     string    `json:"item_name"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	TotalStock   float64   `json:"total_stock"`
	Unit         string    `json:"unit"`
	LastUpdated  time.Time `json:"last_updated"`
}

// ItemRollup is the per-item total used to populate selection controls.
type ItemRollup struct {
	ItemName  string  `json:"item_name"`
	ItemTotal float64 `json:"item_total"`
	Unit      string  `json:"unit"`
}

// StockView is the query result for the stock page: supplier-level rows plus
// the item rollups.
type StockView struct {
	Rows    []SupplierStockRow `json:"rows"`
	Rollups []ItemRollup       `json:"rollups"`
}

// StockService is the aggregation engine: a materialized view of current
// stock per (item, supplier) and per item, recomputed from the ledger on
// every mutation and pushed to subscribers through the notify broker.
//
// The view is advisory with respect to concurrent writers: persist and
// recompute are separate steps, so two callers interleaving can briefly
// observe (and validate against) a stale total. See ItemTotal.
type StockService interface {
	Recompute(itemNames ...string) error
	RecomputeAll() error
	ItemTotal(itemName string) (float64, error)
	Query(filter string) (*StockView, error)
}

type stockService struct {
	incomingRepo repository.IncomingRepository
	outgoingRepo repository.OutgoingRepository
	broker       *notify.Broker
	log          *zap.Logger

	mu   sync.RWMutex
	view map[string]*itemView
}

type itemView struct {
	unit      string
	total     float64
	suppliers map[uuid.UUID]SupplierStockRow
}

func NewStockService(inRepo repository.IncomingRepository, outRepo repository.OutgoingRepository, broker *notify.Broker, log *zap.Logger) StockService {
	return &stockService{
		incomingRepo: inRepo,
		outgoingRepo: outRepo,
		broker:       broker,
		log:          log,
		view:         make(map[string]*itemView),
	}
}

// ItemTotal computes Σincoming − Σoutgoing for the item straight from the
// ledger, bypassing the cached view, so availability checks and opname
// snapshots read the freshest value the store can give.
func (s *stockService) ItemTotal(itemName string) (float64, error) {
	batches, err := s.loadBatches(itemName)
	if err != nil {
		return 0, err
	}
	outTotal, err := s.outgoingRepo.SumByItem(itemName)
	if err != nil {
		return 0, err
	}
	return stock.Total(batches, outTotal), nil
}

// Recompute rebuilds the view for the given items and publishes one event
// per changed key.
func (s *stockService) Recompute(itemNames ...string) error {
	for _, item := range itemNames {
		if item == "" {
			continue
		}
		if err := s.recomputeItem(item); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeAll rebuilds every item present in the ledger or in the current
// view. Items that vanished from the ledger collapse to zero and drop out.
func (s *stockService) RecomputeAll() error {
	items := make(map[string]struct{})

	inItems, err := s.incomingRepo.DistinctItems()
	if err != nil {
		return err
	}
	outItems, err := s.outgoingRepo.DistinctItems()
	if err != nil {
		return err
	}
	for _, it := range inItems {
		items[it] = struct{}{}
	}
	for _, it := range outItems {
		items[it] = struct{}{}
	}
	s.mu.RLock()
	for it := range s.view {
		items[it] = struct{}{}
	}
	s.mu.RUnlock()

	for it := range items {
		if err := s.recomputeItem(it); err != nil {
			return err
		}
	}
	return nil
}

func (s *stockService) loadBatches(itemName string) ([]stock.Batch, error) {
	txs, err := s.incomingRepo.ListByItem(itemName)
	if err != nil {
		return nil, err
	}
	batches := make([]stock.Batch, 0, len(txs))
	for _, tx := range txs {
		batches = append(batches, stock.Batch{
			ID:           tx.ID,
			Date:         tx.Date,
			SupplierID:   tx.SupplierID,
			SupplierName: tx.SupplierName,
			Quantity:     tx.Quantity,
		})
	}
	return batches, nil
}

func latestUnit(txs []model.IncomingTransaction) string {
	unit := ""
	for _, tx := range txs {
		if tx.Unit != "" {
			unit = tx.Unit
		}
	}
	return unit
}

func (s *stockService) recomputeItem(itemName string) error {
	txs, err := s.incomingRepo.ListByItem(itemName)
	if err != nil {
		return err
	}
	outTotal, err := s.outgoingRepo.SumByItem(itemName)
	if err != nil {
		return err
	}

	batches := make([]stock.Batch, 0, len(txs))
	for _, tx := range txs {
		batches = append(batches, stock.Batch{
			ID:           tx.ID,
			Date:         tx.Date,
			SupplierID:   tx.SupplierID,
			SupplierName: tx.SupplierName,
			Quantity:     tx.Quantity,
		})
	}

	buckets, itemTotal := stock.Allocate(batches, outTotal)
	if direct := stock.Total(batches, outTotal); math.Abs(direct-itemTotal) > 1e-9 {
		s.log.Warn("aggregate cross-check drift",
			zap.String("item", itemName),
			zap.Float64("bucket_sum", itemTotal),
			zap.Float64("direct_total", direct))
	}

	unit := latestUnit(txs)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.view[itemName]
	if old != nil && unit == "" {
		unit = old.unit
	}

	next := &itemView{
		unit:      unit,
		total:     itemTotal,
		suppliers: make(map[uuid.UUID]SupplierStockRow, len(buckets)),
	}
	for _, b := range buckets {
		row := SupplierStockRow{
			ItemName:     itemName,
			SupplierID:   b.SupplierID,
			SupplierName: b.SupplierName,
			TotalStock:   b.TotalStock,
			Unit:         unit,
			LastUpdated:  now,
		}
		if old != nil {
			if prev, ok := old.suppliers[b.SupplierID]; ok && prev.TotalStock == b.TotalStock {
				row.LastUpdated = prev.LastUpdated
			}
		}
		next.suppliers[b.SupplierID] = row
	}

	// One event per changed (item, supplier) key.
	for id, row := range next.suppliers {
		if old != nil {
			if prev, ok := old.suppliers[id]; ok && prev.TotalStock == row.TotalStock {
				continue
			}
		}
		s.broker.Publish(notify.Event{
			Kind:         notify.KindSupplierStock,
			ItemName:     itemName,
			SupplierID:   id,
			SupplierName: row.SupplierName,
			Total:        row.TotalStock,
			Unit:         unit,
		})
	}
	// Suppliers whose last batch was deleted go to zero.
	if old != nil {
		for id, prev := range old.suppliers {
			if _, ok := next.suppliers[id]; ok {
				continue
			}
			if prev.TotalStock == 0 {
				continue
			}
			s.broker.Publish(notify.Event{
				Kind:         notify.KindSupplierStock,
				ItemName:     itemName,
				SupplierID:   id,
				SupplierName: prev.SupplierName,
				Total:        0,
				Unit:         unit,
			})
		}
	}
	if old == nil || old.total != itemTotal {
		s.broker.Publish(notify.Event{
			Kind:     notify.KindItemTotal,
			ItemName: itemName,
			Total:    itemTotal,
			Unit:     unit,
		})
	}

	if len(next.suppliers) == 0 && itemTotal == 0 {
		delete(s.view, itemName)
		return nil
	}
	s.view[itemName] = next
	return nil
}

// Query returns the current view filtered by a case-insensitive substring
// match against item and supplier names. An empty filter returns everything.
func (s *stockService) Query(filter string) (*StockView, error) {
	needle := strings.ToLower(strings.TrimSpace(filter))

	s.mu.RLock()
	defer s.mu.RUnlock()

	view := &StockView{Rows: []SupplierStockRow{}, Rollups: []ItemRollup{}}
	for item, iv := range s.view {
		itemMatch := needle == "" || strings.Contains(strings.ToLower(item), needle)
		matched := false
		for _, row := range iv.suppliers {
			if itemMatch || strings.Contains(strings.ToLower(row.SupplierName), needle) {
				view.Rows = append(view.Rows, row)
				matched = true
			}
		}
		if itemMatch || matched {
			view.Rollups = append(view.Rollups, ItemRollup{
				ItemName:  item,
				ItemTotal: iv.total,
				Unit:      iv.unit,
			})
		}
	}

	sortView(view)
	return view, nil
}

func sortView(view *StockView) {
	sort.Slice(view.Rows, func(i, j int) bool {
		if view.Rows[i].ItemName != view.Rows[j].ItemName {
			return view.Rows[i].ItemName < view.Rows[j].ItemName
		}
		return view.Rows[i].SupplierName < view.Rows[j].SupplierName
	})
	sort.Slice(view.Rollups, func(i, j int) bool {
		return view.Rollups[i].ItemName < view.Rollups[j].ItemName
	})
}
