package service

import (
	"errors"
	"fmt"
	"time"

	"go-gudang-ws/internal/model"
	"go-gudang-ws/internal/registry"
	"go-gudang-ws/internal/repository"
	"go-gudang-ws/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrEmptyImport       = errors.New("import payload is empty")
)

// IncomingRequest is the caller-facing shape of an incoming transaction.
// ItemName is raw user input; it is resolved to a canonical spelling before
// anything is persisted. SupplierName may be left empty, in which case the
// snapshot is read once from the supplier directory at write time.
type IncomingRequest struct {
	Date         time.Time `json:"date" validate:"required"`
	SupplierID   uuid.UUID `json:"supplier_id" validate:"uuid_required"`
	SupplierName string    `json:"supplier_name"`
	ItemName     string    `json:"item_name" validate:"required"`
	Quantity     float64   `json:"quantity" validate:"required,gt=0"`
	Unit         string    `json:"unit"`
	Note         string    `json:"note"`
}

type OutgoingRequest struct {
	Date     time.Time `json:"date" validate:"required"`
	ItemName string    `json:"item_name" validate:"required"`
	Quantity float64   `json:"quantity" validate:"required,gt=0"`
	Unit     string    `json:"unit"`
	Note     string    `json:"note"`
}

// ImportResult reports a batch import. Rows are committed independently and
// sequentially: a failure partway through leaves earlier rows in place, so
// the caller gets a success count, never all-or-nothing.
type ImportResult struct {
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors,omitempty"`
}

type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// LedgerService is the append-and-edit store for the two transaction kinds.
// Every write resolves the raw item name through the registry first and
// triggers re-aggregation of the affected item(s) afterwards.
type LedgerService interface {
	RecordIncoming(req *IncomingRequest, operator string) (*model.IncomingTransaction, error)
	UpdateIncoming(id uuid.UUID, req *IncomingRequest, operator string) (*model.IncomingTransaction, error)
	DeleteIncoming(id uuid.UUID, operator string) error
	ListIncoming() ([]model.IncomingTransaction, error)

	RecordOutgoing(req *OutgoingRequest, operator string) (*model.OutgoingTransaction, error)
	UpdateOutgoing(id uuid.UUID, req *OutgoingRequest, operator string) (*model.OutgoingTransaction, error)
	DeleteOutgoing(id uuid.UUID, operator string) error
	ListOutgoing() ([]model.OutgoingTransaction, error)

	ImportIncoming(rows []IncomingRequest, operator string) (*ImportResult, error)
	ImportOutgoing(rows []OutgoingRequest, operator string) (*ImportResult, error)
}

type ledgerService struct {
	incomingRepo repository.IncomingRepository
	outgoingRepo repository.OutgoingRepository
	supplierRepo repository.SupplierRepository
	reg          *registry.Registry
	stockSvc     StockService
	log          *zap.Logger
}

func NewLedgerService(
	inRepo repository.IncomingRepository,
	outRepo repository.OutgoingRepository,
	supRepo repository.SupplierRepository,
	reg *registry.Registry,
	stockSvc StockService,
	log *zap.Logger,
) LedgerService {
	return &ledgerService{
		incomingRepo: inRepo,
		outgoingRepo: outRepo,
		supplierRepo: supRepo,
		reg:          reg,
		stockSvc:     stockSvc,
		log:          log,
	}
}

func validationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

// recompute runs after a committed mutation. A recompute failure does not
// undo the write; the record is already durable, so the error is logged and
// the cron sweep repairs the view.
func (s *ledgerService) recompute(items ...string) {
	if err := s.stockSvc.Recompute(items...); err != nil {
		s.log.Error("stock recompute failed", zap.Strings("items", items), zap.Error(err))
	}
}

func (s *ledgerService) RecordIncoming(req *IncomingRequest, operator string) (*model.IncomingTransaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	canonical, err := s.reg.Resolve(req.ItemName)
	if err != nil {
		return nil, err
	}

	// Snapshot the supplier name now; this value is never refreshed from
	// the directory again.
	snapshot := req.SupplierName
	if snapshot == "" {
		supplier, err := s.supplierRepo.FindByID(req.SupplierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("supplier not found")
			}
			return nil, err
		}
		snapshot = supplier.Name
	}

	tx := &model.IncomingTransaction{
		Date:         req.Date,
		SupplierID:   req.SupplierID,
		SupplierName: snapshot,
		ItemName:     canonical,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Note:         req.Note,
	}
	tx.CreatedBy = operator
	tx.UpdatedBy = operator

	if err := s.incomingRepo.Create(tx); err != nil {
		return nil, err
	}
	s.recompute(canonical)
	return tx, nil
}

func (s *ledgerService) UpdateIncoming(id uuid.UUID, req *IncomingRequest, operator string) (*model.IncomingTransaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	existing, err := s.incomingRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	canonical, err := s.reg.Resolve(req.ItemName)
	if err != nil {
		return nil, err
	}
	oldItem := existing.ItemName

	existing.Date = req.Date
	existing.ItemName = canonical
	existing.Quantity = req.Quantity
	existing.Unit = req.Unit
	existing.Note = req.Note
	existing.UpdatedBy = operator
	if req.SupplierID != existing.SupplierID {
		supplier, err := s.supplierRepo.FindByID(req.SupplierID)
		if err != nil {
			return nil, errors.New("supplier not found")
		}
		existing.SupplierID = supplier.ID
		existing.SupplierName = supplier.Name
	}

	if err := s.incomingRepo.Update(existing); err != nil {
		return nil, err
	}
	if oldItem != canonical {
		s.recompute(oldItem, canonical)
	} else {
		s.recompute(canonical)
	}
	return existing, nil
}

func (s *ledgerService) DeleteIncoming(id uuid.UUID, operator string) error {
	existing, err := s.incomingRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.incomingRepo.Delete(id, operator); err != nil {
		return err
	}
	s.recompute(existing.ItemName)
	return nil
}

func (s *ledgerService) ListIncoming() ([]model.IncomingTransaction, error) {
	return s.incomingRepo.FindAll()
}

func (s *ledgerService) RecordOutgoing(req *OutgoingRequest, operator string) (*model.OutgoingTransaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	canonical, err := s.reg.Resolve(req.ItemName)
	if err != nil {
		return nil, err
	}

	// Advisory availability check: the total read here can already be stale
	// by the time the row commits, so two concurrent issuers can jointly
	// over-issue. Accepted; the view still stays internally consistent.
	available, err := s.stockSvc.ItemTotal(canonical)
	if err != nil {
		return nil, err
	}
	if req.Quantity > available {
		return nil, fmt.Errorf("%w: requested %v, available %v %s",
			ErrInsufficientStock, req.Quantity, available, req.Unit)
	}

	tx := &model.OutgoingTransaction{
		Date:     req.Date,
		ItemName: canonical,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Note:     req.Note,
	}
	tx.CreatedBy = operator
	tx.UpdatedBy = operator

	if err := s.outgoingRepo.Create(tx); err != nil {
		return nil, err
	}
	s.recompute(canonical)
	return tx, nil
}

func (s *ledgerService) UpdateOutgoing(id uuid.UUID, req *OutgoingRequest, operator string) (*model.OutgoingTransaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	existing, err := s.outgoingRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	canonical, err := s.reg.Resolve(req.ItemName)
	if err != nil {
		return nil, err
	}
	oldItem := existing.ItemName

	// Delta rule: only the increase over the stored quantity competes with
	// current availability. Decreases and non-quantity edits pass freely. A
	// move to a different item is a fresh issue against that item.
	if canonical == oldItem {
		if delta := req.Quantity - existing.Quantity; delta > 0 {
			available, err := s.stockSvc.ItemTotal(canonical)
			if err != nil {
				return nil, err
			}
			if delta > available {
				return nil, fmt.Errorf("%w: additional %v, available %v %s",
					ErrInsufficientStock, delta, available, req.Unit)
			}
		}
	} else {
		available, err := s.stockSvc.ItemTotal(canonical)
		if err != nil {
			return nil, err
		}
		if req.Quantity > available {
			return nil, fmt.Errorf("%w: requested %v, available %v %s",
				ErrInsufficientStock, req.Quantity, available, req.Unit)
		}
	}

	existing.Date = req.Date
	existing.ItemName = canonical
	existing.Quantity = req.Quantity
	existing.Unit = req.Unit
	existing.Note = req.Note
	existing.UpdatedBy = operator

	if err := s.outgoingRepo.Update(existing); err != nil {
		return nil, err
	}
	if oldItem != canonical {
		s.recompute(oldItem, canonical)
	} else {
		s.recompute(canonical)
	}
	return existing, nil
}

func (s *ledgerService) DeleteOutgoing(id uuid.UUID, operator string) error {
	existing, err := s.outgoingRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.outgoingRepo.Delete(id, operator); err != nil {
		return err
	}
	s.recompute(existing.ItemName)
	return nil
}

func (s *ledgerService) ListOutgoing() ([]model.OutgoingTransaction, error) {
	return s.outgoingRepo.FindAll()
}

// ImportIncoming feeds spreadsheet rows one-by-one through the same path as
// manual entry. Re-running a failed import re-creates the rows that did
// succeed the first time; creates are not idempotent.
func (s *ledgerService) ImportIncoming(rows []IncomingRequest, operator string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	result := &ImportResult{}
	for i := range rows {
		if _, err := s.RecordIncoming(&rows[i], operator); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{Row: i, Message: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *ledgerService) ImportOutgoing(rows []OutgoingRequest, operator string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	result := &ImportResult{}
	for i := range rows {
		if _, err := s.RecordOutgoing(&rows[i], operator); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{Row: i, Message: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}
