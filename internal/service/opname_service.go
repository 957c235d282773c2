package service

import (
	"time"

	"go-gudang-ws/internal/model"
	"go-gudang-ws/internal/registry"
	"go-gudang-ws/internal/repository"
	"go-gudang-ws/pkg/validator"

	"github.com/google/uuid"
)

// OpnameRequest creates one reconciliation record. Officer is not part of
// the body; it comes from the authenticated operator.
type OpnameRequest struct {
	Date        time.Time             `json:"date" validate:"required"`
	ItemName    string                `json:"item_name" validate:"required"`
	PhysicalQty float64               `json:"physical_qty" validate:"gte=0"`
	Unit        string                `json:"unit"`
	Condition   model.OpnameCondition `json:"condition" validate:"required,oneof=GOOD DAMAGED EXPIRED"`
	Note        string                `json:"note"`
}

// OpnameUpdateRequest carries the only two fields an existing record may
// change. SystemQty and Discrepancy stay frozen at their creation values.
type OpnameUpdateRequest struct {
	Condition model.OpnameCondition `json:"condition" validate:"required,oneof=GOOD DAMAGED EXPIRED"`
	Note      string                `json:"note"`
}

// OpnameService records stock-opname reconciliations. A record freezes the
// system quantity at creation and never writes back to the ledger: a human
// seeing a discrepancy submits a correcting transaction separately if they
// want the ledger to follow physical reality.
type OpnameService interface {
	Create(req *OpnameRequest, officer string) (*model.StockOpname, error)
	Update(id uuid.UUID, req *OpnameUpdateRequest, operator string) (*model.StockOpname, error)
	List() ([]model.StockOpname, error)
	Get(id uuid.UUID) (*model.StockOpname, error)
}

type opnameService struct {
	opnameRepo repository.OpnameRepository
	reg        *registry.Registry
	stockSvc   StockService
}

func NewOpnameService(opnameRepo repository.OpnameRepository, reg *registry.Registry, stockSvc StockService) OpnameService {
	return &opnameService{opnameRepo: opnameRepo, reg: reg, stockSvc: stockSvc}
}

func (s *opnameService) Create(req *OpnameRequest, officer string) (*model.StockOpname, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	canonical, err := s.reg.Resolve(req.ItemName)
	if err != nil {
		return nil, err
	}

	// Read the item total exactly once and freeze it.
	systemQty, err := s.stockSvc.ItemTotal(canonical)
	if err != nil {
		return nil, err
	}

	record := &model.StockOpname{
		Date:        req.Date,
		ItemName:    canonical,
		SystemQty:   systemQty,
		PhysicalQty: req.PhysicalQty,
		Discrepancy: req.PhysicalQty - systemQty,
		Unit:        req.Unit,
		Condition:   req.Condition,
		Note:        req.Note,
		Officer:     officer,
	}
	record.CreatedBy = officer
	record.UpdatedBy = officer

	if err := s.opnameRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *opnameService) Update(id uuid.UUID, req *OpnameUpdateRequest, operator string) (*model.StockOpname, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	record, err := s.opnameRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	record.Condition = req.Condition
	record.Note = req.Note
	record.UpdatedBy = operator

	if err := s.opnameRepo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *opnameService) List() ([]model.StockOpname, error) {
	return s.opnameRepo.FindAll()
}

func (s *opnameService) Get(id uuid.UUID) (*model.StockOpname, error) {
	return s.opnameRepo.FindByID(id)
}
