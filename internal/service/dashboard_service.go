package service

import (
	"sort"
	"time"

	"go-gudang-ws/internal/repository"
)

// StockMovementData is one day of inbound/outbound quantity for the chart.
type StockMovementData struct {
	Date     string  `json:"date"`
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
}

type DashboardStats struct {
	TotalItems       int64 `json:"total_items"`
	LowStockCount    int64 `json:"low_stock_count"`
	DiscrepancyCount int64 `json:"discrepancy_count"`
}

type DashboardService interface {
	GetStockMovement(days int) ([]StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// lowStockThreshold marks items whose total is running out on the overview.
const lowStockThreshold = 10

type dashboardService struct {
	incomingRepo repository.IncomingRepository
	outgoingRepo repository.OutgoingRepository
	itemRepo     repository.ItemRepository
	opnameRepo   repository.OpnameRepository
	stockSvc     StockService
}

func NewDashboardService(
	inRepo repository.IncomingRepository,
	outRepo repository.OutgoingRepository,
	itemRepo repository.ItemRepository,
	opnameRepo repository.OpnameRepository,
	stockSvc StockService,
) DashboardService {
	return &dashboardService{
		incomingRepo: inRepo,
		outgoingRepo: outRepo,
		itemRepo:     itemRepo,
		opnameRepo:   opnameRepo,
		stockSvc:     stockSvc,
	}
}

func (s *dashboardService) GetStockMovement(days int) ([]StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	inbound, err := s.incomingRepo.DailyTotals(startDate, endDate)
	if err != nil {
		return nil, err
	}
	outbound, err := s.outgoingRepo.DailyTotals(startDate, endDate)
	if err != nil {
		return nil, err
	}

	dates := make(map[string]struct{})
	for d := range inbound {
		dates[d] = struct{}{}
	}
	for d := range outbound {
		dates[d] = struct{}{}
	}

	results := make([]StockMovementData, 0, len(dates))
	for d := range dates {
		results = append(results, StockMovementData{
			Date:     d,
			Inbound:  inbound[d],
			Outbound: outbound[d],
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}
	stats.TotalItems = int64(len(items))

	view, err := s.stockSvc.Query("")
	if err != nil {
		return nil, err
	}
	for _, rollup := range view.Rollups {
		if rollup.ItemTotal < lowStockThreshold {
			stats.LowStockCount++
		}
	}

	stats.DiscrepancyCount, err = s.opnameRepo.CountDiscrepancies()
	if err != nil {
		return nil, err
	}
	return stats, nil
}
