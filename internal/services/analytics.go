package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"bingo-sales-platform/internal/models"

	"go.uber.org/zap"
)

// Alert codes
const (
	AlertLowConversion   = "low_conversion"
	AlertInactiveSellers = "inactive_sellers"
)

// LowConversionThreshold is the overall conversion rate under which an alert is raised
const LowConversionThreshold = 0.5

// Snapshot is the data one report call is computed from
type Snapshot struct {
	Events  []*models.Event
	Sellers []*models.Seller
	Orders  []*models.Order
}

// StockSummary counts the cards of one event by state
type StockSummary struct {
	EventID   int64 `json:"event_id"`
	Total     int   `json:"total"`
	Available int   `json:"available"`
	Pending   int   `json:"pending"`
	Sold      int   `json:"sold"`
}

// FinancialSummary holds the money figures of one event in cents
type FinancialSummary struct {
	EventID        int64 `json:"event_id"`
	CollectedCents int64 `json:"collected_cents"`
	ExpectedCents  int64 `json:"expected_cents"`
	PendingCents   int64 `json:"pending_cents"`
}

// SellerPerformance aggregates the orders of one seller, in one event or all
type SellerPerformance struct {
	SellerID        int64   `json:"seller_id"`
	SellerName      string  `json:"seller_name"`
	EventID         *int64  `json:"event_id,omitempty"`
	TotalOrders     int     `json:"total_orders"`
	CardsWithdrawn  int     `json:"cards_withdrawn"`
	CardsSold       int     `json:"cards_sold"`
	CardsPending    int     `json:"cards_pending"`
	CardsReturned   int     `json:"cards_returned"`
	AmountSoldCents int64   `json:"amount_sold_cents"`
	ConversionRate  float64 `json:"conversion_rate"`
}

// Alert is an advisory message for the reporting UI
type Alert struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventSummary combines the stock and money figures of one event
type EventSummary struct {
	Event      *models.Event    `json:"event"`
	Stock      StockSummary     `json:"stock"`
	Financials FinancialSummary `json:"financials"`
}

// OverviewTotals sums the active events
type OverviewTotals struct {
	Events         int   `json:"events"`
	Cards          int   `json:"cards"`
	Sold           int   `json:"sold"`
	Pending        int   `json:"pending"`
	Available      int   `json:"available"`
	CollectedCents int64 `json:"collected_cents"`
	ExpectedCents  int64 `json:"expected_cents"`
	PendingCents   int64 `json:"pending_cents"`
}

// Overview is the system-wide dashboard
type Overview struct {
	Totals  OverviewTotals      `json:"totals"`
	Events  []EventSummary      `json:"events"`
	Ranking []SellerPerformance `json:"ranking"`
	Alerts  []Alert             `json:"alerts"`
}

// EventStock counts the cards of the event by state.
// Orders of other events are ignored. Broken order state or a negative
// available count yields an *models.InconsistencyError.
func EventStock(event *models.Event, orders []*models.Order) (StockSummary, error) {
	summary := StockSummary{EventID: event.ID, Total: event.CardCount}

	if err := models.CheckEventHolds(event.ID, orders); err != nil {
		return summary, err
	}

	for _, o := range orders {
		if o.EventID != event.ID {
			continue
		}
		if err := o.CheckInvariants(); err != nil {
			return summary, err
		}
		summary.Sold += o.Sold.Len()
		summary.Pending += o.Pending.Len()
	}

	summary.Available = summary.Total - summary.Sold - summary.Pending
	if summary.Available < 0 {
		return summary, &models.InconsistencyError{
			EventID: event.ID,
			Detail:  fmt.Sprintf("available count is negative (%d)", summary.Available),
		}
	}
	return summary, nil
}

// EventFinancials prices the stock of the event
func EventFinancials(event *models.Event, orders []*models.Order) (FinancialSummary, error) {
	stock, err := EventStock(event, orders)
	if err != nil {
		return FinancialSummary{EventID: event.ID}, err
	}
	return financialsFromStock(event, stock), nil
}

func financialsFromStock(event *models.Event, stock StockSummary) FinancialSummary {
	return FinancialSummary{
		EventID:        event.ID,
		CollectedCents: int64(stock.Sold) * event.PriceCents,
		ExpectedCents:  int64(stock.Total) * event.PriceCents,
		PendingCents:   int64(stock.Pending) * event.PriceCents,
	}
}

// SellerPerformanceFor aggregates the seller's orders, limited to one event when
// eventID is set. Each order is priced with its own event's price.
func SellerPerformanceFor(sellerID int64, snap *Snapshot, eventID *int64) (SellerPerformance, error) {
	perf := SellerPerformance{SellerID: sellerID, EventID: eventID}
	for _, seller := range snap.Sellers {
		if seller.ID == sellerID {
			perf.SellerName = seller.Name
			break
		}
	}

	prices := make(map[int64]int64, len(snap.Events))
	for _, e := range snap.Events {
		prices[e.ID] = e.PriceCents
	}

	for _, o := range snap.Orders {
		if o.SellerID != sellerID {
			continue
		}
		if eventID != nil && o.EventID != *eventID {
			continue
		}
		if err := o.CheckInvariants(); err != nil {
			return perf, err
		}
		price, ok := prices[o.EventID]
		if !ok {
			return perf, &models.InconsistencyError{EventID: o.EventID, OrderID: o.ID, Detail: "order references a missing event"}
		}

		perf.TotalOrders++
		perf.CardsWithdrawn += o.Withdrawn.Len()
		perf.CardsSold += o.Sold.Len()
		perf.CardsPending += o.Pending.Len()
		perf.CardsReturned += o.Returned.Len()
		perf.AmountSoldCents += int64(o.Sold.Len()) * price
	}

	perf.ConversionRate = conversionRate(perf.CardsSold, perf.CardsWithdrawn)
	return perf, nil
}

// RankSellers orders every seller of the snapshot by amount sold, highest
// first. Ties go to the lower seller ID.
func RankSellers(snap *Snapshot, eventID *int64) ([]SellerPerformance, error) {
	ranking := make([]SellerPerformance, 0, len(snap.Sellers))
	for _, seller := range snap.Sellers {
		perf, err := SellerPerformanceFor(seller.ID, snap, eventID)
		if err != nil {
			return nil, err
		}
		ranking = append(ranking, perf)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].AmountSoldCents != ranking[j].AmountSoldCents {
			return ranking[i].AmountSoldCents > ranking[j].AmountSoldCents
		}
		return ranking[i].SellerID < ranking[j].SellerID
	})
	return ranking, nil
}

// SystemAlerts returns the advisory alerts for the snapshot. They never block anything.
func SystemAlerts(snap *Snapshot) []Alert {
	alerts := []Alert{}

	withdrawn, sold := 0, 0
	participating := make(map[int64]bool)
	for _, o := range snap.Orders {
		withdrawn += o.Withdrawn.Len()
		sold += o.Sold.Len()
		participating[o.SellerID] = true
	}

	if withdrawn > 0 {
		if rate := conversionRate(sold, withdrawn); rate < LowConversionThreshold {
			alerts = append(alerts, Alert{
				Code:    AlertLowConversion,
				Message: fmt.Sprintf("overall conversion rate is %.1f%%, below %.0f%%", rate*100, LowConversionThreshold*100),
			})
		}
	}

	idle := 0
	for _, seller := range snap.Sellers {
		if !participating[seller.ID] {
			idle++
		}
	}
	if len(snap.Sellers) > 0 && idle*2 > len(snap.Sellers) {
		alerts = append(alerts, Alert{
			Code:    AlertInactiveSellers,
			Message: fmt.Sprintf("%d of %d sellers have no orders", idle, len(snap.Sellers)),
		})
	}

	return alerts
}

// BuildOverview summarizes the active events, ranks every seller and
// collects the alerts.
func BuildOverview(snap *Snapshot) (*Overview, error) {
	overview := &Overview{Events: []EventSummary{}}

	events := make([]*models.Event, 0, len(snap.Events))
	for _, e := range snap.Events {
		if e.Active {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].EventDate.Before(events[j].EventDate)
		}
		return events[i].ID < events[j].ID
	})

	for _, event := range events {
		stock, err := EventStock(event, snap.Orders)
		if err != nil {
			return nil, err
		}
		money := financialsFromStock(event, stock)
		overview.Events = append(overview.Events, EventSummary{Event: event, Stock: stock, Financials: money})

		overview.Totals.Events++
		overview.Totals.Cards += stock.Total
		overview.Totals.Sold += stock.Sold
		overview.Totals.Pending += stock.Pending
		overview.Totals.Available += stock.Available
		overview.Totals.CollectedCents += money.CollectedCents
		overview.Totals.ExpectedCents += money.ExpectedCents
		overview.Totals.PendingCents += money.PendingCents
	}

	ranking, err := RankSellers(snap, nil)
	if err != nil {
		return nil, err
	}
	overview.Ranking = ranking
	overview.Alerts = SystemAlerts(snap)
	return overview, nil
}

func conversionRate(sold, withdrawn int) float64 {
	if withdrawn == 0 {
		return 0
	}
	return float64(sold) / float64(withdrawn)
}

// ReportService loads snapshots and runs the aggregation functions over them
type ReportService struct {
	eventRepo  EventRepository
	sellerRepo SellerRepository
	orderRepo  OrderRepository
	logger     *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(eventRepo EventRepository, sellerRepo SellerRepository, orderRepo OrderRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		eventRepo:  eventRepo,
		sellerRepo: sellerRepo,
		orderRepo:  orderRepo,
		logger:     logger.Named("reports"),
	}
}

// LoadSnapshot reads every event, seller and order in one read unit
func (s *ReportService) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.orderRepo.ReadSnapshot(ctx, func(ctx context.Context) error {
		var err error
		if snap.Events, err = s.eventRepo.List(ctx, false); err != nil {
			return fmt.Errorf("failed to load events: %w", err)
		}
		if snap.Sellers, err = s.sellerRepo.List(ctx, false); err != nil {
			return fmt.Errorf("failed to load sellers: %w", err)
		}
		if snap.Orders, err = s.orderRepo.List(ctx, models.OrderFilter{}); err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// loadEvent reads one event and its orders in one read unit
func (s *ReportService) loadEvent(ctx context.Context, eventID int64) (*models.Event, []*models.Order, error) {
	var (
		event  *models.Event
		orders []*models.Order
	)
	err := s.orderRepo.ReadSnapshot(ctx, func(ctx context.Context) error {
		var err error
		if event, err = s.eventRepo.GetByID(ctx, eventID); err != nil {
			return err
		}
		if orders, err = s.orderRepo.ListByEvent(ctx, eventID); err != nil {
			return fmt.Errorf("failed to load event orders: %w", err)
		}
		return nil
	})
	return event, orders, err
}

func (s *ReportService) EventStockSummary(ctx context.Context, eventID int64) (*StockSummary, error) {
	event, orders, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	stock, err := EventStock(event, orders)
	if err != nil {
		return nil, s.reportError(err)
	}
	return &stock, nil
}

func (s *ReportService) EventFinancialSummary(ctx context.Context, eventID int64) (*FinancialSummary, error) {
	event, orders, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	money, err := EventFinancials(event, orders)
	if err != nil {
		return nil, s.reportError(err)
	}
	return &money, nil
}

func (s *ReportService) SellerPerformance(ctx context.Context, sellerID int64, eventID *int64) (*SellerPerformance, error) {
	if _, err := s.sellerRepo.GetByID(ctx, sellerID); err != nil {
		return nil, err
	}
	if eventID != nil {
		if _, err := s.eventRepo.GetByID(ctx, *eventID); err != nil {
			return nil, err
		}
	}

	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	perf, err := SellerPerformanceFor(sellerID, snap, eventID)
	if err != nil {
		return nil, s.reportError(err)
	}
	return &perf, nil
}

func (s *ReportService) Ranking(ctx context.Context, eventID *int64) ([]SellerPerformance, error) {
	if eventID != nil {
		if _, err := s.eventRepo.GetByID(ctx, *eventID); err != nil {
			return nil, err
		}
	}

	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	ranking, err := RankSellers(snap, eventID)
	if err != nil {
		return nil, s.reportError(err)
	}
	return ranking, nil
}

func (s *ReportService) Overview(ctx context.Context) (*Overview, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := BuildOverview(snap)
	if err != nil {
		return nil, s.reportError(err)
	}
	return overview, nil
}

// reportError logs inconsistencies found while aggregating
func (s *ReportService) reportError(err error) error {
	var inc *models.InconsistencyError
	if errors.As(err, &inc) {
		s.logger.Error("inconsistent inventory state",
			zap.Int64("event_id", inc.EventID),
			zap.Int64("order_id", inc.OrderID),
			zap.String("detail", inc.Detail),
		)
	}
	return err
}
