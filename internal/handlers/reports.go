package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bingo-sales-platform/internal/middleware"
	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/services"
)

// ReportHandler serves stock, money and seller reports
type ReportHandler struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        handlerLogger(logger, "reports"),
	}
}

type financialResponse struct {
	EventID   int64  `json:"event_id"`
	Collected string `json:"amount_collected"`
	Expected  string `json:"amount_expected"`
	Pending   string `json:"amount_pending"`
}

func newFinancialResponse(f services.FinancialSummary) financialResponse {
	return financialResponse{
		EventID:   f.EventID,
		Collected: models.FormatCents(f.CollectedCents),
		Expected:  models.FormatCents(f.ExpectedCents),
		Pending:   models.FormatCents(f.PendingCents),
	}
}

type performanceResponse struct {
	services.SellerPerformance
	AmountSold        string  `json:"amount_sold"`
	ConversionPercent float64 `json:"conversion_percent"`
}

func newPerformanceResponse(p services.SellerPerformance) performanceResponse {
	return performanceResponse{
		SellerPerformance: p,
		AmountSold:        models.FormatCents(p.AmountSoldCents),
		ConversionPercent: percent(p.ConversionRate),
	}
}

// percent renders a [0,1] rate as a percentage with one decimal
func percent(rate float64) float64 {
	return decimal.NewFromFloat(rate).Shift(2).Round(1).InexactFloat64()
}

type eventSummaryResponse struct {
	Event      eventResponse         `json:"event"`
	Stock      services.StockSummary `json:"stock"`
	Financials financialResponse     `json:"financials"`
}

type overviewTotalsResponse struct {
	Events        int    `json:"events"`
	Cards         int    `json:"cards"`
	Sold          int    `json:"sold"`
	Pending       int    `json:"pending"`
	Available     int    `json:"available"`
	Collected     string `json:"amount_collected"`
	Expected      string `json:"amount_expected"`
	PendingAmount string `json:"amount_pending"`
}

type overviewResponse struct {
	Totals  overviewTotalsResponse `json:"totals"`
	Events  []eventSummaryResponse `json:"events"`
	Ranking []performanceResponse  `json:"ranking"`
	Alerts  []services.Alert       `json:"alerts"`
}

func newRankingResponse(ranking []services.SellerPerformance) []performanceResponse {
	resp := make([]performanceResponse, 0, len(ranking))
	for _, p := range ranking {
		resp = append(resp, newPerformanceResponse(p))
	}
	return resp
}

// EventStock handles GET /api/events/{eventID}/stock
func (h *ReportHandler) EventStock(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	stock, err := h.reportService.EventStockSummary(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

// EventFinancials handles GET /api/events/{eventID}/financials
func (h *ReportHandler) EventFinancials(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	summary, err := h.reportService.EventFinancialSummary(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newFinancialResponse(*summary))
}

// EventRanking handles GET /api/events/{eventID}/ranking
func (h *ReportHandler) EventRanking(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.ranking(w, r, &id)
}

// Ranking handles GET /api/reports/ranking?event_id=
func (h *ReportHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "event_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if id == 0 {
		h.ranking(w, r, nil)
		return
	}
	h.ranking(w, r, &id)
}

func (h *ReportHandler) ranking(w http.ResponseWriter, r *http.Request, eventID *int64) {
	ranking, err := h.reportService.Ranking(r.Context(), eventID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newRankingResponse(ranking))
}

// SellerPerformance handles GET /api/sellers/{sellerID}/performance?event_id=
func (h *ReportHandler) SellerPerformance(w http.ResponseWriter, r *http.Request) {
	sellerID, err := urlID(r, "sellerID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if !middleware.GetUserFromContext(r.Context()).CanActAsSeller(sellerID) {
		writeError(w, r, h.logger, models.ErrForbidden)
		return
	}

	eventID, err := queryID(r, "event_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var scope *int64
	if eventID != 0 {
		scope = &eventID
	}

	perf, err := h.reportService.SellerPerformance(r.Context(), sellerID, scope)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPerformanceResponse(*perf))
}

// Overview handles GET /api/reports/overview
func (h *ReportHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reportService.Overview(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp := overviewResponse{
		Totals: overviewTotalsResponse{
			Events:        overview.Totals.Events,
			Cards:         overview.Totals.Cards,
			Sold:          overview.Totals.Sold,
			Pending:       overview.Totals.Pending,
			Available:     overview.Totals.Available,
			Collected:     models.FormatCents(overview.Totals.CollectedCents),
			Expected:      models.FormatCents(overview.Totals.ExpectedCents),
			PendingAmount: models.FormatCents(overview.Totals.PendingCents),
		},
		Events:  make([]eventSummaryResponse, 0, len(overview.Events)),
		Ranking: newRankingResponse(overview.Ranking),
		Alerts:  overview.Alerts,
	}
	if resp.Alerts == nil {
		resp.Alerts = []services.Alert{}
	}
	for _, e := range overview.Events {
		resp.Events = append(resp.Events, eventSummaryResponse{
			Event:      newEventResponse(e.Event),
			Stock:      e.Stock,
			Financials: newFinancialResponse(e.Financials),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
