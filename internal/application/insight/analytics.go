package insight

import (
	"context"
	"sort"

	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/insight"
	"github.com/gestor/backend/internal/domain/trade"
	"github.com/google/uuid"
)

const topN = 5

// yearItems loads the line items of every sale in a year together with the
// product catalog.
func (s *Service) yearItems(ctx context.Context, year int) ([]trade.SaleItem, map[uuid.UUID]catalog.Product, error) {
	var sales []trade.Sale
	if err := s.stores.Sales.FindWhere(ctx, &sales, "year = ?", year); err != nil {
		return nil, nil, err
	}
	if len(sales) == 0 {
		return nil, nil, nil
	}

	saleIDs := make([]uuid.UUID, len(sales))
	for i, sa := range sales {
		saleIDs[i] = sa.ID
	}
	var items []trade.SaleItem
	if err := s.stores.SaleItems.FindWhere(ctx, &items, "sale_id IN ?", saleIDs); err != nil {
		return nil, nil, err
	}

	products, err := s.stores.Products.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return items, byID, nil
}

// computeSalesPerformance ranks products by revenue within the year, with
// growth relative to the previous year.
func (s *Service) computeSalesPerformance(ctx context.Context, year int) (insight.SalesPerformance, error) {
	revenue, err := s.productRevenue(ctx, year)
	if err != nil {
		return insight.SalesPerformance{}, err
	}
	previous, err := s.productRevenue(ctx, year-1)
	if err != nil {
		return insight.SalesPerformance{}, err
	}

	perf := insight.SalesPerformance{TopProducts: []insight.ProductRevenue{}}
	for name, rev := range revenue {
		growth := 0.0
		if prev := previous[name]; prev > 0 {
			growth = (rev - prev) / prev
		}
		perf.TopProducts = append(perf.TopProducts, insight.ProductRevenue{
			Name:    name,
			Revenue: rev,
			Growth:  growth,
		})
	}
	sort.Slice(perf.TopProducts, func(i, j int) bool {
		return perf.TopProducts[i].Revenue > perf.TopProducts[j].Revenue
	})
	if len(perf.TopProducts) > topN {
		perf.TopProducts = perf.TopProducts[:topN]
	}
	return perf, nil
}

func (s *Service) productRevenue(ctx context.Context, year int) (map[string]float64, error) {
	items, products, err := s.yearItems(ctx, year)
	if err != nil {
		return nil, err
	}
	revenue := map[string]float64{}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		revenue[product.Name] += product.Price.InexactFloat64() * float64(item.Quantity)
	}
	return revenue, nil
}

// computeDemandPrediction forecasts demand from the sold quantity per
// product, trending on first versus second half of the year.
func (s *Service) computeDemandPrediction(ctx context.Context, year int) (insight.DemandPrediction, error) {
	items, products, err := s.yearItems(ctx, year)
	if err != nil {
		return insight.DemandPrediction{}, err
	}

	// Split quantities by calendar half to derive a direction.
	sales := map[uuid.UUID]trade.Sale{}
	var yearSales []trade.Sale
	if err := s.stores.Sales.FindWhere(ctx, &yearSales, "year = ?", year); err != nil {
		return insight.DemandPrediction{}, err
	}
	for _, sa := range yearSales {
		sales[sa.ID] = sa
	}

	type halves struct{ first, second int }
	perProduct := map[string]*halves{}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		h, ok := perProduct[product.Name]
		if !ok {
			h = &halves{}
			perProduct[product.Name] = h
		}
		if sale, ok := sales[item.SaleID]; ok && sale.Date.Month() > 6 {
			h.second += item.Quantity
		} else {
			h.first += item.Quantity
		}
	}

	prediction := insight.DemandPrediction{TopProducts: []insight.ProductDemand{}}
	for name, h := range perProduct {
		total := h.first + h.second
		trend := "down"
		if h.second >= h.first {
			trend = "up"
		}
		confidence := 0.5
		if total > 0 {
			delta := h.second - h.first
			if delta < 0 {
				delta = -delta
			}
			confidence = 0.5 + 0.45*float64(delta)/float64(total)
		}
		prediction.TopProducts = append(prediction.TopProducts, insight.ProductDemand{
			Name:            name,
			PredictedDemand: total,
			Trend:           trend,
			Confidence:      confidence,
		})
	}
	sort.Slice(prediction.TopProducts, func(i, j int) bool {
		return prediction.TopProducts[i].PredictedDemand > prediction.TopProducts[j].PredictedDemand
	})
	if len(prediction.TopProducts) > topN {
		prediction.TopProducts = prediction.TopProducts[:topN]
	}
	return prediction, nil
}

// computeExpenseAnalysis ranks expense categories by total spend, trending
// on first versus second half of the year.
func (s *Service) computeExpenseAnalysis(ctx context.Context, year int) (insight.ExpenseAnalysis, error) {
	var expenses []finance.Expense
	if err := s.stores.Expenses.FindWhere(ctx, &expenses, "year = ?", year); err != nil {
		return insight.ExpenseAnalysis{}, err
	}

	categories, err := s.stores.Categories.FindAll(ctx)
	if err != nil {
		return insight.ExpenseAnalysis{}, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	type split struct{ total, first, second float64 }
	perCategory := map[string]*split{}
	for _, e := range expenses {
		if e.Status == finance.ExpenseStatusCancelled {
			continue
		}
		name := "uncategorized"
		if e.CategoryID != nil {
			if n, ok := names[*e.CategoryID]; ok {
				name = n
			}
		}
		sp, ok := perCategory[name]
		if !ok {
			sp = &split{}
			perCategory[name] = sp
		}
		amount := e.Amount.InexactFloat64()
		sp.total += amount
		if e.Date.Month() > 6 {
			sp.second += amount
		} else {
			sp.first += amount
		}
	}

	analysis := insight.ExpenseAnalysis{TopExpenses: []insight.CategoryExpense{}}
	for name, sp := range perCategory {
		trend := "down"
		if sp.second >= sp.first {
			trend = "up"
		}
		analysis.TopExpenses = append(analysis.TopExpenses, insight.CategoryExpense{
			Category: name,
			Amount:   sp.total,
			Trend:    trend,
		})
	}
	sort.Slice(analysis.TopExpenses, func(i, j int) bool {
		return analysis.TopExpenses[i].Amount > analysis.TopExpenses[j].Amount
	})
	if len(analysis.TopExpenses) > topN {
		analysis.TopExpenses = analysis.TopExpenses[:topN]
	}
	return analysis, nil
}

// computeFidelization ranks clients by total purchase value within the year
func (s *Service) computeFidelization(ctx context.Context, year int) (insight.Fidelization, error) {
	var sales []trade.Sale
	if err := s.stores.Sales.FindWhere(ctx, &sales, "year = ?", year); err != nil {
		return insight.Fidelization{}, err
	}

	clients, err := s.stores.Clients.FindAll(ctx)
	if err != nil {
		return insight.Fidelization{}, err
	}
	names := make(map[uuid.UUID]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	type tally struct {
		total float64
		count int
	}
	perClient := map[string]*tally{}
	for _, sa := range sales {
		if sa.ClientID == nil {
			continue
		}
		name, ok := names[*sa.ClientID]
		if !ok {
			continue
		}
		t, ok := perClient[name]
		if !ok {
			t = &tally{}
			perClient[name] = t
		}
		t.total += sa.Value.InexactFloat64()
		t.count++
	}

	fidelization := insight.Fidelization{TopCustomers: []insight.CustomerLoyalty{}}
	for name, t := range perClient {
		fidelization.TopCustomers = append(fidelization.TopCustomers, insight.CustomerLoyalty{
			Name:           name,
			TotalPurchases: t.total,
			OrderCount:     t.count,
		})
	}
	sort.Slice(fidelization.TopCustomers, func(i, j int) bool {
		return fidelization.TopCustomers[i].TotalPurchases > fidelization.TopCustomers[j].TotalPurchases
	})
	if len(fidelization.TopCustomers) > topN {
		fidelization.TopCustomers = fidelization.TopCustomers[:topN]
	}
	return fidelization, nil
}
