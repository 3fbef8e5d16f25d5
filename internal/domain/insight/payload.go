package insight

// ProductDemand is one product's predicted demand
type ProductDemand struct {
	Name            string  `json:"name"`
	PredictedDemand int     `json:"predicted_demand"`
	Trend           string  `json:"trend"` // up or down
	Confidence      float64 `json:"confidence"`
}

// DemandPrediction forecasts product demand from recent sale volume
type DemandPrediction struct {
	TopProducts []ProductDemand `json:"top_products"`
}

// CustomerSentiment summarises customer feedback. The local store carries no
// review data, so this analytic always resolves to its default payload.
type CustomerSentiment struct {
	OverallSentiment float64  `json:"overall_sentiment"`
	RecentTrend      string   `json:"recent_trend"` // positive, negative or neutral
	TopComplaints    []string `json:"top_complaints"`
	TopPraises       []string `json:"top_praises"`
}

// CategoryExpense is the aggregated spend for one category
type CategoryExpense struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Trend    string  `json:"trend"`
}

// ExpenseAnalysis ranks expense categories by total spend
type ExpenseAnalysis struct {
	TopExpenses []CategoryExpense `json:"top_expenses"`
}

// ProductRevenue is one product's revenue contribution
type ProductRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Growth  float64 `json:"growth"`
}

// SalesPerformance ranks products by revenue within the year
type SalesPerformance struct {
	TopProducts []ProductRevenue `json:"top_products"`
}

// CustomerLoyalty is one client's aggregated purchase history
type CustomerLoyalty struct {
	Name           string  `json:"name"`
	TotalPurchases float64 `json:"total_purchases"`
	OrderCount     int     `json:"order_count"`
}

// Fidelization ranks clients by total purchase value
type Fidelization struct {
	TopCustomers []CustomerLoyalty `json:"top_customers"`
}

// DefaultPayload returns the fallback payload for an analytic family. It is
// served when recomputation fails so a dashboard can always render.
func DefaultPayload(kind Kind) any {
	switch kind {
	case KindDemand:
		return DemandPrediction{TopProducts: []ProductDemand{}}
	case KindSentiment:
		return CustomerSentiment{
			OverallSentiment: 0,
			RecentTrend:      "neutral",
			TopComplaints:    []string{},
			TopPraises:       []string{},
		}
	case KindExpense:
		return ExpenseAnalysis{TopExpenses: []CategoryExpense{}}
	case KindSales:
		return SalesPerformance{TopProducts: []ProductRevenue{}}
	case KindFidelization:
		return Fidelization{TopCustomers: []CustomerLoyalty{}}
	}
	return nil
}
