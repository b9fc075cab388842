package marketdata

// quoteResponse is the envelope of the brapi.dev quote endpoint.
type quoteResponse struct {
	Results []quoteResult `json:"results"`
	Error   bool          `json:"error"`
	Message string        `json:"message"`
}

type quoteResult struct {
	Symbol              string            `json:"symbol"`
	LongName            string            `json:"longName"`
	Currency            string            `json:"currency"`
	RegularMarketPrice  float64           `json:"regularMarketPrice"`
	HistoricalDataPrice []historicalPrice `json:"historicalDataPrice"`
}

// historicalPrice is one daily candle. Date is epoch seconds; adjusted
// close may be absent for some tickers, in which case it comes back zero
// and the normalizer falls back to the raw close.
type historicalPrice struct {
	Date          int64   `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjustedClose"`
	Volume        float64 `json:"volume"`
}
