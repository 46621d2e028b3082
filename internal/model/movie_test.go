package model

import "testing"

func TestAvailableStocks(t *testing.T) {
	cases := []struct {
		name     string
		total    float64
		invested float64
		price    float64
		want     int64
	}{
		{"fresh campaign", 1_000_000, 0, 100, 10000},
		{"partially funded", 1_000_000, 5000, 100, 9950},
		{"fully funded", 1_000_000, 1_000_000, 100, 0},
		{"fractional remainder rounds down", 1000, 0, 300, 3},
		{"zero price", 1000, 0, 0, 0},
		{"negative remainder", 1000, 2000, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Movie{TotalAmount: tc.total, InvestedAmount: tc.invested, StockPrice: tc.price}
			if got := m.AvailableStocks(); got != tc.want {
				t.Fatalf("AvailableStocks() = %d, want %d", got, tc.want)
			}
		})
	}
}
