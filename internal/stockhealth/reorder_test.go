package stockhealth

import "testing"

func usage(v float64) *float64 { return &v }

func TestReorderQuantity(t *testing.T) {
	tests := []struct {
		name         string
		avgUsage     *float64
		leadTime     int
		currentStock int
		safetyFactor float64
		want         int
	}{
		{"stocked out with steady usage", usage(20), 7, 0, 2.0, 280},
		{"partial stock subtracted", usage(20), 7, 100, 2.0, 180},
		{"already above target", usage(2), 3, 500, 2.0, 0},
		{"nil usage suggests nothing", nil, 7, 0, 2.0, 0},
		{"zero usage suggests nothing", usage(0), 7, 0, 2.0, 0},
		{"negative usage suggests nothing", usage(-5), 7, 0, 2.0, 0},
		{"fractional usage rounds target", usage(2.6), 3, 0, 1.0, 8}, // round(7.8)
		{"custom safety factor", usage(10), 5, 20, 1.5, 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReorderQuantity(tt.avgUsage, tt.leadTime, tt.currentStock, tt.safetyFactor)
			if got != tt.want {
				t.Errorf("ReorderQuantity() = %d, want %d", got, tt.want)
			}
			if got < 0 {
				t.Errorf("reorder quantity must never be negative, got %d", got)
			}
		})
	}
}
