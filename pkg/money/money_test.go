package money

import "testing"

func TestPence(t *testing.T) {
	tests := []struct {
		name   string
		pounds float64
		want   int64
	}{
		{"whole pounds", 25.00, 2500},
		{"pounds and pence", 25.50, 2550},
		{"single penny", 0.01, 1},
		{"rounds up from half", 0.015, 2},
		{"rounds sub-penny down", 0.004, 0},
		{"rounds sub-penny up", 0.009, 1},
		{"zero", 0, 0},
		{"float noise", 19.99, 1999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pence(tt.pounds); got != tt.want {
				t.Errorf("Pence(%v) = %d, want %d", tt.pounds, got, tt.want)
			}
		})
	}
}

func TestPounds(t *testing.T) {
	tests := []struct {
		name  string
		pence int64
		want  float64
	}{
		{"whole pounds", 2500, 25.00},
		{"pounds and pence", 7550, 75.50},
		{"single penny", 1, 0.01},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pounds(tt.pence); got != tt.want {
				t.Errorf("Pounds(%d) = %v, want %v", tt.pence, got, tt.want)
			}
		})
	}
}

func TestPenceRoundTrip(t *testing.T) {
	for _, pence := range []int64{0, 1, 99, 100, 2550, 1_000_000_00} {
		if got := Pence(Pounds(pence)); got != pence {
			t.Errorf("round trip of %d pence gave %d", pence, got)
		}
	}
}
