package services

import "testing"

func TestNeedsApproval(t *testing.T) {
	tests := []struct {
		name          string
		totalCost     float64
		marginPercent float64
		want          bool
	}{
		{name: "high cost healthy margin", totalCost: 10001, marginPercent: 15, want: true},
		{name: "low cost thin margin", totalCost: 9000, marginPercent: 9, want: true},
		{name: "below both thresholds", totalCost: 5000, marginPercent: 20, want: false},
		{name: "cost exactly at threshold", totalCost: 10000, marginPercent: 20, want: false},
		{name: "margin exactly at floor", totalCost: 5000, marginPercent: 10, want: false},
		{name: "both triggers fire", totalCost: 50000, marginPercent: 2, want: true},
		{name: "negative margin", totalCost: 100, marginPercent: -5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsApproval(tt.totalCost, tt.marginPercent); got != tt.want {
				t.Errorf("NeedsApproval(%v, %v) = %v, want %v", tt.totalCost, tt.marginPercent, got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusDraft, StatusPendingCosting, true},
		{StatusPendingCosting, StatusPendingApproval, true},
		{StatusPendingCosting, StatusSent, true},
		{StatusPendingApproval, StatusSent, true},
		{StatusPendingApproval, StatusDraft, true},
		{StatusSent, StatusWon, true},
		{StatusSent, StatusLost, true},
		{StatusSent, StatusCancelled, true},
		{StatusDraft, StatusSent, false},
		{StatusDraft, StatusPendingApproval, false},
		{StatusSent, StatusDraft, false},
		{StatusWon, StatusSent, false},
		{StatusLost, StatusDraft, false},
		{StatusCancelled, StatusWon, false},
		{StatusPendingApproval, StatusPendingCosting, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []string{StatusWon, StatusLost, StatusCancelled}
	for _, s := range terminal {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false, want true", s)
		}
	}
	open := []string{StatusDraft, StatusPendingCosting, StatusPendingApproval, StatusSent}
	for _, s := range open {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = true, want false", s)
		}
	}
}

func TestCanRecompute(t *testing.T) {
	allowed := []string{StatusDraft, StatusPendingCosting}
	for _, s := range allowed {
		if !CanRecompute(s) {
			t.Errorf("CanRecompute(%s) = false, want true", s)
		}
	}
	locked := []string{StatusPendingApproval, StatusSent, StatusWon, StatusLost, StatusCancelled}
	for _, s := range locked {
		if CanRecompute(s) {
			t.Errorf("CanRecompute(%s) = true, want false", s)
		}
	}
}
