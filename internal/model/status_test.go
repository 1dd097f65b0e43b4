package model

import "testing"

func TestParseOrderType(t *testing.T) {
	cases := []struct {
		raw  string
		want OrderType
		ok   bool
	}{
		{"Serviço", OrderTypeMaintenance, true},
		{"servico", OrderTypeMaintenance, true},
		{"Manutenção", OrderTypeMaintenance, true},
		{" maintenance ", OrderTypeMaintenance, true},
		{"Venda", OrderTypeSale, true},
		{"SALE", OrderTypeSale, true},
		{"all", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseOrderType(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseOrderType(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPrefix(t *testing.T) {
	if OrderTypeMaintenance.Prefix() != "OS" {
		t.Errorf("maintenance prefix = %q", OrderTypeMaintenance.Prefix())
	}
	if OrderTypeSale.Prefix() != "VENDA" {
		t.Errorf("sale prefix = %q", OrderTypeSale.Prefix())
	}
}

func TestMaintenanceTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusAwaitingEvaluation, StatusAwaitingApproval, true},
		{StatusAwaitingApproval, StatusAwaitingParts, true},
		{StatusAwaitingParts, StatusInRepair, true},
		{StatusInRepair, StatusRepairCompleted, true},
		{StatusRepairCompleted, StatusDelivered, true},
		{StatusAwaitingEvaluation, StatusNotApproved, true},
		{StatusInRepair, StatusNotApproved, true},
		{StatusRepairCompleted, StatusNotApproved, false},
		{StatusDelivered, StatusNotApproved, false},
		{StatusAwaitingEvaluation, StatusInRepair, false},
		{StatusDelivered, StatusAwaitingEvaluation, false},
		{StatusNotApproved, StatusAwaitingEvaluation, false},
		{StatusInRepair, StatusInRepair, true},
		{StatusAwaitingEvaluation, StatusReserved, false},
	}
	for _, tc := range cases {
		if got := OrderTypeMaintenance.CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("maintenance %q -> %q = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestSaleTransitionsAreLinear(t *testing.T) {
	statuses := OrderTypeSale.Statuses()
	for i := 0; i < len(statuses)-1; i++ {
		if !OrderTypeSale.CanTransition(statuses[i], statuses[i+1]) {
			t.Errorf("expected %q -> %q", statuses[i], statuses[i+1])
		}
		for j := i + 2; j < len(statuses); j++ {
			if OrderTypeSale.CanTransition(statuses[i], statuses[j]) {
				t.Errorf("unexpected skip %q -> %q", statuses[i], statuses[j])
			}
		}
		if i > 0 && OrderTypeSale.CanTransition(statuses[i], statuses[i-1]) {
			t.Errorf("unexpected backwards %q -> %q", statuses[i], statuses[i-1])
		}
	}
	if OrderTypeSale.CanTransition(StatusReserved, StatusNotApproved) {
		t.Error("sale orders have no cancellation state")
	}
}

func TestStatusSetsAreDisjoint(t *testing.T) {
	for _, s := range OrderTypeMaintenance.Statuses() {
		if OrderTypeSale.HasStatus(s) {
			t.Errorf("status %q belongs to both types", s)
		}
	}
}

func TestEveryStatusHasAStage(t *testing.T) {
	for _, typ := range OrderTypes {
		for _, s := range typ.Statuses() {
			if StageOf(s) == "" {
				t.Errorf("status %q has no stage", s)
			}
		}
	}
	if StageOf(OrderTypeMaintenance.InitialStatus()) != StagePending {
		t.Error("new maintenance orders must be pending")
	}
	if StageOf(OrderTypeSale.InitialStatus()) != StagePending {
		t.Error("new sale orders must be pending")
	}
}

func TestStatusesReturnsCopy(t *testing.T) {
	got := OrderTypeSale.Statuses()
	got[0] = "mutated"
	if OrderTypeSale.Statuses()[0] != StatusReserved {
		t.Error("Statuses leaked its backing array")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"Em Reparo", StatusInRepair, true},
		{" em reparo ", StatusInRepair, true},
		{"RESERVADO", StatusReserved, true},
		{"Desconhecido", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
