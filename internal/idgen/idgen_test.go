package idgen

import (
	"context"
	"errors"
	"testing"

	"github.com/nurpe/icontrol-orders/internal/model"
)

type counterSequence map[model.OrderType]int64

func (c counterSequence) NextSequence(_ context.Context, orderType model.OrderType) (int64, error) {
	c[orderType]++
	return c[orderType], nil
}

type failingSequence struct{}

func (failingSequence) NextSequence(context.Context, model.OrderType) (int64, error) {
	return 0, errors.New("boom")
}

func TestNextProducesSequentialPaddedIDs(t *testing.T) {
	gen := New(counterSequence{})
	want := []string{"OS-001", "OS-002", "OS-003"}
	for _, w := range want {
		got, err := gen.Next(context.Background(), model.OrderTypeMaintenance)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != w {
			t.Fatalf("got %q, want %q", got, w)
		}
	}
	sale, err := gen.Next(context.Background(), model.OrderTypeSale)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if sale != "VENDA-001" {
		t.Fatalf("sale counter must be independent, got %q", sale)
	}
}

func TestNextRejectsUnknownType(t *testing.T) {
	if _, err := New(counterSequence{}).Next(context.Background(), "Troca"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestNextWrapsSequenceError(t *testing.T) {
	if _, err := New(failingSequence{}).Next(context.Background(), model.OrderTypeSale); err == nil {
		t.Fatal("expected error")
	}
}

func TestFormatWidensPastThreeDigits(t *testing.T) {
	if got := Format(model.OrderTypeSale, 1234); got != "VENDA-1234" {
		t.Fatalf("got %q", got)
	}
}

func TestParse(t *testing.T) {
	orderType, n, ok := Parse("VENDA-012")
	if !ok || orderType != model.OrderTypeSale || n != 12 {
		t.Fatalf("Parse = %q, %d, %v", orderType, n, ok)
	}
	for _, bad := range []string{"", "OS", "OS-abc", "XX-001", "OS-000"} {
		if _, _, ok := Parse(bad); ok {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}
