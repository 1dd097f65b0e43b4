package idgen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nurpe/icontrol-orders/internal/model"
)

// Sequence hands out a persisted, strictly increasing counter per order type.
type Sequence interface {
	NextSequence(ctx context.Context, orderType model.OrderType) (int64, error)
}

type Generator struct {
	seq Sequence
}

func New(seq Sequence) *Generator {
	return &Generator{seq: seq}
}

// Next reserves the next id for orderType, e.g. "OS-004".
func (g *Generator) Next(ctx context.Context, orderType model.OrderType) (string, error) {
	if !orderType.Valid() {
		return "", fmt.Errorf("unknown order type %q", orderType)
	}
	n, err := g.seq.NextSequence(ctx, orderType)
	if err != nil {
		return "", fmt.Errorf("next sequence for %s: %w", orderType, err)
	}
	return Format(orderType, n), nil
}

func Format(orderType model.OrderType, n int64) string {
	return fmt.Sprintf("%s-%03d", orderType.Prefix(), n)
}

// Parse splits an id produced by Format back into its type and counter.
func Parse(id string) (model.OrderType, int64, bool) {
	prefix, counter, ok := strings.Cut(id, "-")
	if !ok {
		return "", 0, false
	}
	n, err := strconv.ParseInt(counter, 10, 64)
	if err != nil || n <= 0 {
		return "", 0, false
	}
	for _, orderType := range model.OrderTypes {
		if orderType.Prefix() == prefix {
			return orderType, n, true
		}
	}
	return "", 0, false
}
