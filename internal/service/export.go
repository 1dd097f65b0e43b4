package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nurpe/icontrol-orders/internal/filter"
	"github.com/nurpe/icontrol-orders/internal/model"
)

type ExcelGenerator interface {
	Generate(orders []model.Order, summary model.Summary) ([]byte, error)
}

type ReceiptGenerator interface {
	Generate(order model.Order) ([]byte, error)
}

type FileResult struct {
	FileName string
	Content  []byte
}

// ExportOrders renders the orders matching criteria as an xlsx workbook.
func (s *OrderService) ExportOrders(ctx context.Context, criteria filter.Criteria) (*FileResult, error) {
	if s.excel == nil {
		return nil, fmt.Errorf("excel export is not configured")
	}
	orders, err := s.ListOrders(ctx, criteria)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(orders, *summarize(orders))
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName: fmt.Sprintf("ordens-%s.xlsx", s.now().Format("20060102-150405")),
		Content:  content,
	}, nil
}

func (s *OrderService) OrderReceipt(ctx context.Context, id string) (*FileResult, error) {
	if s.receipts == nil {
		return nil, fmt.Errorf("receipt generation is not configured")
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.receipts.Generate(*order)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName: fmt.Sprintf("recibo-%s.pdf", sanitizeFileName(order.ID)),
		Content:  content,
	}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
