package shoppinglist

import (
	"context"
	"sort"

	"foodgram/internal/repository"

	"github.com/shopspring/decimal"
)

// Item is one aggregated row of the shopping list.
type Item struct {
	Name            string          `json:"name"`
	MeasurementUnit string          `json:"measurement_unit"`
	Total           decimal.Decimal `json:"total"`
}

type LineReader interface {
	CartLines(ctx context.Context, userID int64) ([]repository.CartLine, error)
}

type Service struct {
	lines LineReader
}

func NewService(lines LineReader) *Service {
	return &Service{lines: lines}
}

type groupKey struct {
	name string
	unit string
}

// Build sums the ingredient lines of every recipe in userID's cart, grouped
// by (name, measurement unit) and ordered by name then unit.
func (s *Service) Build(ctx context.Context, userID int64) ([]Item, error) {
	lines, err := s.lines.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := make(map[groupKey]decimal.Decimal, len(lines))
	for _, l := range lines {
		k := groupKey{name: l.Name, unit: l.MeasurementUnit}
		totals[k] = totals[k].Add(l.Amount)
	}

	items := make([]Item, 0, len(totals))
	for k, total := range totals {
		items = append(items, Item{Name: k.name, MeasurementUnit: k.unit, Total: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items, nil
}
