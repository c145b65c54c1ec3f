package summary

import (
	"context"
	"sort"
	"time"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/entities"
	"github.com/shopspring/decimal"
)

// Service aggregates transactions per calendar month in the configured
// location. Sums are done on decimals in Go, not in SQL.
type Service interface {
	Overview(ctx context.Context, userID uint, year int) (dtos.Overview, error)
	Month(ctx context.Context, userID uint, year, month int) (dtos.MonthSummary, error)
}

type service struct {
	repository Repository
	loc        *time.Location
}

func NewService(r Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repository: r,
		loc:        loc,
	}
}

func validYear(year int) bool {
	return year >= 1900 && year <= 9999
}

func (s *service) Overview(ctx context.Context, userID uint, year int) (dtos.Overview, error) {
	if !validYear(year) {
		return dtos.Overview{}, apperr.Validation(constant.INVALID_YEAR)
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	txs, err := s.repository.Movements(ctx, userID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return dtos.Overview{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	out := dtos.Overview{
		Year:         year,
		Months:       make([]dtos.MonthTotals, 12),
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
	}
	for i := range out.Months {
		out.Months[i] = dtos.MonthTotals{Month: i + 1, Inflow: decimal.Zero, Outflow: decimal.Zero}
	}
	for _, tx := range txs {
		m := &out.Months[tx.OccurredAt.In(s.loc).Month()-1]
		switch tx.Direction {
		case entities.Inflow:
			m.Inflow = m.Inflow.Add(tx.Amount)
			out.TotalInflow = out.TotalInflow.Add(tx.Amount)
		case entities.Outflow:
			m.Outflow = m.Outflow.Add(tx.Amount)
			out.TotalOutflow = out.TotalOutflow.Add(tx.Amount)
		}
	}
	for i := range out.Months {
		out.Months[i].Balance = out.Months[i].Inflow.Sub(out.Months[i].Outflow)
	}
	out.Balance = out.TotalInflow.Sub(out.TotalOutflow)
	return out, nil
}

func (s *service) Month(ctx context.Context, userID uint, year, month int) (dtos.MonthSummary, error) {
	if !validYear(year) {
		return dtos.MonthSummary{}, apperr.Validation(constant.INVALID_YEAR)
	}
	if month < 1 || month > 12 {
		return dtos.MonthSummary{}, apperr.Validation(constant.INVALID_MONTH)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	txs, err := s.repository.Movements(ctx, userID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return dtos.MonthSummary{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	out := dtos.MonthSummary{
		Year:       year,
		Month:      month,
		Inflow:     decimal.Zero,
		Outflow:    decimal.Zero,
		Categories: []dtos.CategoryTotal{},
	}

	type key struct {
		id        uint
		direction entities.Direction
	}
	totals := map[key]decimal.Decimal{}
	var ids []uint
	for _, tx := range txs {
		switch tx.Direction {
		case entities.Inflow:
			out.Inflow = out.Inflow.Add(tx.Amount)
		case entities.Outflow:
			out.Outflow = out.Outflow.Add(tx.Amount)
		default:
			continue
		}
		k := key{tx.CategoryID, tx.Direction}
		if _, seen := totals[k]; !seen {
			totals[k] = decimal.Zero
			ids = append(ids, tx.CategoryID)
		}
		totals[k] = totals[k].Add(tx.Amount)
	}
	out.Balance = out.Inflow.Sub(out.Outflow)

	categories, err := s.repository.Categories(ctx, ids)
	if err != nil {
		return dtos.MonthSummary{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	for k, total := range totals {
		out.Categories = append(out.Categories, dtos.CategoryTotal{
			CategoryID: k.id,
			Name:       names[k.id],
			Direction:  k.direction,
			Total:      total,
		})
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		a, b := out.Categories[i], out.Categories[j]
		if a.Direction != b.Direction {
			return a.Direction == entities.Inflow
		}
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Name < b.Name
	})
	return out, nil
}
