// Package memory provides an in-memory store with the same surface as
// store/sqlite. cmd/server uses it for -db=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warp/pl-engine/factory"
	"github.com/warp/pl-engine/generic"
	"github.com/warp/pl-engine/pl"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	rates      map[rateKey]pl.MonthlyRates
	models     []pl.ModelMaster
	holidays   map[string]pl.HolidayEntry
	expenses   map[string]pl.ExpenseRecord
	production []pl.ProductionRecord
}

type rateKey struct {
	year  int
	month time.Month
}

var _ pl.Source = (*Memory)(nil)

func New() *Memory {
	m := &Memory{}
	m.clear()
	return m
}

func (m *Memory) clear() {
	m.rates = make(map[rateKey]pl.MonthlyRates)
	m.models = nil
	m.holidays = make(map[string]pl.HolidayEntry)
	m.expenses = make(map[string]pl.ExpenseRecord)
	m.production = nil
}

func validMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d", generic.ErrInvalidPeriod, month)
	}
	return nil
}

// =============================================================================
// MASTER DATA
// =============================================================================

func (m *Memory) SaveMonthlyRates(_ context.Context, r pl.MonthlyRates) error {
	if err := validMonth(r.Month); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[rateKey{r.Year, r.Month}] = r
	return nil
}

// GetMonthlyRates returns generic.ErrRatesNotFound when the month has no rates.
func (m *Memory) GetMonthlyRates(_ context.Context, year int, month time.Month) (pl.MonthlyRates, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rates[rateKey{year, month}]
	if !ok {
		return pl.MonthlyRates{}, fmt.Errorf("%w: %04d-%02d", generic.ErrRatesNotFound, year, int(month))
	}
	return r, nil
}

// SaveModel upserts on (name, code). Updates keep the position in the list.
func (m *Memory) SaveModel(_ context.Context, mm pl.ModelMaster) error {
	if strings.TrimSpace(mm.Name) == "" {
		return fmt.Errorf("%w: model without a name", generic.ErrInvalidDataset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveModelLocked(mm)
	return nil
}

func (m *Memory) saveModelLocked(mm pl.ModelMaster) {
	for i := range m.models {
		if m.models[i].Name == mm.Name && m.models[i].Code == mm.Code {
			m.models[i].UnitAddedValue = mm.UnitAddedValue
			return
		}
	}
	m.models = append(m.models, mm)
}

func (m *Memory) SaveHoliday(_ context.Context, h pl.HolidayEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.Date.Key()] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, date generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holidays, date.Key())
	return nil
}

// ListHolidays returns the entries inside p, ascending.
func (m *Memory) ListHolidays(_ context.Context, p generic.Period) ([]pl.HolidayEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.holidaysIn(p), nil
}

func (m *Memory) holidaysIn(p generic.Period) []pl.HolidayEntry {
	var out []pl.HolidayEntry
	for _, h := range m.holidays {
		if p.Contains(h.Date) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// =============================================================================
// RECORDS
// =============================================================================

// SaveExpenseRecord replaces any record with the same date.
func (m *Memory) SaveExpenseRecord(_ context.Context, e pl.ExpenseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[e.Date.Key()] = e
	return nil
}

func (m *Memory) SaveProductionRecord(_ context.Context, p pl.ProductionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.production = append(m.production, p)
	return nil
}

// LoadMonth returns copies of the month's data. Missing rates are zero.
func (m *Memory) LoadMonth(_ context.Context, year int, month time.Month) (pl.Input, error) {
	if err := validMonth(month); err != nil {
		return pl.Input{}, err
	}
	period := generic.MonthPeriod(year, month)

	m.mu.RLock()
	defer m.mu.RUnlock()

	rates, ok := m.rates[rateKey{year, month}]
	if !ok {
		rates = pl.MonthlyRates{Year: year, Month: month}
	}

	in := pl.Input{
		Rates:    rates,
		Models:   append([]pl.ModelMaster(nil), m.models...),
		Holidays: m.holidaysIn(period),
		Dates:    period.Days(),
	}
	for _, e := range m.expenses {
		if period.Contains(e.Date) {
			in.Expenses = append(in.Expenses, e)
		}
	}
	in.Production = pl.FilterMonth(m.production, year, month, func(p pl.ProductionRecord) generic.TimePoint { return p.Date })

	sort.Slice(in.Expenses, func(i, j int) bool { return in.Expenses[i].Date.Before(in.Expenses[j].Date) })
	sort.SliceStable(in.Production, func(i, j int) bool { return in.Production[i].Date.Before(in.Production[j].Date) })
	return in, nil
}

// =============================================================================
// IMPORT AND RESET
// =============================================================================

// ImportDataset adds everything in ds. Rates, holidays and expenses replace
// any entry with the same key; models replace on (name, code); production is
// appended. Nothing is written when ds fails validation.
func (m *Memory) ImportDataset(_ context.Context, ds *factory.Dataset) (factory.ImportResult, error) {
	if ds.Rates != nil {
		if err := validMonth(ds.Rates.Month); err != nil {
			return factory.ImportResult{}, err
		}
	}
	for _, mm := range ds.Models {
		if strings.TrimSpace(mm.Name) == "" {
			return factory.ImportResult{}, fmt.Errorf("%w: model without a name", generic.ErrInvalidDataset)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var res factory.ImportResult
	if ds.Rates != nil {
		m.rates[rateKey{ds.Rates.Year, ds.Rates.Month}] = *ds.Rates
		res.Rates = 1
	}
	for _, mm := range ds.Models {
		m.saveModelLocked(mm)
	}
	for _, h := range ds.Holidays {
		m.holidays[h.Date.Key()] = h
	}
	for _, e := range ds.Expenses {
		m.expenses[e.Date.Key()] = e
	}
	m.production = append(m.production, ds.Production...)

	res.Models = len(ds.Models)
	res.Holidays = len(ds.Holidays)
	res.Expenses = len(ds.Expenses)
	res.Production = len(ds.Production)
	return res, nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
	return nil
}
