package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pl-engine/factory"
	"github.com/warp/pl-engine/generic"
	"github.com/warp/pl-engine/pl"
	"github.com/warp/pl-engine/store/memory"
)

func TestMemory_LoadMonthFiltersAndSorts(t *testing.T) {
	// GIVEN: Records spread over two months, saved out of order
	m := memory.New()
	ctx := context.Background()
	require.NoError(t, m.SaveProductionRecord(ctx, pl.ProductionRecord{Date: generic.MustDate("2025-03-10"), Line: "late"}))
	require.NoError(t, m.SaveProductionRecord(ctx, pl.ProductionRecord{Date: generic.MustDate("2025-04-01"), Line: "april"}))
	require.NoError(t, m.SaveProductionRecord(ctx, pl.ProductionRecord{Date: generic.MustDate("2025-03-02"), Line: "early"}))
	require.NoError(t, m.SaveExpenseRecord(ctx, pl.ExpenseRecord{Date: generic.MustDate("2025-03-10")}))
	require.NoError(t, m.SaveExpenseRecord(ctx, pl.ExpenseRecord{Date: generic.MustDate("2025-03-02")}))
	require.NoError(t, m.SaveHoliday(ctx, pl.HolidayEntry{Date: generic.MustDate("2025-03-20"), Type: pl.HolidayLegal}))

	// WHEN
	in, err := m.LoadMonth(ctx, 2025, time.March)
	require.NoError(t, err)

	// THEN
	require.Len(t, in.Production, 2)
	assert.Equal(t, "early", in.Production[0].Line)
	assert.Equal(t, "late", in.Production[1].Line)
	require.Len(t, in.Expenses, 2)
	assert.Equal(t, "2025-03-02", in.Expenses[0].Date.String())
	assert.Len(t, in.Holidays, 1)
	assert.Len(t, in.Dates, 31)
	assert.True(t, in.Rates.DirectRate.IsZero())
}

func TestMemory_ModelsUpsertInPlace(t *testing.T) {
	m := memory.New()
	ctx := context.Background()
	require.NoError(t, m.SaveModel(ctx, pl.ModelMaster{Name: "A", UnitAddedValue: generic.DecInt(1)}))
	require.NoError(t, m.SaveModel(ctx, pl.ModelMaster{Name: "B", UnitAddedValue: generic.DecInt(2)}))
	require.NoError(t, m.SaveModel(ctx, pl.ModelMaster{Name: "A", UnitAddedValue: generic.DecInt(3)}))

	in, err := m.LoadMonth(ctx, 2025, time.January)
	require.NoError(t, err)
	require.Len(t, in.Models, 2)
	assert.Equal(t, "A", in.Models[0].Name)
	assert.Equal(t, "3", in.Models[0].UnitAddedValue.String())
}

func TestMemory_MatchesPipelineOverScenario(t *testing.T) {
	ds, err := factory.BuildScenario("holiday-month")
	require.NoError(t, err)
	m := memory.New()
	_, err = m.ImportDataset(context.Background(), ds)
	require.NoError(t, err)

	res, err := pl.NewPipeline(nil).RunMonth(context.Background(), m, 2025, time.May)
	require.NoError(t, err)
	assert.Len(t, res.Revenue, 31)

	require.NoError(t, m.Reset(context.Background()))
	in, err := m.LoadMonth(context.Background(), 2025, time.May)
	require.NoError(t, err)
	assert.Empty(t, in.Production)
}

func TestMemory_RejectsInvalidMonth(t *testing.T) {
	m := memory.New()
	_, err := m.LoadMonth(context.Background(), 2025, 0)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	assert.ErrorIs(t, m.SaveMonthlyRates(context.Background(), pl.MonthlyRates{Month: 13}), generic.ErrInvalidPeriod)
}

func TestMemory_RatesAndHolidays(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	// GIVEN: No rates stored
	_, err := m.GetMonthlyRates(ctx, 2025, time.May)
	assert.ErrorIs(t, err, generic.ErrRatesNotFound)

	// WHEN: Rates and holidays are saved
	require.NoError(t, m.SaveMonthlyRates(ctx, pl.MonthlyRates{Year: 2025, Month: time.May, DirectRate: generic.DecInt(2800)}))
	require.NoError(t, m.SaveHoliday(ctx, pl.HolidayEntry{Date: generic.MustDate("2025-05-10"), Type: pl.HolidayScheduled}))
	require.NoError(t, m.SaveHoliday(ctx, pl.HolidayEntry{Date: generic.MustDate("2025-05-03"), Type: pl.HolidayLegal}))
	require.NoError(t, m.SaveHoliday(ctx, pl.HolidayEntry{Date: generic.MustDate("2025-06-01"), Type: pl.HolidayLegal}))

	// THEN
	r, err := m.GetMonthlyRates(ctx, 2025, time.May)
	require.NoError(t, err)
	assert.Equal(t, "2800", r.DirectRate.String())

	may, err := m.ListHolidays(ctx, generic.MonthPeriod(2025, time.May))
	require.NoError(t, err)
	require.Len(t, may, 2)
	assert.Equal(t, "2025-05-03", may[0].Date.String())

	require.NoError(t, m.DeleteHoliday(ctx, generic.MustDate("2025-05-03")))
	may, err = m.ListHolidays(ctx, generic.MonthPeriod(2025, time.May))
	require.NoError(t, err)
	require.Len(t, may, 1)
	assert.Equal(t, pl.HolidayScheduled, may[0].Type)
}

func TestMemory_ImportDatasetIsAtomic(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	// GIVEN: A dataset whose last model is invalid
	ds := &factory.Dataset{
		Holidays: []pl.HolidayEntry{{Date: generic.MustDate("2025-03-20"), Type: pl.HolidayLegal}},
		Models:   []pl.ModelMaster{{Name: "ok"}, {Name: ""}},
	}

	// WHEN
	_, err := m.ImportDataset(ctx, ds)

	// THEN: Nothing was written
	assert.ErrorIs(t, err, generic.ErrInvalidDataset)
	holidays, err := m.ListHolidays(ctx, generic.MonthPeriod(2025, time.March))
	require.NoError(t, err)
	assert.Empty(t, holidays)

	// A valid dataset reports its counts
	ds.Models = ds.Models[:1]
	res, err := m.ImportDataset(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, factory.ImportResult{Models: 1, Holidays: 1}, res)
}
