/*
Package sqlite provides the SQLite-backed data-access layer for the P/L engine.

PURPOSE:
  Persists the master data (monthly rates, model master, holiday master)
  and the daily records (expense and production) that the dashboard is
  computed from, and pre-fetches a whole month for the pipeline through
  LoadMonth (pl.Source).

KEY TABLES:
  monthly_rates:      One row per (year, month) of unit prices
  model_master:       Per-unit added value by (name, code), insertion order kept
  holidays:           Holiday master, one entry per date
  expense_records:    One expense record per date
  production_records: Any number of line/model results per date

DECIMALS:
  All amounts are stored as TEXT and read back with generic.DecimalOrZero,
  so an unreadable cell behaves like a blank one (zero).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Writers take the write lock, readers
  the read lock; the pipeline itself never touches the database.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so dashboard reads do not
  block behind an import.

USAGE:
  store, err := sqlite.New("./data/pl.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  in, err := store.LoadMonth(ctx, 2025, time.March)
  res, err := pl.NewPipeline(logger).Run(in)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - pl/source.go: Source interface
  - store/memory: In-memory implementation for tests
  - factory/dataset.go: JSON dataset parsed by ImportDataset callers
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/factory"
	"github.com/warp/pl-engine/generic"
	"github.com/warp/pl-engine/pl"
)

// Store persists P/L inputs in SQLite and implements pl.Source.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ pl.Source = (*Store)(nil)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every new connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS monthly_rates (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		inside_unit_rate TEXT NOT NULL DEFAULT '0',
		outside_unit_rate TEXT NOT NULL DEFAULT '0',
		direct_rate TEXT NOT NULL DEFAULT '0',
		dispatch_rate TEXT NOT NULL DEFAULT '0',
		indirect_rate TEXT NOT NULL DEFAULT '0',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (year, month)
	);

	CREATE TABLE IF NOT EXISTS model_master (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		code TEXT NOT NULL DEFAULT '',
		unit_added_value TEXT NOT NULL DEFAULT '0',
		UNIQUE (name, code)
	);

	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		holiday_type TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS expense_records (
		date TEXT PRIMARY KEY,
		direct_personnel TEXT NOT NULL DEFAULT '0',
		temporary_employees TEXT NOT NULL DEFAULT '0',
		indirect_personnel TEXT NOT NULL DEFAULT '0',
		labor_costs TEXT NOT NULL DEFAULT '0',
		indirect_material_costs TEXT NOT NULL DEFAULT '0',
		other_indirect_material_costs TEXT NOT NULL DEFAULT '0',
		night_shift_allowance TEXT NOT NULL DEFAULT '0',
		total_sub_cost TEXT NOT NULL DEFAULT '0',
		inside_overtime_cost TEXT NOT NULL DEFAULT '0',
		outside_overtime_cost TEXT NOT NULL DEFAULT '0',
		inside_holiday_expenses TEXT NOT NULL DEFAULT '0',
		outside_holiday_expenses TEXT NOT NULL DEFAULT '0',
		indirect_overtime_hours TEXT NOT NULL DEFAULT '0',
		indirect_holiday_work_hours TEXT NOT NULL DEFAULT '0',
		other_added_value TEXT NOT NULL DEFAULT '0'
	);

	CREATE TABLE IF NOT EXISTS production_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		line TEXT NOT NULL DEFAULT '',
		model_name TEXT NOT NULL DEFAULT '',
		model_code TEXT NOT NULL DEFAULT '',
		actual_number TEXT NOT NULL DEFAULT '0',
		added_value TEXT,
		inside_time TEXT NOT NULL DEFAULT '0',
		outside_time TEXT NOT NULL DEFAULT '0',
		inside_overtime TEXT NOT NULL DEFAULT '0',
		outside_overtime TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_production_date
		ON production_records(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MONTHLY RATES
// =============================================================================

// SaveMonthlyRates inserts or replaces the rates for r.Year/r.Month.
func (s *Store) SaveMonthlyRates(ctx context.Context, r pl.MonthlyRates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveRates(ctx, s.db, r)
}

func saveRates(ctx context.Context, db execer, r pl.MonthlyRates) error {
	if r.Month < time.January || r.Month > time.December {
		return fmt.Errorf("%w: month %d", generic.ErrInvalidPeriod, r.Month)
	}
	query := `
		INSERT INTO monthly_rates
		(year, month, inside_unit_rate, outside_unit_rate, direct_rate, dispatch_rate, indirect_rate, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET
			inside_unit_rate = excluded.inside_unit_rate,
			outside_unit_rate = excluded.outside_unit_rate,
			direct_rate = excluded.direct_rate,
			dispatch_rate = excluded.dispatch_rate,
			indirect_rate = excluded.indirect_rate,
			updated_at = excluded.updated_at
	`
	_, err := db.ExecContext(ctx, query,
		r.Year, int(r.Month),
		r.InsideUnitRate.String(),
		r.OutsideUnitRate.String(),
		r.DirectRate.String(),
		r.DispatchRate.String(),
		r.IndirectRate.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save monthly rates: %w", err)
	}
	return nil
}

// GetMonthlyRates returns the stored rates, or generic.ErrRatesNotFound.
func (s *Store) GetMonthlyRates(ctx context.Context, year int, month time.Month) (pl.MonthlyRates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRates(ctx, s.db, year, month)
}

func getRates(ctx context.Context, db querier, year int, month time.Month) (pl.MonthlyRates, error) {
	var inside, outside, direct, dispatch, indirect string
	err := db.QueryRowContext(ctx, `
		SELECT inside_unit_rate, outside_unit_rate, direct_rate, dispatch_rate, indirect_rate
		FROM monthly_rates WHERE year = ? AND month = ?`,
		year, int(month),
	).Scan(&inside, &outside, &direct, &dispatch, &indirect)

	if errors.Is(err, sql.ErrNoRows) {
		return pl.MonthlyRates{Year: year, Month: month}, generic.ErrRatesNotFound
	}
	if err != nil {
		return pl.MonthlyRates{}, err
	}

	return pl.MonthlyRates{
		Year:            year,
		Month:           month,
		InsideUnitRate:  generic.DecimalOrZero(inside),
		OutsideUnitRate: generic.DecimalOrZero(outside),
		DirectRate:      generic.DecimalOrZero(direct),
		DispatchRate:    generic.DecimalOrZero(dispatch),
		IndirectRate:    generic.DecimalOrZero(indirect),
	}, nil
}

// =============================================================================
// MODEL MASTER
// =============================================================================

// SaveModel inserts a model or updates the unit value of an existing
// (name, code) pair. Updates keep the original position in the list.
func (s *Store) SaveModel(ctx context.Context, m pl.ModelMaster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveModel(ctx, s.db, m)
}

func saveModel(ctx context.Context, db execer, m pl.ModelMaster) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: model without a name", generic.ErrInvalidDataset)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO model_master (name, code, unit_added_value)
		VALUES (?, ?, ?)
		ON CONFLICT(name, code) DO UPDATE SET
			unit_added_value = excluded.unit_added_value`,
		m.Name, m.Code, m.UnitAddedValue.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save model %q: %w", m.Name, err)
	}
	return nil
}

// ListModels returns the model master in insertion order.
func (s *Store) ListModels(ctx context.Context) ([]pl.ModelMaster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listModels(ctx, s.db)
}

func listModels(ctx context.Context, db querier) ([]pl.ModelMaster, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, code, unit_added_value FROM model_master ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []pl.ModelMaster
	for rows.Next() {
		var m pl.ModelMaster
		var unit string
		if err := rows.Scan(&m.Name, &m.Code, &unit); err != nil {
			return nil, err
		}
		m.UnitAddedValue = generic.DecimalOrZero(unit)
		models = append(models, m)
	}
	return models, rows.Err()
}

// =============================================================================
// HOLIDAY MASTER
// =============================================================================

// SaveHoliday inserts or replaces the entry for h.Date.
func (s *Store) SaveHoliday(ctx context.Context, h pl.HolidayEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveHoliday(ctx, s.db, h)
}

func saveHoliday(ctx context.Context, db execer, h pl.HolidayEntry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO holidays (date, holiday_type, name)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			holiday_type = excluded.holiday_type,
			name = excluded.name`,
		h.Date.String(), string(h.Type), h.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to save holiday %s: %w", h.Date, err)
	}
	return nil
}

// DeleteHoliday removes the entry for date. Deleting a missing date is not an error.
func (s *Store) DeleteHoliday(ctx context.Context, date generic.TimePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE date = ?", date.String())
	return err
}

// ListHolidays returns the entries inside p, ascending.
func (s *Store) ListHolidays(ctx context.Context, p generic.Period) ([]pl.HolidayEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listHolidays(ctx, s.db, p)
}

func listHolidays(ctx context.Context, db querier, p generic.Period) ([]pl.HolidayEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, holiday_type, name FROM holidays
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC`,
		p.Start.String(), p.End.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []pl.HolidayEntry
	for rows.Next() {
		var h pl.HolidayEntry
		var dateStr, typ string
		if err := rows.Scan(&dateStr, &typ, &h.Name); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(dateStr); err != nil {
			return nil, err
		}
		h.Type = pl.HolidayType(typ)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// EXPENSE RECORDS
// =============================================================================

// SaveExpenseRecord inserts or replaces the record for e.Date.
func (s *Store) SaveExpenseRecord(ctx context.Context, e pl.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveExpense(ctx, s.db, e)
}

func saveExpense(ctx context.Context, db execer, e pl.ExpenseRecord) error {
	query := `
		INSERT OR REPLACE INTO expense_records
		(date, direct_personnel, temporary_employees, indirect_personnel,
		 labor_costs, indirect_material_costs, other_indirect_material_costs,
		 night_shift_allowance, total_sub_cost, inside_overtime_cost, outside_overtime_cost,
		 inside_holiday_expenses, outside_holiday_expenses,
		 indirect_overtime_hours, indirect_holiday_work_hours, other_added_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		e.Date.String(),
		e.DirectPersonnel.String(),
		e.TemporaryEmployees.String(),
		e.IndirectPersonnel.String(),
		e.LaborCosts.String(),
		e.IndirectMaterialCosts.String(),
		e.OtherIndirectMaterialCosts.String(),
		e.NightShiftAllowance.String(),
		e.TotalSubCost.String(),
		e.InsideOvertimeCost.String(),
		e.OutsideOvertimeCost.String(),
		e.InsideHolidayExpenses.String(),
		e.OutsideHolidayExpenses.String(),
		e.IndirectOvertimeHours.String(),
		e.IndirectHolidayWorkHours.String(),
		e.OtherAddedValue.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save expense record %s: %w", e.Date, err)
	}
	return nil
}

// ListExpenseRecords returns the records inside p, ascending.
func (s *Store) ListExpenseRecords(ctx context.Context, p generic.Period) ([]pl.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listExpenses(ctx, s.db, p)
}

func listExpenses(ctx context.Context, db querier, p generic.Period) ([]pl.ExpenseRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, direct_personnel, temporary_employees, indirect_personnel,
		       labor_costs, indirect_material_costs, other_indirect_material_costs,
		       night_shift_allowance, total_sub_cost, inside_overtime_cost, outside_overtime_cost,
		       inside_holiday_expenses, outside_holiday_expenses,
		       indirect_overtime_hours, indirect_holiday_work_hours, other_added_value
		FROM expense_records
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC`,
		p.Start.String(), p.End.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []pl.ExpenseRecord
	for rows.Next() {
		var dateStr string
		var f [15]string
		dest := []any{&dateStr}
		for i := range f {
			dest = append(dest, &f[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		d, err := generic.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		records = append(records, pl.ExpenseRecord{
			Date:                       d,
			DirectPersonnel:            generic.DecimalOrZero(f[0]),
			TemporaryEmployees:         generic.DecimalOrZero(f[1]),
			IndirectPersonnel:          generic.DecimalOrZero(f[2]),
			LaborCosts:                 generic.DecimalOrZero(f[3]),
			IndirectMaterialCosts:      generic.DecimalOrZero(f[4]),
			OtherIndirectMaterialCosts: generic.DecimalOrZero(f[5]),
			NightShiftAllowance:        generic.DecimalOrZero(f[6]),
			TotalSubCost:               generic.DecimalOrZero(f[7]),
			InsideOvertimeCost:         generic.DecimalOrZero(f[8]),
			OutsideOvertimeCost:        generic.DecimalOrZero(f[9]),
			InsideHolidayExpenses:      generic.DecimalOrZero(f[10]),
			OutsideHolidayExpenses:     generic.DecimalOrZero(f[11]),
			IndirectOvertimeHours:      generic.DecimalOrZero(f[12]),
			IndirectHolidayWorkHours:   generic.DecimalOrZero(f[13]),
			OtherAddedValue:            generic.DecimalOrZero(f[14]),
		})
	}
	return records, rows.Err()
}

// =============================================================================
// PRODUCTION RECORDS
// =============================================================================

// SaveProductionRecord appends a production record and returns its row ID.
func (s *Store) SaveProductionRecord(ctx context.Context, p pl.ProductionRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveProduction(ctx, s.db, p)
}

func saveProduction(ctx context.Context, db execer, p pl.ProductionRecord) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO production_records
		(date, line, model_name, model_code, actual_number, added_value,
		 inside_time, outside_time, inside_overtime, outside_overtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Date.String(), p.Line, p.ModelName, p.ModelCode,
		p.ActualNumber.String(),
		nullDecimal(p.AddedValueOverride),
		p.InsideTime.String(),
		p.OutsideTime.String(),
		p.InsideOvertime.String(),
		p.OutsideOvertime.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save production record %s/%s: %w", p.Date, p.Line, err)
	}
	return res.LastInsertId()
}

// ListProductionRecords returns the records inside p, by date then insertion order.
func (s *Store) ListProductionRecords(ctx context.Context, p generic.Period) ([]pl.ProductionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listProduction(ctx, s.db, p)
}

func listProduction(ctx context.Context, db querier, p generic.Period) ([]pl.ProductionRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, line, model_name, model_code, actual_number, added_value,
		       inside_time, outside_time, inside_overtime, outside_overtime
		FROM production_records
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC, id ASC`,
		p.Start.String(), p.End.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []pl.ProductionRecord
	for rows.Next() {
		var r pl.ProductionRecord
		var dateStr, actual, insideTime, outsideTime, insideOT, outsideOT string
		var addedValue sql.NullString
		if err := rows.Scan(&dateStr, &r.Line, &r.ModelName, &r.ModelCode, &actual, &addedValue,
			&insideTime, &outsideTime, &insideOT, &outsideOT); err != nil {
			return nil, err
		}
		if r.Date, err = generic.ParseDate(dateStr); err != nil {
			return nil, err
		}
		r.ActualNumber = generic.DecimalOrZero(actual)
		if addedValue.Valid {
			v := generic.DecimalOrZero(addedValue.String)
			r.AddedValueOverride = &v
		}
		r.InsideTime = generic.DecimalOrZero(insideTime)
		r.OutsideTime = generic.DecimalOrZero(outsideTime)
		r.InsideOvertime = generic.DecimalOrZero(insideOT)
		r.OutsideOvertime = generic.DecimalOrZero(outsideOT)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// MONTH LOADING (pl.Source)
// =============================================================================

// LoadMonth reads everything the pipeline needs for one month under a single
// read lock. Missing rates become zero rates.
func (s *Store) LoadMonth(ctx context.Context, year int, month time.Month) (pl.Input, error) {
	if month < time.January || month > time.December {
		return pl.Input{}, fmt.Errorf("%w: month %d", generic.ErrInvalidPeriod, month)
	}
	period := generic.MonthPeriod(year, month)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rates, err := getRates(ctx, s.db, year, month)
	if err != nil && !errors.Is(err, generic.ErrRatesNotFound) {
		return pl.Input{}, err
	}
	models, err := listModels(ctx, s.db)
	if err != nil {
		return pl.Input{}, err
	}
	holidays, err := listHolidays(ctx, s.db, period)
	if err != nil {
		return pl.Input{}, err
	}
	expenses, err := listExpenses(ctx, s.db, period)
	if err != nil {
		return pl.Input{}, err
	}
	production, err := listProduction(ctx, s.db, period)
	if err != nil {
		return pl.Input{}, err
	}

	return pl.Input{
		Rates:      rates,
		Expenses:   expenses,
		Production: production,
		Holidays:   holidays,
		Models:     models,
		Dates:      period.Days(),
	}, nil
}

// =============================================================================
// IMPORT AND RESET
// =============================================================================

// ImportDataset writes a parsed dataset atomically. Production records are
// appended; everything else is upserted by its key.
func (s *Store) ImportDataset(ctx context.Context, ds *factory.Dataset) (factory.ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res factory.ImportResult
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if ds.Rates != nil {
		if err := saveRates(ctx, sqlTx, *ds.Rates); err != nil {
			return factory.ImportResult{}, err
		}
		res.Rates = 1
	}
	for _, m := range ds.Models {
		if err := saveModel(ctx, sqlTx, m); err != nil {
			return factory.ImportResult{}, err
		}
		res.Models++
	}
	for _, h := range ds.Holidays {
		if err := saveHoliday(ctx, sqlTx, h); err != nil {
			return factory.ImportResult{}, err
		}
		res.Holidays++
	}
	for _, e := range ds.Expenses {
		if err := saveExpense(ctx, sqlTx, e); err != nil {
			return factory.ImportResult{}, err
		}
		res.Expenses++
	}
	for _, p := range ds.Production {
		if _, err := saveProduction(ctx, sqlTx, p); err != nil {
			return factory.ImportResult{}, err
		}
		res.Production++
	}

	if err := sqlTx.Commit(); err != nil {
		return factory.ImportResult{}, err
	}
	return res, nil
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"production_records", "expense_records", "holidays", "model_master", "monthly_rates"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}
