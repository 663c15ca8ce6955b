package pl

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/warp/pl-engine/generic"
)

// Input is everything one dashboard run needs, already fetched.
type Input struct {
	Rates      MonthlyRates
	Expenses   []ExpenseRecord
	Production []ProductionRecord
	Holidays   []HolidayEntry
	Models     []ModelMaster

	// Dates drives the cumulative pass and must be strictly ascending. When
	// empty, the distinct production dates are used.
	Dates []generic.TimePoint
}

// DailyProfit pairs a date's inputs with its computed breakdown.
type DailyProfit struct {
	Totals    DailyTotals
	Expense   ExpenseRecord
	HasRecord bool
	Breakdown ProfitBreakdown
}

// RecordIssue is a validation finding attached to one production record.
type RecordIssue struct {
	Date      generic.TimePoint
	Line      string
	ModelName string
	Errors    []string
	Warnings  []string
	Anomalies []string
}

// Result is the pipeline output handed to the rendering layer.
type Result struct {
	Records     []RecordMetrics
	DailyTotals []DailyTotals
	Profits     []DailyProfit
	Revenue     []RevenueAnalysisPoint
	Summary     MetricsSummary
	Issues      []RecordIssue
}

// Pipeline runs the aggregation end to end. The zero value is usable.
type Pipeline struct {
	Log        logrus.FieldLogger
	Thresholds *AnomalyThresholds
}

func NewPipeline(log logrus.FieldLogger) *Pipeline {
	return &Pipeline{Log: log}
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Log != nil {
		return p.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (p *Pipeline) thresholds() AnomalyThresholds {
	if p.Thresholds != nil {
		return *p.Thresholds
	}
	return DefaultAnomalyThresholds()
}

// Run computes per-record metrics, daily totals, the daily profit breakdown
// and the revenue analysis series. The only error is an unordered date list.
func (p *Pipeline) Run(in Input) (*Result, error) {
	log := p.logger()

	catalog := NewModelCatalog(in.Models)
	cal := NewCalendar(in.Holidays)

	log.WithFields(logrus.Fields{
		"models":     catalog.Len(),
		"production": len(in.Production),
		"expenses":   len(in.Expenses),
	}).Debug("pipeline run")

	records := CalculateRecords(in.Production, in.Rates, catalog)
	for _, m := range records {
		switch {
		case m.AddedValueSource == AddedValueDirect:
			log.WithFields(logrus.Fields{"date": m.Date.String(), "line": m.Line}).
				Debugf("added value set directly: %s", m.AddedValue.String())
		case m.MatchedModel == nil:
			log.WithFields(logrus.Fields{"date": m.Date.String(), "model": m.ModelName, "code": m.ModelCode}).
				Debug("no model master match, added value is 0")
		}
	}

	dates := in.Dates
	if len(dates) == 0 {
		dates = DistinctDates(records)
	}
	if err := generic.CheckAscending(dates); err != nil {
		return nil, err
	}

	totalsByDate := make(map[string]DailyTotals)
	dailyTotals := AggregateByDate(records, cal)
	for _, t := range dailyTotals {
		totalsByDate[t.Date.Key()] = t
	}

	expenses := make(map[string]ExpenseRecord, len(in.Expenses))
	for _, e := range in.Expenses {
		if _, ok := expenses[e.Date.Key()]; ok {
			continue
		}
		expenses[e.Date.Key()] = e
	}

	acc := NewRevenueAccumulator()
	profits := make([]DailyProfit, 0, len(dates))
	revenue := make([]RevenueAnalysisPoint, 0, len(dates))
	for _, d := range dates {
		totals, ok := totalsByDate[d.Key()]
		if !ok {
			totals = AggregateDay(d, cal.Classify(d), nil)
		}
		expense, hasRecord := expenses[d.Key()]
		if !hasRecord {
			log.WithField("date", d.String()).Debug("no expense record, using zero values")
			expense = ExpenseRecord{Date: d}
		}
		breakdown := CalculateDailyProfit(totals, expense, in.Rates)
		profits = append(profits, DailyProfit{Totals: totals, Expense: expense, HasRecord: hasRecord, Breakdown: breakdown})
		revenue = append(revenue, acc.Add(totals, expense, breakdown))
	}

	issues := p.inspect(records, log)

	return &Result{
		Records:     records,
		DailyTotals: dailyTotals,
		Profits:     profits,
		Revenue:     revenue,
		Summary:     Summarize(records),
		Issues:      issues,
	}, nil
}

func (p *Pipeline) inspect(records []RecordMetrics, log logrus.FieldLogger) []RecordIssue {
	th := p.thresholds()
	var issues []RecordIssue
	for _, m := range records {
		v := ValidateMetrics(m)
		anomalies := DetectAnomalies(m, th)
		if len(v.Errors) == 0 && len(v.Warnings) == 0 && len(anomalies) == 0 {
			continue
		}
		issue := RecordIssue{
			Date:      m.Date,
			Line:      m.Line,
			ModelName: m.ModelName,
			Errors:    v.Errors,
			Warnings:  v.Warnings,
			Anomalies: anomalies,
		}
		issues = append(issues, issue)
		log.WithFields(logrus.Fields{
			"date":      m.Date.String(),
			"line":      m.Line,
			"model":     m.ModelName,
			"errors":    v.Errors,
			"warnings":  v.Warnings,
			"anomalies": anomalies,
		}).Warn("record metrics need attention")
	}
	return issues
}
