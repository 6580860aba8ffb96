package engine

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/dm/painel/internal/model"
)

// numberField reads a record field that may be a JSON number or a numeric
// string. Anything else reads as 0.
func numberField(rec map[string]any, field string) float64 {
	switch v := rec[field].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// stringField reads a record field as text; numbers are formatted plainly.
func stringField(rec map[string]any, field string) string {
	switch v := rec[field].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// decodeRecords decodes the opaque records, dropping any that are not objects.
func decodeRecords(raw []json.RawMessage) []map[string]any {
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		var rec map[string]any
		if err := json.Unmarshal(r, &rec); err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// safeDivide returns a/b, or 0 when b is zero.
func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// CalcSummary aggregates one dataset by its label field. Records sharing a
// label are summed; rows with an empty label or a non-positive value are
// dropped. Rows are sorted by value descending, then label. topN <= 0 keeps
// every row.
func CalcSummary(snap *model.Snapshot, spec model.DatasetSpec, topN int) model.DatasetSummary {
	raw := snap.Records(spec.Name)
	sum := model.DatasetSummary{
		Name:    spec.Name,
		Label:   spec.Label,
		Records: len(raw),
		Rows:    []model.SummaryRow{},
	}

	byLabel := make(map[string]float64)
	for _, rec := range decodeRecords(raw) {
		label := stringField(rec, spec.LabelField)
		if label == "" {
			continue
		}
		var v float64
		for _, f := range spec.ValueFields {
			v += numberField(rec, f)
		}
		byLabel[label] += v
	}

	for label, v := range byLabel {
		if v <= 0 {
			continue
		}
		sum.Total += v
		sum.Rows = append(sum.Rows, model.SummaryRow{Label: label, Value: v})
	}
	for i := range sum.Rows {
		sum.Rows[i].Percent = safeDivide(sum.Rows[i].Value, sum.Total) * 100
	}

	sort.Slice(sum.Rows, func(i, j int) bool {
		if sum.Rows[i].Value != sum.Rows[j].Value {
			return sum.Rows[i].Value > sum.Rows[j].Value
		}
		return sum.Rows[i].Label < sum.Rows[j].Label
	})
	if topN > 0 && len(sum.Rows) > topN {
		sum.Rows = sum.Rows[:topN]
	}
	return sum
}

// CalcSummaries returns a summary for every categorical dataset in catalog
// order. The monthly series is excluded; see CalcSeries.
func CalcSummaries(snap *model.Snapshot, topN int) []model.DatasetSummary {
	out := make([]model.DatasetSummary, 0, len(model.Catalog))
	for _, spec := range model.Catalog {
		if spec.Name == model.SeriesMensal {
			continue
		}
		out = append(out, CalcSummary(snap, spec, topN))
	}
	return out
}

// CalcSeries returns the monthly series in chronological order. Records with
// the same month are merged.
func CalcSeries(snap *model.Snapshot) []model.SeriesPoint {
	byMonth := make(map[string]*model.SeriesPoint)
	for _, rec := range decodeRecords(snap.Records(model.SeriesMensal)) {
		ym := stringField(rec, "ano_mes")
		if ym == "" {
			continue
		}
		p, ok := byMonth[ym]
		if !ok {
			p = &model.SeriesPoint{YearMonth: ym}
			byMonth[ym] = p
		}
		p.Internacoes += numberField(rec, "internacoes")
		p.Obitos += numberField(rec, "obitos")
	}

	out := make([]model.SeriesPoint, 0, len(byMonth))
	for _, p := range byMonth {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out
}

// CalcOverview computes the headline numbers. Admissions and deaths are taken
// from the CID-10 chapter breakdowns, which cover every record.
func CalcOverview(snap *model.Snapshot) model.Overview {
	var ov model.Overview

	internacoes, _ := model.SpecFor(model.InternacoesCid)
	obitos, _ := model.SpecFor(model.ObitosCid)
	ov.TotalInternacoes = CalcSummary(snap, internacoes, 0).Total
	ov.TotalObitos = CalcSummary(snap, obitos, 0).Total
	ov.Months = len(CalcSeries(snap))

	for _, spec := range model.Catalog {
		if len(snap.Records(spec.Name)) == 0 {
			ov.EmptyDatasets++
		}
	}
	return ov
}
