package model

// SummaryRow holds display-ready data for a single category of a dataset.
type SummaryRow struct {
	Label   string
	Value   float64
	Percent float64 // share of the dataset total, 0-100
}

// DatasetSummary holds display-ready aggregates for one dataset.
type DatasetSummary struct {
	Name    DatasetName
	Label   string
	Records int
	Total   float64
	Rows    []SummaryRow // sorted by Value descending, ties by Label
}

// SeriesPoint is one month of the monthly series.
type SeriesPoint struct {
	YearMonth   string // "2023-04"
	Internacoes float64
	Obitos      float64
}

// Overview holds the headline numbers shown above the dataset tables.
type Overview struct {
	TotalInternacoes float64
	TotalObitos      float64
	Months           int
	EmptyDatasets    int
}
