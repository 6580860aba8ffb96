package model

import (
	"time"

	"github.com/dm/painel/internal/client"
)

// Default request parameters observed for the statistics API.
const (
	DefaultDatasetTimeout = 180 * time.Second
	DefaultPeriodTimeout  = 60 * time.Second
	DefaultMaxRetries     = 1
	DefaultSeriesLimit    = 5000
)

// DatasetSpec is the static description of a dataset: where to fetch it and
// how to read its opaque records for display.
type DatasetSpec struct {
	Name       DatasetName
	Endpoint   string
	Label      string
	LabelField string
	// ValueFields are summed per record; series carry two.
	ValueFields []string
}

// Catalog lists the dashboard datasets in display order.
var Catalog = []DatasetSpec{
	{InternacoesCid, client.EndpointInternacoesCid, "Internações por CID-10", "capitulo_nome", []string{"total_internacoes"}},
	{ObitosCid, client.EndpointObitosCid, "Óbitos por CID-10", "capitulo_nome", []string{"total_obitos"}},
	{ObitosLocal, client.EndpointObitosLocal, "Óbitos por Local", "local_ocorrencia_desc", []string{"total_obitos"}},
	{SeriesMensal, client.EndpointSeriesMensal, "Série Mensal", "ano_mes", []string{"internacoes", "obitos"}},
	{InternacoesSexo, client.EndpointInternacoesSexo, "Internações por Sexo", "sexo_desc", []string{"total_internacoes"}},
	{ObitosRaca, client.EndpointObitosRaca, "Óbitos por Raça", "raca_desc", []string{"total_obitos"}},
	{InternacoesFaixa, client.EndpointInternacoesFaixa, "Internações por Faixa", "faixa_desc", []string{"total_internacoes"}},
	{ObitosEstadoCivil, client.EndpointObitosEstadoCivil, "Óbitos por Estado Civil", "estado_civil_desc", []string{"total_obitos"}},
}

// SpecFor returns the catalog entry for name.
func SpecFor(name DatasetName) (DatasetSpec, bool) {
	for _, s := range Catalog {
		if s.Name == name {
			return s, true
		}
	}
	return DatasetSpec{}, false
}

// RequestOptions tunes the requests built by DefaultRequests.
type RequestOptions struct {
	Timeout     time.Duration
	MaxRetries  int
	SeriesLimit int
}

// DefaultRequests builds one DatasetRequest per catalog entry. Zero-valued
// options fall back to the defaults above; MaxRetries is taken as-is.
func DefaultRequests(opts RequestOptions) []DatasetRequest {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultDatasetTimeout
	}
	if opts.SeriesLimit <= 0 {
		opts.SeriesLimit = DefaultSeriesLimit
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	reqs := make([]DatasetRequest, 0, len(Catalog))
	for _, s := range Catalog {
		endpoint := s.Endpoint
		if s.Name == SeriesMensal {
			endpoint = client.WithLimit(endpoint, opts.SeriesLimit)
		}
		reqs = append(reqs, DatasetRequest{
			Name:       s.Name,
			Endpoint:   endpoint,
			Label:      s.Label,
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
		})
	}
	return reqs
}
