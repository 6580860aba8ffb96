package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"go.trai.ch/zerr"
)

const (
	EndpointInternacoesCid    = "/api/internacoes/cid-cap"
	EndpointObitosCid         = "/api/obitos/cid-cap"
	EndpointObitosLocal       = "/api/obitos/local"
	EndpointSeriesMensal      = "/api/series/mensal"
	EndpointInternacoesSexo   = "/api/internacoes/sexo"
	EndpointObitosRaca        = "/api/obitos/raca"
	EndpointInternacoesFaixa  = "/api/internacoes/faixa"
	EndpointObitosEstadoCivil = "/api/obitos/estado-civil"
	EndpointPeriod            = "/api/periodo-dados"
)

// WithLimit appends a limit query parameter to path, e.g.
// WithLimit(EndpointSeriesMensal, 5000) → "/api/series/mensal?limit=5000".
// A non-positive limit returns path unchanged.
func WithLimit(path string, limit int) string {
	if limit <= 0 {
		return path
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	return path + "?" + q.Encode()
}

// GetDataset fetches one dataset endpoint and returns its records undecoded.
func (c *DefaultClient) GetDataset(ctx context.Context, path string) ([]json.RawMessage, error) {
	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "GetDataset"), "endpoint", path)
	}

	records := []json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "GetDataset decode"), "endpoint", path)
	}
	// A literal null body unmarshals to a nil slice.
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

// GetPeriod fetches the min/max year and month covered by the statistics.
func (c *DefaultClient) GetPeriod(ctx context.Context) (*Period, error) {
	body, err := c.doGet(ctx, EndpointPeriod)
	if err != nil {
		return nil, zerr.Wrap(err, "GetPeriod")
	}

	var result Period
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, zerr.Wrap(err, "GetPeriod decode")
	}
	return &result, nil
}
