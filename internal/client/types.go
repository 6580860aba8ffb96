package client

// Period represents the response from /api/periodo-dados. Every field is
// nullable: the API returns nulls when no facts are loaded, and callers use
// an all-nil Period as the fallback when the request fails.
type Period struct {
	AnoInicio *int `json:"ano_inicio"`
	AnoFim    *int `json:"ano_fim"`
	MesInicio *int `json:"mes_inicio"`
	MesFim    *int `json:"mes_fim"`
}

// Known reports whether both boundary years are present.
func (p Period) Known() bool {
	return p.AnoInicio != nil && p.AnoFim != nil
}
