package schema

// KPIDefinition describes one KPI for the definitions display.
type KPIDefinition struct {
	Name           string   `json:"name"`
	Formula        string   `json:"formula"`
	Interpretation string   `json:"interpretation"`
	Bands          []string `json:"bands,omitempty"`
}

// KPIRenderModel is the processed model consumed by the KPI definition writers.
type KPIRenderModel struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	KPIs        []KPIDefinition `json:"kpis"`
}
