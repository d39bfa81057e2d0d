package api

const Version = "1.0.0"

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type CaseValidationRequest struct {
	StudentText string `json:"student_text"`
}

type CaseSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ContextSummary string `json:"context_summary"`
}
