package api

import "github.com/starford/fehu/internal/models"

// ListResponse is the artifact listing payload. Message and Level echo the
// one-shot status carried on the redirect query string after a generate;
// they are scoped to that single request, never shared state.
type ListResponse struct {
	Artifacts []models.ArtifactSummary `json:"artifacts"`
	Message   string                   `json:"message,omitempty"`
	Level     string                   `json:"level,omitempty"`
}
