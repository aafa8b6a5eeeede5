package report

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, id ReportID) (*Report, error)
}

// Generator port (interface untuk AI plan generation)
type Generator interface {
	Generate(ctx context.Context, profile StudentProfile) (ReportContent, error)
}

// Renderer port for the PDF boundary
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

// ArtifactStore port for optional archival of rendered documents
type ArtifactStore interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
