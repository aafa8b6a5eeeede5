package audit

import "context"

// Repository port for persisting and querying generation records
type Repository interface {
	Save(ctx context.Context, r *Record) error
	LatestByReport(ctx context.Context, reportID string) (*Record, error)
}
