package correction

import "context"

type CorrectionRepository interface {
	Create(ctx context.Context, c CorrectionRequest) (CorrectionRequest, error)
	GetByID(ctx context.Context, id string) (CorrectionRequest, error)
	ListByUser(ctx context.Context, userID string) ([]CorrectionRequest, error)
	ListPending(ctx context.Context) ([]CorrectionRequest, error)
	UpdateStatus(ctx context.Context, c CorrectionRequest) error
	DeleteByUser(ctx context.Context, userID string) error
}
