package usecases_port

import "context"

type ResolveTotalPagesPort interface {
	Execute(ctx context.Context) (int, error)
}
