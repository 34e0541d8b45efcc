package domain

import (
	"context"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Application, error)
	GetByID(ctx context.Context, id string, userID uuid.UUID) (*Application, error)
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id string, userID uuid.UUID) error
	// ReplaceAll swaps the user's whole collection in one transaction.
	ReplaceAll(ctx context.Context, userID uuid.UUID, apps []Application) error
	// InsertMany appends records in one transaction.
	InsertMany(ctx context.Context, userID uuid.UUID, apps []Application) error
}
