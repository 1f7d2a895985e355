package domain

import (
	"context"
	"time"
)

type CategoryService interface {
	Create(ctx context.Context, name string, image []byte) (*Category, error)
	GetAll(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Edit(ctx context.Context, id int64, name string, image []byte) (*Category, error)
	Delete(ctx context.Context, id int64) error
}

type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (string, error)
	List(ctx context.Context) ([]*User, error)
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}

// Lifecycle event types published for operator visibility. Cleanup
// failures never fail the request that triggered them; the event stream
// is how record/file drift gets noticed.
const (
	EventDerivativesCreated       = "derivatives.created"
	EventDerivativesOrphaned      = "derivatives.orphaned"
	EventDerivativesCleanupFailed = "derivatives.cleanup_failed"
)

type LifecycleEvent struct {
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   int64     `json:"entity_id,omitempty"`
	BaseName   string    `json:"base_name"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event LifecycleEvent) error
	Close() error
}
