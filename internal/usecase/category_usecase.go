package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/infrastructure/processor"
)

// CategoryUsecase owns the category record lifecycle and the derivative
// set tied to it: create writes files before the row, edit swaps the set
// under a new base name, delete removes files before the row.
type CategoryUsecase struct {
	repo     domain.CategoryRepository
	variants *processor.VariantProcessor
	events   domain.EventPublisher
}

func NewCategoryUsecase(
	repo domain.CategoryRepository,
	variants *processor.VariantProcessor,
	events domain.EventPublisher,
) *CategoryUsecase {
	return &CategoryUsecase{
		repo:     repo,
		variants: variants,
		events:   events,
	}
}

func (u *CategoryUsecase) Create(ctx context.Context, name string, image []byte) (*domain.Category, error) {
	verr := domain.NewValidationError()
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "The name field is required.")
	}
	if len(image) == 0 {
		verr.Add("image", "The image field is required.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	baseName := u.variants.NewBaseName()
	if _, err := u.variants.Generate(ctx, image, baseName); err != nil {
		return nil, err
	}

	now := time.Now()
	category := &domain.Category{
		Name:      name,
		Image:     baseName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.repo.Create(ctx, category); err != nil {
		// The derivative set stays on disk; report it so operators can
		// reap the orphans.
		zlog.Logger.Error().Err(err).Str("base_name", baseName).Msg("category insert failed after files were written")
		_ = u.events.Publish(ctx, domain.LifecycleEvent{
			Type:       domain.EventDerivativesOrphaned,
			Entity:     "category",
			BaseName:   baseName,
			Detail:     err.Error(),
			OccurredAt: time.Now(),
		})
		return nil, fmt.Errorf("create category: %w", err)
	}

	_ = u.events.Publish(ctx, domain.LifecycleEvent{
		Type:       domain.EventDerivativesCreated,
		Entity:     "category",
		EntityID:   category.ID,
		BaseName:   baseName,
		OccurredAt: time.Now(),
	})

	return category, nil
}

func (u *CategoryUsecase) GetAll(ctx context.Context) ([]*domain.Category, error) {
	return u.repo.FindAll(ctx)
}

func (u *CategoryUsecase) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return u.repo.FindByID(ctx, id)
}

// Edit updates name and/or image. A new image gets a brand-new base name
// and a full derivative set before the old set is removed, so a reader
// never sees a half-replaced set under one name.
func (u *CategoryUsecase) Edit(ctx context.Context, id int64, name string, image []byte) (*domain.Category, error) {
	category, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(image) > 0 {
		oldBaseName := category.Image

		newBaseName := u.variants.NewBaseName()
		if _, err := u.variants.Generate(ctx, image, newBaseName); err != nil {
			return nil, err
		}

		u.removeSet(ctx, "category", category.ID, oldBaseName)
		category.Image = newBaseName
	}

	if strings.TrimSpace(name) != "" {
		category.Name = name
	}
	category.UpdatedAt = time.Now()

	if err := u.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes the derivative files first, then the record. File
// deletion failures are logged and published, never surfaced: stale
// files must not block the delete.
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	category, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	u.removeSet(ctx, "category", category.ID, category.Image)

	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}

	return nil
}

func (u *CategoryUsecase) removeSet(ctx context.Context, entity string, entityID int64, baseName string) {
	if baseName == "" {
		return
	}
	if failed := u.variants.Remove(ctx, baseName); failed > 0 {
		_ = u.events.Publish(ctx, domain.LifecycleEvent{
			Type:       domain.EventDerivativesCleanupFailed,
			Entity:     entity,
			EntityID:   entityID,
			BaseName:   baseName,
			Detail:     fmt.Sprintf("%d files left on disk", failed),
			OccurredAt: time.Now(),
		})
	}
}
