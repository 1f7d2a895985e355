package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/infrastructure/processor"
)

type ProductUsecase struct {
	repo       domain.ProductRepository
	categories domain.CategoryRepository
	variants   *processor.VariantProcessor
	events     domain.EventPublisher
}

func NewProductUsecase(
	repo domain.ProductRepository,
	categories domain.CategoryRepository,
	variants *processor.VariantProcessor,
	events domain.EventPublisher,
) *ProductUsecase {
	return &ProductUsecase{
		repo:       repo,
		categories: categories,
		variants:   variants,
		events:     events,
	}
}

// Create validates the payload, checks the owning category exists, then
// optionally writes a derivative set before inserting the row. The image
// is optional for products, unlike categories and users.
func (u *ProductUsecase) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	verr := domain.NewValidationError()
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "The name field is required.")
	}
	if input.Price.IsNegative() {
		verr.Add("price", "The price must not be negative.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if input.CategoryID != 0 {
		if _, err := u.categories.FindByID(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	var baseName string
	if len(input.Image) > 0 {
		baseName = u.variants.NewBaseName()
		if _, err := u.variants.Generate(ctx, input.Image, baseName); err != nil {
			return nil, err
		}
	}

	product := &domain.Product{
		Name:       input.Name,
		Price:      input.Price,
		CategoryID: input.CategoryID,
		Image:      baseName,
		CreatedAt:  time.Now(),
	}

	if err := u.repo.Create(ctx, product); err != nil {
		if baseName != "" {
			_ = u.events.Publish(ctx, domain.LifecycleEvent{
				Type:       domain.EventDerivativesOrphaned,
				Entity:     "product",
				BaseName:   baseName,
				Detail:     err.Error(),
				OccurredAt: time.Now(),
			})
		}
		return nil, err
	}

	return product, nil
}

func (u *ProductUsecase) List(ctx context.Context) ([]*domain.Product, error) {
	return u.repo.FindAll(ctx)
}
