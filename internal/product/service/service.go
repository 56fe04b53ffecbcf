// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abgdnv/productboard/internal/product/store"
	"github.com/abgdnv/productboard/internal/product/store/db"
	"github.com/abgdnv/productboard/pkg/messaging"
	"github.com/abgdnv/productboard/pkg/messaging/events"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
type ProductService interface {
	// FindAll returns all products in no particular order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create validates and persists a new product.
	// Returns *errors.ValidationError when the input is rejected; nothing is stored in that case.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository      store.ProductStore
	publisher       messaging.Publisher
	createdCounter  metric.Int64Counter
	deletedCounter  metric.Int64Counter
	rejectedCounter metric.Int64Counter
	now             func() time.Time
}

// NewService creates a new instance of ProductService with the provided repository and publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	meter := otel.Meter("product-service")
	return &Service{
		repository:      repo,
		publisher:       publisher,
		createdCounter:  mustCounter(meter, "products_created", "Total number of created products"),
		deletedCounter:  mustCounter(meter, "products_deleted", "Total number of deleted products"),
		rejectedCounter: mustCounter(meter, "products_rejected", "Total number of create requests rejected by validation"),
		now:             time.Now,
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// ProductCreateDto is the input of Create. Price is a pointer so a missing value
// can be told apart from zero.
type ProductCreateDto struct {
	Name  string           `json:"name"  validate:"required,max=255"`
	Price *decimal.Decimal `json:"price" validate:"required,price_min=0.01,price_max=99999999.99"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	return productDTOs, nil
}

// Create validates the request, stores the product and publishes ProductCreatedEvent.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	product.Name = strings.TrimSpace(product.Name)
	if verr := ValidateCreate(product); verr != nil {
		s.rejectedCounter.Add(ctx, 1)
		return nil, verr
	}

	p, err := s.repository.Create(ctx, product.Name, product.Price.Round(2))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	event := events.ProductCreatedEvent{
		Carrier:   carrierFrom(ctx),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price.StringFixed(2),
		CreatedAt: p.CreatedAt,
	}
	if err = s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ProductCreatedEvent", "ID", p.ID, "error", err)
	}
	s.createdCounter.Add(ctx, 1)

	return toDto(p), nil
}

// DeleteByID deletes a product by its ID and publishes ProductDeletedEvent.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}

	event := events.ProductDeletedEvent{
		Carrier:   carrierFrom(ctx),
		ProductID: id,
		DeletedAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ProductDeletedEvent", "ID", id, "error", err)
	}
	s.deletedCounter.Add(ctx, 1)
	return nil
}

func carrierFrom(ctx context.Context) propagation.MapCarrier {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

// toDto converts a db.Product to a ProductDto.
func toDto(product *db.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
