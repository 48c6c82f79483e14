package product

import (
	"context"
	"errors"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

const (
	listCacheKey = "products"
	listCacheTTL = 120 * time.Second
)

// ListCache is the output cache for the product listing. Every mutation
// evicts it. A nil cache disables caching entirely.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	repo  *repository.ProductRepository
	cache ListCache
}

func NewService(repo *repository.ProductRepository, cache ListCache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		var cached []domain.Product
		if hit, err := s.cache.Get(ctx, listCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listCacheKey, products, listCacheTTL); err != nil {
			log.Printf("product list cache set failed: %v", err)
		}
	}

	return products, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	p := &domain.Product{
		Name:        req.Name,
		Color:       req.Color,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Price:       req.Price,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.evictListCache(ctx)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req CreateProductRequest) error {
	p := &domain.Product{
		ID:          id,
		Name:        req.Name,
		Color:       req.Color,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Price:       req.Price,
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.evictListCache(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProductNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.evictListCache(ctx)
	return nil
}

func (s *Service) evictListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		log.Printf("product list cache evict failed: %v", err)
	}
}
