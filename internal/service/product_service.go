package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"gymops/internal/dto"
	"gymops/internal/infra"
	"gymops/internal/model"
	"gymops/internal/repository"
)

const priceCacheTTL = 10 * time.Minute

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// AdjustStock applies a signed delta with an audit trail row. Negative
	// deltas cannot drive stock below zero.
	AdjustStock(ctx context.Context, operatorID uuid.UUID, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	// PriceCheck resolves a barcode to name and price, served from Redis
	// when warm. Used by the price-check kiosk, so it bypasses auth.
	PriceCheck(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error)
	StockMovements(ctx context.Context, id uuid.UUID) ([]dto.StockMovementResponse, error)
}

type productService struct {
	repo  repository.ProductRepository
	rdb   *redis.Client
	clock infra.Clock
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client, clock infra.Clock) ProductService {
	return &productService{repo: repo, rdb: rdb, clock: clock}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, fmt.Errorf("invalid branch_id: %w", err)
	}
	p := &model.Product{
		Barcode:        req.Barcode,
		Name:           req.Name,
		Description:    req.Description,
		BranchID:       branchID,
		CostPrice:      req.CostPrice,
		SalePrice:      req.SalePrice,
		Stock:          req.Stock,
		MinStock:       req.MinStock,
		UnlimitedStock: req.UnlimitedStock,
		Active:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePriceCache(ctx, p.Barcode)
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, p.Barcode)
	return nil
}

func (s *productService) AdjustStock(ctx context.Context, operatorID uuid.UUID, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	var updated *model.Product
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrNotFound
		}
		if p.UnlimitedStock {
			return fmt.Errorf("product %s does not track stock", p.Name)
		}
		after := p.Stock + req.Delta
		if after < 0 {
			return &InsufficientStockError{ProductName: p.Name, Requested: -req.Delta, Available: p.Stock}
		}
		if err := s.repo.UpdateStockTx(tx, id, req.Delta); err != nil {
			return err
		}
		mov := &model.StockMovement{
			ProductID:  p.ID,
			Kind:       "manual_adjustment",
			Quantity:   req.Delta,
			StockPrior: p.Stock,
			StockAfter: after,
			Reason:     req.Reason,
			EmployeeID: &operatorID,
			CreatedAt:  s.clock.Now(),
		}
		if err := s.repo.CreateStockMovementTx(tx, mov); err != nil {
			return err
		}
		p.Stock = after
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productToResponse(updated), nil
}

func (s *productService) PriceCheck(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error) {
	key := priceCacheKey(barcode)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached dto.PriceCheckResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrNotFound
	}
	resp := &dto.PriceCheckResponse{Barcode: p.Barcode, Name: p.Name, SalePrice: p.SalePrice}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, raw, priceCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("price cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) StockMovements(ctx context.Context, id uuid.UUID) ([]dto.StockMovementResponse, error) {
	movs, err := s.repo.ListStockMovements(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		var saleID *string
		if m.SaleID != nil {
			v := m.SaleID.String()
			saleID = &v
		}
		out = append(out, dto.StockMovementResponse{
			ID:         m.ID.String(),
			Kind:       m.Kind,
			Quantity:   m.Quantity,
			StockPrior: m.StockPrior,
			StockAfter: m.StockAfter,
			Reason:     m.Reason,
			SaleID:     saleID,
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *productService) invalidatePriceCache(ctx context.Context, barcode string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, priceCacheKey(barcode)).Err(); err != nil {
		log.Warn().Err(err).Str("barcode", barcode).Msg("price cache invalidation failed")
	}
}

func priceCacheKey(barcode string) string { return "price:" + barcode }

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID.String(),
		Barcode:        p.Barcode,
		Name:           p.Name,
		Description:    p.Description,
		BranchID:       p.BranchID.String(),
		CostPrice:      p.CostPrice,
		SalePrice:      p.SalePrice,
		Stock:          p.Stock,
		MinStock:       p.MinStock,
		UnlimitedStock: p.UnlimitedStock,
		Active:         p.Active,
	}
}
