package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gymops/internal/dto"
	"gymops/internal/model"
	"gymops/internal/repository"
)

type CatalogService interface {
	CreateService(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	GetService(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error)
	ListServices(ctx context.Context) ([]dto.ServiceResponse, error)
	UpdateService(ctx context.Context, id uuid.UUID, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	DeactivateService(ctx context.Context, id uuid.UUID) error

	CreateBranch(ctx context.Context, name string, address *string) (*dto.BranchResponse, error)
	ListBranches(ctx context.Context) ([]dto.BranchResponse, error)
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) CreateService(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	branchIDs := make([]uuid.UUID, 0, len(req.BranchIDs))
	for _, raw := range req.BranchIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid branch id %q: %w", raw, err)
		}
		if _, err := s.repo.FindBranchByID(ctx, id); err != nil {
			return nil, ErrNotFound
		}
		branchIDs = append(branchIDs, id)
	}

	svc := &model.Service{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		VisitCount:   req.Visits,
		MultiBranch:  req.MultiBranch,
		Active:       true,
	}
	if err := s.repo.CreateService(ctx, svc, branchIDs); err != nil {
		return nil, err
	}
	return s.serviceToResponse(ctx, svc)
}

func (s *catalogService) GetService(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error) {
	svc, err := s.repo.FindServiceByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.serviceToResponse(ctx, svc)
}

func (s *catalogService) ListServices(ctx context.Context) ([]dto.ServiceResponse, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		resp, err := s.serviceToResponse(ctx, &services[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id uuid.UUID, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	svc, err := s.repo.FindServiceByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationDays != nil {
		svc.DurationDays = *req.DurationDays
	}
	if err := s.repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	return s.serviceToResponse(ctx, svc)
}

// DeactivateService hides the service from new sales. Existing
// inscriptions keep working until they expire.
func (s *catalogService) DeactivateService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindServiceByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SetServiceActive(ctx, id, false)
}

func (s *catalogService) CreateBranch(ctx context.Context, name string, address *string) (*dto.BranchResponse, error) {
	b := &model.Branch{Name: name, Address: address, Active: true}
	if err := s.repo.CreateBranch(ctx, b); err != nil {
		return nil, err
	}
	return branchToResponse(b), nil
}

func (s *catalogService) ListBranches(ctx context.Context) ([]dto.BranchResponse, error) {
	branches, err := s.repo.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		out = append(out, *branchToResponse(&branches[i]))
	}
	return out, nil
}

func (s *catalogService) serviceToResponse(ctx context.Context, svc *model.Service) (*dto.ServiceResponse, error) {
	branchIDs, err := s.repo.BranchesOffering(ctx, svc.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(branchIDs))
	for _, id := range branchIDs {
		ids = append(ids, id.String())
	}
	return &dto.ServiceResponse{
		ID:           svc.ID.String(),
		Name:         svc.Name,
		Description:  svc.Description,
		Price:        svc.Price,
		DurationDays: svc.DurationDays,
		Visits:       svc.VisitCount,
		MultiBranch:  svc.MultiBranch,
		Active:       svc.Active,
		BranchIDs:    ids,
	}, nil
}

func branchToResponse(b *model.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:      b.ID.String(),
		Name:    b.Name,
		Address: b.Address,
		Active:  b.Active,
	}
}
