package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gymops/internal/dto"
	"gymops/internal/model"
	"gymops/internal/repository"
)

type MemberService interface {
	Create(ctx context.Context, req dto.CreateMemberRequest) (*dto.MemberResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MemberResponse, error)
	List(ctx context.Context, filter dto.MemberFilter) (*dto.MemberListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Inscriptions lists a member's inscriptions, newest first, so the front
	// desk can see what the member is entitled to right now.
	Inscriptions(ctx context.Context, id uuid.UUID) ([]dto.InscriptionResponse, error)
}

type memberService struct {
	repo     repository.MemberRepository
	inscRepo repository.InscriptionRepository
}

func NewMemberService(repo repository.MemberRepository, inscRepo repository.InscriptionRepository) MemberService {
	return &memberService{repo: repo, inscRepo: inscRepo}
}

func (s *memberService) Create(ctx context.Context, req dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	existing, err := s.repo.FindActiveByDocument(ctx, req.DocumentNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateMemberError{Existing: existing}
	}

	member := &model.Member{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		Active:         true,
	}
	if req.BirthDate != nil {
		if bd, err := time.Parse("2006-01-02", *req.BirthDate); err == nil {
			member.BirthDate = &bd
		}
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return memberToResponse(member), nil
}

func (s *memberService) Get(ctx context.Context, id uuid.UUID) (*dto.MemberResponse, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return memberToResponse(member), nil
}

func (s *memberService) List(ctx context.Context, filter dto.MemberFilter) (*dto.MemberListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		items = append(items, *memberToResponse(&members[i]))
	}
	return &dto.MemberListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *memberService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Phone != nil {
		member.Phone = req.Phone
	}
	if req.Email != nil {
		member.Email = req.Email
	}
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return memberToResponse(member), nil
}

func (s *memberService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *memberService) Inscriptions(ctx context.Context, id uuid.UUID) ([]dto.InscriptionResponse, error) {
	inscs, err := s.inscRepo.ListByMember(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InscriptionResponse, 0, len(inscs))
	for _, insc := range inscs {
		name := ""
		if insc.Service != nil {
			name = insc.Service.Name
		}
		out = append(out, dto.InscriptionResponse{
			ID:              insc.ID.String(),
			ServiceID:       insc.ServiceID.String(),
			Service:         name,
			BranchID:        insc.BranchID.String(),
			StartDate:       insc.StartDate.Format("2006-01-02"),
			ExpiryDate:      insc.ExpiryDate.Format("2006-01-02"),
			RemainingVisits: insc.RemainingVisits,
			Status:          insc.Status,
		})
	}
	return out, nil
}

func memberToResponse(m *model.Member) *dto.MemberResponse {
	return &dto.MemberResponse{
		ID:             m.ID.String(),
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		DocumentNumber: m.DocumentNumber,
		Phone:          m.Phone,
		Email:          m.Email,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
