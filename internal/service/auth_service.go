package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gymops/internal/config"
	"gymops/internal/dto"
	"gymops/internal/model"
	"gymops/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	ListEmployees(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id uuid.UUID) error
	ReactivateEmployee(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.EmployeeRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.EmployeeRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	employee, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenPair(employee)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("malformed token claims")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("malformed token")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("malformed token")
	}

	employee, err := s.repo.FindByID(ctx, uid)
	if err != nil || !employee.Active {
		return nil, errors.New("employee not found or inactive")
	}

	return s.tokenPair(employee)
}

func (s *authService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, errors.New("invalid branch_id")
	}
	employee := &model.Employee{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		BranchID:     branchID,
		Active:       true,
	}
	if req.RegisterID != nil {
		rid, err := uuid.Parse(*req.RegisterID)
		if err != nil {
			return nil, errors.New("invalid register_id")
		}
		employee.RegisterID = &rid
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, err
	}
	resp := employeeToResponse(employee)
	return &resp, nil
}

func (s *authService) ListEmployees(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EmployeeResponse, len(employees))
	for i := range employees {
		resp[i] = employeeToResponse(&employees[i])
	}
	return resp, nil
}

func (s *authService) UpdateEmployee(ctx context.Context, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.FullName != "" {
		employee.FullName = req.FullName
	}
	if req.Email != "" {
		employee.Email = req.Email
	}
	if req.Role != "" {
		employee.Role = req.Role
	}
	if req.BranchID != nil {
		bid, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, errors.New("invalid branch_id")
		}
		employee.BranchID = bid
	}
	if req.RegisterID != nil {
		rid, err := uuid.Parse(*req.RegisterID)
		if err != nil {
			return nil, errors.New("invalid register_id")
		}
		employee.RegisterID = &rid
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	resp := employeeToResponse(employee)
	return &resp, nil
}

func (s *authService) DeactivateEmployee(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *authService) ReactivateEmployee(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, true)
}

func (s *authService) tokenPair(employee *model.Employee) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(employee, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(employee, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         employeeToResponse(employee),
	}, nil
}

func (s *authService) generateToken(employee *model.Employee, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   employee.ID.String(),
		"username":  employee.Username,
		"role":      employee.Role,
		"branch_id": employee.BranchID.String(),
		"exp":       time.Now().Add(duration).Unix(),
		"iat":       time.Now().Unix(),
	}
	if employee.RegisterID != nil {
		claims["register_id"] = employee.RegisterID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func employeeToResponse(e *model.Employee) dto.EmployeeResponse {
	var registerID *string
	if e.RegisterID != nil {
		v := e.RegisterID.String()
		registerID = &v
	}
	return dto.EmployeeResponse{
		ID:         e.ID.String(),
		Username:   e.Username,
		FullName:   e.FullName,
		Email:      e.Email,
		Role:       e.Role,
		BranchID:   e.BranchID.String(),
		RegisterID: registerID,
		Active:     e.Active,
	}
}
