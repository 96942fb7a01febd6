package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateMemberRequest struct {
	FirstName      string  `json:"first_name"      validate:"required,min=2"`
	LastName       string  `json:"last_name"       validate:"required,min=2"`
	DocumentNumber string  `json:"document_number" validate:"required,min=4"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"      validate:"omitempty,email"`
	BirthDate      *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateMemberRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2"`
	LastName  *string `json:"last_name"  validate:"omitempty,min=2"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type MemberFilter struct {
	Search string `form:"search"` // matches name or document number
	Page   int    `form:"page,default=1"  validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MemberResponse struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	DocumentNumber string  `json:"document_number"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Active         bool    `json:"active"`
	CreatedAt      string  `json:"created_at"`
}

type MemberListResponse struct {
	Data  []MemberResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type InscriptionResponse struct {
	ID              string `json:"id"`
	ServiceID       string `json:"service_id"`
	Service         string `json:"service"`
	BranchID        string `json:"branch_id"`
	StartDate       string `json:"start_date"`
	ExpiryDate      string `json:"expiry_date"`
	RemainingVisits int    `json:"remaining_visits"`
	Status          string `json:"status"`
}
