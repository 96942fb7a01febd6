package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymops/internal/dto"
	"gymops/internal/service"
)

type MemberHandler struct{ svc service.MemberService }

func NewMemberHandler(svc service.MemberService) *MemberHandler { return &MemberHandler{svc: svc} }

// Create godoc
// @Summary Registers a new member
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateMemberRequest true "Member"
// @Success 201 {object} dto.MemberResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List searches active members by name or document number.
func (h *MemberHandler) List(c *gin.Context) {
	var filter dto.MemberFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateMemberRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate frees the member's document number for re-registration.
func (h *MemberHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Inscriptions lists the member's inscriptions, newest first.
func (h *MemberHandler) Inscriptions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Inscriptions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
