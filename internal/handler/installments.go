package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymops/internal/dto"
	"gymops/internal/service"
)

type InstallmentHandler struct{ svc service.InstallmentService }

func NewInstallmentHandler(svc service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{svc: svc}
}

// Settle godoc
// @Summary Records an installment against an open pending payment
// @Tags installments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pending payment ID"
// @Param body body dto.SettleInstallmentRequest true "Payment"
// @Success 200 {object} dto.SettleInstallmentResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/installments/{id}/payments [post]
func (h *InstallmentHandler) Settle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SettleInstallmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Settle(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary Cancels an open pending payment, forgiving the remainder
// @Tags installments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pending payment ID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/installments/{id}/cancel [post]
func (h *InstallmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get returns one pending payment.
func (h *InstallmentHandler) Get(c *gin.Context) {
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

// ListByMember returns every pending payment of a member, newest first.
func (h *InstallmentHandler) ListByMember(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
