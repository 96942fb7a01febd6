package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymops/internal/dto"
	"gymops/internal/service"
)

type SaleHandler struct{ svc service.SaleService }

func NewSaleHandler(svc service.SaleService) *SaleHandler { return &SaleHandler{svc: svc} }

// SellMembership godoc
// @Summary Sells one or more membership services to a member
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SellMembershipRequest true "Membership sale"
// @Success 201 {object} dto.SellMembershipResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/sales/memberships [post]
func (h *SaleHandler) SellMembership(c *gin.Context) {
	var req dto.SellMembershipRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SellMembership(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SellProducts godoc
// @Summary Sells over-the-counter products at the operator's register
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SellProductsRequest true "Product sale"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/sales/products [post]
func (h *SaleHandler) SellProducts(c *gin.Context) {
	var req dto.SellProductsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SellProducts(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get returns one sale with its lines.
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns sales filtered by date and kind; defaults to today.
func (h *SaleHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
