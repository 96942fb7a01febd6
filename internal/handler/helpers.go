package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gymops/internal/apierror"
	"gymops/internal/middleware"
	"gymops/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service errors to HTTP statuses. Business conflicts
// carry the conflicting record so the client can resolve them.
func respondError(c *gin.Context, err error) {
	var dup *service.DuplicateMemberError
	if errors.As(err, &dup) {
		c.JSON(http.StatusConflict, apierror.NewConflict(dup.Error(), dup.Existing))
		return
	}
	var stock *service.InsufficientStockError
	if errors.As(err, &stock) {
		c.JSON(http.StatusConflict, apierror.NewConflict(stock.Error(), gin.H{
			"product":   stock.ProductName,
			"requested": stock.Requested,
			"available": stock.Available,
		}))
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrPendingPaymentNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrRegisterAlreadyOpen),
		errors.Is(err, service.ErrActiveSubscription):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrRegisterNotOpen),
		errors.Is(err, service.ErrServiceUnavailable),
		errors.Is(err, service.ErrOverPayment),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingBuyer),
		errors.Is(err, service.ErrNoRegisterAssigned),
		errors.Is(err, service.ErrInsufficientPayment),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}

// pathID parses the :id route parameter, writing the 400 itself on failure.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// actorID extracts the authenticated employee's id from the JWT claims.
func actorID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, _ := uuid.Parse(claims.UserID)
	return id
}
