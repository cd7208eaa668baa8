package handler

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KelvinKitheka/stocker/internal/apierror"
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
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
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

// respondError maps service-layer error kinds to HTTP statuses in one place.
func respondError(c *gin.Context, err error) {
	if e, ok := apierror.As(err); ok {
		switch e.Kind {
		case apierror.KindValidation:
			if e.Fields != nil {
				c.JSON(http.StatusUnprocessableEntity, &apierror.ValidationBody{Detail: e.Detail, Fields: e.Fields})
			} else {
				c.JSON(http.StatusUnprocessableEntity, apierror.New(e.Detail))
			}
		case apierror.KindInvalidState:
			c.JSON(http.StatusConflict, apierror.New(e.Detail))
		case apierror.KindNotFound:
			c.JSON(http.StatusNotFound, apierror.New(e.Detail))
		case apierror.KindConflict:
			c.JSON(http.StatusConflict, apierror.New(e.Detail))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
		}
		return
	}
	// Unknown errors bubble to the error-handler middleware log and a 500.
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
}

// parseID parses the :id path param, answering 400 on garbage input.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return uuid.Nil, false
	}
	return id, true
}
