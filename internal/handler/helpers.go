package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"taller/internal/apperror"
	"taller/internal/logger"
	"taller/internal/middleware"
	"taller/pkg/pagination"
	"taller/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var validate = validator.New()

func init() {
	// Field errors are reported with their json names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// uuid.Nil reads as empty so "required" rejects it.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(uuid.UUID); ok && v != uuid.Nil {
			return v.String()
		}
		return ""
	}, uuid.UUID{})
}

// bindAndValidate decodes the JSON body into req and runs the validate tags.
// It writes the error response itself and returns false on failure.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Coded(http.StatusBadRequest, "BAD_REQUEST",
			"Cuerpo de la solicitud inválido", map[string]any{"error": err.Error()}))
		return false
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]any, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			c.JSON(http.StatusUnprocessableEntity, response.Coded(http.StatusUnprocessableEntity,
				string(apperror.KindValidation), "Datos inválidos", fields))
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, response.Coded(http.StatusUnprocessableEntity,
			string(apperror.KindValidation), err.Error(), nil))
		return false
	}
	return true
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Coded(http.StatusBadRequest, "BAD_REQUEST",
			"Identificador inválido: "+param, nil))
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUIDQuery returns nil when the query parameter is absent.
func parseOptionalUUIDQuery(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Coded(http.StatusBadRequest, "BAD_REQUEST",
			"Identificador inválido: "+key, nil))
		return nil, false
	}
	return &id, true
}

// parseDateQuery accepts AAAA-MM-DD or RFC3339. With endOfDay a bare date
// covers the whole day.
func parseDateQuery(c *gin.Context, key string, endOfDay bool) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Coded(http.StatusBadRequest, "BAD_REQUEST",
			"Fecha inválida en '"+key+"' (formato esperado AAAA-MM-DD)", nil))
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}

// actor returns the authenticated user id; uuid.Nil when the route is public.
func actor(c *gin.Context) uuid.UUID {
	id, _ := middleware.UserID(c)
	return id
}

// respondError maps a service error onto the envelope. Internal causes are
// logged and never sent to the client.
func respondError(c *gin.Context, err error) {
	appErr := apperror.As(err)
	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.FromGin(c, zap.L()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, response.Coded(status, string(appErr.Kind), appErr.Message, appErr.Details))
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, data))
}

func respondPage(c *gin.Context, items interface{}, total int64, p pagination.Params) {
	respondOK(c, response.Page{Items: items, Total: total, Page: p.Page, Limit: p.Limit})
}
