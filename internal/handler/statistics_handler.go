package handler

import (
	"time"

	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	router.GET("/estadisticas", auth.Authenticate(), auth.RequirePermission(authz.EstadisticasVer), h.GetStatistics)
}

// @Summary      Get statistics
// @Description  Billing totals and repair counts by state. Defaults to the current month.
// @Tags         estadisticas
// @Produce      json
// @Param        desde  query  string  false  "Start date (AAAA-MM-DD or RFC3339)"
// @Param        hasta  query  string  false  "End date (AAAA-MM-DD or RFC3339)"
// @Success      200  {object}  response.Response{data=model.Estadisticas}
// @Failure      400  {object}  response.Response  "Invalid date format"
// @Failure      401  {object}  response.Response  "Unauthorized"
// @Failure      422  {object}  response.Response  "hasta before desde"
// @Security     BearerAuth
// @Router       /estadisticas [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	desde, ok := parseDateQuery(c, "desde", false)
	if !ok {
		return
	}
	hasta, ok := parseDateQuery(c, "hasta", true)
	if !ok {
		return
	}

	var start, end time.Time
	if desde != nil {
		start = *desde
	}
	if hasta != nil {
		end = *hasta
	}

	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
