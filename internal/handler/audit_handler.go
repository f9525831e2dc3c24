package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	router.GET("/auditoria", auth.Authenticate(), auth.RequirePermission(authz.AuditoriaVer), h.GetAuditLogs)
}

// GetAuditLogs godoc
// @Summary      List audit logs
// @Description  Returns a paginated list of audited writes, newest first
// @Tags         auditoria
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        accion  query     string  false  "Filter by action"
// @Success      200     {object}  response.Response{data=response.Page{items=[]service.AuditLogResponse}}
// @Failure      500     {object}  response.Response
// @Router       /auditoria [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), p, c.Query("accion"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, logs, total, p)
}
