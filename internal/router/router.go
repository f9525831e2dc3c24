package router

import (
	"net/http"

	"taller/internal/authz"
	"taller/internal/config"
	"taller/internal/handler"
	"taller/internal/logger"
	"taller/internal/middleware"
	"taller/internal/repository"
	"taller/internal/service"
	"taller/internal/websocket"
	"taller/pkg/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger, hub *websocket.Hub) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.RequestID())
	r.Use(logger.GinMiddleware(log))
	r.Use(logger.Recovery(log))
	r.Use(cors.New(corsConfig(cfg)))

	// ── Auth ─────────────────────────────────────────────────────────────────
	resolver := authz.NewResolver(authz.DefaultTable())
	issuer := authz.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL())
	auth := middleware.NewAuth(issuer, resolver, cfg.IsProduction())

	// ── Repositories ─────────────────────────────────────────────────────────
	txManager := repository.NewTransactionManager(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	equipoRepo := repository.NewEquipoRepository(db)
	tecnicoRepo := repository.NewTecnicoRepository(db)
	especializacionRepo := repository.NewEspecializacionRepository(db)
	medioCobroRepo := repository.NewMedioCobroRepository(db)
	repuestoRepo := repository.NewRepuestoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	reparacionRepo := repository.NewReparacionRepository(db)
	presupuestoRepo := repository.NewPresupuestoRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	cobroRepo := repository.NewCobroRepository(db)
	historialRepo := repository.NewHistorialStockRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	auditSvc := service.NewAuditService(auditRepo)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, issuer, resolver, txManager)
	roleSvc := service.NewRoleService(resolver)
	clienteSvc := service.NewClienteService(clienteRepo, txManager)
	equipoSvc := service.NewEquipoService(equipoRepo, clienteRepo, txManager)
	tecnicoSvc := service.NewTecnicoService(tecnicoRepo, especializacionRepo, txManager)
	especializacionSvc := service.NewEspecializacionService(especializacionRepo, txManager)
	medioCobroSvc := service.NewMedioCobroService(medioCobroRepo, txManager)
	stockSvc := service.NewStockService(repuestoRepo, historialRepo, compraRepo, reparacionRepo, proveedorRepo, auditSvc, txManager, hub, log)
	repuestoSvc := service.NewRepuestoService(repuestoRepo, stockSvc, txManager)
	proveedorSvc := service.NewProveedorService(proveedorRepo, repuestoRepo, txManager)
	reparacionSvc := service.NewReparacionService(reparacionRepo, equipoRepo, tecnicoRepo, txManager)
	presupuestoSvc := service.NewPresupuestoService(presupuestoRepo, reparacionRepo, facturaRepo, auditSvc, txManager)
	facturacionSvc := service.NewFacturacionService(facturaRepo, cobroRepo, presupuestoRepo, medioCobroRepo, auditSvc, txManager, hub, log)
	statisticsSvc := service.NewStatisticsService(statsRepo, reparacionRepo, repuestoRepo)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", health(db))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(hub, issuer, c)
	})

	api := r.Group("/api")
	handler.NewUsuarioHandler(usuarioSvc).RegisterRoutes(api, auth)
	handler.NewRoleHandler(roleSvc).RegisterRoutes(api, auth)
	handler.NewClienteHandler(clienteSvc, equipoSvc).RegisterRoutes(api, auth)
	handler.NewTecnicoHandler(tecnicoSvc).RegisterRoutes(api, auth)
	handler.NewEspecializacionHandler(especializacionSvc).RegisterRoutes(api, auth)
	handler.NewMedioCobroHandler(medioCobroSvc).RegisterRoutes(api, auth)
	handler.NewRepuestoHandler(repuestoSvc).RegisterRoutes(api, auth)
	handler.NewProveedorHandler(proveedorSvc).RegisterRoutes(api, auth)
	handler.NewReparacionHandler(reparacionSvc, stockSvc).RegisterRoutes(api, auth)
	handler.NewPresupuestoHandler(presupuestoSvc).RegisterRoutes(api, auth)
	handler.NewFacturacionHandler(facturacionSvc).RegisterRoutes(api, auth)
	handler.NewStockHandler(stockSvc).RegisterRoutes(api, auth)
	handler.NewAuditHandler(auditSvc).RegisterRoutes(api, auth)
	handler.NewStatisticsHandler(statisticsSvc).RegisterRoutes(api, auth)

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowedOrigins()
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-ID"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.ExposeHeaders = []string{"X-Request-ID"}
	return corsCfg
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, response.Coded(http.StatusServiceUnavailable, "UNAVAILABLE", "Base de datos no disponible", nil))
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": "OK"}))
	}
}
