package handler

import (
	"net/http"

	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"
	"taller/pkg/response"

	"github.com/gin-gonic/gin"
)

type UsuarioHandler struct {
	usuarioService service.UsuarioService
}

// NewUsuarioHandler sets up the routing dependencies for session and user endpoints
func NewUsuarioHandler(usuarioService service.UsuarioService) *UsuarioHandler {
	return &UsuarioHandler{usuarioService: usuarioService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UsuarioHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	// Public routes
	router.POST("/login", h.loginWith(auth))
	router.POST("/logout", h.logoutWith(auth))

	// Any valid token
	router.GET("/me", auth.Authenticate(), h.GetMe)

	usuarios := router.Group("/usuarios", auth.Authenticate(), auth.RequirePermission(authz.UsuariosGestionar))
	{
		usuarios.GET("", h.ListUsuarios)
		usuarios.GET("/:id", h.GetUsuario)
		usuarios.POST("", h.CreateUsuario)
		usuarios.PUT("/:id", h.UpdateUsuario)
		usuarios.DELETE("/:id", h.DeleteUsuario)
	}
}

// Login authenticates a user and returns a JWT token
// @Summary      Login
// @Description  Authenticates by nombre and password. The token is also set as the access_token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credenciales"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /login [post]
func (h *UsuarioHandler) loginWith(auth *middleware.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginRequest
		if !bindAndValidate(c, &req) {
			return
		}

		res, err := h.usuarioService.Login(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		auth.SetTokenCookie(c, res.Token, res.ExpiresAt)
		respondOK(c, res)
	}
}

// Logout clears the token cookie
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /logout [post]
func (h *UsuarioHandler) logoutWith(auth *middleware.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.ClearTokenCookie(c)
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Sesión cerrada"}))
	}
}

// GetMe returns the authenticated user and its permissions
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.MeResponse}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
func (h *UsuarioHandler) GetMe(c *gin.Context) {
	me, err := h.usuarioService.Me(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, me)
}

// ListUsuarios
// @Summary      List users
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Filtro por nombre"
// @Success      200     {object}  response.Response{data=response.Page{items=[]model.Usuario}}
// @Router       /usuarios [get]
func (h *UsuarioHandler) ListUsuarios(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.usuarioService.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetUsuario
// @Summary      Get user
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Usuario ID"
// @Success      200  {object}  response.Response{data=model.Usuario}
// @Failure      404  {object}  response.Response
// @Router       /usuarios/{id} [get]
func (h *UsuarioHandler) GetUsuario(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	usuario, err := h.usuarioService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, usuario)
}

// CreateUsuario
// @Summary      Create user
// @Description  Creates a user hashing the password with bcrypt
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUsuarioRequest  true  "Usuario"
// @Success      201      {object}  response.Response{data=model.Usuario}
// @Failure      422      {object}  response.Response
// @Router       /usuarios [post]
func (h *UsuarioHandler) CreateUsuario(c *gin.Context) {
	var req service.CreateUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuario, err := h.usuarioService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, usuario)
}

// UpdateUsuario
// @Summary      Update user
// @Description  An empty password keeps the current one
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Usuario ID"
// @Param        payload  body      service.UpdateUsuarioRequest  true  "Usuario"
// @Success      200      {object}  response.Response{data=model.Usuario}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /usuarios/{id} [put]
func (h *UsuarioHandler) UpdateUsuario(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuario, err := h.usuarioService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, usuario)
}

// DeleteUsuario
// @Summary      Delete user
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Usuario ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /usuarios/{id} [delete]
func (h *UsuarioHandler) DeleteUsuario(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.usuarioService.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Usuario eliminado"})
}
