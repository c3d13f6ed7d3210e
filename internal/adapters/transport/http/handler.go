package http

import (
	"net/http"
	"time"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/transport/http/middleware"
	appsvc "github.com/Miraines/MoonyAndStarry/contact-service/internal/app/auth/service"
	authErrors "github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc appsvc.Service
}

func NewHandler(svc appsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
		auth.GET("/verify", h.verifyEmail)
		auth.POST("/reset-password-request", h.resetRequest)
		auth.POST("/reset-password", h.resetPassword)
	}

	users := r.Group("/api/users", middleware.BearerAuth(h.svc))
	{
		users.GET("/me", h.me)
		users.PATCH("/me", h.patchMe)
		users.PATCH("/me/avatar", h.patchAvatar)
		users.GET("", middleware.RequireRole(model.RoleAdmin), h.listUsers)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// login consumes an OAuth2-style form: username carries the email.
func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *Handler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var q dto.VerifyEmailDTO
	if err := c.ShouldBindQuery(&q); err != nil || q.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		return
	}

	if err := h.svc.VerifyEmail(c.Request.Context(), q.Token); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Email successfully verified"})
}

func (h *Handler) resetRequest(c *gin.Context) {
	var body dto.ResetRequestDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), body.Email); err != nil {
		handleError(c, err)
		return
	}
	// same body whether or not the account exists
	c.JSON(http.StatusOK, gin.H{"msg": "If that email exists, instructions have been sent."})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var body dto.ResetPasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), body); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Password has been reset"})
}

func (h *Handler) me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) patchMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var patch model.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.UpdateProfile(c.Request.Context(), user, patch)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) patchAvatar(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	updated, err := h.svc.UpdateAvatar(c.Request.Context(), user, file)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// handleError maps the error taxonomy onto stable statuses with short,
// non-leaking reasons.
func handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": authErrors.Reason(err)})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case authErrors.IsEmailNotVerified(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "email not verified"})
	case authErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case authErrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case authErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case authErrors.IsUpstream(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
