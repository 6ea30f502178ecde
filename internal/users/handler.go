package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"essay-backend/internal/shared/server/middleware"
	"essay-backend/internal/shared/server/respond"
)

const invalidCredentialsMessage = "Invalid username or password"

// Handler wires HTTP handlers to the users service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type meResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// RegisterPublicRoutes attaches /login and /signup to the root group.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
	rg.POST("/signup", h.signup)
}

// RegisterRoutes attaches routes that require a verified token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// login godoc
// @Summary  Log in with username and password
// @Accept   json
// @Produce  json
// @Param    body  body      loginRequest  true  "credentials"
// @Success  200   {object}  map[string]string
// @Failure  401   {object}  respond.MessageResponse
// @Router   /login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Message(c, http.StatusUnauthorized, "invalid_credentials", invalidCredentialsMessage)
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Message(c, http.StatusUnauthorized, "invalid_credentials", invalidCredentialsMessage)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log in", nil)
		return
	}
	respond.OK(c, gin.H{"token": token})
}

// signup godoc
// @Summary  Create an account
// @Accept   json
// @Produce  json
// @Param    body  body      signupRequest  true  "account"
// @Success  200   {object}  map[string]User
// @Failure  400   {object}  respond.ErrorResponse
// @Failure  409   {object}  respond.ErrorResponse
// @Router   /signup [post]
func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "username, a valid email and a password of at least 6 characters are required", nil)
		return
	}

	user, err := h.Svc.Signup(c.Request.Context(), SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "username, a valid email and a password of at least 6 characters are required", nil)
		case errors.Is(err, ErrUserExists):
			respond.Error(c, http.StatusConflict, "conflict", "username already taken", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create user", nil)
		}
		return
	}
	respond.OK(c, gin.H{"user": user})
}

// me godoc
// @Summary   Current user profile
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  meResponse
// @Failure   401  {object}  respond.ErrorResponse
// @Router    /api/v1/me [get]
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	user, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, meResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Verified: user.Verified,
	})
}
