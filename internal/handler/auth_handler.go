package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/service"
)

// AuthHandler serves sign-up, sign-in and the current user.
type AuthHandler struct {
	responder
	Service service.AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AuthServiceInterface, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{responder: responder{logger: logger}, Service: svc}
}

// UserResponse wraps a user.
type UserResponse struct {
	User *model.User `json:"user"`
}

// @Summary Register
// @Description Create an account and receive a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Account details"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) register(r *apiRequest) (int, any) {
	var in service.RegisterInput
	if err := r.bind(&in); err != nil {
		return h.fail(r, err)
	}
	res, err := h.Service.Register(r.ctx, in)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusCreated, res
}

// @Summary Login
// @Description Exchange email and password for a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Credentials"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) login(r *apiRequest) (int, any) {
	var in service.LoginInput
	if err := r.bind(&in); err != nil {
		return h.fail(r, err)
	}
	res, err := h.Service.Login(r.ctx, in)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, res
}

// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) me(r *apiRequest) (int, any) {
	user, err := h.Service.GetUser(r.ctx, r.userID)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, UserResponse{User: user}
}

func (h *AuthHandler) RegisterGin(c *gin.Context)       { serveGin(c, h.register) }
func (h *AuthHandler) RegisterFiber(c *fiber.Ctx) error { return serveFiber(c, h.register) }
func (h *AuthHandler) LoginGin(c *gin.Context)          { serveGin(c, h.login) }
func (h *AuthHandler) LoginFiber(c *fiber.Ctx) error    { return serveFiber(c, h.login) }
func (h *AuthHandler) MeGin(c *gin.Context)             { serveGin(c, h.me) }
func (h *AuthHandler) MeFiber(c *fiber.Ctx) error       { return serveFiber(c, h.me) }
