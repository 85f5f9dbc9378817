package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokamart/e-commerce-api/internal/platform/logger"
	"github.com/lokamart/e-commerce-api/internal/platform/web"
	"github.com/lokamart/e-commerce-api/internal/user/domain"
	"github.com/lokamart/e-commerce-api/internal/user/repository"
	"github.com/lokamart/e-commerce-api/internal/user/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(us service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

func (h *UserHandler) RegisterAuthRoutes(router *gin.RouterGroup) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", h.SignUp)
		authRoutes.POST("/signin", h.SignIn)
		authRoutes.POST("/refresh", h.RefreshToken)
	}
}

func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	userRoutes := router.Group("/users")
	{
		userRoutes.GET("/profile", h.GetProfile)
		userRoutes.PUT("/profile", h.UpdateProfile)
		userRoutes.PUT("/change-password", h.ChangePassword)
	}
}

func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	adminRoutes := router.Group("/users")
	{
		adminRoutes.GET("", h.ListUsers)
		adminRoutes.GET("/:id", h.GetUser)
	}
}

func (h *UserHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			web.Fail(c, http.StatusConflict, err.Error())
			return
		}
		logger.Error("SignUp: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	web.Created(c, user, "Registration successful")
}

func (h *UserHandler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.userService.SignIn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			web.Fail(c, http.StatusUnauthorized, err.Error())
			return
		}
		logger.Error("SignIn: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	web.OK(c, resp)
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusUnauthorized, "Missing refresh token")
		return
	}

	resp, err := h.userService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			web.Fail(c, http.StatusForbidden, err.Error())
			return
		}
		logger.Error("RefreshToken: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	web.OK(c, resp)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			web.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("GetProfile: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}
	web.OK(c, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), UserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			web.Fail(c, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			web.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("UpdateProfile: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	web.OKWithMessage(c, user, "Profile updated")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), UserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			web.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("ChangePassword: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to change password")
		return
	}
	web.OKWithMessage(c, nil, "Password changed")
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page := web.QueryInt(c, "page", 1)
	limit := web.QueryInt(c, "limit", 20)

	users, total, err := h.userService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		logger.Error("ListUsers: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	web.OKList(c, users, web.NewPagination(page, limit, total))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			web.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("GetUser: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	web.OK(c, user)
}
