package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/service/auth"
	"github.com/mpopescu/skybooker/internal/service/users"
)

type AuthHandler struct {
	auth  auth.AuthUseCase
	users users.UserUseCase
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(authUC auth.AuthUseCase, usersUC users.UserUseCase) *AuthHandler {
	return &AuthHandler{auth: authUC, users: usersUC}
}

func (h *AuthHandler) Register(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/check", authMW, h.check)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respond(c, http.StatusCreated, "account created", toUserResponse(user))
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// bad credentials are a 400 on login; 401 is reserved for
		// bearer-token failures on protected routes
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, "logged in", gin.H{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (h *AuthHandler) check(c *gin.Context) {
	identity := identityFrom(c)
	user, err := h.users.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "token is valid", toUserResponse(user))
}
