package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/service/users"
)

type UserHandler struct {
	users users.UserUseCase
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// updateUserRequest distinguishes absent fields from empty ones: only
// fields present in the body are applied.
type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func NewUserHandler(usersUC users.UserUseCase) *UserHandler {
	return &UserHandler{users: usersUC}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
}

func (h *UserHandler) list(c *gin.Context) {
	all, err := h.users.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	out := make([]userResponse, 0, len(all))
	for i := range all {
		out = append(out, toUserResponse(&all[i]))
	}
	respond(c, http.StatusOK, "users found", out)
}

func (h *UserHandler) get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "user found", toUserResponse(user))
}

func (h *UserHandler) create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), users.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusCreated, "user created", toUserResponse(user))
}

func (h *UserHandler) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	patch := domain.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	user, err := h.users.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "user updated", toUserResponse(user))
}

func (h *UserHandler) remove(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "user deleted", nil)
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
