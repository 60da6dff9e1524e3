package handlers

import (
	"net/http"

	"fundilink/models"
	"fundilink/services/user"
	"fundilink/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes client account endpoints.
type UserHandler struct {
	UserService user.UserService
}

// RegisterUserHandler handles POST /api/users/register.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid user payload", err.Error())
		return
	}

	created, token, err := h.UserService.Register(&u)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "registration failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": created, "token": token})
}

// LoginUserHandler handles POST /api/users/login.
func (h *UserHandler) LoginUserHandler(c *gin.Context) {
	var creds struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid credentials payload", err.Error())
		return
	}

	u, token, err := h.UserService.Login(creds.Phone, creds.Password)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "login failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

// GetUserHandler handles GET /api/users/:id.
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	u, err := h.UserService.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "user not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, u)
}
