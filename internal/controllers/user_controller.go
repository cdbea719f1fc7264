package controllers

import (
	"net/http"

	"taskly-be/internal/models"
	"taskly-be/internal/service"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetProfile handles GET /api/v1/me
func (uc *UserController) GetProfile(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	response, err := uc.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateProfile handles PUT /api/v1/me
func (uc *UserController) UpdateProfile(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	response, err := uc.userService.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
