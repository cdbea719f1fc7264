package controllers

import (
	"net/http"

	"taskly-be/internal/apperrors"
	"taskly-be/internal/models"
	"taskly-be/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	taskService service.TaskService
}

func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

// CreateTask handles POST /api/v1/tasks
func (tc *TaskController) CreateTask(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	response, err := tc.taskService.Create(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListTasks handles GET /api/v1/tasks?search=&status=&page=&limit=
func (tc *TaskController) ListTasks(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var query models.ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, apperrors.Validation("Invalid query parameters"))
		return
	}

	response, err := tc.taskService.List(c.Request.Context(), id, &query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTask handles GET /api/v1/tasks/:id
func (tc *TaskController) GetTask(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	response, err := tc.taskService.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateTask handles PUT /api/v1/tasks/:id
func (tc *TaskController) UpdateTask(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	response, err := tc.taskService.Update(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteTask handles DELETE /api/v1/tasks/:id
func (tc *TaskController) DeleteTask(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	response, err := tc.taskService.Delete(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
