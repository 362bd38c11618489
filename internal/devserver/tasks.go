package devserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tasker/internal/service"
)

const msgTaskNotFound = "Task not found"

func (s *Server) listTasks(c *gin.Context) {
	c.JSON(http.StatusOK, s.storeFor(c).List())
}

func (s *Server) createTask(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.storeFor(c).Create(fields))
}

func (s *Server) updateTask(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	task, found := s.storeFor(c).Update(service.ID(c.Param("id")), fields)
	if !found {
		abort(c, http.StatusNotFound, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	task, found := s.storeFor(c).Delete(service.ID(c.Param("id")))
	if !found {
		abort(c, http.StatusNotFound, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}

// bindFields decodes and checks a task body. On failure the response has
// been written.
func bindFields(c *gin.Context) (service.TaskFields, bool) {
	var fields service.TaskFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return fields, false
	}
	fields.Title = strings.TrimSpace(fields.Title)
	fields.Description = strings.TrimSpace(fields.Description)
	if fields.Title == "" || fields.Description == "" {
		abort(c, http.StatusBadRequest, "Title and description are required")
		return fields, false
	}
	if fields.DueDate != "" {
		if _, ok := (service.Task{DueDate: fields.DueDate}).Due(); !ok {
			abort(c, http.StatusBadRequest, "Due date must be YYYY-MM-DD")
			return fields, false
		}
	}
	if fields.Priority != "" && !fields.Priority.Valid() {
		abort(c, http.StatusBadRequest, "Priority must be low, medium or high")
		return fields, false
	}
	return fields, true
}
