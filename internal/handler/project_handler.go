package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/middleware"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/response"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/validator"
)

const dueDateLayout = "2006-01-02"

// ProjectHandler handles the owner-scoped projects CRUD.
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     string `json:"due_date"`
}

// UpdateProjectRequest is the payload for a partial update. Absent fields
// are left unchanged; an empty due_date clears the date.
type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status" binding:"omitempty,oneof=active archived"`
}

// ListProjects godoc
// GET /projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	projects, err := h.projectService.List(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

// CreateProject godoc
// POST /projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req CreateProjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(dueDateLayout, req.DueDate)
		if err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"due_date": "must be a date in YYYY-MM-DD format"})
			return
		}
		dueDate = &parsed
	}

	project, err := h.projectService.Create(c.Request.Context(),
		claims.UserID(), req.Title, req.Description, req.Subject, req.Priority, dueDate)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"project": project})
}

// UpdateProject godoc
// PATCH /projects/:project_id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req UpdateProjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	update := service.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Priority:    req.Priority,
		Status:      req.Status,
	}

	if req.DueDate != nil {
		var dueDate *time.Time
		if *req.DueDate != "" {
			parsed, err := time.Parse(dueDateLayout, *req.DueDate)
			if err != nil {
				response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
					map[string]string{"due_date": "must be a date in YYYY-MM-DD format"})
				return
			}
			dueDate = &parsed
		}
		update.DueDate = &dueDate
	}

	project, err := h.projectService.Update(c.Request.Context(), claims.UserID(), c.Param("project_id"), update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"project": project})
}

// DeleteProject godoc
// DELETE /projects/:project_id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	err := h.projectService.Delete(c.Request.Context(), claims.UserID(), c.Param("project_id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Status(http.StatusNoContent)
}
