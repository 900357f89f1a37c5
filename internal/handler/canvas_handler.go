package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/canvas"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/model"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/response"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
)

// CanvasHandler proxies Canvas LMS resources.
type CanvasHandler struct {
	canvasService *service.CanvasService
}

// NewCanvasHandler creates a new CanvasHandler.
func NewCanvasHandler(canvasService *service.CanvasService) *CanvasHandler {
	return &CanvasHandler{canvasService: canvasService}
}

// GetUserInformation godoc
// GET /canvas/user/information
// Returns the Canvas user the configured credential belongs to.
func (h *CanvasHandler) GetUserInformation(c *gin.Context) {
	user, err := h.canvasService.Client().CurrentUser(c.Request.Context())
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// ListCourses godoc
// GET /canvas/courses?canvas_user_id=
// Lists courses for the given user, resolving the current user when the id
// is omitted.
func (h *CanvasHandler) ListCourses(c *gin.Context) {
	courses, err := h.canvasService.ListCourses(c.Request.Context(), c.Query("canvas_user_id"))
	if err != nil {
		failCanvas(c, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /canvas/courses/:course_id
// Returns a single course including its syllabus body.
func (h *CanvasHandler) GetCourse(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	course, err := h.canvasService.Client().Course(c.Request.Context(), courseID, true)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// ListModulesFlexible godoc
// GET /canvas/courses/modules?course_id=&canvas_user_id=
// With course_id: modules for that course. Without: modules across all of
// the user's courses, merged, tolerating per-course upstream failures.
func (h *CanvasHandler) ListModulesFlexible(c *gin.Context) {
	var courseID int64
	if raw := c.Query("course_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = parsed
	}

	modules, err := h.canvasService.ModulesForScope(c.Request.Context(), courseID, c.Query("canvas_user_id"))
	if err != nil {
		failCanvas(c, err)
		return
	}
	if modules == nil {
		modules = []model.Module{}
	}

	response.Success(c, http.StatusOK, gin.H{"modules": modules})
}

// ListCourseModules godoc
// GET /canvas/courses/:course_id/modules
func (h *CanvasHandler) ListCourseModules(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	modules, err := h.canvasService.Client().CourseModules(c.Request.Context(), courseID)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"modules": modules})
}

// ListModuleItems godoc
// GET /canvas/courses/:course_id/modules/:module_id/items
func (h *CanvasHandler) ListModuleItems(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}
	moduleID, ok := parseID(c, "module_id")
	if !ok {
		return
	}

	h.listModuleItems(c, courseID, moduleID)
}

// ListModuleItemsByQuery godoc
// GET /canvas/modules/:module_id/items?course_id=
// Alternate shape: Canvas has no module items route without a course, so
// the course id comes as a query parameter.
func (h *CanvasHandler) ListModuleItemsByQuery(c *gin.Context) {
	moduleID, ok := parseID(c, "module_id")
	if !ok {
		return
	}

	courseID, err := strconv.ParseInt(c.Query("course_id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	h.listModuleItems(c, courseID, moduleID)
}

func (h *CanvasHandler) listModuleItems(c *gin.Context, courseID, moduleID int64) {
	items, err := h.canvasService.Client().ModuleItems(c.Request.Context(), courseID, moduleID)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// ListAssignments godoc
// GET /canvas/courses/:course_id/assignments
func (h *CanvasHandler) ListAssignments(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	assignments, err := h.canvasService.Client().CourseAssignments(c.Request.Context(), courseID)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// GetAssignment godoc
// GET /canvas/courses/:course_id/assignments/:assignment_id
func (h *CanvasHandler) GetAssignment(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}
	assignmentID, ok := parseID(c, "assignment_id")
	if !ok {
		return
	}

	assignment, err := h.canvasService.Client().CourseAssignment(c.Request.Context(), courseID, assignmentID)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// ListQuizzes godoc
// GET /canvas/courses/:course_id/quizzes
func (h *CanvasHandler) ListQuizzes(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	quizzes, err := h.canvasService.Client().CourseQuizzes(c.Request.Context(), courseID)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// GetQuiz godoc
// GET /canvas/courses/:course_id/quizzes/:quiz_id
func (h *CanvasHandler) GetQuiz(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}
	quizID, ok := parseID(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.canvasService.Client().CourseQuiz(c.Request.Context(), courseID, quizID)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// ListFiles godoc
// GET /canvas/courses/:course_id/files
func (h *CanvasHandler) ListFiles(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	files, err := h.canvasService.Client().CourseFiles(c.Request.Context(), courseID)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"files": files})
}

// ListPages godoc
// GET /canvas/courses/:course_id/pages
func (h *CanvasHandler) ListPages(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	pages, err := h.canvasService.Client().CoursePages(c.Request.Context(), courseID)
	if err != nil {
		failCanvas(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pages": pages})
}

// parseID reads a positive integer path parameter, failing the request with
// 400 when it is malformed.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// failCanvas maps aggregation and upstream errors to the HTTP boundary:
// unresolved user id → 400, everything upstream → 502 with the upstream
// message attached.
func failCanvas(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserIDRequired) {
		response.Fail(c, http.StatusBadRequest, response.ErrUserIDRequired)
		return
	}

	var aggErr *service.AggregateError
	if errors.As(err, &aggErr) {
		response.FailWithDetails(c, http.StatusBadGateway, response.ErrUpstream, aggErr.Error(), aggErr.Errors)
		return
	}

	var upErr *canvas.UpstreamError
	if errors.As(err, &upErr) {
		response.FailWithDetails(c, http.StatusBadGateway, response.ErrUpstream, upErr.Body,
			gin.H{"upstream_status": upErr.StatusCode})
		return
	}

	response.FailWithMessage(c, http.StatusBadGateway, response.ErrUpstream, err.Error())
}
