package model

// Upstream-sourced Canvas projections. Every id below is minted by Canvas
// and relayed unchanged; this service never assigns its own.

// CanvasUser represents a Canvas user (student, teacher, admin, etc.).
type CanvasUser struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	SortableName  string                 `json:"sortable_name,omitempty"`
	ShortName     string                 `json:"short_name,omitempty"`
	LoginID       string                 `json:"login_id,omitempty"`
	SISUserID     string                 `json:"sis_user_id,omitempty"`
	IntegrationID string                 `json:"integration_id,omitempty"`
	Email         string                 `json:"email,omitempty"`
	AvatarURL     string                 `json:"avatar_url,omitempty"`
	Bio           string                 `json:"bio,omitempty"`
	Pronouns      string                 `json:"pronouns,omitempty"`
	Locale        string                 `json:"locale,omitempty"`
	TimeZone      string                 `json:"time_zone,omitempty"`
	LastLogin     string                 `json:"last_login,omitempty"`
	Permissions   map[string]interface{} `json:"permissions,omitempty"`
}

// Course represents a Canvas course. SyllabusBody is populated only when
// the course is fetched with the syllabus inclusion flag.
type Course struct {
	ID             int64                    `json:"id,omitempty"`
	CanvasCourseID int64                    `json:"canvas_course_id,omitempty"`
	Name           string                   `json:"name,omitempty"`
	CourseCode     string                   `json:"course_code,omitempty"`
	Term           string                   `json:"term,omitempty"`
	SyllabusBody   string                   `json:"syllabus_body,omitempty"`
	Enrollments    []map[string]interface{} `json:"enrollments,omitempty"`
}

// CourseID returns the course's external id, trying the `id` field first
// and falling back to `canvas_course_id`. Returns 0 when neither is set.
func (c Course) CourseID() int64 {
	if c.ID != 0 {
		return c.ID
	}
	return c.CanvasCourseID
}

// Module represents a Canvas module (section within a course).
type Module struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	Position int    `json:"position,omitempty"`
	UnlockAt string `json:"unlock_at,omitempty"`
}

// ModuleItem represents an item inside a module (page, assignment, file...).
type ModuleItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
	ContentID int64  `json:"content_id,omitempty"`
	Position  int    `json:"position,omitempty"`
}

// Assignment represents a course assignment.
type Assignment struct {
	ID                      int64    `json:"id"`
	Name                    string   `json:"name,omitempty"`
	Description             string   `json:"description,omitempty"`
	DueAt                   string   `json:"due_at,omitempty"`
	PointsPossible          float64  `json:"points_possible,omitempty"`
	SubmissionTypes         []string `json:"submission_types,omitempty"`
	HasSubmittedSubmissions bool     `json:"has_submitted_submissions,omitempty"`
}

// Quiz represents a course quiz.
type Quiz struct {
	ID              int64  `json:"id"`
	Title           string `json:"title,omitempty"`
	HTMLURL         string `json:"html_url,omitempty"`
	QuizType        string `json:"quiz_type,omitempty"`
	TimeLimit       int    `json:"time_limit,omitempty"`
	AllowedAttempts int    `json:"allowed_attempts,omitempty"`
	QuestionCount   int    `json:"question_count,omitempty"`
}

// File represents a course file (lecture notes, PDFs, ...).
type File struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content-type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Page is a Canvas wiki page, relayed untyped.
type Page = map[string]interface{}
