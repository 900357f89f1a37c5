package service

import (
	"context"
	"time"

	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/model"
)

// ProjectUpdate carries the fields of a partial update. Nil means "leave
// unchanged"; DueDate uses a double pointer so a client can clear the date
// explicitly (non-nil pointer to nil).
type ProjectUpdate struct {
	Title       *string
	Description *string
	Subject     *string
	Priority    *string
	DueDate     **time.Time
	Status      *string
}

// ProjectStore is the persistence contract for projects. Every operation is
// scoped by the owning user id.
type ProjectStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, userID, projectID string, update ProjectUpdate) (*model.Project, error)
	Delete(ctx context.Context, userID, projectID string) error
}

// ProjectService handles project business logic.
type ProjectService struct {
	store ProjectStore
}

// NewProjectService creates a new ProjectService.
func NewProjectService(store ProjectStore) *ProjectService {
	return &ProjectService{store: store}
}

// List retrieves all projects owned by a user, newest first.
func (s *ProjectService) List(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

// Create inserts a new project for a user, applying the API defaults.
func (s *ProjectService) Create(ctx context.Context, userID, title, description, subject, priority string, dueDate *time.Time) (*model.Project, error) {
	if subject == "" {
		subject = "General"
	}
	if priority == "" {
		priority = model.ProjectPriorityMedium
	}

	project := &model.Project{
		UserID:      userID,
		Title:       title,
		Description: description,
		Subject:     subject,
		Priority:    priority,
		DueDate:     dueDate,
		Status:      model.ProjectStatusActive,
	}
	if err := s.store.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update applies a partial update to a project the user owns.
func (s *ProjectService) Update(ctx context.Context, userID, projectID string, update ProjectUpdate) (*model.Project, error) {
	return s.store.Update(ctx, userID, projectID, update)
}

// Delete removes a project the user owns.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	return s.store.Delete(ctx, userID, projectID)
}
