package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/model"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
)

const projectColumns = `id, user_id, title, description, subject, priority, due_date, status, created_at, updated_at`

// ProjectRepository handles project data access.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// ListByUser retrieves all projects owned by a user, newest first.
func (r *ProjectRepository) ListByUser(ctx context.Context, userID string) ([]model.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+`
		 FROM projects WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Create inserts a new project. The database assigns id and timestamps.
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO projects (user_id, title, description, subject, priority, due_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		p.UserID, p.Title, p.Description, p.Subject, p.Priority, p.DueDate, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update applies a partial update to a project owned by userID and returns
// the updated row. pgx.ErrNoRows signals "not found or not owned".
func (r *ProjectRepository) Update(ctx context.Context, userID, projectID string, update service.ProjectUpdate) (*model.Project, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}
	next := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}

	if update.Title != nil {
		addSet("title", *update.Title)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.Subject != nil {
		addSet("subject", *update.Subject)
	}
	if update.Priority != nil {
		addSet("priority", *update.Priority)
	}
	if update.DueDate != nil {
		addSet("due_date", *update.DueDate)
	}
	if update.Status != nil {
		addSet("status", *update.Status)
	}

	query := fmt.Sprintf(
		`UPDATE projects SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), next, next+1, projectColumns)
	args = append(args, projectID, userID)

	p := &model.Project{}
	if err := scanProject(r.pool.QueryRow(ctx, query, args...), p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project owned by userID. pgx.ErrNoRows signals
// "not found or not owned".
func (r *ProjectRepository) Delete(ctx context.Context, userID, projectID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProject(row pgx.Row, p *model.Project) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.Subject,
		&p.Priority, &p.DueDate, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
}
