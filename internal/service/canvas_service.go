package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/canvas"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/model"
	"github.com/rs/zerolog"
)

// ErrUserIDRequired signals that no Canvas user id was supplied and the
// implicit lookup could not produce one. Surfaced as a client error (400),
// distinct from an upstream failure while fetching data (502).
var ErrUserIDRequired = errors.New("canvas user id required and could not be resolved")

// CourseError records one failed fan-out branch.
type CourseError struct {
	CourseID int64  `json:"course_id"`
	Message  string `json:"error"`
}

// AggregateError is returned when every fan-out branch failed and the
// merged result is empty. It carries one entry per failed course.
type AggregateError struct {
	Errors []CourseError
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("failed to fetch modules for all %d courses", len(e.Errors))
}

// CanvasService aggregates Canvas resources across a user's courses.
// It holds no state between requests.
type CanvasService struct {
	client *canvas.Client
	log    zerolog.Logger
}

// NewCanvasService creates a new CanvasService.
func NewCanvasService(client *canvas.Client, log zerolog.Logger) *CanvasService {
	return &CanvasService{client: client, log: log}
}

// Client exposes the underlying accessor client for pass-through handlers.
func (s *CanvasService) Client() *canvas.Client {
	return s.client
}

// ResolveUserID returns the explicit id when supplied, otherwise resolves
// the current user via the configured credential. Any failure — upstream
// error or a user with no id — maps to ErrUserIDRequired.
func (s *CanvasService) ResolveUserID(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUserIDRequired, err)
	}
	if user == nil || user.ID == 0 {
		return "", ErrUserIDRequired
	}
	return strconv.FormatInt(user.ID, 10), nil
}

// ListCourses resolves the user per ResolveUserID and returns their courses.
// Zero courses is an empty list, not an error.
func (s *CanvasService) ListCourses(ctx context.Context, explicitUserID string) ([]model.Course, error) {
	userID, err := s.ResolveUserID(ctx, explicitUserID)
	if err != nil {
		return nil, err
	}
	return s.client.UserCourses(ctx, userID)
}

// ModulesForScope returns modules for one course when courseID is set, or
// the concatenation of modules across all of the user's courses when it is
// not. Fan-out branches run concurrently; one branch failing never aborts
// or cancels the others. Merge order is course-iteration order, then each
// course's own returned order.
func (s *CanvasService) ModulesForScope(ctx context.Context, courseID int64, explicitUserID string) ([]model.Module, error) {
	if courseID != 0 {
		return s.client.CourseModules(ctx, courseID)
	}

	userID, err := s.ResolveUserID(ctx, explicitUserID)
	if err != nil {
		return nil, err
	}

	courses, err := s.client.UserCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A course entry with neither `id` nor `canvas_course_id` is skipped,
	// not an error.
	courseIDs := make([]int64, 0, len(courses))
	for _, course := range courses {
		if cid := course.CourseID(); cid != 0 {
			courseIDs = append(courseIDs, cid)
		}
	}

	type branch struct {
		modules []model.Module
		err     error
	}

	// Indexed results keep course-iteration order regardless of which
	// branch finishes first.
	results := make([]branch, len(courseIDs))
	var wg sync.WaitGroup
	for i, cid := range courseIDs {
		wg.Add(1)
		go func(i int, cid int64) {
			defer wg.Done()
			modules, err := s.client.CourseModules(ctx, cid)
			results[i] = branch{modules: modules, err: err}
		}(i, cid)
	}
	wg.Wait()

	merged := make([]model.Module, 0)
	var courseErrs []CourseError
	for i, res := range results {
		if res.err != nil {
			courseErrs = append(courseErrs, CourseError{
				CourseID: courseIDs[i],
				Message:  res.err.Error(),
			})
			continue
		}
		merged = append(merged, res.modules...)
	}

	if len(courseErrs) > 0 && len(merged) == 0 {
		return nil, &AggregateError{Errors: courseErrs}
	}

	// Partial failures with a non-empty merge are dropped from the
	// response but logged, so the information is not lost operationally.
	for _, ce := range courseErrs {
		s.log.Warn().
			Int64("course_id", ce.CourseID).
			Str("error", ce.Message).
			Msg("Skipping course modules after upstream failure")
	}

	return merged, nil
}
