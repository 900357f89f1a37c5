package canvas

import (
	"context"
	"fmt"
	"net/url"

	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/model"
)

// Typed accessors over the Canvas REST API. Each is a thin call: it adds no
// validation of its own and fails with whatever error the underlying request
// produced.

// CurrentUser fetches the user the configured credential belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*model.CanvasUser, error) {
	var user model.CanvasUser
	if err := c.get(ctx, "/users/self", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserCourses fetches all courses for a Canvas user id. The id is opaque —
// string or integer, upstream-defined — and is relayed unchanged.
func (c *Client) UserCourses(ctx context.Context, userID string) ([]model.Course, error) {
	var courses []model.Course
	path := fmt.Sprintf("/users/%s/courses", url.PathEscape(userID))
	if err := c.get(ctx, path, c.listQuery(), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Course fetches a single course. The syllabus body is not returned by
// default; includeSyllabus requests it as an explicit inclusion flag.
func (c *Client) Course(ctx context.Context, courseID int64, includeSyllabus bool) (*model.Course, error) {
	var query url.Values
	if includeSyllabus {
		query = url.Values{}
		query.Add("include[]", "syllabus_body")
	}

	var course model.Course
	path := fmt.Sprintf("/courses/%d", courseID)
	if err := c.get(ctx, path, query, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CourseModules fetches all modules of a course.
func (c *Client) CourseModules(ctx context.Context, courseID int64) ([]model.Module, error) {
	var modules []model.Module
	path := fmt.Sprintf("/courses/%d/modules", courseID)
	if err := c.get(ctx, path, c.listQuery(), &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// ModuleItems fetches the items of one module within a course.
func (c *Client) ModuleItems(ctx context.Context, courseID, moduleID int64) ([]model.ModuleItem, error) {
	var items []model.ModuleItem
	path := fmt.Sprintf("/courses/%d/modules/%d/items", courseID, moduleID)
	if err := c.get(ctx, path, c.listQuery(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CourseAssignments fetches the full assignment collection of a course.
func (c *Client) CourseAssignments(ctx context.Context, courseID int64) ([]model.Assignment, error) {
	var assignments []model.Assignment
	path := fmt.Sprintf("/courses/%d/assignments", courseID)
	if err := c.get(ctx, path, c.listQuery(), &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CourseAssignment fetches exactly one assignment by id. Never a filtered
// collection — the single-item route is a distinct upstream resource.
func (c *Client) CourseAssignment(ctx context.Context, courseID, assignmentID int64) (*model.Assignment, error) {
	var assignment model.Assignment
	path := fmt.Sprintf("/courses/%d/assignments/%d", courseID, assignmentID)
	if err := c.get(ctx, path, nil, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CourseQuizzes fetches the full quiz collection of a course.
func (c *Client) CourseQuizzes(ctx context.Context, courseID int64) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	path := fmt.Sprintf("/courses/%d/quizzes", courseID)
	if err := c.get(ctx, path, c.listQuery(), &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// CourseQuiz fetches exactly one quiz by id.
func (c *Client) CourseQuiz(ctx context.Context, courseID, quizID int64) (*model.Quiz, error) {
	var quiz model.Quiz
	path := fmt.Sprintf("/courses/%d/quizzes/%d", courseID, quizID)
	if err := c.get(ctx, path, nil, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// CourseFiles fetches the files of a course (lecture notes, PDFs).
func (c *Client) CourseFiles(ctx context.Context, courseID int64) ([]model.File, error) {
	var files []model.File
	path := fmt.Sprintf("/courses/%d/files", courseID)
	if err := c.get(ctx, path, c.listQuery(), &files); err != nil {
		return nil, err
	}
	return files, nil
}

// CoursePages fetches the wiki pages of a course, relayed untyped.
func (c *Client) CoursePages(ctx context.Context, courseID int64) ([]model.Page, error) {
	var pages []model.Page
	path := fmt.Sprintf("/courses/%d/pages", courseID)
	if err := c.get(ctx, path, c.listQuery(), &pages); err != nil {
		return nil, err
	}
	return pages, nil
}
