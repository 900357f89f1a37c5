package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseIDPrecedence(t *testing.T) {
	assert.Equal(t, int64(5), Course{ID: 5}.CourseID())
	assert.Equal(t, int64(9), Course{CanvasCourseID: 9}.CourseID())
	assert.Equal(t, int64(5), Course{ID: 5, CanvasCourseID: 9}.CourseID())
	assert.Equal(t, int64(0), Course{Name: "no ids"}.CourseID())
}

func TestCourseDecodesEitherIDField(t *testing.T) {
	var courses []Course
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 1, "name": "A"},
		{"canvas_course_id": 2, "name": "B"},
		{"name": "C"}
	]`), &courses))

	require.Len(t, courses, 3)
	assert.Equal(t, int64(1), courses[0].CourseID())
	assert.Equal(t, int64(2), courses[1].CourseID())
	assert.Equal(t, int64(0), courses[2].CourseID())
}
