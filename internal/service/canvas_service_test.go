package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/canvas"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/model"
)

// fakeCanvas serves a minimal Canvas API: a current user, a fixed course
// list per user, and per-course module payloads (or failures).
type fakeCanvas struct {
	mux *http.ServeMux

	selfCalls    atomic.Int64
	coursesCalls atomic.Int64
	moduleCalls  atomic.Int64
}

func newFakeCanvas() *fakeCanvas {
	return &fakeCanvas{mux: http.NewServeMux()}
}

func (f *fakeCanvas) self(body string, status int) {
	f.mux.HandleFunc("/users/self", func(w http.ResponseWriter, r *http.Request) {
		f.selfCalls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeCanvas) courses(userID, body string) {
	f.mux.HandleFunc("/users/"+userID+"/courses", func(w http.ResponseWriter, r *http.Request) {
		f.coursesCalls.Add(1)
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeCanvas) modules(courseID, body string, status int) {
	f.mux.HandleFunc("/courses/"+courseID+"/modules", func(w http.ResponseWriter, r *http.Request) {
		f.moduleCalls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeCanvas) service(t *testing.T) *CanvasService {
	t.Helper()
	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)

	client := canvas.New(&config.Config{
		CanvasAPIURL:   srv.URL,
		CanvasAPIToken: "token",
		CanvasTimeout:  5 * time.Second,
		CanvasPageSize: 100,
	})
	return NewCanvasService(client, zerolog.Nop())
}

func moduleNames(modules []model.Module) []string {
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	return names
}

func TestModulesForScopeDirectCourse(t *testing.T) {
	fake := newFakeCanvas()
	fake.modules("501", `[{"id": 1, "name": "Week 1"}]`, http.StatusOK)
	svc := fake.service(t)

	modules, err := svc.ModulesForScope(context.Background(), 501, "")
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "Week 1", modules[0].Name)

	// Direct scope never touches user resolution or the course list.
	assert.Equal(t, int64(0), fake.selfCalls.Load())
	assert.Equal(t, int64(0), fake.coursesCalls.Load())
	assert.Equal(t, int64(1), fake.moduleCalls.Load())
}

func TestModulesForScopeResolvesImplicitUser(t *testing.T) {
	fake := newFakeCanvas()
	fake.self(`{"id": 77, "name": "Self"}`, http.StatusOK)
	fake.courses("77", `[]`)
	svc := fake.service(t)

	modules, err := svc.ModulesForScope(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Empty(t, modules)
	assert.Equal(t, int64(1), fake.selfCalls.Load())
	assert.Equal(t, int64(1), fake.coursesCalls.Load())
}

func TestModulesForScopeMergesInCourseOrder(t *testing.T) {
	fake := newFakeCanvas()
	fake.courses("u1", `[{"id": 1}, {"id": 2}]`)
	fake.modules("1", `[{"id": 10, "name": "A"}]`, http.StatusOK)
	fake.modules("2", `[{"id": 20, "name": "B"}, {"id": 21, "name": "C"}]`, http.StatusOK)
	svc := fake.service(t)

	modules, err := svc.ModulesForScope(context.Background(), 0, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, moduleNames(modules))
}

func TestModulesForScopePartialFailureDropsErrors(t *testing.T) {
	fake := newFakeCanvas()
	fake.courses("u1", `[{"id": 1}, {"id": 2}]`)
	fake.modules("1", `[{"id": 10, "name": "A"}]`, http.StatusOK)
	fake.modules("2", `{"errors": "course locked"}`, http.StatusForbidden)
	svc := fake.service(t)

	modules, err := svc.ModulesForScope(context.Background(), 0, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, moduleNames(modules))
}

func TestModulesForScopeTotalFailure(t *testing.T) {
	fake := newFakeCanvas()
	fake.courses("u1", `[{"id": 1}, {"id": 2}]`)
	fake.modules("1", `{"errors": "nope"}`, http.StatusInternalServerError)
	fake.modules("2", `{"errors": "nope"}`, http.StatusInternalServerError)
	svc := fake.service(t)

	_, err := svc.ModulesForScope(context.Background(), 0, "u1")
	require.Error(t, err)

	var aggErr *AggregateError
	require.True(t, errors.As(err, &aggErr))
	require.Len(t, aggErr.Errors, 2)

	failedIDs := []int64{aggErr.Errors[0].CourseID, aggErr.Errors[1].CourseID}
	assert.ElementsMatch(t, []int64{1, 2}, failedIDs)
}

func TestModulesForScopeResolutionFailureIsClientError(t *testing.T) {
	fake := newFakeCanvas()
	fake.self(`{"errors": "unauthenticated"}`, http.StatusUnauthorized)
	svc := fake.service(t)

	_, err := svc.ModulesForScope(context.Background(), 0, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserIDRequired)

	var upErr *canvas.UpstreamError
	assert.False(t, errors.As(err, &upErr), "resolution failure must not surface as an upstream error")
}

func TestModulesForScopeCourseFetchFailurePropagates(t *testing.T) {
	fake := newFakeCanvas()
	fake.mux.HandleFunc("/users/u1/courses", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"errors": "canvas down"}`))
	})
	svc := fake.service(t)

	_, err := svc.ModulesForScope(context.Background(), 0, "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserIDRequired)

	var upErr *canvas.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.StatusCode)
}

func TestModulesForScopeSkipsCoursesWithoutID(t *testing.T) {
	fake := newFakeCanvas()
	fake.courses("u1", `[{"name": "orphan"}, {"canvas_course_id": 2}, {"id": 3}]`)
	fake.modules("2", `[{"id": 20, "name": "B"}]`, http.StatusOK)
	fake.modules("3", `[{"id": 30, "name": "C"}]`, http.StatusOK)
	svc := fake.service(t)

	modules, err := svc.ModulesForScope(context.Background(), 0, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, moduleNames(modules))
	assert.Equal(t, int64(2), fake.moduleCalls.Load())
}

func TestModulesForScopeAllCoursesWithoutID(t *testing.T) {
	fake := newFakeCanvas()
	fake.courses("u1", `[{"name": "one"}, {"name": "two"}]`)
	svc := fake.service(t)

	modules, err := svc.ModulesForScope(context.Background(), 0, "u1")
	require.NoError(t, err)
	assert.Empty(t, modules)
	assert.Equal(t, int64(0), fake.moduleCalls.Load())
}

func TestResolveUserIDPrefersExplicit(t *testing.T) {
	fake := newFakeCanvas()
	svc := fake.service(t)

	id, err := svc.ResolveUserID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
	assert.Equal(t, int64(0), fake.selfCalls.Load())
}

func TestResolveUserIDNoIDInProfile(t *testing.T) {
	fake := newFakeCanvas()
	fake.self(`{"name": "No ID"}`, http.StatusOK)
	svc := fake.service(t)

	_, err := svc.ResolveUserID(context.Background(), "")
	assert.ErrorIs(t, err, ErrUserIDRequired)
}
