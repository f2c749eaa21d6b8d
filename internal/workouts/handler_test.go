package workouts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coocood/freecache"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/ppltracker/internal/telemetry/metrics"
	"github.com/2beens/ppltracker/internal/workouts"
)

func newTestHandler(t *testing.T) (*workouts.Handler, *MockworkoutsRepo, *freecache.Cache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repoMock := NewMockworkoutsRepo(ctrl)
	statsCache := freecache.NewCache(1024 * 1024)
	h := workouts.NewHandler(repoMock, metrics.NewTestManager(), statsCache)
	return h, repoMock, statsCache
}

func TestHandler_HandleList(t *testing.T) {
	h, repoMock, _ := newTestHandler(t)

	testWorkouts := []workouts.Workout{
		{
			ID:     "1700000000000",
			UserID: "shared",
			Date:   "2024-01-15",
			Type:   workouts.TypePush,
			Exercises: []workouts.ExerciseEntry{
				{ID: "bench-press", Name: "Bench Press", Sets: 3, Reps: 12, Weight: 40, Unit: "kg/lbs"},
			},
		},
		{
			ID:     "1700000000001",
			UserID: "shared",
			Date:   "2024-01-17",
			Type:   workouts.TypeLegs,
		},
	}

	repoMock.EXPECT().
		List(gomock.Any()).
		Return(testWorkouts, nil)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/api/workouts", nil)
	require.NoError(t, err)

	h.HandleList(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var gotWorkouts []workouts.Workout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gotWorkouts))
	assert.Equal(t, testWorkouts, gotWorkouts)
}

func TestHandler_HandleListByUser(t *testing.T) {
	h, repoMock, _ := newTestHandler(t)

	repoMock.EXPECT().
		ListByUser(gomock.Any(), "shared").
		Return([]workouts.Workout{
			{ID: "w1", UserID: "shared", Date: "2024-02-01", Type: workouts.TypePull},
		}, nil)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/api/workouts/shared", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"userId": "shared"})

	h.HandleListByUser(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var gotWorkouts []workouts.Workout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gotWorkouts))
	require.Len(t, gotWorkouts, 1)
	assert.Equal(t, "w1", gotWorkouts[0].ID)
}

func TestHandler_HandleAdd(t *testing.T) {
	h, repoMock, statsCache := newTestHandler(t)

	require.NoError(t, statsCache.Set([]byte("monthly::2024-01"), []byte("{}"), 30))

	testWorkout := workouts.Workout{
		Date: "2024-01-15",
		Type: workouts.TypePush,
		Exercises: []workouts.ExerciseEntry{
			{ID: "bench-press", Name: "Bench Press", Sets: 3, Reps: 12, Weight: 40, Unit: "kg/lbs"},
			{ID: "lateral-raises", Name: "Lateral Raises", Sets: 0, Reps: 0, Weight: 0, Unit: "kg/lbs"},
		},
	}
	testWorkoutJson, err := json.Marshal(testWorkout)
	require.NoError(t, err)

	repoMock.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, w workouts.Workout) (*workouts.Workout, error) {
			assert.Equal(t, testWorkout.Date, w.Date)
			assert.Equal(t, testWorkout.Type, w.Type)
			// the all-zero entry is dropped before persisting
			require.Len(t, w.Exercises, 1)
			assert.Equal(t, "bench-press", w.Exercises[0].ID)
			added := w
			added.ID = "1700000000000"
			return &added, nil
		}).Times(1)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "/api/workouts", bytes.NewReader(testWorkoutJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	h.HandleAdd(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var addedWorkout workouts.Workout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &addedWorkout))
	assert.Equal(t, "1700000000000", addedWorkout.ID)

	// stats cache cleared on mutation
	_, err = statsCache.Get([]byte("monthly::2024-01"))
	assert.ErrorIs(t, err, freecache.ErrNotFound)
}

func TestHandler_HandleAdd_invalidContentType(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "/api/workouts", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")

	h.HandleAdd(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleAdd_invalidWorkout(t *testing.T) {
	h, _, _ := newTestHandler(t)

	for name, workout := range map[string]workouts.Workout{
		"bad date": {Date: "15.01.2024", Type: workouts.TypePush},
		"bad type": {Date: "2024-01-15", Type: "cardio"},
	} {
		t.Run(name, func(t *testing.T) {
			workoutJson, err := json.Marshal(workout)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			req, err := http.NewRequest("POST", "/api/workouts", bytes.NewReader(workoutJson))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			h.HandleAdd(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_HandleUpdate(t *testing.T) {
	h, repoMock, statsCache := newTestHandler(t)

	require.NoError(t, statsCache.Set([]byte("progression"), []byte("[]"), 30))

	newDate := "2024-01-20"
	params := workouts.UpdateParams{Date: &newDate}
	paramsJson, err := json.Marshal(params)
	require.NoError(t, err)

	repoMock.EXPECT().
		Update(gomock.Any(), "w1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, id string, p workouts.UpdateParams) (*workouts.Workout, error) {
			require.NotNil(t, p.Date)
			assert.Equal(t, newDate, *p.Date)
			assert.Nil(t, p.Type)
			assert.Nil(t, p.Exercises)
			return &workouts.Workout{ID: "w1", Date: newDate, Type: workouts.TypePull}, nil
		})

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("PUT", "/api/workouts/w1", bytes.NewReader(paramsJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req = mux.SetURLVars(req, map[string]string{"id": "w1"})

	h.HandleUpdate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updatedWorkout workouts.Workout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updatedWorkout))
	assert.Equal(t, newDate, updatedWorkout.Date)

	_, err = statsCache.Get([]byte("progression"))
	assert.ErrorIs(t, err, freecache.ErrNotFound)
}

func TestHandler_HandleUpdate_notFound(t *testing.T) {
	h, repoMock, _ := newTestHandler(t)

	repoMock.EXPECT().
		Update(gomock.Any(), "nope", gomock.Any()).
		Return(nil, workouts.ErrWorkoutNotFound)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("PUT", "/api/workouts/nope", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})

	h.HandleUpdate(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleDelete(t *testing.T) {
	h, repoMock, _ := newTestHandler(t)

	repoMock.EXPECT().
		Delete(gomock.Any(), "w1").
		Return(nil)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("DELETE", "/api/workouts/w1", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": "w1"})

	h.HandleDelete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleteResp workouts.DeleteWorkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleteResp))
	assert.Equal(t, "w1", deleteResp.DeletedID)
}

func TestHandler_HandleDelete_notFound(t *testing.T) {
	h, repoMock, _ := newTestHandler(t)

	repoMock.EXPECT().
		Delete(gomock.Any(), "nope").
		Return(workouts.ErrWorkoutNotFound)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("DELETE", "/api/workouts/nope", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})

	h.HandleDelete(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleCatalog(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/api/exercises", nil)
	require.NoError(t, err)

	h.HandleCatalog(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog map[workouts.Type][]workouts.CatalogExercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Len(t, catalog[workouts.TypePush], 6)
	assert.Len(t, catalog[workouts.TypePull], 6)
	assert.Len(t, catalog[workouts.TypeLegs], 6)
}
