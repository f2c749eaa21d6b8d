package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ppltracker/internal/telemetry/metrics"
	"github.com/2beens/ppltracker/internal/telemetry/tracing"
	"github.com/2beens/ppltracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	List(ctx context.Context) ([]Workout, error)
	ListByUser(ctx context.Context, userID string) ([]Workout, error)
	Add(ctx context.Context, workout Workout) (*Workout, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Workout, error)
	Delete(ctx context.Context, id string) error
}

type DeleteWorkoutResponse struct {
	Message   string `json:"message"`
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo       workoutsRepo
	metrics    *metrics.Manager
	statsCache *freecache.Cache
}

// NewHandler creates the workouts CRUD handler. statsCache is the shared
// monthly stats cache, cleared on every mutation so stats never serve
// data older than the collection.
func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager, statsCache *freecache.Cache) *Handler {
	return &Handler{
		repo:       repo,
		metrics:    metricsManager,
		statsCache: statsCache,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	router.HandleFunc("/api/workouts", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	router.HandleFunc("/api/workouts/{userId}", handler.HandleListByUser).Methods("GET", "OPTIONS").Name("list-user-workouts")
	router.HandleFunc("/api/workouts/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	router.HandleFunc("/api/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	router.HandleFunc("/api/exercises", handler.HandleCatalog).Methods("GET", "OPTIONS").Name("exercise-catalog")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	all, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list workouts error: %s", err)
		http.Error(w, "failed to fetch workouts", http.StatusInternalServerError)
		return
	}

	allJson, err := json.Marshal(all)
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, allJson, http.StatusOK)
}

func (handler *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listByUser")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	userWorkouts, err := handler.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Errorf("list workouts for user [%s] error: %s", userID, err)
		http.Error(w, "failed to fetch workouts", http.StatusInternalServerError)
		return
	}

	workoutsJson, err := json.Marshal(userWorkouts)
	if err != nil {
		log.Errorf("marshal user workouts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutsJson, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if err := workout.Validate(); err != nil {
		log.Debugf("new workout, validation failed: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	workout.Exercises = FilterZeroEntries(workout.Exercises)

	addedWorkout, err := handler.repo.Add(ctx, workout)
	if err != nil {
		log.Errorf("failed to add new workout [%s, %s]: %s", workout.Date, workout.Type, err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsAdded.Inc()
	handler.statsCache.Clear()

	addedJson, err := json.Marshal(addedWorkout)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %s", addedJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("update workout, unmarshal json params: %s", err)
		http.Error(w, "update workout failed", http.StatusBadRequest)
		return
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updatedWorkout, err := handler.repo.Update(ctx, id, params)
	if errors.Is(err, ErrWorkoutNotFound) {
		log.Debugf("workout %s not found", id)
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to update workout %s: %s", id, err)
		http.Error(w, "error, failed to update workout", http.StatusInternalServerError)
		return
	}

	handler.statsCache.Clear()

	updatedJson, err := json.Marshal(updatedWorkout)
	if err != nil {
		log.Errorf("failed to marshal updated workout: %s", err)
		http.Error(w, "failed to marshal updated workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout %s updated", id)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, updatedJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	err := handler.repo.Delete(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		log.Debugf("workout %s not found", id)
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to delete workout %s: %s", id, err)
		http.Error(w, "workout not deleted", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsDeleted.Inc()
	handler.statsCache.Clear()

	deleteRespJson, err := json.Marshal(DeleteWorkoutResponse{
		Message:   "Workout deleted successfully",
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.catalog")
	defer span.End()

	catalogJson, err := json.Marshal(Catalog)
	if err != nil {
		log.Errorf("failed to marshal exercise catalog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, catalogJson, http.StatusOK)
}
