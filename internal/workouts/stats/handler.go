package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ppltracker/internal/telemetry/tracing"
	"github.com/2beens/ppltracker/internal/workouts"
	"github.com/2beens/ppltracker/pkg"
)

// cacheTTLSeconds matches the client freshness window: stats are
// recomputed at most twice a minute, and the cache is cleared by the
// workouts handler on every write anyway.
const cacheTTLSeconds = 30

type workoutsLister interface {
	List(ctx context.Context) ([]workouts.Workout, error)
}

type Handler struct {
	repo  workoutsLister
	cache *freecache.Cache

	// now is swapped in tests
	now func() time.Time
}

func NewHandler(repo workoutsLister, cache *freecache.Cache) *Handler {
	return &Handler{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/stats/monthly", handler.HandleMonthly).Methods("GET", "OPTIONS").Name("monthly-stats")
	router.HandleFunc("/api/stats/progression", handler.HandleProgression).Methods("GET", "OPTIONS").Name("volume-progression")
}

func (handler *Handler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.monthly")
	defer span.End()

	month, year, err := handler.monthYearParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cacheKey := []byte(fmt.Sprintf("monthly::%s", workouts.MonthPrefix(month, year)))
	if cached, err := handler.cache.Get(cacheKey); err == nil {
		log.Tracef("monthly stats %d-%d served from cache", year, month)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	all, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("monthly stats, list workouts: %s", err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	monthly := ComputeMonthly(all, month, year)
	monthlyJson, err := json.Marshal(monthly)
	if err != nil {
		log.Errorf("failed to marshal monthly stats: %s", err)
		http.Error(w, "failed to marshal stats", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set(cacheKey, monthlyJson, cacheTTLSeconds); err != nil {
		// cache miss next time, nothing else to do
		log.Warnf("failed to cache monthly stats: %s", err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, monthlyJson, http.StatusOK)
}

func (handler *Handler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.progression")
	defer span.End()

	cacheKey := []byte("progression")
	if cached, err := handler.cache.Get(cacheKey); err == nil {
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	all, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("volume progression, list workouts: %s", err)
		http.Error(w, "failed to compute progression", http.StatusInternalServerError)
		return
	}

	points := VolumeProgression(all)
	if points == nil {
		points = []ProgressionPoint{}
	}

	pointsJson, err := json.Marshal(points)
	if err != nil {
		log.Errorf("failed to marshal volume progression: %s", err)
		http.Error(w, "failed to marshal progression", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set(cacheKey, pointsJson, cacheTTLSeconds); err != nil {
		log.Warnf("failed to cache volume progression: %s", err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, pointsJson, http.StatusOK)
}

// monthYearParams reads the month/year query params, defaulting to the
// current calendar month.
func (handler *Handler) monthYearParams(r *http.Request) (time.Month, int, error) {
	now := handler.now()
	month := now.Month()
	year := now.Year()

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("invalid month param: %s", monthStr)
		}
		month = time.Month(m)
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 1 {
			return 0, 0, fmt.Errorf("invalid year param: %s", yearStr)
		}
		year = y
	}

	return month, year, nil
}
