package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/ppltracker/internal/telemetry/tracing"
)

var ErrWorkoutNotFound = errors.New("workout not found")

const DefaultUserID = "default"

// FileRepo stores the whole workout collection as a single JSON array
// on disk, rewritten in full on every mutation. There is no indexing
// and no optimistic concurrency: the mutex serializes writers within
// this process, and two processes sharing the file race last-write-wins.
type FileRepo struct {
	filePath string
	mutex    sync.RWMutex
	lastID   int64

	// now is swapped in tests
	now func() time.Time
}

func NewFileRepo(filePath string) (*FileRepo, error) {
	if filePath == "" {
		return nil, errors.New("data file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(filePath, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("init data file: %w", err)
		}
		log.Debugf("workouts repo: initialized empty data file %s", filePath)
	} else if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	return &FileRepo{
		filePath: filePath,
		now:      time.Now,
	}, nil
}

// List returns the full collection. The read path degrades to an empty
// collection on storage errors instead of failing the caller.
func (r *FileRepo) List(ctx context.Context) (_ []Workout, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	all, err := r.readAll()
	if err != nil {
		log.Errorf("workouts repo: read failed, serving empty collection: %s", err)
		return []Workout{}, nil
	}
	return all, nil
}

// ListByUser returns the workouts tagged with the given user id.
func (r *FileRepo) ListByUser(ctx context.Context, userID string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.listByUser")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := []Workout{}
	for _, w := range all {
		if w.UserID == userID {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}

// Add assigns id and created_at, defaults the user id, appends the
// workout and rewrites the file.
func (r *FileRepo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// unlike reads, mutations must not treat a broken file as empty,
	// or a single bad read would truncate the whole store
	all, err := r.readAll()
	if err != nil {
		return nil, fmt.Errorf("read workouts: %w", err)
	}

	workout.ID = r.nextID()
	workout.CreatedAt = r.now().UTC()
	if workout.UserID == "" {
		workout.UserID = DefaultUserID
	}

	all = append(all, workout)
	if err := r.writeAll(all); err != nil {
		return nil, fmt.Errorf("write workouts: %w", err)
	}

	log.Debugf("workouts repo: added workout %s [%s %s]", workout.ID, workout.Date, workout.Type)
	return &workout, nil
}

// Update shallow-merges the set fields of params into the stored workout.
func (r *FileRepo) Update(ctx context.Context, id string, params UpdateParams) (_ *Workout, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.update")
	span.SetAttributes(attribute.String("workout.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	all, err := r.readAll()
	if err != nil {
		return nil, fmt.Errorf("read workouts: %w", err)
	}

	for i := range all {
		if all[i].ID != id {
			continue
		}
		params.ApplyTo(&all[i])
		if err := r.writeAll(all); err != nil {
			return nil, fmt.Errorf("write workouts: %w", err)
		}
		updated := all[i]
		return &updated, nil
	}

	return nil, ErrWorkoutNotFound
}

// Delete removes the workout with the given id.
func (r *FileRepo) Delete(ctx context.Context, id string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.delete")
	span.SetAttributes(attribute.String("workout.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	all, err := r.readAll()
	if err != nil {
		return fmt.Errorf("read workouts: %w", err)
	}

	remaining := all[:0:0]
	for _, w := range all {
		if w.ID != id {
			remaining = append(remaining, w)
		}
	}
	if len(remaining) == len(all) {
		return ErrWorkoutNotFound
	}

	if err := r.writeAll(remaining); err != nil {
		return fmt.Errorf("write workouts: %w", err)
	}

	log.Debugf("workouts repo: deleted workout %s", id)
	return nil
}

// nextID produces a unix-millis token, bumped on collision so ids stay
// unique (and strictly increasing) within this process.
func (r *FileRepo) nextID() string {
	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return strconv.FormatInt(id, 10)
}

func (r *FileRepo) readAll() ([]Workout, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Workout{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.filePath, err)
	}

	var all []Workout
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", r.filePath, err)
	}
	if all == nil {
		all = []Workout{}
	}
	return all, nil
}

func (r *FileRepo) writeAll(all []Workout) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workouts: %w", err)
	}
	if err := os.WriteFile(r.filePath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.filePath, err)
	}
	return nil
}
