// Package sync reconciles the three task collections across the backend, the
// local durable cache, and the in-memory snapshot the UI renders from. The
// backend wins whenever it is reachable; the cache answers otherwise. No
// failure below this layer surfaces as anything worse than stale data, with
// one exception: an invalid credential is reported so the UI can force a
// fresh login.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	gosync "sync"
	"sync/atomic"
	"time"

	"taskaura/client/api"
	"taskaura/client/cache"

	"github.com/google/uuid"
)

type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Snapshot is the consistent view published to observers. Daily tasks are
// already filtered to the current calendar day.
type Snapshot struct {
	DailyTasks   []api.Task
	WeeklyTasks  []api.Task
	LearnHistory []api.Task
	Status       Status
}

type Reconciler struct {
	client *api.Client
	store  cache.Store
	bus    *Bus
	now    func() time.Time

	mu       gosync.RWMutex
	snap     Snapshot
	inFlight atomic.Bool
}

func New(client *api.Client, store cache.Store, bus *Bus) *Reconciler {
	if bus == nil {
		bus = NewBus()
	}
	return &Reconciler{
		client: client,
		store:  store,
		bus:    bus,
		now:    time.Now,
		snap:   Snapshot{Status: StatusDisconnected},
	}
}

func (r *Reconciler) Bus() *Bus { return r.bus }

// Snapshot returns a copy of the current view.
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := r.snap
	snap.DailyTasks = append([]api.Task(nil), r.snap.DailyTasks...)
	snap.WeeklyTasks = append([]api.Task(nil), r.snap.WeeklyTasks...)
	snap.LearnHistory = append([]api.Task(nil), r.snap.LearnHistory...)
	return snap
}

// Refresh runs one reconciliation cycle. Overlapping calls are collapsed:
// a cycle already in flight makes this one a no-op.
//
// The only error Refresh returns is api.ErrAuthRequired; every other failure
// resolves to cached (possibly empty) collections.
func (r *Reconciler) Refresh(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer r.inFlight.Store(false)

	today := r.now()
	todayKey := cache.DailyTasksKey(today)

	if _, err := r.client.CheckHealth(ctx); err != nil {
		// Backend unreachable: serve the whole snapshot from cache and make
		// no further network calls this cycle.
		r.publish(Snapshot{
			DailyTasks:   r.cached(todayKey),
			WeeklyTasks:  r.cached(cache.WeeklyTasksKey),
			LearnHistory: r.cached(cache.LearnHistoryKey),
			Status:       StatusDisconnected,
		})
		return nil
	}

	// The three fetches run concurrently and settle independently: one slow
	// or failing collection never delays or voids the other two.
	type result struct {
		raw json.RawMessage
		err error
	}
	var daily, weekly, learn result

	var wg gosync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		daily.raw, daily.err = r.client.ListDailyTasks(ctx, "")
	}()
	go func() {
		defer wg.Done()
		weekly.raw, weekly.err = r.client.ListWeeklyTasks(ctx, "")
	}()
	go func() {
		defer wg.Done()
		learn.raw, learn.err = r.client.ListLearnTasks(ctx)
	}()
	wg.Wait()

	var authErr error
	note := func(err error) {
		if errors.Is(err, api.ErrAuthRequired) {
			authErr = err
		}
	}

	snap := Snapshot{Status: StatusConnected}

	if daily.err != nil {
		note(daily.err)
		snap.DailyTasks = r.cached(todayKey)
	} else if tasks, err := NormalizeTasks(daily.raw); err != nil {
		snap.DailyTasks = r.cached(todayKey)
	} else {
		// The filter key and the cache key are the same day string, so the
		// stored set can never drift from "today".
		snap.DailyTasks = filterDay(tasks, cache.DayKey(today))
		r.store.Set(todayKey, snap.DailyTasks)
	}

	if weekly.err != nil {
		note(weekly.err)
		snap.WeeklyTasks = r.cached(cache.WeeklyTasksKey)
	} else if tasks, err := NormalizeTasks(weekly.raw); err != nil {
		snap.WeeklyTasks = r.cached(cache.WeeklyTasksKey)
	} else {
		snap.WeeklyTasks = tasks
		r.store.Set(cache.WeeklyTasksKey, tasks)
	}

	if learn.err != nil {
		note(learn.err)
		snap.LearnHistory = r.cached(cache.LearnHistoryKey)
	} else if tasks, err := NormalizeTasks(learn.raw); err != nil {
		snap.LearnHistory = r.cached(cache.LearnHistoryKey)
	} else {
		snap.LearnHistory = tasks
		r.store.Set(cache.LearnHistoryKey, tasks)
	}

	r.publish(snap)
	return authErr
}

// Run re-runs the reconciliation cycle at the given interval until ctx ends.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

func (r *Reconciler) cached(key string) []api.Task {
	tasks := []api.Task{}
	r.store.Get(key, &tasks)
	return tasks
}

func (r *Reconciler) publish(snap Snapshot) {
	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
	r.bus.Publish(TopicTasksUpdated)
}

// collection binds the snapshot slice and the cache key of one task list so
// the mutation paths below can share their optimistic-apply plumbing.
type collection struct {
	slice func(s *Snapshot) *[]api.Task
	key   func(r *Reconciler) string
}

var (
	dailyCollection = collection{
		slice: func(s *Snapshot) *[]api.Task { return &s.DailyTasks },
		key:   func(r *Reconciler) string { return cache.DailyTasksKey(r.now()) },
	}
	weeklyCollection = collection{
		slice: func(s *Snapshot) *[]api.Task { return &s.WeeklyTasks },
		key:   func(r *Reconciler) string { return cache.WeeklyTasksKey },
	}
	learnCollection = collection{
		slice: func(s *Snapshot) *[]api.Task { return &s.LearnHistory },
		key:   func(r *Reconciler) string { return cache.LearnHistoryKey },
	}
)

// applyLocal mutates one collection in the snapshot and mirrors it into the
// cache synchronously, then notifies observers. This runs before any network
// round trip so the UI reflects the change immediately.
func (r *Reconciler) applyLocal(col collection, mutate func([]api.Task) []api.Task) {
	r.mu.Lock()
	tasks := mutate(*col.slice(&r.snap))
	*col.slice(&r.snap) = tasks
	r.mu.Unlock()

	r.store.Set(col.key(r), tasks)
	r.bus.Publish(TopicTasksUpdated)
}

// noteFailure downgrades the connection status on connectivity errors. API
// and auth errors leave the status alone: the backend answered.
func (r *Reconciler) noteFailure(err error) {
	var apiErr *api.APIError
	if errors.Is(err, api.ErrAuthRequired) || errors.As(err, &apiErr) {
		return
	}
	r.mu.Lock()
	r.snap.Status = StatusDisconnected
	r.mu.Unlock()
	r.bus.Publish(TopicTasksUpdated)
}

func localID() api.TaskID {
	return api.TaskID("local-" + uuid.NewString())
}

func replaceTask(tasks []api.Task, id api.TaskID, replacement api.Task) []api.Task {
	out := make([]api.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == id {
			out[i] = replacement
		}
	}
	return out
}

func removeTask(tasks []api.Task, id api.TaskID) []api.Task {
	out := []api.Task{}
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func toggleTask(tasks []api.Task, id api.TaskID, now time.Time) []api.Task {
	out := make([]api.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = !out[i].Completed
			if out[i].Completed {
				out[i].CompletedAt = now.Format(time.RFC3339)
			} else {
				out[i].CompletedAt = ""
			}
		}
	}
	return out
}

// add runs the shared optimistic-create path: local apply first, then the
// create call; on success the local id is swapped for the server-assigned
// one, on failure the local copy stays (offline mode).
func (r *Reconciler) add(ctx context.Context, col collection, task api.Task,
	create func(context.Context, api.Task) (api.Task, error)) (api.Task, error) {

	if task.ID == "" {
		task.ID = localID()
	}
	if task.CreatedAt == "" {
		task.CreatedAt = r.now().Format(time.RFC3339)
	}

	r.applyLocal(col, func(tasks []api.Task) []api.Task {
		return append([]api.Task{task}, tasks...)
	})

	created, err := create(ctx, task)
	if err != nil {
		r.noteFailure(err)
		return task, err
	}

	r.applyLocal(col, func(tasks []api.Task) []api.Task {
		return replaceTask(tasks, task.ID, created)
	})
	return created, nil
}

func (r *Reconciler) update(ctx context.Context, col collection, task api.Task,
	update func(context.Context, api.TaskID, api.Task) (api.Task, error)) (api.Task, error) {

	r.applyLocal(col, func(tasks []api.Task) []api.Task {
		return replaceTask(tasks, task.ID, task)
	})

	updated, err := update(ctx, task.ID, task)
	if err != nil {
		r.noteFailure(err)
		return task, err
	}

	r.applyLocal(col, func(tasks []api.Task) []api.Task {
		return replaceTask(tasks, task.ID, updated)
	})
	return updated, nil
}

func (r *Reconciler) toggle(ctx context.Context, col collection, id api.TaskID,
	toggle func(context.Context, api.TaskID) (api.Task, error)) error {

	r.applyLocal(col, func(tasks []api.Task) []api.Task {
		return toggleTask(tasks, id, r.now())
	})

	toggled, err := toggle(ctx, id)
	if err != nil {
		r.noteFailure(err)
		return err
	}

	r.applyLocal(col, func(tasks []api.Task) []api.Task {
		return replaceTask(tasks, id, toggled)
	})
	return nil
}

func (r *Reconciler) remove(ctx context.Context, col collection, id api.TaskID,
	remove func(context.Context, api.TaskID) error) error {

	r.applyLocal(col, func(tasks []api.Task) []api.Task {
		return removeTask(tasks, id)
	})

	if err := remove(ctx, id); err != nil {
		r.noteFailure(err)
		return err
	}
	return nil
}

// --- Daily ---

func (r *Reconciler) AddDailyTask(ctx context.Context, task api.Task) (api.Task, error) {
	if task.Date == "" {
		task.Date = cache.DayKey(r.now())
	}
	return r.add(ctx, dailyCollection, task, r.client.CreateDailyTask)
}

func (r *Reconciler) UpdateDailyTask(ctx context.Context, task api.Task) (api.Task, error) {
	return r.update(ctx, dailyCollection, task, r.client.UpdateDailyTask)
}

func (r *Reconciler) ToggleDailyTask(ctx context.Context, id api.TaskID) error {
	return r.toggle(ctx, dailyCollection, id, r.client.ToggleDailyTask)
}

func (r *Reconciler) DeleteDailyTask(ctx context.Context, id api.TaskID) error {
	return r.remove(ctx, dailyCollection, id, r.client.DeleteDailyTask)
}

// --- Weekly ---

func (r *Reconciler) AddWeeklyTask(ctx context.Context, task api.Task) (api.Task, error) {
	return r.add(ctx, weeklyCollection, task, r.client.CreateWeeklyTask)
}

func (r *Reconciler) UpdateWeeklyTask(ctx context.Context, task api.Task) (api.Task, error) {
	return r.update(ctx, weeklyCollection, task, r.client.UpdateWeeklyTask)
}

func (r *Reconciler) ToggleWeeklyTask(ctx context.Context, id api.TaskID) error {
	return r.toggle(ctx, weeklyCollection, id, r.client.ToggleWeeklyTask)
}

func (r *Reconciler) DeleteWeeklyTask(ctx context.Context, id api.TaskID) error {
	return r.remove(ctx, weeklyCollection, id, r.client.DeleteWeeklyTask)
}

// --- Learn ---

func (r *Reconciler) AddLearnTask(ctx context.Context, task api.Task) (api.Task, error) {
	return r.add(ctx, learnCollection, task, r.client.CreateLearnTask)
}

func (r *Reconciler) UpdateLearnTask(ctx context.Context, task api.Task) (api.Task, error) {
	return r.update(ctx, learnCollection, task, r.client.UpdateLearnTask)
}

func (r *Reconciler) ToggleLearnTask(ctx context.Context, id api.TaskID) error {
	return r.toggle(ctx, learnCollection, id, r.client.ToggleLearnTask)
}

func (r *Reconciler) DeleteLearnTask(ctx context.Context, id api.TaskID) error {
	return r.remove(ctx, learnCollection, id, r.client.DeleteLearnTask)
}
