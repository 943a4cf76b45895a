package cache

import (
	"encoding/json"
	"sort"
)

// Snapshot is the portable form of the whole cache: daily tasks as a
// date-keyed map, weekly tasks and learn history as arrays. Values stay raw
// so export/import round-trips bytes it never interpreted.
type Snapshot struct {
	DailyTasks   map[string]json.RawMessage `json:"dailyTasks"`
	WeeklyTasks  json.RawMessage            `json:"weeklyTasks"`
	LearnHistory json.RawMessage            `json:"learnHistory"`
}

func emptyArray() json.RawMessage { return json.RawMessage("[]") }

// Export collects every collection from the store into a Snapshot.
func Export(s Store) (*Snapshot, error) {
	snap := &Snapshot{
		DailyTasks:   make(map[string]json.RawMessage),
		WeeklyTasks:  emptyArray(),
		LearnHistory: emptyArray(),
	}

	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	for _, key := range keys {
		var raw json.RawMessage
		ok, err := s.Get(key, &raw)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		switch {
		case key == WeeklyTasksKey:
			snap.WeeklyTasks = raw
		case key == LearnHistoryKey:
			snap.LearnHistory = raw
		case IsDailyTasksKey(key):
			snap.DailyTasks[key] = raw
		}
	}

	return snap, nil
}

// Import writes a Snapshot back into the store, overwriting existing entries
// key by key.
func Import(s Store, snap *Snapshot) error {
	if len(snap.WeeklyTasks) > 0 {
		if err := s.Set(WeeklyTasksKey, snap.WeeklyTasks); err != nil {
			return err
		}
	}
	if len(snap.LearnHistory) > 0 {
		if err := s.Set(LearnHistoryKey, snap.LearnHistory); err != nil {
			return err
		}
	}
	for key, raw := range snap.DailyTasks {
		if !IsDailyTasksKey(key) {
			continue
		}
		if err := s.Set(key, raw); err != nil {
			return err
		}
	}
	return nil
}
