package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ObjectWriter stores a named blob, for example utils.GCSWriter.
type ObjectWriter interface {
	WriteObject(ctx context.Context, name, contentType string, data []byte) error
}

// Snapshot bundles every stored document as raw JSON.
type Snapshot struct {
	TakenAt   time.Time                  `json:"takenAt"`
	Documents map[string]json.RawMessage `json:"documents"`
}

func SnapshotName(now time.Time) string {
	return "snapshots/" + now.UTC().Format("20060102T150405Z") + ".json"
}

// TakeSnapshot reads every ledger document. Missing documents are left out.
func TakeSnapshot(ctx context.Context, store storage.KeyValueStore, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{TakenAt: now.UTC(), Documents: map[string]json.RawMessage{}}
	for _, key := range storage.DocumentKeys {
		var raw json.RawMessage
		found, err := store.Load(ctx, key, &raw)
		if err != nil {
			return nil, err
		}
		if found {
			snap.Documents[key] = raw
		}
	}
	return snap, nil
}

// BackupSnapshot writes a snapshot of store to w and returns the object name.
func BackupSnapshot(ctx context.Context, store storage.KeyValueStore, w ObjectWriter, now time.Time) (string, error) {
	snap, err := TakeSnapshot(ctx, store, now)
	if err != nil {
		config.LogError(config.GetLogger(), "backup.go", "BackupSnapshot", "TakeSnapshot", nil, err)
		return "", err
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	name := SnapshotName(now)
	if err := w.WriteObject(ctx, name, "application/json", body); err != nil {
		config.LogError(config.GetLogger(), "backup.go", "BackupSnapshot", "WriteObject", name, err)
		return "", fmt.Errorf("backup %s: %w", name, err)
	}
	return name, nil
}

// RestoreSnapshot saves every document in snap back into store.
func RestoreSnapshot(ctx context.Context, store storage.KeyValueStore, snap *Snapshot) error {
	for _, key := range storage.DocumentKeys {
		raw, ok := snap.Documents[key]
		if !ok {
			continue
		}
		if err := store.Save(ctx, key, raw); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleBackups registers a BackupSnapshot job on a new cron runner.
// schedule is a standard five-field expression or a descriptor such as
// "@daily". The caller starts and stops the returned runner.
func ScheduleBackups(ctx context.Context, schedule string, store storage.KeyValueStore, w ObjectWriter, logger *logrus.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(schedule, func() {
		name, err := BackupSnapshot(ctx, store, w, time.Now())
		if err != nil {
			return
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{"field": "backup", "object": name}).Info("backup.scheduled.done")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("backup schedule %q: %w", schedule, err)
	}
	return c, nil
}
