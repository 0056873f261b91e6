package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

// Repairer finds stored snapshots that no longer decode and removes them
type Repairer interface {
	Repair(ctx context.Context, input RepairInput) (*RepairOutput, error)
}

// RepairInput controls a repair pass
type RepairInput struct {
	// DryRun reports problems without deleting anything
	DryRun bool
}

// RepairOutput lists what a repair pass found
type RepairOutput struct {
	Checked int
	Corrupt []string
	Deleted []string
}

var (
	_ Repairer = (*redisRepository)(nil)
	_ Repairer = (*SQLiteRepository)(nil)
)

// checkRecord reports why a stored record is unusable, or "" if it is fine
func checkRecord(id string, data []byte) string {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return "invalid json"
	}
	switch {
	case snap.ID != id:
		return "id mismatch"
	case !SupportedVersion(snap.Version):
		return "unsupported version"
	}
	return ""
}

// Repair scans every session key and every index entry
func (r *redisRepository) Repair(ctx context.Context, input RepairInput) (*RepairOutput, error) {
	out := &RepairOutput{}
	seen := map[string]bool{}

	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id := strings.TrimPrefix(key, sessionKeyPrefix)
		seen[id] = true
		out.Checked++

		data, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", key)
		}
		if reason := checkRecord(id, data); reason != "" {
			slog.Warn("Corrupt session snapshot", "session_id", id, "reason", reason)
			out.Corrupt = append(out.Corrupt, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan sessions")
	}

	indexed, err := r.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read session index")
	}
	for _, id := range indexed {
		if !seen[id] {
			slog.Warn("Dangling session index entry", "session_id", id)
			out.Corrupt = append(out.Corrupt, id)
		}
	}
	sort.Strings(out.Corrupt)

	if input.DryRun {
		return out, nil
	}

	for _, id := range out.Corrupt {
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, r.buildKey(id))
		pipe.SRem(ctx, sessionIndexKey, id)
		if _, err := pipe.Exec(ctx); err != nil {
			return out, errors.Wrapf(err, "failed to delete session %s", id)
		}
		out.Deleted = append(out.Deleted, id)
	}

	return out, nil
}

// Repair scans every stored row
func (r *SQLiteRepository) Repair(ctx context.Context, input RepairInput) (*RepairOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, data FROM sessions ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan sessions")
	}

	out := &RepairOutput{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			_ = rows.Close()
			return nil, errors.Wrap(err, "failed to scan session row")
		}
		out.Checked++
		if reason := checkRecord(id, []byte(data)); reason != "" {
			slog.Warn("Corrupt session snapshot", "session_id", id, "reason", reason)
			out.Corrupt = append(out.Corrupt, id)
		}
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan sessions")
	}

	if input.DryRun {
		return out, nil
	}

	for _, id := range out.Corrupt {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
			return out, errors.Wrapf(err, "failed to delete session %s", id)
		}
		out.Deleted = append(out.Deleted, id)
	}

	return out, nil
}
