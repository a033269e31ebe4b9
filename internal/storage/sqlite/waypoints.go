package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/storage"
)

func (s *Store) GetManualWaypoints(key string) ([]models.ManualWaypointSpec, error) {
	var updatedAt string
	err := s.db.QueryRow("SELECT updated_at FROM waypoint_sets WHERE track_key = ?", key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("manual waypoints for %s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, distance_km, category, category_label, rest_minutes, gate_time
		FROM manual_waypoints
		WHERE track_key = ?
		ORDER BY position`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	specs := []models.ManualWaypointSpec{}
	for rows.Next() {
		var spec models.ManualWaypointSpec
		if err := rows.Scan(&spec.ID, &spec.DistanceKm, &spec.Category, &spec.CategoryLabel, &spec.RestMinutes, &spec.GateTime); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, rows.Err()
}

// SaveManualWaypoints replaces the whole list stored under key.
func (s *Store) SaveManualWaypoints(key string, specs []models.ManualWaypointSpec) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM manual_waypoints WHERE track_key = ?", key); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO manual_waypoints (track_key, position, id, distance_km, category, category_label, rest_minutes, gate_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, spec := range specs {
		if _, err := stmt.Exec(key, i, spec.ID, spec.DistanceKm, spec.Category, spec.CategoryLabel, spec.RestMinutes, spec.GateTime); err != nil {
			return fmt.Errorf("failed to save manual waypoint %s: %w", spec.ID, err)
		}
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO waypoint_sets (track_key, updated_at) VALUES (?, ?)",
		key, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) DeleteManualWaypoints(key string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM waypoint_sets WHERE track_key = ?", key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("manual waypoints for %s: %w", key, storage.ErrNotFound)
	}
	if _, err := tx.Exec("DELETE FROM manual_waypoints WHERE track_key = ?", key); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) ListKeys() ([]string, error) {
	rows, err := s.db.Query("SELECT track_key FROM waypoint_sets ORDER BY track_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
