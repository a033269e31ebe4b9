package sqlite

import (
	"fmt"

	"github.com/julianstephens/trailpace/internal/models"
)

func (s *Store) GetProfile() (models.RunnerProfile, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.RunnerProfile{}, err
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.RunnerProfile{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.RunnerProfile{}, err
	}

	if len(data) == 0 {
		return models.RunnerProfile{}, fmt.Errorf("settings not found")
	}

	return models.MapToProfile(data)
}

func (s *Store) SaveProfile(profile models.RunnerProfile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.ProfileToMap(profile) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}
