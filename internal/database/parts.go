package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

// Parts store their models and symptoms lists as JSON arrays inside
// TEXT columns, mirroring the hosted store's array columns.

func (db *DB) CreatePart(ctx context.Context, part *models.Part) error {
	if part.CreatedAt.IsZero() {
		part.CreatedAt = time.Now()
	}
	if part.Status == "" {
		part.Status = models.PartAvailable
	}

	modelsJSON, symptomsJSON, err := encodePartLists(part)
	if err != nil {
		return err
	}

	query := `INSERT INTO rare_parts (name, models, year, status, symptoms, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	res, err := db.sql.ExecContext(ctx, query,
		part.Name,
		modelsJSON,
		part.Year,
		part.Status,
		symptomsJSON,
		part.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create part: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get part id: %w", err)
	}
	part.ID = id
	return nil
}

func (db *DB) GetPart(ctx context.Context, id int64) (*models.Part, error) {
	query := `SELECT id, name, models, year, status, symptoms, created_at
              FROM rare_parts WHERE id = ?`

	part, err := scanPart(db.sql.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	return part, nil
}

func (db *DB) GetPartByName(ctx context.Context, name string) (*models.Part, error) {
	query := `SELECT id, name, models, year, status, symptoms, created_at
              FROM rare_parts WHERE name = ?`

	part, err := scanPart(db.sql.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get part by name: %w", err)
	}
	return part, nil
}

func (db *DB) ListParts(ctx context.Context) ([]models.Part, error) {
	query := `SELECT id, name, models, year, status, symptoms, created_at
              FROM rare_parts ORDER BY created_at DESC, id DESC`

	rows, err := db.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer rows.Close()

	var parts []models.Part
	for rows.Next() {
		part, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan part: %w", err)
		}
		parts = append(parts, *part)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parts: %w", err)
	}
	return parts, nil
}

func (db *DB) UpdatePart(ctx context.Context, part *models.Part) error {
	modelsJSON, symptomsJSON, err := encodePartLists(part)
	if err != nil {
		return err
	}

	query := `UPDATE rare_parts SET name = ?, models = ?, year = ?, status = ?, symptoms = ? WHERE id = ?`
	res, err := db.sql.ExecContext(ctx, query,
		part.Name,
		modelsJSON,
		part.Year,
		part.Status,
		symptomsJSON,
		part.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	return requireRow(res)
}

func (db *DB) DeletePart(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM rare_parts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}
	return requireRow(res)
}

func scanPart(row rowScanner) (*models.Part, error) {
	var p models.Part
	var modelsJSON string
	var symptomsJSON sql.NullString
	var year sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &modelsJSON, &year, &p.Status, &symptomsJSON, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Year = year.String

	if err := json.Unmarshal([]byte(modelsJSON), &p.Models); err != nil {
		return nil, fmt.Errorf("decode part models: %w", err)
	}
	if symptomsJSON.Valid && symptomsJSON.String != "" {
		if err := json.Unmarshal([]byte(symptomsJSON.String), &p.Symptoms); err != nil {
			return nil, fmt.Errorf("decode part symptoms: %w", err)
		}
	}
	return &p, nil
}

func encodePartLists(part *models.Part) (string, string, error) {
	modelsJSON, err := json.Marshal(part.Models)
	if err != nil {
		return "", "", fmt.Errorf("encode part models: %w", err)
	}
	symptoms := part.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	symptomsJSON, err := json.Marshal(symptoms)
	if err != nil {
		return "", "", fmt.Errorf("encode part symptoms: %w", err)
	}
	return string(modelsJSON), string(symptomsJSON), nil
}
