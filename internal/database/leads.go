package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

func (db *DB) CreateLead(ctx context.Context, lead *models.Lead) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	query := `INSERT INTO offer_leads (id, name, phone, offer_title, status, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.sql.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Phone,
		lead.OfferTitle,
		lead.Status,
		lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func (db *DB) ListLeads(ctx context.Context) ([]models.Lead, error) {
	query := `SELECT id, name, phone, offer_title, status, created_at
              FROM offer_leads ORDER BY created_at DESC, id DESC`

	rows, err := db.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Phone, &l.OfferTitle, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}
	return leads, nil
}
