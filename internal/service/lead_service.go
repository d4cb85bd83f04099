package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/domain"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/events"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

// LeadService handles promotional offer claims from the landing page.
type LeadService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	notifier domain.Notifier
	logger   *zerolog.Logger
}

func NewLeadService(repo domain.Repository, eventBus domain.EventPublisher, notifier domain.Notifier, logger *zerolog.Logger) *LeadService {
	return &LeadService{
		repo:     repo,
		eventBus: eventBus,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateLead validates and stores an offer claim, then fires the
// best-effort Telegram push.
func (s *LeadService) CreateLead(ctx context.Context, lead *models.Lead) error {
	if strings.TrimSpace(lead.Name) == "" || strings.TrimSpace(lead.Phone) == "" {
		return ErrMissingFields
	}
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	} else if _, err := uuid.Parse(lead.ID); err != nil {
		return fmt.Errorf("invalid lead id: %w", err)
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	if err := s.repo.CreateLead(ctx, lead); err != nil {
		return err
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishJSON(events.EventLeadCreated, lead); err != nil {
			s.logger.Error().Err(err).Str("lead_id", lead.ID).Msg("publish event error")
		}
	}
	if s.notifier != nil {
		s.notifier.EnqueueLeadCreated(ctx, lead)
	}
	return nil
}

func (s *LeadService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	return s.repo.ListLeads(ctx)
}
