package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/domain"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

var ErrInvalidPart = errors.New("part needs a name and at least one car model")

// PartService manages the rare-parts inventory shown on the dashboard.
type PartService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewPartService(repo domain.Repository, logger *zerolog.Logger) *PartService {
	return &PartService{repo: repo, logger: logger}
}

func (s *PartService) CreatePart(ctx context.Context, part *models.Part) error {
	if err := validatePart(part); err != nil {
		return err
	}
	if part.Status == "" {
		part.Status = models.PartAvailable
	}
	return s.repo.CreatePart(ctx, part)
}

func (s *PartService) UpdatePart(ctx context.Context, part *models.Part) error {
	if err := validatePart(part); err != nil {
		return err
	}
	return s.repo.UpdatePart(ctx, part)
}

// ToggleStatus flips a part between available and unavailable.
// Inquiry-only parts keep their status.
func (s *PartService) ToggleStatus(ctx context.Context, id int64) (*models.Part, error) {
	part, err := s.repo.GetPart(ctx, id)
	if err != nil {
		return nil, err
	}

	switch part.Status {
	case models.PartAvailable:
		part.Status = models.PartUnavailable
	case models.PartUnavailable:
		part.Status = models.PartAvailable
	default:
		return part, nil
	}

	if err := s.repo.UpdatePart(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

func (s *PartService) GetPart(ctx context.Context, id int64) (*models.Part, error) {
	return s.repo.GetPart(ctx, id)
}

func (s *PartService) ListParts(ctx context.Context) ([]models.Part, error) {
	return s.repo.ListParts(ctx)
}

func (s *PartService) DeletePart(ctx context.Context, id int64) error {
	return s.repo.DeletePart(ctx, id)
}

func validatePart(part *models.Part) error {
	if strings.TrimSpace(part.Name) == "" {
		return ErrInvalidPart
	}
	cleaned := part.Models[:0:0]
	for _, m := range part.Models {
		if strings.TrimSpace(m) != "" {
			cleaned = append(cleaned, strings.TrimSpace(m))
		}
	}
	if len(cleaned) == 0 {
		return ErrInvalidPart
	}
	part.Models = cleaned
	return nil
}
