package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/domain"
)

// FailoverStateRepository prefers the primary (Redis) store and drops
// to the in-memory fallback when it errors, retrying the primary
// after a cooldown.
type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	downSince atomic.Int64
}

const recoveryCooldown = time.Minute

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverStateRepository) GetKnownIDs(ctx context.Context) ([]string, error) {
	if r.tryPrimary() {
		ids, err := r.primary.GetKnownIDs(ctx)
		if err == nil {
			r.markUp()
			return ids, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetKnownIDs(ctx)
}

func (r *FailoverStateRepository) SetKnownIDs(ctx context.Context, ids []string) error {
	if r.tryPrimary() {
		if err := r.primary.SetKnownIDs(ctx, ids); err != nil {
			r.markDown(err)
		} else {
			r.markUp()
		}
	}
	// Keep the fallback warm so a later failover sees current state.
	return r.fallback.SetKnownIDs(ctx, ids)
}

func (r *FailoverStateRepository) ClearKnownIDs(ctx context.Context) error {
	if r.tryPrimary() {
		if err := r.primary.ClearKnownIDs(ctx); err != nil {
			r.markDown(err)
		} else {
			r.markUp()
		}
	}
	return r.fallback.ClearKnownIDs(ctx)
}

func (r *FailoverStateRepository) tryPrimary() bool {
	if r.primary == nil {
		return false
	}
	if !r.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, r.downSince.Load())) > recoveryCooldown
}

func (r *FailoverStateRepository) markDown(err error) {
	if !r.isDown.Load() {
		r.logger.Error().Err(err).Msg("primary state repository failed, falling back to memory")
	}
	r.isDown.Store(true)
	r.downSince.Store(time.Now().UnixNano())
}

func (r *FailoverStateRepository) markUp() {
	if r.isDown.Load() {
		r.logger.Info().Msg("primary state repository recovered")
	}
	r.isDown.Store(false)
}
