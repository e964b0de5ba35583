package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alertcast/internal/core/cache"
	"alertcast/internal/features/donations/domain"
)

const (
	pendingKeyPrefix = "donation:pending:"
	historyKey       = "donation:history"

	// pendingTTL bounds how long an unconfirmed donation is kept. Payment
	// callbacks past this window resolve to ErrNotFound.
	pendingTTL = 30 * time.Minute
)

// RedisDonationRepository implements ports.DonationRepository on the cache port.
// Pending donations are plain keys with a TTL; history is a capped list,
// newest first.
type RedisDonationRepository struct {
	cache      cache.Cache
	maxHistory int64
}

// NewRedisDonationRepository creates a new RedisDonationRepository keeping at
// most maxHistory entries.
func NewRedisDonationRepository(c cache.Cache, maxHistory int64) *RedisDonationRepository {
	return &RedisDonationRepository{
		cache:      c,
		maxHistory: maxHistory,
	}
}

// SavePending stores a donation awaiting its payment callback.
func (r *RedisDonationRepository) SavePending(ctx context.Context, donation *domain.Donation) error {
	data, err := json.Marshal(donation)
	if err != nil {
		return fmt.Errorf("failed to marshal donation: %w", err)
	}

	if err := r.cache.Set(ctx, pendingKeyPrefix+donation.ID, data, pendingTTL); err != nil {
		return fmt.Errorf("failed to save pending donation: %w", err)
	}

	return nil
}

// GetPending retrieves a pending donation by order id.
func (r *RedisDonationRepository) GetPending(ctx context.Context, orderID string) (*domain.Donation, error) {
	data, err := r.cache.Get(ctx, pendingKeyPrefix+orderID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var donation domain.Donation
	if err := json.Unmarshal(data, &donation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal donation: %w", err)
	}

	return &donation, nil
}

// DeletePending removes a resolved pending donation.
func (r *RedisDonationRepository) DeletePending(ctx context.Context, orderID string) error {
	if err := r.cache.Delete(ctx, pendingKeyPrefix+orderID); err != nil {
		return fmt.Errorf("failed to delete pending donation: %w", err)
	}
	return nil
}

// AppendHistory records a paid donation at the head of the capped history list.
func (r *RedisDonationRepository) AppendHistory(ctx context.Context, donation *domain.Donation) error {
	data, err := json.Marshal(donation)
	if err != nil {
		return fmt.Errorf("failed to marshal donation: %w", err)
	}

	if err := r.cache.PushToList(ctx, historyKey, data, r.maxHistory); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

// History returns up to limit recorded donations, newest first. Entries that
// no longer unmarshal are skipped rather than failing the whole read.
func (r *RedisDonationRepository) History(ctx context.Context, limit int64) ([]domain.Donation, error) {
	if limit <= 0 || limit > r.maxHistory {
		limit = r.maxHistory
	}

	entries, err := r.cache.ListRange(ctx, historyKey, 0, limit-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	donations := make([]domain.Donation, 0, len(entries))
	for _, entry := range entries {
		var donation domain.Donation
		if err := json.Unmarshal(entry, &donation); err != nil {
			continue
		}
		donations = append(donations, donation)
	}

	return donations, nil
}
