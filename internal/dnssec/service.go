package dnssec

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const (
	actionActivate   = "activate"
	actionDeactivate = "deactivate"
)

var toggleCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "dnssec_key_toggles_total",
		Help: "Number of DNSSEC zone keys switched on or off.",
	},
	[]string{"action"},
)

// KeyStore is the backend holding the zone keys.
type KeyStore interface {
	List(ctx context.Context, zone string) ([]Key, error)
	Get(ctx context.Context, zone string, id uint64) (*Key, error)
	// SetActive sets the active flag of a key. Setting the current value is a no-op.
	SetActive(ctx context.Context, zone string, id uint64, active bool) error
}

// Service reads and toggles DNSSEC zone keys.
type Service struct {
	store KeyStore
}

// NewService returns a Service backed by store.
func NewService(store KeyStore) *Service {
	return &Service{store: store}
}

func (s *Service) check(zone string) error {
	if s == nil || s.store == nil {
		return ErrStoreNil
	}

	if zone == "" {
		return ErrEmptyZone
	}

	return nil
}

// Keys lists the keys of zone.
func (s *Service) Keys(ctx context.Context, zone string) ([]Key, error) {
	if err := s.check(zone); err != nil {
		return nil, err
	}

	keys, err := s.store.List(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys of %s: %w", zone, err)
	}

	return keys, nil
}

// KeyExists reports whether zone has a key with the given id.
func (s *Service) KeyExists(ctx context.Context, zone string, id uint64) (bool, error) {
	keys, err := s.Keys(ctx, zone)
	if err != nil {
		return false, err
	}

	for _, k := range keys {
		if k.ID == id {
			return true, nil
		}
	}

	return false, nil
}

// Key returns a single key of zone.
func (s *Service) Key(ctx context.Context, zone string, id uint64) (*Key, error) {
	if err := s.check(zone); err != nil {
		return nil, err
	}

	key, err := s.store.Get(ctx, zone, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get key %d of %s: %w", id, zone, err)
	}

	if key == nil {
		return nil, ErrKeyNotFound
	}

	return key, nil
}

// Activate switches the key on. An already active key is left alone.
func (s *Service) Activate(ctx context.Context, zone string, id uint64) error {
	return s.setActive(ctx, zone, id, true)
}

// Deactivate switches the key off. An already inactive key is left alone.
func (s *Service) Deactivate(ctx context.Context, zone string, id uint64) error {
	return s.setActive(ctx, zone, id, false)
}

func (s *Service) setActive(ctx context.Context, zone string, id uint64, active bool) error {
	key, err := s.Key(ctx, zone, id)
	if err != nil {
		return err
	}

	action := actionDeactivate
	if active {
		action = actionActivate
	}

	if key.Active == active {
		log.Debug().Str("zone", zone).Uint64("key_id", id).Str("action", action).
			Msg("zone key already in requested state")

		return nil
	}

	if err := s.store.SetActive(ctx, zone, id, active); err != nil {
		return fmt.Errorf("failed to %s key %d of %s: %w", action, id, zone, err)
	}

	toggleCounter.WithLabelValues(action).Inc()

	log.Info().Str("zone", zone).Uint64("key_id", id).Str("action", action).Msg("zone key toggled")

	return nil
}
