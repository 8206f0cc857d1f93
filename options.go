package medguide

import (
	"github.com/rs/zerolog"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/identity"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
	"github.com/phodsawiR/MedGuideApp2/pkg/view"
)

// Option configures the engine at construction time.
type Option func(*medguide) error

// WithStore replaces the default in-memory store.
func WithStore(s store.Store) Option {
	return func(m *medguide) error {
		if s == nil {
			return errors.New("store cannot be nil")
		}
		m.store = s
		return nil
	}
}

// WithSeed replaces the embedded seed catalog.
func WithSeed(seed catalogs.Topics) Option {
	return func(m *medguide) error {
		m.seed = seed.Copy()
		return nil
	}
}

// WithIdentityProvider replaces the anonymous identity handshake.
func WithIdentityProvider(p identity.Provider) Option {
	return func(m *medguide) error {
		if p == nil {
			return errors.New("identity provider cannot be nil")
		}
		m.provider = p
		return nil
	}
}

// WithCollection overrides the reconciled and observed collection path.
func WithCollection(collection string) Option {
	return func(m *medguide) error {
		if collection == "" {
			return errors.New("collection cannot be empty")
		}
		m.collection = collection
		return nil
	}
}

// WithFilter sets the initial presentation filter.
func WithFilter(f view.Filter) Option {
	return func(m *medguide) error {
		m.filter = f
		return nil
	}
}

// WithLogger overrides the engine's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(m *medguide) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		m.logger = logger
		return nil
	}
}
