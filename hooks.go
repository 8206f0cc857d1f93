package medguide

import (
	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/reconcile"
)

// CatalogChangedFunc runs with each new projection snapshot.
type CatalogChangedFunc func(topics catalogs.Topics)

// DuplicatesRemovedFunc runs after a pass that removed duplicates,
// with the number of deleted records. The server surfaces this as a
// maintenance notice to connected clients.
type DuplicatesRemovedFunc func(removed int)

// SeededFunc runs after a pass that inserted seed records.
type SeededFunc func(seeded int)

// OnCatalogChanged implements MedGuide.
func (m *medguide) OnCatalogChanged(fn CatalogChangedFunc) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.catalogChanged = append(m.catalogChanged, fn)
}

// OnDuplicatesRemoved implements MedGuide.
func (m *medguide) OnDuplicatesRemoved(fn DuplicatesRemovedFunc) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.duplicatesRemoved = append(m.duplicatesRemoved, fn)
}

// OnSeeded implements MedGuide.
func (m *medguide) OnSeeded(fn SeededFunc) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.seeded = append(m.seeded, fn)
}

func (m *medguide) fireCatalogChanged(topics catalogs.Topics) {
	m.hooksMu.RLock()
	hooks := m.catalogChanged
	m.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(topics)
	}
}

func (m *medguide) fireReconcileHooks(result reconcile.Result) {
	m.hooksMu.RLock()
	removed, seeded := m.duplicatesRemoved, m.seeded
	m.hooksMu.RUnlock()

	if result.Removed > 0 {
		for _, fn := range removed {
			fn(result.Removed)
		}
	}
	if result.Seeded > 0 {
		for _, fn := range seeded {
			fn(result.Seeded)
		}
	}
}
