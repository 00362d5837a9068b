package manager

import (
	"context"

	"github.com/fetchy/fetchy/pkg/store"
)

// ListInstalled returns every currently installed record.
func (m *Manager) ListInstalled(ctx context.Context) ([]store.InstalledPackage, error) {
	return m.store.List(ctx)
}
