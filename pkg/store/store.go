package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fetchy/fetchy/pkg/config"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/platform"
)

// InstallReason distinguishes why a package is present: because a user
// asked for it directly, or because something else required it.
type InstallReason int

const (
	Explicit InstallReason = iota
	Dependency
)

func (r InstallReason) String() string {
	if r == Dependency {
		return "Dependency"
	}
	return "Explicit"
}

// MarshalJSON renders the reason as its string form.
func (r InstallReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON parses the reason from its string form.
func (r *InstallReason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "Dependency" {
		*r = Dependency
	} else {
		*r = Explicit
	}
	return nil
}

// Key identifies an InstalledPackage record by its primary key.
type Key struct {
	Repo    string
	Package string
}

func (k Key) String() string { return k.Repo + "/" + k.Package }

// InstalledPackage is a single persisted install record (spec §3).
type InstalledPackage struct {
	RepoName         string            `json:"repo_name"`
	PackageName      string            `json:"package_name"`
	ResolvedVersion  string            `json:"resolved_version"`
	Platform         platform.Platform `json:"platform"`
	InstalledBinaries []string         `json:"installed_binaries"`
	Dependencies     []string          `json:"dependencies"`
	InstalledAs      InstallReason     `json:"installed_as"`
	InstalledAt      time.Time         `json:"installed_at"`
}

// Key returns the record's primary key.
func (p InstalledPackage) Key() Key { return Key{Repo: p.RepoName, Package: p.PackageName} }

// document is the on-disk shape of the install store's JSON file.
type document struct {
	Packages []InstalledPackage `json:"packages"`
}

// Store is the Install Store: the sole owner of installed-package
// records, opened against a [config.Config].
type Store struct {
	cfg config.Config
}

// New returns a Store backed by cfg's installed-package document and
// lockfile paths.
func New(cfg config.Config) *Store {
	return &Store{cfg: cfg}
}

// Get returns the record for key, or ok=false if no such record exists.
func (s *Store) Get(ctx context.Context, key Key) (rec InstalledPackage, ok bool, err error) {
	err = s.withLock(ctx, func(doc *document) (bool, error) {
		for _, p := range doc.Packages {
			if p.Key() == key {
				rec, ok = p, true
				return false, nil
			}
		}
		return false, nil
	})
	return rec, ok, err
}

// List returns every installed record, in no particular order.
func (s *Store) List(ctx context.Context) ([]InstalledPackage, error) {
	var records []InstalledPackage
	err := s.withLock(ctx, func(doc *document) (bool, error) {
		records = slices.Clone(doc.Packages)
		return false, nil
	})
	return records, err
}

// Dependents returns the keys of every installed record whose
// Dependencies names key.Package, scoped to key.Repo (requires edges
// never cross repositories, per spec §3).
func (s *Store) Dependents(ctx context.Context, key Key) ([]Key, error) {
	var dependents []Key
	err := s.withLock(ctx, func(doc *document) (bool, error) {
		for _, p := range doc.Packages {
			if p.RepoName != key.Repo {
				continue
			}
			if slices.Contains(p.Dependencies, key.Package) {
				dependents = append(dependents, p.Key())
			}
		}
		return false, nil
	})
	return dependents, err
}

// Insert adds a new record. It fails if a record with the same key
// already exists, or if any of rec's installed-binary paths collide
// with a path already owned by another record (invariant 2, spec §3).
func (s *Store) Insert(ctx context.Context, rec InstalledPackage) error {
	return s.withLock(ctx, func(doc *document) (bool, error) {
		for _, p := range doc.Packages {
			if p.Key() == rec.Key() {
				return false, fetchyerrors.New(fetchyerrors.CodeIoError, "install record %s already exists", rec.Key())
			}
			for _, existing := range p.InstalledBinaries {
				if slices.Contains(rec.InstalledBinaries, existing) {
					return false, fetchyerrors.New(fetchyerrors.CodeIoError, "binary path %s already owned by %s", existing, p.Key())
				}
			}
		}
		doc.Packages = append(doc.Packages, rec)
		return true, nil
	})
}

// Update loads the record for key, applies patch to a copy, and
// persists the result. patch may mutate the record in place; it must
// not change RepoName or PackageName.
func (s *Store) Update(ctx context.Context, key Key, patch func(*InstalledPackage)) error {
	return s.withLock(ctx, func(doc *document) (bool, error) {
		for i := range doc.Packages {
			if doc.Packages[i].Key() == key {
				patch(&doc.Packages[i])
				return true, nil
			}
		}
		return false, fetchyerrors.New(fetchyerrors.CodeIoError, "install record %s not found", key)
	})
}

// MarkAs sets key's installed-as reason.
func (s *Store) MarkAs(ctx context.Context, key Key, reason InstallReason) error {
	return s.Update(ctx, key, func(p *InstalledPackage) { p.InstalledAs = reason })
}

// Remove deletes the record for key. It is not an error to remove a
// key that does not exist.
func (s *Store) Remove(ctx context.Context, key Key) error {
	return s.withLock(ctx, func(doc *document) (bool, error) {
		before := len(doc.Packages)
		doc.Packages = slices.DeleteFunc(doc.Packages, func(p InstalledPackage) bool { return p.Key() == key })
		return len(doc.Packages) != before, nil
	})
}

// withLock acquires the advisory lockfile, loads the current document,
// runs fn, and - if fn reports it changed the document - writes it back
// atomically before releasing the lock.
func (s *Store) withLock(ctx context.Context, fn func(doc *document) (changed bool, err error)) error {
	release, err := acquireLock(ctx, s.cfg.LockPath())
	if err != nil {
		return err
	}
	defer release()

	doc, err := loadDocument(s.cfg.InstalledPath())
	if err != nil {
		return err
	}

	changed, err := fn(doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return writeDocument(s.cfg.InstalledPath(), doc)
}

func loadDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &document{}, nil
	}
	if err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "reading %s", path)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "parsing %s", path)
	}
	return &doc, nil
}

// writeDocument serializes doc and writes it to path through a sibling
// temp file that is fsynced and renamed into place, so a crash never
// leaves a partially written document (spec §4.7).
func writeDocument(path string, doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "marshaling %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".installed-*.tmp")
	if err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating temp file in %s", dir)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "writing %s", tmpPath)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "syncing %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "closing %s", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "renaming %s to %s", tmpPath, path)
	}
	return nil
}
