package manager

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/repodsl"
	"github.com/fetchy/fetchy/pkg/repository"
)

// AddRepo parses the repository document at path - DSL text or JSON,
// chosen by file extension - validates it via the Repository Loader,
// and persists its canonical form to the repos directory under its
// declared name (spec §4.2-§4.3). Re-adding a repository under a name
// that already exists overwrites the previous catalog, the same
// refresh semantics `fetchy update` relies on for re-reading a
// repository after its upstream changes.
func (m *Manager) AddRepo(ctx context.Context, path string) (*repository.Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "reading %s", path)
	}

	var file *repodsl.File
	if strings.HasSuffix(path, ".json") {
		file, err = repodsl.ParseJSON(data)
	} else {
		file, err = repodsl.Parse(string(data))
	}
	if err != nil {
		return nil, err
	}

	repo, err := repository.Load(file)
	if err != nil {
		return nil, err
	}

	encoded, err := json.MarshalIndent(repo, "", "  ")
	if err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "encoding repository %q", repo.Name)
	}
	if err := writeFileAtomic(m.cfg.RepoPath(repo.Name), encoded); err != nil {
		return nil, err
	}

	return repo, nil
}

// RemoveRepo deletes a repository's persisted catalog. It refuses to
// remove a repository that any installed record still references,
// since the Dependency Graph Manager needs the catalog to reason about
// those records (spec §4.8).
func (m *Manager) RemoveRepo(ctx context.Context, name string) error {
	records, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.RepoName == name {
			return fetchyerrors.New(fetchyerrors.CodeRepositoryError, "repository %q has installed packages; uninstall them first", name)
		}
	}

	path := m.cfg.RepoPath(name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fetchyerrors.New(fetchyerrors.CodeRepositoryError, "repository %q is not added", name)
		}
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "removing %s", path)
	}
	return nil
}

// ListRepos returns the names of every added repository, sorted.
func (m *Manager) ListRepos(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(m.cfg.ReposDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "reading %s", m.cfg.ReposDir())
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// loadRepo reads and validates a previously added repository's
// persisted catalog back into its canonical form.
func (m *Manager) loadRepo(name string) (*repository.Repository, error) {
	path := m.cfg.RepoPath(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fetchyerrors.New(fetchyerrors.CodeRepositoryError, "repository %q is not added", name)
	}
	if err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "reading %s", path)
	}

	var repo repository.Repository
	if err := json.Unmarshal(data, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}
