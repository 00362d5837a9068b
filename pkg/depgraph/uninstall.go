package depgraph

import (
	"fmt"

	"github.com/fetchy/fetchy/pkg/store"
)

// WouldBreakDependents walks every installed record transitively
// dependent on target and reports the whole chain - both Explicit and
// intermediate Dependency-marked dependents - in nearest-first (BFS)
// order, per spec §4.8's Uninstall breakage check. The gate itself
// only fires when at least one Explicit-marked dependent is in that
// chain: a chain of nothing but Dependency-marked records would all
// be swept as orphans anyway, so removing target is safe. A nil
// result means target is safe to remove.
func WouldBreakDependents(records []store.InstalledPackage, target store.Key) ([]store.Key, error) {
	g, err := BuildInstallGraph(records)
	if err != nil {
		return nil, err
	}
	targetID := target.String()
	if !g.Has(targetID) {
		return nil, nil
	}

	byID := make(map[string]store.InstalledPackage, len(records))
	for _, r := range records {
		byID[r.Key().String()] = r
	}

	visited := map[string]bool{targetID: true}
	var dependents []store.Key
	hasExplicit := false
	queue := []string{targetID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, parent := range g.Parents(id) {
			if visited[parent] {
				continue
			}
			visited[parent] = true
			queue = append(queue, parent)

			rec, ok := byID[parent]
			if !ok {
				continue
			}
			dependents = append(dependents, rec.Key())
			if rec.InstalledAs == store.Explicit {
				hasExplicit = true
			}
		}
	}
	if !hasExplicit {
		return nil, nil
	}
	return dependents, nil
}

// OrphanSweep repeatedly removes Dependency-marked records that have
// no remaining reverse edges in the install graph, until a fixed
// point is reached (spec §4.8). remove is called once per package
// about to be swept; an error from remove is collected and that
// package is left in place, but the sweep continues over the rest of
// the graph.
func OrphanSweep(records []store.InstalledPackage, remove func(store.Key) error) (removed []store.Key, errs []error) {
	g, err := BuildInstallGraph(records)
	if err != nil {
		return nil, []error{err}
	}

	byID := make(map[string]store.InstalledPackage, len(records))
	for _, r := range records {
		byID[r.Key().String()] = r
	}

	for {
		progressed := false
		for id, rec := range byID {
			if !g.Has(id) {
				continue
			}
			if rec.InstalledAs != store.Dependency || g.InDegree(id) != 0 {
				continue
			}

			key := rec.Key()
			if err := remove(key); err != nil {
				errs = append(errs, fmt.Errorf("removing orphan %s: %w", key, err))
				delete(byID, id) // don't retry a failed removal every pass
				continue
			}

			g.RemoveNode(id)
			delete(byID, id)
			removed = append(removed, key)
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return removed, errs
}
