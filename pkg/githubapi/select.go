package githubapi

import (
	"regexp"
	"sort"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// SelectRelease implements the release-selection rule from spec §4.5:
// among releases allowed by allowPrerelease, pick the most recent by
// publish time, breaking ties by the highest lexical ordering of tag
// name.
func SelectRelease(releases []Release, allowPrerelease bool) (*Release, error) {
	var candidates []Release
	for _, r := range releases {
		if allowPrerelease || !r.Prerelease {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, fetchyerrors.New(fetchyerrors.CodeAssetNotFound, "no matching releases")
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].PublishedAt.Equal(candidates[j].PublishedAt) {
			return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
		}
		return candidates[i].TagName > candidates[j].TagName
	})
	best := candidates[0]
	return &best, nil
}

// SelectAsset picks the single asset in release whose name matches
// pattern, failing with [fetchyerrors.CodeAssetNotFound] on zero
// matches or *[fetchyerrors.AmbiguousAssetError] on more than one, per
// spec §4.5.
func SelectAsset(release *Release, pattern *regexp.Regexp) (*Asset, error) {
	var matches []Asset
	for _, a := range release.Assets {
		if pattern.MatchString(a.Name) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fetchyerrors.New(fetchyerrors.CodeAssetNotFound, "no asset in release %q matched pattern %q", release.TagName, pattern.String())
	case 1:
		return &matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, a := range matches {
			names[i] = a.Name
		}
		return nil, &fetchyerrors.AmbiguousAssetError{Pattern: pattern.String(), Candidates: names}
	}
}
