// Package store implements the Install Store (spec §4.7): the durable
// record of what is installed, where its binaries live, and why it is
// there.
//
// Records persist as a single JSON document at
// [github.com/fetchy/fetchy/pkg/config.Config.InstalledPath]. Every
// mutating operation reads the whole document, applies the change, and
// writes it back through a sibling temp file that is fsynced and
// renamed into place, so a crash mid-write never leaves a truncated or
// half-written document behind.
//
// Because the document has no server process to arbitrate concurrent
// writers, every operation - mutating or not - first acquires an
// advisory lockfile in the same directory. A process that cannot
// acquire the lock within 30 seconds fails with CodeLockTimeout rather
// than blocking indefinitely.
package store
