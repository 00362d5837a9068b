// Package extract implements the Archive Extractor (spec §4.6): given a
// downloaded file and the AssetSpec that described it, produce the
// installed binaries.
//
// Archive specs are scanned once, entry by entry, in archive order; a
// [github.com/fetchy/fetchy/pkg/repository.BinarySelector]'s pattern is
// matched against every entry's POSIX-normalized interior path as the
// scan proceeds, rather than materializing the whole archive up front.
// Only entries that match at least one selector are buffered to a
// temporary file; everything else streams straight past. A selector
// matching zero entries fails with BinaryNotFound, more than one with
// AmbiguousBinary.
//
// SingleFile specs bypass archive handling entirely: the downloaded
// file is the binary, moved directly into place.
//
// TarGz decodes with the standard library's compress/gzip, TarBz2 with
// compress/bzip2, and Zip with archive/zip - no third-party dependency
// in the retrieved examples reads those three container formats better
// than the standard library already does. TarXz uses
// github.com/ulikunitz/xz, since the standard library has no .xz
// decoder at all.
package extract
