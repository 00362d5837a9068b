package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/platform"
	"github.com/fetchy/fetchy/pkg/repository"
)

var linuxPlat = platform.Platform{OS: platform.Linux, Arch: platform.X86_64}

func writeTarGz(t *testing.T, entries map[string]string, executable map[string]bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for name, content := range entries {
		mode := int64(0o644)
		if executable[name] {
			mode = 0o755
		}
		hdr := &tar.Header{Name: name, Mode: mode, Size: int64(len(content)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	return path
}

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return path
}

func TestArchive_TarGz_SingleBinary(t *testing.T) {
	archivePath := writeTarGz(t, map[string]string{
		"tool-1.0/bin/tool": "#!/bin/sh\necho hi\n",
		"tool-1.0/README":   "hello",
	}, map[string]bool{"tool-1.0/bin/tool": true})

	spec := repository.AssetSpec{
		Kind:        repository.AssetArchive,
		ArchiveKind: repository.TarGz,
		Binaries: []repository.BinarySelector{
			{PathPattern: `bin/tool$`, PathRegexp: regexp.MustCompile(`bin/tool$`), InstallName: "tool"},
		},
	}

	binDir := t.TempDir()
	binaries, err := Archive(context.Background(), archivePath, spec, linuxPlat, binDir)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if len(binaries) != 1 || binaries[0].InstallName != "tool" {
		t.Fatalf("binaries = %+v, want one named tool", binaries)
	}

	info, err := os.Stat(binaries[0].Path)
	if err != nil {
		t.Fatalf("stat installed binary: %v", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Error("installed binary is not executable")
	}
}

func TestArchive_AmbiguousBinary(t *testing.T) {
	archivePath := writeTarGz(t, map[string]string{
		"a/tool": "a",
		"b/tool": "b",
	}, nil)

	spec := repository.AssetSpec{
		Kind:        repository.AssetArchive,
		ArchiveKind: repository.TarGz,
		Binaries: []repository.BinarySelector{
			{PathPattern: `tool$`, PathRegexp: regexp.MustCompile(`tool$`), InstallName: "tool"},
		},
	}

	_, err := Archive(context.Background(), archivePath, spec, linuxPlat, t.TempDir())
	if !fetchyerrors.Is(err, fetchyerrors.CodeAmbiguousBinary) {
		t.Fatalf("Archive() error = %v, want CodeAmbiguousBinary", err)
	}
}

func TestArchive_BinaryNotFound(t *testing.T) {
	archivePath := writeTarGz(t, map[string]string{"README": "hi"}, nil)

	spec := repository.AssetSpec{
		Kind:        repository.AssetArchive,
		ArchiveKind: repository.TarGz,
		Binaries: []repository.BinarySelector{
			{PathPattern: `bin/tool$`, PathRegexp: regexp.MustCompile(`bin/tool$`), InstallName: "tool"},
		},
	}

	_, err := Archive(context.Background(), archivePath, spec, linuxPlat, t.TempDir())
	if !fetchyerrors.Is(err, fetchyerrors.CodeBinaryNotFound) {
		t.Fatalf("Archive() error = %v, want CodeBinaryNotFound", err)
	}
}

func TestArchive_RollsBackOnLaterFailure(t *testing.T) {
	archivePath := writeTarGz(t, map[string]string{
		"tool1": "a",
	}, nil)

	spec := repository.AssetSpec{
		Kind:        repository.AssetArchive,
		ArchiveKind: repository.TarGz,
		Binaries: []repository.BinarySelector{
			{PathPattern: `^tool1$`, PathRegexp: regexp.MustCompile(`^tool1$`), InstallName: "tool1"},
			{PathPattern: `^tool2$`, PathRegexp: regexp.MustCompile(`^tool2$`), InstallName: "tool2"},
		},
	}

	binDir := t.TempDir()
	_, err := Archive(context.Background(), archivePath, spec, linuxPlat, binDir)
	if !fetchyerrors.Is(err, fetchyerrors.CodeBinaryNotFound) {
		t.Fatalf("Archive() error = %v, want CodeBinaryNotFound", err)
	}
	if _, statErr := os.Stat(filepath.Join(binDir, "tool1")); !os.IsNotExist(statErr) {
		t.Error("tool1 should have been rolled back after tool2 failed to match")
	}
}

func TestArchive_Zip(t *testing.T) {
	archivePath := writeZip(t, map[string]string{
		"windows/tool.exe": "binary-content",
	})

	spec := repository.AssetSpec{
		Kind:        repository.AssetArchive,
		ArchiveKind: repository.Zip,
		Binaries: []repository.BinarySelector{
			{PathPattern: `tool\.exe$`, PathRegexp: regexp.MustCompile(`tool\.exe$`), InstallName: "tool.exe"},
		},
	}

	binaries, err := Archive(context.Background(), archivePath, spec, linuxPlat, t.TempDir())
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if len(binaries) != 1 || binaries[0].InstallName != "tool.exe" {
		t.Fatalf("binaries = %+v, want one named tool.exe", binaries)
	}
}

func TestArchive_WindowsAddsExeSuffixWhenEntryHasIt(t *testing.T) {
	archivePath := writeZip(t, map[string]string{
		"windows/tool.exe": "binary-content",
	})

	spec := repository.AssetSpec{
		Kind:        repository.AssetArchive,
		ArchiveKind: repository.Zip,
		Binaries: []repository.BinarySelector{
			{PathPattern: `tool\.exe$`, PathRegexp: regexp.MustCompile(`tool\.exe$`), InstallName: "tool"},
		},
	}

	windowsPlat := platform.Platform{OS: platform.Windows, Arch: platform.X86_64}
	binaries, err := Archive(context.Background(), archivePath, spec, windowsPlat, t.TempDir())
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if len(binaries) != 1 || binaries[0].InstallName != "tool.exe" {
		t.Fatalf("binaries = %+v, want one named tool.exe", binaries)
	}
}

func TestArchive_WindowsStripsExeSuffixWhenEntryLacksIt(t *testing.T) {
	archivePath := writeZip(t, map[string]string{
		"linux/tool": "binary-content",
	})

	spec := repository.AssetSpec{
		Kind:        repository.AssetArchive,
		ArchiveKind: repository.Zip,
		Binaries: []repository.BinarySelector{
			{PathPattern: `tool$`, PathRegexp: regexp.MustCompile(`tool$`), InstallName: "tool.exe"},
		},
	}

	windowsPlat := platform.Platform{OS: platform.Windows, Arch: platform.X86_64}
	binaries, err := Archive(context.Background(), archivePath, spec, windowsPlat, t.TempDir())
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if len(binaries) != 1 || binaries[0].InstallName != "tool" {
		t.Fatalf("binaries = %+v, want one named tool (no .exe)", binaries)
	}
}

func TestArchive_PathTraversalRejected(t *testing.T) {
	archivePath := writeTarGz(t, map[string]string{
		"../../etc/passwd": "nope",
	}, nil)

	spec := repository.AssetSpec{
		Kind:        repository.AssetArchive,
		ArchiveKind: repository.TarGz,
		Binaries: []repository.BinarySelector{
			{PathPattern: `passwd$`, PathRegexp: regexp.MustCompile(`passwd$`), InstallName: "passwd"},
		},
	}

	_, err := Archive(context.Background(), archivePath, spec, linuxPlat, t.TempDir())
	if !fetchyerrors.Is(err, fetchyerrors.CodeIoError) {
		t.Fatalf("Archive() error = %v, want CodeIoError", err)
	}
}

func TestSingleFile_MovesAndSetsExecutable(t *testing.T) {
	src := filepath.Join(t.TempDir(), "downloaded")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	spec := repository.AssetSpec{Kind: repository.AssetSingleFile, InstallName: "yt-dlp"}
	binDir := t.TempDir()

	binary, err := SingleFile(context.Background(), src, spec, binDir)
	if err != nil {
		t.Fatalf("SingleFile() error = %v", err)
	}
	if binary.InstallName != "yt-dlp" {
		t.Errorf("InstallName = %q, want yt-dlp", binary.InstallName)
	}

	info, err := os.Stat(binary.Path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Error("installed file is not executable")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file should have been moved, not copied")
	}
}
