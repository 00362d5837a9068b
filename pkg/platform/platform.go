// Package platform classifies the running host as a (os, arch) pair drawn
// from the closed set Fetchy repositories declare variants against.
package platform

import (
	"runtime"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// OS is one of the three operating systems a repository may target.
type OS string

// Arch is one of the two CPU architectures a repository may target.
type Arch string

const (
	Linux   OS = "linux"
	Windows OS = "windows"
	MacOS   OS = "macos"

	X86_64  Arch = "x86_64"
	AArch64 Arch = "aarch64"
)

// Platform is a closed-enum pair (os, arch) a package variant is keyed by.
type Platform struct {
	OS   OS
	Arch Arch
}

// String renders the platform in os/arch form, e.g. "linux/x86_64", the
// form the persisted repository document uses as a variant key.
func (p Platform) String() string {
	return string(p.OS) + "/" + string(p.Arch)
}

// ParseOS maps a DSL/JSON OS token to an OS, or reports ok=false if it is
// outside the closed set {linux, windows, macos}.
func ParseOS(s string) (OS, bool) {
	switch OS(s) {
	case Linux, Windows, MacOS:
		return OS(s), true
	default:
		return "", false
	}
}

// ParseArch maps a DSL/JSON ARCH token to an Arch, or reports ok=false if
// it is outside the closed set {x86_64, aarch64}.
func ParseArch(s string) (Arch, bool) {
	switch Arch(s) {
	case X86_64, AArch64:
		return Arch(s), true
	default:
		return "", false
	}
}

// Detect classifies the running process's host as a Platform, or fails
// with UnsupportedHost if runtime.GOOS/runtime.GOARCH fall outside the
// closed set Fetchy repositories can target.
func Detect() (Platform, error) {
	var os OS
	switch runtime.GOOS {
	case "linux":
		os = Linux
	case "windows":
		os = Windows
	case "darwin":
		os = MacOS
	default:
		return Platform{}, fetchyerrors.New(fetchyerrors.CodeUnsupportedHost, "unsupported operating system %q", runtime.GOOS)
	}

	var arch Arch
	switch runtime.GOARCH {
	case "amd64":
		arch = X86_64
	case "arm64":
		arch = AArch64
	default:
		return Platform{}, fetchyerrors.New(fetchyerrors.CodeUnsupportedHost, "unsupported architecture %q", runtime.GOARCH)
	}

	return Platform{OS: os, Arch: arch}, nil
}
