package platform

import (
	"testing"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

func TestParseOS(t *testing.T) {
	tests := []struct {
		in   string
		want OS
		ok   bool
	}{
		{"linux", Linux, true},
		{"windows", Windows, true},
		{"macos", MacOS, true},
		{"freebsd", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseOS(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseOS(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseArch(t *testing.T) {
	tests := []struct {
		in   string
		want Arch
		ok   bool
	}{
		{"x86_64", X86_64, true},
		{"aarch64", AArch64, true},
		{"riscv64", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseArch(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseArch(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPlatformString(t *testing.T) {
	p := Platform{OS: Linux, Arch: X86_64}
	if got := p.String(); got != "linux/x86_64" {
		t.Errorf("String() = %q, want %q", got, "linux/x86_64")
	}
}

func TestDetect(t *testing.T) {
	p, err := Detect()
	if err != nil {
		// The test binary only runs on supported hosts in CI, but guard
		// against the error shape regressing silently.
		if fetchyerrors.GetCode(err) != fetchyerrors.CodeUnsupportedHost {
			t.Fatalf("Detect() error = %v, want CodeUnsupportedHost", err)
		}
		return
	}
	if p.OS == "" || p.Arch == "" {
		t.Errorf("Detect() = %+v, want populated platform", p)
	}
}
