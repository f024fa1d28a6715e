package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	info := Get()
	if info == nil {
		t.Fatal("expected non-nil Info")
	}
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev must not count as a release")
	}
}

func TestGetRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	BuildTime = "2026-08-01T10:00:00Z"

	info := Get()
	if !info.IsRelease {
		t.Error("expected a release build")
	}
	if info.BuildDate.IsZero() {
		t.Error("expected the build time to parse")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("unexpected commit: %q", info.GitCommit)
	}
}

func TestShort(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"

	got := Short()
	if !strings.HasPrefix(got, "1.2.0-abc1234") {
		t.Errorf("unexpected short version: %q", got)
	}

	// With no injected commit the fallback may still find one in the
	// binary's build info, so only the version prefix is stable.
	GitCommit = ""
	if got := Short(); !strings.HasPrefix(got, "1.2.0") {
		t.Errorf("expected the version prefix, got %q", got)
	}
}
