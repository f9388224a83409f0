package version

import "testing"

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime, origGoVersion :=
		Version, GitCommit, GitBranch, BuildTime, GoVersion
	return func() {
		Version, GitCommit, GitBranch, BuildTime, GoVersion =
			origVersion, origCommit, origBranch, origBuildTime, origGoVersion
	}
}

func TestGetVersionInfoDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, GitBranch, BuildTime, GoVersion = "dev", "", "", "", ""

	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
	if info.GoVersion == "" {
		t.Error("expected go version from build info")
	}
}

func TestGetVersionInfoLinkTimeValues(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, GitBranch, BuildTime, GoVersion = "1.0.0", "abc1234", "main", "2026-01-15T10:30:00Z", "go1.26.0"

	info := GetVersionInfo()
	if !info.IsRelease {
		t.Error("1.0.0 should be a release")
	}
	if info.GitCommit != "abc1234" || info.GoVersion != "go1.26.0" {
		t.Errorf("link-time values overridden: %+v", info)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected build year 2026, got %d", info.BuildDate.Year())
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0-dirty"

	if GetVersionInfo().IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestShort(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit = "1.0.0", "abc1234"

	got := Short()
	if got != "1.0.0-abc1234" && got != "1.0.0-abc1234-dirty" {
		t.Errorf("unexpected short version %q", got)
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortCommit = %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("shortCommit = %q", got)
	}
}
