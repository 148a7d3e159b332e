package version

import "testing"

func withSavedGlobals(t *testing.T, fn func()) {
	t.Helper()
	version, commit, tag, build := Version, GitCommit, GitTag, BuildNumber
	t.Cleanup(func() {
		Version, GitCommit, GitTag, BuildNumber = version, commit, tag, build
	})
	fn()
}

func TestGetVersion_PrefersGitTag(t *testing.T) {
	withSavedGlobals(t, func() {
		Version, GitTag, GitCommit, BuildNumber = "dev", "v1.2.3", "unknown", "0"
		if got := GetVersion(); got != "v1.2.3" {
			t.Fatalf("GetVersion() = %q, want %q", got, "v1.2.3")
		}
	})
}

func TestGetVersion_FallsBackToCommitPrefix(t *testing.T) {
	withSavedGlobals(t, func() {
		Version, GitTag, GitCommit, BuildNumber = "dev", "", "abcdef1234567", "0"
		if got := GetVersion(); got != "dev-abcdef1" {
			t.Fatalf("GetVersion() = %q, want %q", got, "dev-abcdef1")
		}
	})
}

func TestGetVersion_AppendsBuildNumber(t *testing.T) {
	withSavedGlobals(t, func() {
		Version, BuildNumber = "v1.0.0", "42"
		if got := GetVersion(); got != "v1.0.0+42" {
			t.Fatalf("GetVersion() = %q, want %q", got, "v1.0.0+42")
		}
	})
}

func TestGetBuildInfo_ShortCommitNeverPanics(t *testing.T) {
	withSavedGlobals(t, func() {
		Version, GitCommit, BuildNumber = "v1.0.0", "abc", "0"
		got := GetBuildInfo()
		if got == "" {
			t.Fatal("GetBuildInfo() returned empty string")
		}
	})
}
