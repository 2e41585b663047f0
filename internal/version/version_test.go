package version

import (
	"errors"
	"runtime/debug"
	"strings"
	"testing"
)

func fakeGit(t *testing.T, outputs map[string]string) {
	t.Helper()
	origGit, origInfo := gitOutput, buildInfo
	t.Cleanup(func() {
		gitOutput, buildInfo = origGit, origInfo
		Reset()
	})

	buildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	gitOutput = func(args ...string) (string, error) {
		out, ok := outputs[args[0]]
		if !ok {
			return "", errors.New("exit status 128")
		}
		return out, nil
	}
	Reset()
}

func TestResolve_Git(t *testing.T) {
	tests := []struct {
		name       string
		outputs    map[string]string
		wantVer    string
		wantCommit string
	}{
		{"Tagged", map[string]string{"describe": "v1.0.0", "rev-parse": "abc1234"}, "1.0.0", "abc1234"},
		{"NoTags", map[string]string{"rev-parse": "abc1234"}, "dev", "abc1234"},
		{"EmptyTag", map[string]string{"describe": "", "rev-parse": "abc1234"}, "dev", "abc1234"},
		{"NoRepo", map[string]string{}, "dev", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeGit(t, tt.outputs)

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}
			if info := Info(); !strings.HasPrefix(info, Name+" "+tt.wantVer+" (commit: "+tt.wantCommit) {
				t.Errorf("Info() = %q", info)
			}
		})
	}
}

func TestResolve_BuildInfo(t *testing.T) {
	fakeGit(t, map[string]string{"describe": "v9.9.9"})
	buildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v0.4.1"}}, true
	}

	if got := GetVersion(); got != "0.4.1" {
		t.Errorf("GetVersion() = %q, want the module version", got)
	}
}

func TestResolve_DevelBuildFallsBackToGit(t *testing.T) {
	fakeGit(t, map[string]string{"describe": "v2.0.0"})
	buildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}

	if got := GetVersion(); got != "2.0.0" {
		t.Errorf("GetVersion() = %q, want the git tag", got)
	}
}

func TestResolve_LinkerValuesWin(t *testing.T) {
	fakeGit(t, map[string]string{"describe": "v2.0.0", "rev-parse": "abc1234"})
	Version, Commit, Date = "v3.1.0", "deadbee", "2024-03-01"

	if GetVersion() != "3.1.0" || GetCommit() != "deadbee" || GetDate() != "2024-03-01" {
		t.Errorf("got %s %s %s", GetVersion(), GetCommit(), GetDate())
	}
}

func TestGetDate(t *testing.T) {
	fakeGit(t, nil)
	if GetDate() == "" {
		t.Error("GetDate() returned empty string")
	}
}
