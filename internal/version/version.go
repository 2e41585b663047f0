// Package version resolves the build version, commit and date shown by
// `hwd --version` and the Info tab.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Name is the binary name shown in version output.
const Name = "hwd"

// Set with -ldflags "-X .../internal/version.Version=..." at release time.
// Empty values are resolved lazily from build info or git.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	once sync.Once

	gitOutput = runGit
	buildInfo = debug.ReadBuildInfo
)

const gitTimeout = 2 * time.Second

func runGit(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func resolve() {
	once.Do(func() {
		if Version == "" {
			Version = moduleVersion()
		}
		if Version == "" {
			Version = gitValue("dev", "describe", "--tags", "--abbrev=0")
		}
		Version = strings.TrimPrefix(Version, "v")

		if Commit == "" {
			Commit = gitValue("unknown", "rev-parse", "--short", "HEAD")
		}
		if Date == "" {
			Date = time.Now().Format("2006-01-02")
		}
	})
}

// moduleVersion returns the version recorded by `go install module@version`.
func moduleVersion() string {
	info, ok := buildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return ""
	}
	return info.Main.Version
}

func gitValue(fallback string, args ...string) string {
	out, err := gitOutput(args...)
	if err != nil || out == "" {
		return fallback
	}
	return out
}

// Reset clears resolved values so the next accessor resolves them again.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

// GetVersion returns the release version, "dev" outside a tagged checkout.
func GetVersion() string {
	resolve()
	return Version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	resolve()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	resolve()
	return Date
}

// Info returns a one-line version banner.
func Info() string {
	resolve()
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s/%s)",
		Name, Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
