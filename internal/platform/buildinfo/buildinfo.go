// Package buildinfo exposes the build's semantic version and metadata.
//
// The version comes from the VERSION file embedded at compile time, so a
// build without it fails to compile. Release builds may override it with
//
//	-ldflags "-X github.com/louisbranch/freeciv-nostr/internal/platform/buildinfo.version=0.2.0"
//
// Commit and Date are optional and only set through -ldflags.
package buildinfo

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ProductName is the user-facing name printed by the CLI.
const ProductName = "freeciv-nostr"

//go:embed VERSION
var embeddedVersion string

var (
	version string // set by -ldflags -X; wins over VERSION when non-empty
	Commit  string
	Date    string // YYYY-MM-DD (UTC)
)

// current is resolved once during package initialization.
var current = mustResolve()

// Info describes the build metadata in structured form.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Version returns the semantic version without a leading "v", e.g. "0.1.0".
func Version() string {
	return current
}

// String returns "<product> <version>".
func String() string {
	return ProductName + " " + current
}

// Current returns the structured build metadata.
func Current() Info {
	return Info{
		Version: current,
		Commit:  coalesce(Commit, "unknown"),
		Date:    coalesce(Date, "unknown"),
	}
}

// Validate checks that v is usable as the library version: non-empty, free
// of NUL bytes (it is handed to C as a NUL-terminated string) and a full
// MAJOR.MINOR.PATCH semantic version with or without a leading "v".
// Shorthand such as "1" or "1.2" is rejected.
func Validate(v string) error {
	if v == "" {
		return fmt.Errorf("version is empty")
	}
	if strings.IndexByte(v, 0) >= 0 {
		return fmt.Errorf("version %q contains a NUL byte", v)
	}
	sv := "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(sv) {
		return fmt.Errorf("version %q is not a semantic version", v)
	}
	if semver.Canonical(sv) != strings.TrimSuffix(sv, semver.Build(sv)) {
		return fmt.Errorf("version %q must be MAJOR.MINOR.PATCH", v)
	}
	return nil
}

func resolve(override, embedded string) (string, error) {
	v := strings.TrimSpace(override)
	if v == "" {
		v = strings.TrimSpace(embedded)
	}
	if err := Validate(v); err != nil {
		return "", err
	}
	return strings.TrimPrefix(v, "v"), nil
}

// mustResolve panics on bad build metadata; this is a packaging error, not
// a runtime condition.
func mustResolve() string {
	v, err := resolve(version, embeddedVersion)
	if err != nil {
		panic("buildinfo: " + err.Error())
	}
	return v
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
