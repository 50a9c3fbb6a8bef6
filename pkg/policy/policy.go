// pkg/policy/policy.go

package policy

import (
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Hive names a registry root. Kept as a string so this package stays
// platform-neutral; pkg/winsys maps it to a real handle.
type Hive string

const (
	HiveLocalMachine Hive = "HKLM"
	HiveCurrentUser  Hive = "HKCU"
)

// Key is an absolute registry key path under a hive.
type Key struct {
	Hive Hive   `validate:"required,oneof=HKLM HKCU"`
	Path string `validate:"required"`
}

func (k Key) String() string {
	return string(k.Hive) + `\` + k.Path
}

// Product is the complete signature table for one product: everything
// the scrubbers need to recognise its traces. The scrubbers carry no
// product knowledge of their own; they only consult this table.
type Product struct {
	Name string `validate:"required"`

	// Signature is matched case-insensitively as a substring against
	// directory paths, service binary paths, process paths and PATH
	// segments. A short signature would claim unrelated resources, so
	// a minimum length is enforced.
	Signature string `validate:"required,min=3"`

	// KnownProcesses are terminated by exact name even when their
	// executable path cannot be resolved.
	KnownProcesses []string `validate:"required,min=1,dive,required"`

	// SetupKeys are the registry locations that may hold installer
	// metadata. Read-only; never deleted through this list.
	SetupKeys    []Key  `validate:"required,min=1"`
	RootdirValue string `validate:"required"`
	CacheValue   string `validate:"required"`
	// VersionValue is optional installer metadata, recorded for the
	// report when present and parseable.
	VersionValue string

	// RemovalKeys is the fixed set of keys deleted by the registry
	// scrubber. Nothing outside this list is ever targeted.
	RemovalKeys []Key `validate:"required,min=1"`

	// DefaultInstallRoots are conventional install paths checked even
	// when the registry holds no trace of them.
	DefaultInstallRoots []string

	// EnvVar is the product's own environment variable, removed from
	// both scopes.
	EnvVar string `validate:"required"`

	// ShortcutGlobs match shortcut filenames in the UI directories;
	// FolderPrefix matches start-menu folder names.
	ShortcutGlobs []string `validate:"required,min=1,dive,required"`
	FolderPrefix  string   `validate:"required"`
}

// Validate checks the table is complete enough to scrub safely.
func (p *Product) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return cerr.Wrapf(err, "invalid product table for %q", p.Name)
	}
	return nil
}

// MatchesSignature reports whether s contains the product signature,
// case-insensitively. This is the single matching rule shared by every
// scrubber.
func (p *Product) MatchesSignature(s string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(p.Signature))
}

// MatchesProcessName reports whether name is one of the product's
// known process names. Windows filenames are case-insensitive.
func (p *Product) MatchesProcessName(name string) bool {
	for _, known := range p.KnownProcesses {
		if strings.EqualFold(name, known) {
			return true
		}
	}
	return false
}

// MatchesFolderPrefix reports whether name begins with the product
// folder prefix, ignoring case the way Windows filesystems do.
func (p *Product) MatchesFolderPrefix(name string) bool {
	if len(name) < len(p.FolderPrefix) {
		return false
	}
	return strings.EqualFold(name[:len(p.FolderPrefix)], p.FolderPrefix)
}
