// pkg/config/config.go

package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/policy"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings are the operator-tunable knobs: everything here may come
// from flags, the CYGSCRUB_ environment, or a YAML config file, in
// that order of precedence. The product signature and the registry
// removal list are deliberately absent; those come only from the
// built-in table.
type Settings struct {
	LogLevel   string `mapstructure:"log-level" validate:"omitempty,oneof=TRACE DEBUG INFO WARN ERROR"`
	Output     string `mapstructure:"output" validate:"omitempty,oneof=text json yaml"`
	ReportFile string `mapstructure:"report-file"`

	DryRun bool `mapstructure:"dry-run"`
	Yes    bool `mapstructure:"yes"`

	Skip []string `mapstructure:"skip" validate:"omitempty,dive,oneof=services processes directories environment registry shortcuts"`

	// ExtraInstallRoots and ExtraProcesses widen discovery for
	// non-standard installs. They never bypass the safety predicate:
	// an extra root still has to exist, be non-root and carry the
	// signature before anything is deleted.
	ExtraInstallRoots []string `mapstructure:"extra-install-roots"`
	ExtraProcesses    []string `mapstructure:"extra-processes"`
}

// Load resolves settings for one command invocation.
func Load(cmd *cobra.Command) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, cerr.Wrapf(err, "failed to read config file %s", cfgFile)
		}
	} else {
		v.SetConfigName("cygscrub")
		for _, dir := range defaultConfigDirs() {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			// A missing default config is fine; a broken one is not.
			var notFound viper.ConfigFileNotFoundError
			if !cerr.As(err, &notFound) {
				return nil, cerr.Wrap(err, "failed to parse config file")
			}
		}
	}

	scrub_cli.SetViperEnvPrefix(v, "CYGSCRUB")
	if err := scrub_cli.BindFlagsToViper(cmd, v); err != nil {
		return nil, cerr.Wrap(err, "failed to bind flags")
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, cerr.Wrap(err, "failed to unmarshal settings")
	}

	if err := validator.New().Struct(&s); err != nil {
		return nil, cerr.Wrap(err, "invalid settings")
	}

	return &s, nil
}

// Apply folds the operator extras into a copy of the product table.
// The shipped table is never mutated.
func (s *Settings) Apply(p *policy.Product) *policy.Product {
	merged := *p
	merged.DefaultInstallRoots = append(append([]string{}, p.DefaultInstallRoots...), s.ExtraInstallRoots...)
	merged.KnownProcesses = append(append([]string{}, p.KnownProcesses...), s.ExtraProcesses...)
	return &merged
}

// SkipSet returns the skip list as a set for the pipeline.
func (s *Settings) SkipSet() map[string]bool {
	skip := make(map[string]bool, len(s.Skip))
	for _, name := range s.Skip {
		skip[name] = true
	}
	return skip
}

func defaultConfigDirs() []string {
	dirs := []string{"."}
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			dirs = append(dirs, filepath.Join(pd, "cygscrub"))
		}
	}
	return dirs
}
