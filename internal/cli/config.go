package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/capdrop/capdrop/pkg/errors"
	"github.com/capdrop/capdrop/pkg/pipeline"
)

// fileConfig is the optional config file (~/.config/capdrop/config.toml).
// Values here become flag defaults; explicit flags always win.
//
// Example:
//
//	[defaults]
//	dropout_rate = 0.3
//	keep_tokens = 1
//	wolf_captions = true
//
//	[server]
//	addr = ":8420"
//	captions_dir = "~/datasets/captions"
type fileConfig struct {
	CacheDir string         `toml:"cache_dir"`
	Defaults configDefaults `toml:"defaults"`
	Server   configServer   `toml:"server"`
}

// configDefaults mirrors the tunable pipeline options.
type configDefaults struct {
	Operation           string   `toml:"operation"`
	DropoutRate         *float64 `toml:"dropout_rate"`
	KeepTokens          *int     `toml:"keep_tokens"`
	KeepTokensSeparator string   `toml:"keep_tokens_separator"`
	CaptionSeparators   []string `toml:"caption_separators"`
	Seed                *int64   `toml:"seed"`
	WolfCaptions        *bool    `toml:"wolf_captions"`
	Steps               *int     `toml:"steps"`
}

// configServer holds serve-command settings.
type configServer struct {
	Addr        string `toml:"addr"`
	CaptionsDir string `toml:"captions_dir"`
	RunStore    string `toml:"run_store"` // file|mongo|none
	MongoURI    string `toml:"mongo_uri"`
	RedisAddr   string `toml:"redis_addr"`
}

// loadConfig reads the config file. A missing file is not an error; a
// malformed one is, so typos do not silently revert to defaults.
func loadConfig() (*fileConfig, error) {
	path, err := configPath()
	if err != nil {
		return &fileConfig{}, nil
	}

	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	return &cfg, nil
}

// apply copies configured defaults onto opts. Only values present in the
// file are copied; zero-value detection is not enough for numeric knobs
// (a configured rate of 0 is meaningful), hence the pointer fields.
func (d *configDefaults) apply(opts *pipeline.Options) {
	if d.Operation != "" {
		opts.Operation = d.Operation
	}
	if d.DropoutRate != nil {
		opts.DropoutRate = *d.DropoutRate
	}
	if d.KeepTokens != nil {
		opts.KeepTokens = *d.KeepTokens
	}
	if d.KeepTokensSeparator != "" {
		opts.KeepTokensSeparator = d.KeepTokensSeparator
	}
	if len(d.CaptionSeparators) > 0 {
		opts.CaptionSeparators = d.CaptionSeparators
	}
	if d.Seed != nil {
		opts.Seed = *d.Seed
		opts.UseSeed = true
	}
	if d.WolfCaptions != nil {
		opts.WolfCaptions = *d.WolfCaptions
	}
	if d.Steps != nil {
		opts.Steps = *d.Steps
	}
}
