package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "RUNHISTORY"
	appDir            = "~/.go-run-history"
	defaultLogFile    = appDir + "/logs/app.log"
	defaultCacheDir   = appDir + "/cache"
	defaultDBPath     = appDir + "/history.db"
	defaultConfigFile = "~/.config/go-run-history/config.yml"

	defaultRefreshInterval = 30 * time.Second
	defaultAddr            = ":8080"
)

// appConfig is the merged view of defaults, config file, environment and
// flags.
type appConfig struct {
	ConfigPath string `mapstructure:"-"`

	Source   string   `mapstructure:"source"`
	File     string   `mapstructure:"file"`
	URL      string   `mapstructure:"url"`
	DBPath   string   `mapstructure:"db"`
	CacheDir string   `mapstructure:"cache-dir"`
	Offline  bool     `mapstructure:"offline"`
	Runs     []string `mapstructure:"run"`
	Limit    int      `mapstructure:"limit"`
	Offset   int      `mapstructure:"offset"`
	Sort     string   `mapstructure:"sort"`

	Timezone  string `mapstructure:"timezone"`
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log-format"`

	Output          string        `mapstructure:"output"`
	Order           string        `mapstructure:"order"`
	Layout          string        `mapstructure:"layout"`
	Summary         bool          `mapstructure:"summary"`
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
	Addr            string        `mapstructure:"addr"`
}

// loadConfig reads configPath (or the default config file when empty) and
// overlays RUNHISTORY_* environment variables and any flags set on flags.
func loadConfig(configPath string, flags *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Every key needs a default so that AutomaticEnv sees it on Unmarshal.
	v.SetDefault("source", source.KindSQLite)
	v.SetDefault("file", "")
	v.SetDefault("url", "")
	v.SetDefault("db", defaultDBPath)
	v.SetDefault("cache-dir", defaultCacheDir)
	v.SetDefault("offline", false)
	v.SetDefault("run", []string{})
	v.SetDefault("limit", 0)
	v.SetDefault("offset", 0)
	v.SetDefault("sort", "")
	v.SetDefault("debug", false)
	v.SetDefault("summary", false)
	v.SetDefault("timezone", "Local")
	v.SetDefault("log-format", "text")
	v.SetDefault("output", "table")
	v.SetDefault("order", "desc")
	v.SetDefault("layout", "full")
	v.SetDefault("refresh-interval", defaultRefreshInterval)
	v.SetDefault("addr", defaultAddr)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return cfg, fmt.Errorf("binding flags: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(expandPath(configPath))
	} else {
		v.SetConfigFile(expandPath(defaultConfigFile))
	}

	configFound := true
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		configFound = false
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if configFound {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *appConfig) validate() error {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	switch c.Source {
	case source.KindFile:
		if c.File == "" {
			return fmt.Errorf("source %q requires --file", c.Source)
		}
		c.File = expandPath(c.File)
	case source.KindHTTP:
		if c.URL == "" {
			return fmt.Errorf("source %q requires --url", c.Source)
		}
	case source.KindSQLite:
		c.DBPath = expandPath(c.DBPath)
	default:
		return fmt.Errorf("%w: %q", source.ErrUnknownSource, c.Source)
	}
	if c.Limit < 0 {
		return fmt.Errorf("invalid limit: %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("invalid offset: %d", c.Offset)
	}
	if c.CacheDir != "" {
		c.CacheDir = expandPath(c.CacheDir)
	}
	if _, err := c.runIDs(); err != nil {
		return err
	}
	if c.Sort != "" {
		if _, err := model.ParseSortField(c.Sort); err != nil {
			return err
		}
	}
	return nil
}

// runIDs parses the --run values. Each value may itself be a comma list.
func (c *appConfig) runIDs() ([]int64, error) {
	var ids []int64
	for _, raw := range c.Runs {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid run id %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// historyQuery is the fetch contract derived from the selection flags.
func (c *appConfig) historyQuery() model.HistoryQuery {
	ids, _ := c.runIDs()
	q := model.HistoryQuery{
		RunIDs: ids,
		Limit:  c.Limit,
		Offset: c.Offset,
	}
	if c.Sort != "" {
		field, _ := model.ParseSortField(c.Sort)
		q.Sort = &model.SortSpec{Field: field, Desc: c.Order != "asc"}
	}
	return q
}

// sourceConfig maps the settings onto the source factory. Snapshots are
// kept for remote sources and whenever offline mode is requested.
func (c *appConfig) sourceConfig() source.Config {
	cfg := source.Config{
		Kind:    c.Source,
		File:    c.File,
		URL:     c.URL,
		DBPath:  c.DBPath,
		Offline: c.Offline,
	}
	if c.Source == source.KindHTTP || c.Offline {
		cfg.CacheDir = c.CacheDir
	}
	return cfg
}

func (c *appConfig) logLevel() string {
	if c.Debug {
		return "debug"
	}
	return "info"
}
