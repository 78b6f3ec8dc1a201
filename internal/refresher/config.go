package refresher

import (
	"path/filepath"
	"time"

	"github.com/smallbiznis/custoscarbon/internal/config"
)

const (
	DefaultTimeout = 15 * time.Second
	userAgent      = "custoscarbon-refresher/1.0"
	backupPrefix   = "moenv_factors_backup_"
	backupLayout   = "20060102_1504"
	logLayout      = "2006-01-02 15:04:05"
)

// Config controls one refresher run.
type Config struct {
	APIURL      string
	DatasetPath string
	LogPath     string
	Timeout     time.Duration
	Schedule    string
}

// ProvideConfig derives the refresher settings from the application config.
func ProvideConfig(cfg config.Config) Config {
	return Config{
		APIURL:      cfg.Refresh.APIURL,
		DatasetPath: cfg.FactorsPath,
		LogPath:     cfg.Refresh.LogFile,
		Timeout:     cfg.Refresh.Timeout,
		Schedule:    cfg.Refresh.Schedule,
	}.withDefaults()
}

// WithDataDir places the dataset file and the log file under dir.
func (c Config) WithDataDir(dir string) Config {
	c.DatasetPath = filepath.Join(dir, config.DefaultFactorsFile)
	c.LogPath = filepath.Join(dir, config.DefaultRefreshLog)
	return c
}

func (c Config) withDefaults() Config {
	if c.APIURL == "" {
		c.APIURL = config.DefaultRefreshAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.DatasetPath == "" {
		c.DatasetPath = filepath.Join("data", config.DefaultFactorsFile)
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(filepath.Dir(c.DatasetPath), config.DefaultRefreshLog)
	}
	return c
}

// backupPath names the backup of the dataset file for a run started at t.
func (c Config) backupPath(t time.Time) string {
	return filepath.Join(filepath.Dir(c.DatasetPath), backupPrefix+t.Format(backupLayout)+".json")
}
