package config

// Config is the optional defaults file for autobahncheck.
type Config struct {
	IgnoreNonStrict bool   `yaml:"ignore_non_strict"`
	Format          string `yaml:"format"`
	Group           string `yaml:"group"`
	Record          Record `yaml:"record"`
}

// Record configures the optional Postgres run recorder.
type Record struct {
	DSN     string `yaml:"dsn"`
	Timeout string `yaml:"timeout"`
}

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Format: FormatText,
		Record: Record{Timeout: "10s"},
	}
}
