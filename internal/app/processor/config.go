package processor

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the pipeline I/O settings. A path of "-" means the
// process standard stream.
type Config struct {
	InputPath        string `yaml:"input_path"         env:"PROCESS_INPUT"         env-default:"-"`
	OutputPath       string `yaml:"output_path"        env:"PROCESS_OUTPUT"        env-default:"-"`
	ReleaseIndexPath string `yaml:"release_index_path" env:"PROCESS_RELEASE_INDEX"`
	DefaultDataPath  string `yaml:"default_data_path"  env:"PROCESS_DEFAULT_DATA"`
}

// LoadConfig reads pipeline config from YAML or environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("pipeline config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("pipeline config: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("pipeline config: read env: %w", err)
	}
	return &cfg, nil
}
