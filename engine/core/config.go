package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is looked up in the working directory when no path is
// given on the command line.
const DefaultConfigFile = "texloader.toml"

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	LogLevel    string `toml:"log_level"`
}

type AssetsConfig struct {
	// Directory the asset names are resolved against.
	Dir string `toml:"dir"`
	// Keep the asset index current with filesystem notifications.
	Watch bool `toml:"watch"`
}

// TexturesConfig names the asset loaded into each catalog slot.
type TexturesConfig struct {
	Plain       string `toml:"plain"`
	// Fallback for unsupported or broken slots. Empty selects the built-in
	// checkerboard.
	Unsupported string `toml:"unsupported"`
	ETC1        string `toml:"etc1"`
	ETC2        string `toml:"etc2"`
	PVRTC       string `toml:"pvrtc"`
	S3TC        string `toml:"s3tc"`
}

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Assets      AssetsConfig      `toml:"assets"`
	Textures    TexturesConfig    `toml:"textures"`
}

func DefaultConfig() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:        "Texture Loader",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			LogLevel:    "info",
		},
		Assets: AssetsConfig{
			Dir:   "assets",
			Watch: true,
		},
		Textures: TexturesConfig{
			Plain:       "tex_png.png",
			Unsupported: "tex_bw.png",
			ETC1:        "tex_etc1.ktx",
			ETC2:        "tex_etc2.ktx",
			PVRTC:       "tex_pvr.pvr",
			S3TC:        "tex_s3tc.dds",
		},
	}
}

// LoadConfig reads the TOML file at path on top of DefaultConfig. A missing
// file is not an error: the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		LogDebug("config file %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := ParseConfig(b, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes b into cfg, keeping any field the document leaves out.
func ParseConfig(b []byte, cfg *Config) error {
	if err := toml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		return fmt.Errorf("%w: window size must be > 0", ErrConfigInvalid)
	}
	if c.Assets.Dir == "" {
		return fmt.Errorf("%w: assets.dir must be set", ErrConfigInvalid)
	}
	return nil
}
