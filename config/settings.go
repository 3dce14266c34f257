// Package config loads generation, preview and export settings from YAML,
// with .env and CASSINI_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	Logging     LoggingSettings     `yaml:"logging"`
	Diagnostics DiagnosticsSettings `yaml:"diagnostics"`
	Generation  GenerationSettings  `yaml:"generation"`
	Preview     PreviewSettings     `yaml:"preview"`
	Export      ExportSettings      `yaml:"export"`
	Viewer      ViewerSettings      `yaml:"viewer"`
}

type LoggingSettings struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DiagnosticsSettings selects the invariant policy: strict aborts on violations, lenient degrades
type DiagnosticsSettings struct {
	Strict bool `yaml:"strict"`
}

type GenerationSettings struct {
	SpaceSize     int `yaml:"space_size"`
	BodySize      int `yaml:"body_size"`
	SurfaceSize   int `yaml:"surface_size"`
	Noise2DSize   int `yaml:"noise_2d_size"`
	Noise3DHQSize int `yaml:"noise_3d_hq_size"`
	Noise3DLQSize int `yaml:"noise_3d_lq_size"`
	StarCount     int `yaml:"star_count"`
	BandsWidth    int `yaml:"bands_width"`
	RingsWidth    int `yaml:"rings_width"`
	// Scale divides raster sizes and the star and crawler counts, for quick runs
	Scale       int    `yaml:"scale"`
	NoiseSource string `yaml:"noise_source"` // white | simplex
	OctavePhase string `yaml:"octave_phase"` // negative-first | positive-first
	Seeds       Seeds  `yaml:"seeds"`
}

// Seeds are the fixed random seeds of each generation stage
type Seeds struct {
	Main             uint64 `yaml:"main"`
	Bands            uint64 `yaml:"bands"`
	EnceladusCraters uint64 `yaml:"enceladus_craters"`
	Crawlers         uint64 `yaml:"crawlers"`
	TethysCraters    uint64 `yaml:"tethys_craters"`
	EnceladusSurface uint64 `yaml:"enceladus_surface"`
	EnceladusCarve   uint64 `yaml:"enceladus_carve"`
	Trail            uint64 `yaml:"trail"`
	Rings            int64  `yaml:"rings"`
}

type PreviewSettings struct {
	Enabled             bool     `yaml:"enabled"`
	Addr                string   `yaml:"addr"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	BroadcastsPerSecond float64  `yaml:"broadcasts_per_second"`
	Burst               int      `yaml:"burst"`
	Size                int      `yaml:"size"`
}

type ExportSettings struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	// Depth is bytes per channel: 1 writes PNG, 2 writes 16-bit TIFF, 4 writes raw float32
	Depth int `yaml:"depth"`
}

type ViewerSettings struct {
	Enabled bool    `yaml:"enabled"`
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	FOV     float32 `yaml:"fov"`
}

// Defaults returns the settings of the full-quality intro
func Defaults() Settings {
	return Settings{
		Logging: LoggingSettings{
			Level: "info",
		},
		Generation: GenerationSettings{
			SpaceSize:     1440,
			BodySize:      2048,
			SurfaceSize:   2048,
			Noise2DSize:   512,
			Noise3DHQSize: 128,
			Noise3DLQSize: 64,
			StarCount:     32768,
			BandsWidth:    2048,
			RingsWidth:    2048,
			Scale:         1,
			NoiseSource:   "white",
			OctavePhase:   "negative-first",
			Seeds: Seeds{
				Main:             1563233668,
				Bands:            4,
				EnceladusCraters: 3,
				Crawlers:         11,
				TethysCraters:    15,
				EnceladusSurface: 16,
				EnceladusCarve:   4,
				Trail:            8,
				Rings:            1,
			},
		},
		Preview: PreviewSettings{
			Addr:                ":8080",
			AllowedOrigins:      []string{"http://localhost:3000"},
			BroadcastsPerSecond: 2,
			Burst:               1,
			Size:                128,
		},
		Export: ExportSettings{
			Dir:   "out",
			Depth: 1,
		},
		Viewer: ViewerSettings{
			Width:  1280,
			Height: 720,
			FOV:    60,
		},
	}
}

// Load reads settings from a YAML file over the defaults. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("No %s found, using defaults\n", path)
			return &settings, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &settings, nil
}

// ApplyEnv loads .env when present and applies CASSINI_* overrides
func (s *Settings) ApplyEnv() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	if v, ok := os.LookupEnv("CASSINI_LOG_LEVEL"); ok {
		s.Logging.Level = v
	}
	if v, ok := os.LookupEnv("CASSINI_LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CASSINI_LOG_JSON: %w", err)
		}
		s.Logging.JSON = b
	}
	if v, ok := os.LookupEnv("CASSINI_STRICT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CASSINI_STRICT: %w", err)
		}
		s.Diagnostics.Strict = b
	}
	if v, ok := os.LookupEnv("CASSINI_SCALE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CASSINI_SCALE: %w", err)
		}
		s.Generation.Scale = n
	}
	if v, ok := os.LookupEnv("CASSINI_PREVIEW_ADDR"); ok {
		s.Preview.Addr = v
		s.Preview.Enabled = true
	}
	if v, ok := os.LookupEnv("CASSINI_ALLOWED_ORIGINS"); ok {
		s.Preview.AllowedOrigins = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv("CASSINI_OUTPUT_DIR"); ok {
		s.Export.Dir = v
		s.Export.Enabled = true
	}
	return nil
}

// Validate rejects settings the generators cannot run with
func (s *Settings) Validate() error {
	g := s.Generation
	if g.Scale < 1 {
		return fmt.Errorf("generation.scale must be at least 1, got %d", g.Scale)
	}
	sizes := map[string]int{
		"space_size":       g.SpaceSize,
		"body_size":        g.BodySize,
		"surface_size":     g.SurfaceSize,
		"noise_2d_size":    g.Noise2DSize,
		"noise_3d_hq_size": g.Noise3DHQSize,
		"noise_3d_lq_size": g.Noise3DLQSize,
		"bands_width":      g.BandsWidth,
		"rings_width":      g.RingsWidth,
	}
	for name, v := range sizes {
		if v < 1 {
			return fmt.Errorf("generation.%s must be positive, got %d", name, v)
		}
	}
	if g.StarCount < 0 {
		return fmt.Errorf("generation.star_count must not be negative, got %d", g.StarCount)
	}
	switch g.NoiseSource {
	case "white", "simplex":
	default:
		return fmt.Errorf("generation.noise_source must be white or simplex, got %q", g.NoiseSource)
	}
	switch g.OctavePhase {
	case "", "negative-first", "positive-first":
	default:
		return fmt.Errorf("generation.octave_phase must be negative-first or positive-first, got %q", g.OctavePhase)
	}
	switch s.Export.Depth {
	case 1, 2, 4:
	default:
		return fmt.Errorf("export.depth must be 1, 2 or 4, got %d", s.Export.Depth)
	}
	if s.Preview.Enabled && s.Preview.BroadcastsPerSecond <= 0 {
		return fmt.Errorf("preview.broadcasts_per_second must be positive, got %v", s.Preview.BroadcastsPerSecond)
	}
	return nil
}

// Scaled divides a full-quality size or count by the scale divisor, never below 1
func (g GenerationSettings) Scaled(n int) int {
	return max(n/max(g.Scale, 1), 1)
}
