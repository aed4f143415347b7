package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type Config struct {
	SaveDirectory     string
	DBPath            string
	ReferenceImage    string
	CellWidth         float64
	CellHeight        float64
	Confirmations     bool
	MultiSelectStroke float64
	ChainRadius       float64
	LogLevel          string
}

func defaultConfig() *Config {
	return &Config{
		CellWidth:         10,
		CellHeight:        20,
		Confirmations:     true,
		MultiSelectStroke: defaultMultiSelectStroke,
		ChainRadius:       defaultChainRadius,
		LogLevel:          "info",
	}
}

// loadConfig layers ~/.sketchpadrc, then the environment, then flags.
func loadConfig(args []string) (*Config, error) {
	config := defaultConfig()
	if home, err := os.UserHomeDir(); err == nil {
		if f, err := os.Open(filepath.Join(home, ".sketchpadrc")); err == nil {
			parseRC(config, f, home)
			f.Close()
		}
	}
	applyEnv(config, os.Getenv)
	if err := applyFlags(config, args); err != nil {
		return nil, err
	}
	return config, nil
}

func parseRC(config *Config, f *os.File, home string) {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, home)
		case "database", "db", "dbpath":
			config.DBPath = expandPath(value, home)
		case "reference", "reference_image":
			config.ReferenceImage = expandPath(value, home)
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		case "cellwidth", "cell_width":
			setPositive(&config.CellWidth, value)
		case "cellheight", "cell_height":
			setPositive(&config.CellHeight, value)
		case "multiselectstroke", "multi_select_stroke":
			setPositive(&config.MultiSelectStroke, value)
		case "chainradius", "chain_radius":
			setPositive(&config.ChainRadius, value)
		case "loglevel", "log_level":
			config.LogLevel = strings.ToLower(value)
		}
	}
}

func setPositive(dst *float64, value string) {
	if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 && isFinite(v) {
		*dst = v
	}
}

func expandPath(value, home string) string {
	if strings.HasPrefix(value, "~") && home != "" {
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if abs, err := filepath.Abs(value); err == nil {
			value = abs
		}
	}
	return value
}

func applyEnv(config *Config, getenv func(string) string) {
	if v := getenv("SKETCHPAD_SAVE_DIR"); v != "" {
		config.SaveDirectory = v
	}
	if v := getenv("SKETCHPAD_DB"); v != "" {
		config.DBPath = v
	}
}

func applyFlags(config *Config, args []string) error {
	fs := pflag.NewFlagSet("sketchpad", pflag.ContinueOnError)
	fs.StringVar(&config.SaveDirectory, "save-dir", config.SaveDirectory, "directory for exports, the log and the default database")
	fs.StringVar(&config.DBPath, "db", config.DBPath, "sqlite database holding saved drawings")
	fs.StringVar(&config.ReferenceImage, "reference", config.ReferenceImage, "reference image to import at startup")
	fs.Float64Var(&config.CellWidth, "cell-width", config.CellWidth, "world units per terminal column")
	fs.Float64Var(&config.CellHeight, "cell-height", config.CellHeight, "world units per terminal row")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if config.CellWidth <= 0 || config.CellHeight <= 0 {
		return fmt.Errorf("cell size must be positive, got %gx%g", config.CellWidth, config.CellHeight)
	}
	return nil
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0o755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) databasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return c.GetSavePath("sketchpad.db")
}
