/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	User  string `yaml:"user"`  // identity whose layout is loaded; empty means guest
	Theme string `yaml:"theme"` // "system" | "light" | "dark"
}

type StorageConfig struct {
	Backend     string `yaml:"backend"` // file | sqlite | postgres
	Dir         string `yaml:"dir"`
	PostgresDSN string `yaml:"postgres_dsn"`
	// The Postgres password is not stored on disk; it lives in the OS keychain.
}

type CanvasConfig struct {
	AssumedHeight   float64 `yaml:"assumed_height"`
	DeleteOvershoot float64 `yaml:"delete_overshoot"`
	KeyboardStep    float64 `yaml:"keyboard_step"`
	Width           float64 `yaml:"width"`  // canvas size for headless runs
	Height          float64 `yaml:"height"` // and exports
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Storage       StorageConfig `yaml:"storage"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{User: "", Theme: "system"},
		Storage:       StorageConfig{Backend: "file", Dir: "", PostgresDSN: ""},
		Canvas:        CanvasConfig{AssumedHeight: 200, DeleteOvershoot: 0.1, KeyboardStep: 25, Width: 1200, Height: 800},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvUser            = "WB_USER"
	EnvStorageBackend  = "WB_STORAGE_BACKEND"
	EnvStorageDir      = "WB_STORAGE_DIR"
	EnvPostgresDSN     = "WB_PG_DSN"
	EnvAssumedHeight   = "WB_ASSUMED_HEIGHT"
	EnvDeleteOvershoot = "WB_DELETE_OVERSHOOT"
	EnvKeyboardStep    = "WB_KEYBOARD_STEP"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "WB_LOG_LEVEL"
	EnvLogFormat = "WB_LOG_FORMAT"
	EnvLogSource = "WB_LOG_SOURCE"
	EnvLogFile   = "WB_LOG_FILE"
	// EnvConfigFile points Load/Save at an explicit YAML file.
	EnvConfigFile = "WB_CONFIG"
)

// configDir returns the per-user application directory.
func configDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "WidgetBoard")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "WidgetBoard")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "widgetboard")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "widgetboard")
		}
	}
	if base == "" || base == "widgetboard" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path. WB_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns where layouts are stored when storage.dir is empty.
func DataDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A missing file is not an error; an unparsable one is.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// StorageDir resolves the effective data directory.
func (c AppConfig) StorageDir() (string, error) {
	if d := strings.TrimSpace(c.Storage.Dir); d != "" {
		return d, nil
	}
	return DataDir()
}

// ResolvedDSN returns the Postgres DSN with the keychain password filled in
// when the configured URL carries a user but no password.
func (c AppConfig) ResolvedDSN() string {
	dsn := strings.TrimSpace(c.Storage.PostgresDSN)
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return dsn
	}
	if _, has := u.User.Password(); has {
		return dsn
	}
	pw, err := PostgresPassword()
	if err != nil || pw == "" {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), pw)
	return u.String()
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.General.User); v != "" {
		dst.General.User = v
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// storage
	if v := strings.TrimSpace(src.Storage.Backend); v != "" {
		dst.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Storage.Dir); v != "" {
		dst.Storage.Dir = v
	}
	if v := strings.TrimSpace(src.Storage.PostgresDSN); v != "" {
		dst.Storage.PostgresDSN = v
	}
	// canvas: zero means "not set"; a strict zero overshoot is only reachable through WB_DELETE_OVERSHOOT
	if src.Canvas.AssumedHeight > 0 {
		dst.Canvas.AssumedHeight = src.Canvas.AssumedHeight
	}
	if src.Canvas.DeleteOvershoot > 0 {
		dst.Canvas.DeleteOvershoot = src.Canvas.DeleteOvershoot
	}
	if src.Canvas.KeyboardStep > 0 {
		dst.Canvas.KeyboardStep = src.Canvas.KeyboardStep
	}
	if src.Canvas.Width > 0 {
		dst.Canvas.Width = src.Canvas.Width
	}
	if src.Canvas.Height > 0 {
		dst.Canvas.Height = src.Canvas.Height
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvUser)); v != "" {
		cfg.General.User = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageBackend)); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageDir)); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPostgresDSN)); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if f, ok := envFloat(EnvAssumedHeight); ok && f > 0 {
		cfg.Canvas.AssumedHeight = f
	}
	if f, ok := envFloat(EnvDeleteOvershoot); ok && f >= 0 && f <= 1 {
		cfg.Canvas.DeleteOvershoot = f
	}
	if f, ok := envFloat(EnvKeyboardStep); ok && f > 0 {
		cfg.Canvas.KeyboardStep = f
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var envKeys = map[string]string{
	"general.user":            EnvUser,
	"storage.backend":         EnvStorageBackend,
	"storage.dir":             EnvStorageDir,
	"storage.postgres_dsn":    EnvPostgresDSN,
	"canvas.assumed_height":   EnvAssumedHeight,
	"canvas.delete_overshoot": EnvDeleteOvershoot,
	"canvas.keyboard_step":    EnvKeyboardStep,
	"logging.level":           EnvLogLevel,
	"logging.format":          EnvLogFormat,
	"logging.source":          EnvLogSource,
	"logging.file":            EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
