package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInput  = "project_tree.txt"
	DefaultConfig = "treemk.yaml"
	DefaultEnv    = ".env"
)

// Config — настройки запуска, как они лежат в YAML-файле.
type Config struct {
	Input        string   `yaml:"input"`
	Out          string   `yaml:"out"`
	DryRun       bool     `yaml:"dry_run"`
	KeepExisting bool     `yaml:"keep_existing"`
	DirPerm      string   `yaml:"dir_perm"`
	FilePerm     string   `yaml:"file_perm"`
	ExecGlobs    []string `yaml:"exec_globs"`
	DBMode0600   bool     `yaml:"db_0600"`
	NormalizeNFC bool     `yaml:"nfc"`
	LogFile      string   `yaml:"log_file"`
	Debug        bool     `yaml:"debug"`
	Quiet        bool     `yaml:"quiet"`
}

// Default возвращает встроенные значения по умолчанию.
func Default() Config {
	return Config{
		Input:    DefaultInput,
		Out:      ".",
		DirPerm:  "0755",
		FilePerm: "0644",
	}
}

// Load читает YAML поверх значений по умолчанию.
// Если required == false, отсутствие файла не ошибка.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("чтение конфигурации %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("разбор конфигурации %q: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv подгружает переменные TREEMK_* из .env-файла.
// Уже заданные в окружении переменные не перезаписываются.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("чтение %s: %w", path, err)
	}
	return nil
}

// Perms разбирает права из конфигурации.
func (c Config) Perms() (dir, file os.FileMode, err error) {
	dir, err = ParsePerm(c.DirPerm, 0o755)
	if err != nil {
		return 0, 0, fmt.Errorf("неверные права dir_perm: %w", err)
	}
	file, err = ParsePerm(c.FilePerm, 0o644)
	if err != nil {
		return 0, 0, fmt.Errorf("неверные права file_perm: %w", err)
	}
	return dir, file, nil
}

// ParsePerm понимает 0755, 755 и 0o755.
func ParsePerm(s string, def os.FileMode) (os.FileMode, error) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return def, nil
	}
	// Только восьмеричная запись: 0x1ff и 0b... не принимаются.
	if strings.HasPrefix(ss, "0o") || strings.HasPrefix(ss, "0O") {
		ss = ss[2:]
	}
	u, err := strconv.ParseUint(ss, 8, 32)
	if err != nil {
		return 0, err
	}
	if u > 0o777 {
		return 0, fmt.Errorf("права вне диапазона: %s", s)
	}
	return os.FileMode(u), nil
}

// SplitGlobs разбирает список шаблонов через запятую.
func SplitGlobs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
