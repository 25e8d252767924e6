package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"treemk/internal/app"
	"treemk/internal/config"
	"treemk/internal/logging"
)

// Версию можно переопределить через -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	// .env читаем до разбора флагов: из него берутся значения EnvVars.
	if err := config.LoadEnv(config.DefaultEnv); err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fail(err)
	}
}

func newApp() *cli.App {
	var (
		cfg      config.Config
		closeLog = func() error { return nil }
	)

	return &cli.App{
		Name:    "treemk",
		Version: version,
		Usage:   "создаёт каталоги и пустые файлы по tree-подобному дереву",
		Description: `Формат входного файла:
  Строки вида "├── name" / "└── name", отступ — блоки по 4 колонки ("│   " или "    ").
  Строка "." — корень (каталог -out). Имя с точкой — файл, без точки — каталог.
  В одной строке можно указать цепочку через "/": "├── a/b/readme.md".
  Пустые и декоративные строки (без маркера и без точки) пропускаются.`,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML-файл с настройками",
				Value:   config.DefaultConfig,
				EnvVars: []string{"TREEMK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "in",
				Aliases: []string{"i"},
				Usage:   "входной файл с деревом (`FILE`, '-' для stdin)",
				Value:   config.DefaultInput,
				EnvVars: []string{"TREEMK_IN"},
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "каталог, соответствующий корню дерева",
				Value:   ".",
				EnvVars: []string{"TREEMK_OUT"},
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "только показать, что будет создано",
			},
			&cli.BoolFlag{
				Name:    "keep-existing",
				Aliases: []string{"k"},
				Usage:   "не усекать уже существующие файлы",
				EnvVars: []string{"TREEMK_KEEP_EXISTING"},
			},
			&cli.StringFlag{
				Name:    "dperm",
				Usage:   "права для каталогов (восьмерично)",
				Value:   "0755",
				EnvVars: []string{"TREEMK_DPERM"},
			},
			&cli.StringFlag{
				Name:    "fperm",
				Usage:   "права для файлов (восьмерично)",
				Value:   "0644",
				EnvVars: []string{"TREEMK_FPERM"},
			},
			&cli.StringFlag{
				Name:    "exec-glob",
				Usage:   "glob-шаблоны исполняемых файлов через запятую, например \"*.sh,bin/*\"",
				EnvVars: []string{"TREEMK_EXEC_GLOB"},
			},
			&cli.BoolFlag{
				Name:  "db-0600",
				Usage: "ставить 0600 на файлы *.db/*.sqlite/*.sqlite3",
			},
			&cli.BoolFlag{
				Name:  "nfc",
				Usage: "приводить имена к Unicode NFC",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "подробный вывод",
				EnvVars: []string{"TREEMK_DEBUG"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "только предупреждения и ошибки",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "дополнительно писать лог в `FILE` (с ротацией)",
				EnvVars: []string{"TREEMK_LOG_FILE"},
			},
		},

		Before: func(c *cli.Context) error {
			var err error
			cfg, err = resolveConfig(c)
			if err != nil {
				return err
			}
			closeLog = logging.Setup(logging.Options{Debug: cfg.Debug, Quiet: cfg.Quiet, LogFile: cfg.LogFile})
			logrus.Debugf("treemk %s, вход %s, корень %s", version, cfg.Input, cfg.Out)
			return nil
		},
		After: func(c *cli.Context) error {
			return closeLog()
		},

		Action: func(c *cli.Context) error {
			return apply(c, cfg, false)
		},

		Commands: []*cli.Command{
			{
				Name:    "apply",
				Aliases: []string{"a"},
				Usage:   "разобрать дерево и создать структуру (по умолчанию)",
				Action: func(c *cli.Context) error {
					return apply(c, cfg, false)
				},
			},
			{
				Name:    "plan",
				Aliases: []string{"p"},
				Usage:   "показать операции, ничего не создавая",
				Action: func(c *cli.Context) error {
					return apply(c, cfg, true)
				},
			},
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "применять заново при каждом изменении входного файла",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "пауза после последнего изменения перед прогоном",
						Value: 200 * time.Millisecond,
					},
				},
				Action: func(c *cli.Context) error {
					o, err := appOptions(cfg)
					if err != nil {
						return err
					}
					return app.Watch(c.Context, o, c.Duration("debounce"))
				},
			},
		},
	}
}

func apply(c *cli.Context, cfg config.Config, dryRun bool) error {
	o, err := appOptions(cfg)
	if err != nil {
		return err
	}
	o.DryRun = o.DryRun || dryRun
	_, err = app.Run(c.Context, o)
	return err
}

// resolveConfig собирает настройки: умолчания < YAML < окружение/флаги.
func resolveConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"), c.IsSet("config"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("in") {
		cfg.Input = c.String("in")
	}
	if c.IsSet("out") {
		cfg.Out = c.String("out")
	}
	if c.IsSet("dry-run") {
		cfg.DryRun = c.Bool("dry-run")
	}
	if c.IsSet("keep-existing") {
		cfg.KeepExisting = c.Bool("keep-existing")
	}
	if c.IsSet("dperm") {
		cfg.DirPerm = c.String("dperm")
	}
	if c.IsSet("fperm") {
		cfg.FilePerm = c.String("fperm")
	}
	if c.IsSet("exec-glob") {
		cfg.ExecGlobs = config.SplitGlobs(c.String("exec-glob"))
	}
	if c.IsSet("db-0600") {
		cfg.DBMode0600 = c.Bool("db-0600")
	}
	if c.IsSet("nfc") {
		cfg.NormalizeNFC = c.Bool("nfc")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("quiet") {
		cfg.Quiet = c.Bool("quiet")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	return cfg, nil
}

func appOptions(cfg config.Config) (app.Options, error) {
	dperm, fperm, err := cfg.Perms()
	if err != nil {
		return app.Options{}, err
	}
	return app.Options{
		InPath:       cfg.Input,
		OutDir:       cfg.Out,
		DryRun:       cfg.DryRun,
		KeepExisting: cfg.KeepExisting,
		DirPerm:      dperm,
		FilePerm:     fperm,
		ExecGlobs:    cfg.ExecGlobs,
		DBMode0600:   cfg.DBMode0600,
		NormalizeNFC: cfg.NormalizeNFC,
	}, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ошибка: %v\n", err)
	os.Exit(1)
}
