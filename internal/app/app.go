package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"treemk/internal/fsops"
	"treemk/internal/parser"
	"treemk/internal/safety"
)

// ErrNoInput — входной файл с деревом не найден или не читается.
var ErrNoInput = errors.New("нет входного файла")

// Options — все настройки запуска утилиты.
type Options struct {
	InPath       string
	OutDir       string
	DryRun       bool
	KeepExisting bool
	DirPerm      os.FileMode
	FilePerm     os.FileMode
	ExecGlobs    []string
	DBMode0600   bool
	NormalizeNFC bool
	Stdin        io.Reader // для InPath == "-" (nil — os.Stdin)
	Stdout       io.Writer // для вывода плана (nil — os.Stdout)
}

// Run — главная функция приложения: читает вход, строит план, применяет.
func Run(ctx context.Context, o Options) (fsops.Stats, error) {
	// 1) Открываем источник: файл или stdin.
	var r io.Reader
	if o.InPath == "-" {
		r = o.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(o.InPath)
		if err != nil {
			return fsops.Stats{}, fmt.Errorf("%w %q: %w", ErrNoInput, o.InPath, err)
		}
		defer f.Close()
		r = f
	}

	if err := safety.ValidateDir(o.OutDir); err != nil {
		return fsops.Stats{}, err
	}

	// 2) Строим план без обращения к диску.
	p, err := parser.Parse(r, parser.Options{NormalizeNFC: o.NormalizeNFC})
	if err != nil {
		return fsops.Stats{}, fmt.Errorf("ошибка разбора дерева: %w", err)
	}
	logrus.Debugf("План: %d каталогов, %d файлов", p.Dirs(), p.Files())

	// 3) Применяем. Корень "." — это сам OutDir.
	return fsops.Apply(ctx, fsops.ApplyArgs{
		Plan:         p,
		DestRoot:     o.OutDir,
		DryRun:       o.DryRun,
		KeepExisting: o.KeepExisting,
		DirPerm:      o.DirPerm,
		FilePerm:     o.FilePerm,
		ExecGlobs:    o.ExecGlobs,
		DBMode0600:   o.DBMode0600,
		Out:          o.Stdout,
	})
}
