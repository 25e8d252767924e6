package fsops

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"treemk/internal/plan"
	"treemk/internal/safety"
)

// ApplyArgs — параметры применения плана к файловой системе.
type ApplyArgs struct {
	Plan         plan.Plan
	DestRoot     string
	DryRun       bool
	KeepExisting bool // не усекать уже существующие файлы
	DirPerm      os.FileMode
	FilePerm     os.FileMode
	ExecGlobs    []string
	DBMode0600   bool
	Out          io.Writer // куда печатать план в режиме DryRun (nil — stdout)
}

// Stats — что в итоге было сделано.
type Stats struct {
	DirsCreated    int
	DirsExisting   int
	FilesCreated   int
	FilesTruncated int
	FilesKept      int
}

func (s Stats) String() string {
	return fmt.Sprintf("каталогов: %d новых, %d уже было; файлов: %d новых, %d усечено, %d оставлено",
		s.DirsCreated, s.DirsExisting, s.FilesCreated, s.FilesTruncated, s.FilesKept)
}

// Apply выполняет операции плана по порядку. Первая ошибка прерывает
// выполнение; уже созданное остаётся на диске.
func Apply(ctx context.Context, a ApplyArgs) (Stats, error) {
	var st Stats

	if a.DryRun {
		w := a.Out
		if w == nil {
			w = os.Stdout
		}
		if err := plan.Print(w, a.Plan); err != nil {
			return st, fmt.Errorf("вывод плана: %w", err)
		}
		return st, nil
	}

	for _, op := range a.Plan.Ops {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		target, err := safety.SafeJoin(a.DestRoot, op.Path)
		if err != nil {
			return st, fmt.Errorf("строка %d: %w", op.Line, err)
		}

		switch op.Kind {
		case plan.MakeDir:
			err = ensureDir(a, &st, target)
		case plan.MakeFile:
			err = ensureFile(a, &st, target)
		default:
			err = fmt.Errorf("неизвестная операция %v", op.Kind)
		}
		if err != nil {
			return st, fmt.Errorf("строка %d: %w", op.Line, err)
		}
	}

	logrus.Infof("Готово: %s (%s)", a.DestRoot, st)
	return st, nil
}

func ensureDir(a ApplyArgs, st *Stats, path string) error {
	// Stat, а не Lstat: каталог по симлинку (например, -out на /tmp) — тоже каталог.
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		st.DirsExisting++
		logrus.Debugf("dir exists: %s", path)
		return nil

	case err == nil:
		return fmt.Errorf("%w: %s", ErrNotDir, path)

	case os.IsNotExist(err):
		if err := os.MkdirAll(path, a.DirPerm); err != nil {
			return fmt.Errorf("mkdir %s: %w", path, err)
		}
		// MkdirAll подвержен umask — выставляем права явно.
		if err := os.Chmod(path, a.DirPerm); err != nil {
			return err
		}
		st.DirsCreated++
		logrus.Debugf("dir: %s", path)
		return nil

	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}

func ensureFile(a ApplyArgs, st *Stats, path string) error {
	parent := filepath.Dir(path)
	if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		if err := ensureDir(a, st, parent); err != nil {
			return err
		}
	}

	mode := chooseFileMode(a, path)

	info, err := os.Lstat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%w: %s", ErrIsDir, path)

	case err == nil:
		if a.KeepExisting {
			st.FilesKept++
			logrus.Debugf("file kept: %s", path)
			return nil
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, mode)
		if err != nil {
			return fmt.Errorf("truncate %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("truncate %s: %w", path, err)
		}
		st.FilesTruncated++
		logrus.Debugf("file truncated: %s", path)
		return nil

	case os.IsNotExist(err):
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := os.Chmod(path, mode); err != nil {
			return err
		}
		st.FilesCreated++
		logrus.Debugf("file: %s", path)
		return nil

	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}

func chooseFileMode(a ApplyArgs, path string) os.FileMode {
	rel := path
	if r, err := filepath.Rel(a.DestRoot, path); err == nil {
		rel = r
	}
	relSl := filepath.ToSlash(rel)
	lower := strings.ToLower(relSl)

	if a.DBMode0600 && (strings.HasSuffix(lower, ".db") ||
		strings.HasSuffix(lower, ".sqlite") ||
		strings.HasSuffix(lower, ".sqlite3")) {
		return 0o600
	}

	for _, pat := range a.ExecGlobs {
		if ok, _ := filepath.Match(filepath.ToSlash(pat), relSl); ok {
			return 0o755
		}
	}
	return a.FilePerm
}
