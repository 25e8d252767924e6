package safety

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot — итоговый путь выходит за пределы корня.
var ErrOutsideRoot = errors.New("путь выходит за пределы корня")

// ValidateDir проверяет, что каталог назначения задан.
func ValidateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("пустой каталог назначения")
	}
	return nil
}

// SafeJoin объединяет root и rel (путь через "/") и убеждается,
// что результат остаётся внутри root.
func SafeJoin(root, rel string) (string, error) {
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("%w: абсолютный путь %q", ErrOutsideRoot, rel)
	}
	cleanRoot := filepath.Clean(root)
	cleanP := filepath.Join(cleanRoot, filepath.FromSlash(rel))

	r, err := filepath.Rel(cleanRoot, cleanP)
	if err != nil {
		return "", err
	}
	relSl := filepath.ToSlash(r)
	if relSl == ".." || strings.HasPrefix(relSl, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return cleanP, nil
}
