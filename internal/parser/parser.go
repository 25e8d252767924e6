package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"treemk/internal/plan"
)

// Маркеры ветвления tree: "├──" (есть соседи ниже) и "└──" (последний сосед).
const (
	markerMid  = "├──"
	markerLast = "└──"
	fill       = "─"
)

// Единицы отступа: 4 колонки, "│   " или "    ".
var indentUnits = []string{"│   ", "    "}

// Options — настройки разбора.
type Options struct {
	// NormalizeNFC приводит имена к Unicode NFC (tree на macOS отдаёт NFD).
	NormalizeNFC bool
}

// Line — одна значимая строка дерева.
type Line struct {
	Num   int
	Text  string
	Depth int
	Raw   string
}

// Parse читает tree-подобный текст и строит план операций.
// Диск не трогает: пути считаются относительно корня ".".
// Первая операция плана — всегда сам корень.
func Parse(r io.Reader, opts Options) (plan.Plan, error) {
	br := bufio.NewReader(r)

	p := plan.Plan{Ops: []plan.Op{{Kind: plan.MakeDir, Path: RootPath}}}
	stack := NewStack()
	lineNum := 0

	for {
		// ReadString не ограничивает длину строки, в отличие от Scanner.
		s, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return plan.Plan{}, fmt.Errorf("чтение дерева (строка %d): %w", lineNum+1, err)
		}
		if s == "" && err != nil {
			break
		}
		lineNum++

		text := strings.TrimRight(s, "\r\n")
		if !Skip(text) {
			ln := Line{Num: lineNum, Text: text, Depth: Depth(text), Raw: ExtractRaw(text)}
			if ln.Raw != "" {
				p.Ops = append(p.Ops, interpret(stack, ln, opts)...)
			}
		}
		if err != nil {
			break
		}
	}
	return p, nil
}

// interpret обрабатывает одну строку: обрезает стек, проходит по токенам
// от вершины стека и, если последний токен — каталог, кладёт его в стек.
func interpret(stack *Stack, ln Line, opts Options) []plan.Op {
	stack.Truncate(ln.Depth)

	tokens := Tokenize(ln.Raw)
	if len(tokens) == 0 {
		return nil
	}
	if opts.NormalizeNFC {
		for i, t := range tokens {
			tokens[i] = norm.NFC.String(t)
		}
	}

	var ops []plan.Op
	current := stack.Top()
	last := tokens[len(tokens)-1]

	for i, tok := range tokens {
		next := path.Join(current, tok)
		if i < len(tokens)-1 || !IsFile(tok) {
			ops = append(ops, plan.Op{Kind: plan.MakeDir, Path: next, Line: ln.Num})
			current = next
			continue
		}
		ops = append(ops, plan.Op{Kind: plan.MakeFile, Path: next, Line: ln.Num})
	}

	if !IsFile(last) {
		stack.Push(ln.Depth, current)
	}
	logrus.Debugf("строка %d: depth=%d raw=%q stack=%v", ln.Num, ln.Depth, ln.Raw, stack.Paths())
	return ops
}

// FindMarker возвращает байтовый индекс самого левого маркера ветки
// или -1, если маркера в строке нет.
func FindMarker(line string) int {
	mid := strings.Index(line, markerMid)
	last := strings.Index(line, markerLast)
	switch {
	case mid == -1:
		return last
	case last == -1:
		return mid
	default:
		return min(mid, last)
	}
}

// Depth считает глубину строки: число полных 4-колоночных единиц отступа
// перед маркером. Табы перед каждой единицей игнорируются.
func Depth(line string) int {
	idx := FindMarker(line)
	if idx == -1 {
		return 0
	}
	prefix := line[:idx]

	depth := 0
	for {
		prefix = strings.TrimLeft(prefix, "\t")
		unit := matchUnit(prefix)
		if unit == "" {
			return depth
		}
		depth++
		prefix = prefix[len(unit):]
	}
}

func matchUnit(prefix string) string {
	for _, u := range indentUnits {
		if strings.HasPrefix(prefix, u) {
			return u
		}
	}
	return ""
}

// ExtractRaw вырезает из строки путь (возможно составной, через "/").
// Пример: "│   ├── a/b/src" -> "a/b/src".
func ExtractRaw(line string) string {
	s := strings.TrimSpace(line)
	if s == RootPath {
		return s
	}
	idx := FindMarker(s)
	if idx == -1 {
		// Маркера нет — отдаём как есть, решение принимает Skip.
		return s
	}
	// Оба маркера одной длины в байтах.
	raw := s[idx+len(markerMid):]
	raw = strings.Replace(raw, fill, "", 1)
	return strings.TrimSpace(raw)
}

// Tokenize разбивает путь по "/", выкидывая пустые сегменты.
func Tokenize(raw string) []string {
	if raw == RootPath {
		return []string{RootPath}
	}
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsFile — единственное место, где решается "файл или каталог".
// Правило: корень "." — каталог; имя с точкой — файл; остальное — каталог.
// Каталог "v1.2" станет файлом, файл "Makefile" — каталогом.
func IsFile(token string) bool {
	if token == RootPath {
		return false
	}
	return strings.Contains(token, ".")
}

// Skip сообщает, что строку надо пропустить: пустая строка или
// декоративная (нет ни маркера, ни точки), например рамка или
// итог "3 directories, 5 files".
func Skip(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	return FindMarker(line) == -1 && !strings.Contains(line, ".")
}
