package plan

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Kind — тип операции над файловой системой.
type Kind int

const (
	MakeDir  Kind = iota // создать каталог (если его нет)
	MakeFile             // создать пустой файл (или усечь существующий)
)

func (k Kind) String() string {
	switch k {
	case MakeDir:
		return "mkdir"
	case MakeFile:
		return "touch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Op — одна операция: что сделать и по какому пути.
type Op struct {
	Kind Kind
	Path string // путь через "/", относительно корня вывода ("." — сам корень)
	Line int    // номер строки входа, породившей операцию (0 — служебная)
}

// Plan — упорядоченный список операций.
type Plan struct {
	Ops []Op
}

// Dirs возвращает количество операций создания каталогов.
func (p Plan) Dirs() int { return p.count(MakeDir) }

// Files возвращает количество операций создания файлов.
func (p Plan) Files() int { return p.count(MakeFile) }

func (p Plan) count(k Kind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

var (
	dirColor  = color.New(color.FgBlue, color.Bold)
	fileColor = color.New(color.FgGreen)
	lineColor = color.New(color.FgHiBlack)
)

// Print печатает план в w в виде shell-подобных команд.
// Цвет отключается самим color, если вывод не терминал.
func Print(w io.Writer, p Plan) error {
	for _, op := range p.Ops {
		c := fileColor
		if op.Kind == MakeDir {
			c = dirColor
		}
		if _, err := fmt.Fprintf(w, "%s %s %s\n",
			c.Sprintf("%-5s", op.Kind), op.Path, lineColor.Sprintf("# %d", op.Line)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d directories, %d files\n", p.Dirs(), p.Files())
	return err
}
