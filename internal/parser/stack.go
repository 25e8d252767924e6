package parser

// RootPath — путь корня вывода в плане.
const RootPath = "."

// Stack — стек открытых каталогов по глубине: индекс 0 — корень,
// индекс d+1 — каталог, открытый строкой глубины d.
type Stack struct {
	paths []string
}

// NewStack создаёт стек, в котором лежит только корень.
func NewStack() *Stack {
	return &Stack{paths: []string{RootPath}}
}

// Truncate выкидывает записи глубже depth: после вызова Len() <= depth+1.
// Корень не удаляется никогда.
func (s *Stack) Truncate(depth int) {
	n := depth + 1
	if n < 1 {
		n = 1
	}
	if len(s.paths) > n {
		s.paths = s.paths[:n]
	}
}

// Top возвращает текущий каталог (вершину стека).
func (s *Stack) Top() string {
	return s.paths[len(s.paths)-1]
}

// Push кладёт каталог, открытый строкой глубины depth.
// Если слот depth+1 уже занят (устаревшая запись), она заменяется.
// При пропуске уровней путь ложится сразу за вершиной.
func (s *Stack) Push(depth int, path string) {
	s.Truncate(depth)
	s.paths = append(s.paths, path)
}

func (s *Stack) Len() int { return len(s.paths) }

// Paths возвращает копию содержимого стека (для отладки и тестов).
func (s *Stack) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}
