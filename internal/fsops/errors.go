package fsops

import "errors"

var (
	ErrNotDir = errors.New("по пути уже существует файл, ожидался каталог")
	ErrIsDir  = errors.New("по пути уже существует каталог, ожидался файл")
)
