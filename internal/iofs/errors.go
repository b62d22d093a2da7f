package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

func CreateDirError(dir string, err error) error {
	return fsError(errcode.CreateDirError,
		"Cannot create directory <em>%s</em>", dir, err)
}

func WriteFileError(path string, err error) error {
	return fsError(errcode.WriteFileError,
		"Cannot write <em>%s</em>", path, err)
}

func ReadFileError(path string, err error) error {
	return fsError(errcode.ReadFileError,
		"Cannot read <em>%s</em>", path, err)
}

func DotEnvError(path string, err error) error {
	return fsError(errcode.DotEnvError,
		"Cannot load environment from <em>%s</em>", path, err)
}

// fsError records the function that called the exported constructor.
func fsError(code gn.ErrorCode, msg, path string, err error) error {
	caller := "unknown"
	pcs := make([]uintptr, 1)
	// skip runtime.Callers, fsError and the exported constructor
	if runtime.Callers(3, pcs) > 0 {
		frame, _ := runtime.CallersFrames(pcs).Next()
		caller = frame.Function
	}
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: %s: %w", caller, path, err),
	}
}
