// Package ioshell runs a line-oriented interactive session over the
// shell context of the application.
package ioshell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/gnames/flasky/pkg/schema"
	"github.com/gnames/flasky/pkg/shell"
	"github.com/gnames/gnfmt"
	"gorm.io/gorm"
)

// Prompt is printed before every command.
const Prompt = ">>> "

const help = `Commands:
  names           list names of the shell context
  count <Name>    number of rows of a model
  first <Name>    row with the lowest primary key as JSON
  Permission      permission flags
  help            this message
  exit            end the session (also quit or Ctrl-D)
`

// Shell is an interactive session.
type Shell struct {
	ctx shell.Context
	in  io.Reader
	out io.Writer
	enc gnfmt.GNjson
}

// New creates a session that reads commands from in and writes results
// to out.
func New(sc shell.Context, in io.Reader, out io.Writer) *Shell {
	return &Shell{ctx: sc, in: in, out: out, enc: gnfmt.GNjson{Pretty: true}}
}

// Run reads commands until exit, end of input or ctx cancellation.
// Cancellation ends the session without an error. Failed commands are
// reported and the session goes on.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "Shell context: %s\n", strings.Join(shell.Names(), ", "))
	fmt.Fprintln(s.out, `Type "help" for commands.`)

	// stops the reader when the session ends first
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var scanErr error
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = sc.Err()
	}()

	for {
		fmt.Fprint(s.out, Prompt)
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(s.out)
			return scanErr
		}

		done, err := s.Exec(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %s\n", errText(err))
		}
		if done {
			return nil
		}
	}
}

// Exec runs one command line. It returns true when the session should
// end.
func (s *Shell) Exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(s.out, help)
	case "names":
		s.names()
	case "Permission":
		s.permissions()
	case "count":
		return false, s.withModel(args, func(m any) error {
			return s.count(ctx, m)
		})
	case "first":
		return false, s.withModel(args, func(m any) error {
			return s.first(ctx, m)
		})
	default:
		return false, UnknownNameError(cmd)
	}
	return false, nil
}

func (s *Shell) names() {
	m := s.ctx.Map()
	for _, v := range shell.Names() {
		fmt.Fprintf(s.out, "%-12s %T\n", v, m[v])
	}
}

func (s *Shell) permissions() {
	perms := make([]schema.Permission, 0, len(s.ctx.Permission))
	byPerm := make(map[schema.Permission]string, len(s.ctx.Permission))
	for k, v := range s.ctx.Permission {
		perms = append(perms, v)
		byPerm[v] = k
	}
	slices.Sort(perms)
	for _, v := range perms {
		fmt.Fprintf(s.out, "%-10s %2d\n", byPerm[v], v)
	}
}

func (s *Shell) withModel(args []string, fn func(any) error) error {
	if len(args) != 1 {
		return UnknownNameError(strings.Join(args, " "))
	}
	m, ok := s.ctx.Model(args[0])
	if !ok {
		return UnknownNameError(args[0])
	}
	if s.ctx.DB == nil {
		return QueryError(args[0], errNoDB)
	}
	return fn(m)
}

func (s *Shell) count(ctx context.Context, model any) error {
	var n int64
	err := s.ctx.DB.WithContext(ctx).Model(model).Count(&n).Error
	if err != nil {
		return QueryError(typeName(model), err)
	}
	fmt.Fprintln(s.out, n)
	return nil
}

func (s *Shell) first(ctx context.Context, model any) error {
	row := reflect.New(reflect.TypeOf(model).Elem()).Interface()
	err := s.ctx.DB.WithContext(ctx).First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fmt.Fprintln(s.out, "null")
		return nil
	}
	if err != nil {
		return QueryError(typeName(model), err)
	}

	bs, err := s.enc.Encode(row)
	if err != nil {
		return QueryError(typeName(model), err)
	}
	fmt.Fprintln(s.out, string(bs))
	return nil
}

func typeName(model any) string {
	return reflect.TypeOf(model).Elem().Name()
}
