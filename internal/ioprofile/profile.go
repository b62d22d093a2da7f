// Package ioprofile provides an HTTP middleware that records a CPU
// profile of every request, prints the hottest functions and optionally
// keeps the raw profiles for "go tool pprof".
package ioprofile

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime/pprof"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
)

// DefaultLength is the number of functions shown in a report.
const DefaultLength = 25

type profiler struct {
	next   http.Handler
	length int
	dir    string
	out    io.Writer

	// the CPU profiler is process-wide, requests are profiled one at a
	// time
	mu sync.Mutex
}

// Middleware wraps next so that every request is profiled. Reports go
// to stdout. If dir is not empty, raw profiles are saved there.
func Middleware(next http.Handler, length int, dir string) (http.Handler, error) {
	return MiddlewareTo(os.Stdout, next, length, dir)
}

// MiddlewareTo is like Middleware, but writes reports to out.
func MiddlewareTo(
	out io.Writer,
	next http.Handler,
	length int,
	dir string,
) (http.Handler, error) {
	if length <= 0 {
		length = DefaultLength
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, DirError(dir, err)
		}
	}
	return &profiler{next: next, length: length, dir: dir, out: out}, nil
}

func (p *profiler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var buf bytes.Buffer
	if err := pprof.StartCPUProfile(&buf); err != nil {
		slog.Warn("CPU profiler is busy, request is not profiled",
			"path", r.URL.Path, "error", err)
		p.next.ServeHTTP(w, r)
		return
	}

	start := time.Now()
	p.next.ServeHTTP(w, r)
	elapsed := time.Since(start)
	pprof.StopCPUProfile()

	prof, err := profile.Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		slog.Error("Cannot parse CPU profile", "path", r.URL.Path, "error", err)
		return
	}

	WriteReport(p.out, r.URL.Path, elapsed, Top(prof, p.length))

	if p.dir == "" {
		return
	}
	path := filepath.Join(p.dir, FileName(r.Method, r.URL.Path, elapsed, start))
	if err = os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		slog.Error("Cannot save CPU profile", "path", path, "error", err)
	}
}

// Entry is a function of a profile report.
type Entry struct {
	Function string
	Flat     int64
	Cum      int64
}

// Report is the summary of a profile.
type Report struct {
	// Unit of Flat, Cum and Total values, for example "nanoseconds".
	Unit    string
	Total   int64
	Samples int
	Entries []Entry
}

// Top summarizes prof by function, ordered by flat value, keeping at
// most n entries. CPU time is used when the profile has it, sample
// counts otherwise.
func Top(prof *profile.Profile, n int) Report {
	idx := len(prof.SampleType) - 1
	var res Report
	if idx >= 0 {
		res.Unit = prof.SampleType[idx].Unit
	}

	byName := make(map[string]*Entry)
	get := func(name string) *Entry {
		e, ok := byName[name]
		if !ok {
			e = &Entry{Function: name}
			byName[name] = e
		}
		return e
	}

	for _, s := range prof.Sample {
		if idx < 0 || idx >= len(s.Value) {
			continue
		}
		v := s.Value[idx]
		res.Total += v
		res.Samples++

		seen := make(map[string]struct{})
		for i, loc := range s.Location {
			for j, ln := range loc.Line {
				name := "?"
				if ln.Function != nil {
					name = ln.Function.Name
				}
				if i == 0 && j == 0 {
					get(name).Flat += v
				}
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				get(name).Cum += v
			}
		}
	}

	res.Entries = make([]Entry, 0, len(byName))
	for _, v := range byName {
		res.Entries = append(res.Entries, *v)
	}
	slices.SortFunc(res.Entries, func(a, b Entry) int {
		switch {
		case a.Flat != b.Flat:
			return cmp.Compare(b.Flat, a.Flat)
		case a.Cum != b.Cum:
			return cmp.Compare(b.Cum, a.Cum)
		default:
			return strings.Compare(a.Function, b.Function)
		}
	})
	if len(res.Entries) > n {
		res.Entries = res.Entries[:n]
	}
	return res
}

// WriteReport prints the report of one request.
func WriteReport(w io.Writer, path string, elapsed time.Duration, rep Report) {
	line := strings.Repeat("-", 80)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "PATH: %q\n", path)
	fmt.Fprintf(w, "%d samples, %s total in %s\n",
		rep.Samples, value(rep.Total, rep.Unit), elapsed.Round(time.Microsecond))

	if len(rep.Entries) == 0 {
		fmt.Fprintln(w, "no samples were recorded")
		fmt.Fprintln(w, line)
		return
	}

	fmt.Fprintf(w, "%10s %6s %10s %6s  %s\n", "flat", "flat%", "cum", "cum%", "function")
	for _, e := range rep.Entries {
		fmt.Fprintf(w, "%10s %5.1f%% %10s %5.1f%%  %s\n",
			value(e.Flat, rep.Unit), percent(e.Flat, rep.Total),
			value(e.Cum, rep.Unit), percent(e.Cum, rep.Total),
			e.Function,
		)
	}
	fmt.Fprintln(w, line)
}

// FileName is the name of a saved profile:
// <METHOD>.<path>.<ms>ms.<unixnano>.prof, where slashes of the path are
// replaced with dots and the root path is "root".
func FileName(method, path string, elapsed time.Duration, t time.Time) string {
	p := strings.Trim(path, "/")
	if p == "" {
		p = "root"
	}
	p = strings.ReplaceAll(p, "/", ".")
	return fmt.Sprintf("%s.%s.%dms.%d.prof",
		method, p, elapsed.Milliseconds(), t.UnixNano())
}

func value(v int64, unit string) string {
	if unit == "nanoseconds" {
		return time.Duration(v).Round(time.Microsecond).String()
	}
	return fmt.Sprintf("%d", v)
}

func percent(v, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(v) / float64(total)
}
