package ioprofile_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gnames/flasky/internal/ioprofile"
	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *profile.Profile {
	fnA := &profile.Function{ID: 1, Name: "main.a"}
	fnB := &profile.Function{ID: 2, Name: "main.b"}
	fnMain := &profile.Function{ID: 3, Name: "main.main"}
	locA := &profile.Location{ID: 1, Line: []profile.Line{{Function: fnA}}}
	locB := &profile.Location{ID: 2, Line: []profile.Line{{Function: fnB}}}
	locMain := &profile.Location{ID: 3, Line: []profile.Line{{Function: fnMain}}}

	return &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "samples", Unit: "count"},
			{Type: "cpu", Unit: "nanoseconds"},
		},
		Sample: []*profile.Sample{
			{Location: []*profile.Location{locA, locMain}, Value: []int64{3, 30_000_000}},
			{Location: []*profile.Location{locB, locA, locMain}, Value: []int64{1, 10_000_000}},
			{Location: []*profile.Location{locA, locMain}, Value: []int64{1, 10_000_000}},
		},
		Function: []*profile.Function{fnA, fnB, fnMain},
		Location: []*profile.Location{locA, locB, locMain},
	}
}

func TestTop(t *testing.T) {
	assert := assert.New(t)
	rep := ioprofile.Top(testProfile(), 10)

	assert.Equal("nanoseconds", rep.Unit)
	assert.Equal(int64(50_000_000), rep.Total)
	assert.Equal(3, rep.Samples)
	require.Len(t, rep.Entries, 3)

	assert.Equal(ioprofile.Entry{Function: "main.a", Flat: 40_000_000, Cum: 50_000_000}, rep.Entries[0])
	assert.Equal(ioprofile.Entry{Function: "main.b", Flat: 10_000_000, Cum: 10_000_000}, rep.Entries[1])
	assert.Equal(ioprofile.Entry{Function: "main.main", Flat: 0, Cum: 50_000_000}, rep.Entries[2])
}

func TestTopLength(t *testing.T) {
	rep := ioprofile.Top(testProfile(), 1)
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, "main.a", rep.Entries[0].Function)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	ioprofile.WriteReport(&buf, "/api/v1/posts", 60*time.Millisecond,
		ioprofile.Top(testProfile(), 2))

	out := buf.String()
	assert.Contains(t, out, `PATH: "/api/v1/posts"`)
	assert.Contains(t, out, "3 samples, 50ms total in 60ms")
	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "main.b")
	assert.NotContains(t, out, "main.main")

	buf.Reset()
	ioprofile.WriteReport(&buf, "/", time.Millisecond, ioprofile.Report{})
	assert.Contains(t, buf.String(), "no samples were recorded")
}

func TestFileName(t *testing.T) {
	ts := time.Unix(0, 1700000000000000000)
	tests := []struct {
		method, path string
		elapsed      time.Duration
		res          string
	}{
		{"GET", "/", 5 * time.Millisecond, "GET.root.5ms.1700000000000000000.prof"},
		{"GET", "/api/v1/posts", 12 * time.Millisecond, "GET.api.v1.posts.12ms.1700000000000000000.prof"},
		{"POST", "/users/1/", 0, "POST.users.1.0ms.1700000000000000000.prof"},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, ioprofile.FileName(v.method, v.path, v.elapsed, ts))
	}
}

func TestMiddleware(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prof")
	var out bytes.Buffer
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})

	mw, err := ioprofile.MiddlewareTo(&out, h, 5, dir)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	mw.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, "hello", w.Body.String())
	assert.Contains(t, out.String(), `PATH: "/hello"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "GET.hello."))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".prof"))

	f, err := os.Open(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	defer f.Close()
	_, err = profile.Parse(f)
	assert.NoError(t, err)
}

func TestMiddlewareBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := ioprofile.Middleware(http.NotFoundHandler(), 0, filepath.Join(file, "sub"))
	assert.Error(t, err)
}
