package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	productapp "github.com/abgdnv/productboard/internal/product/app"
	"github.com/abgdnv/productboard/internal/product/client"
	"github.com/abgdnv/productboard/internal/product/store"
	"github.com/abgdnv/productboard/internal/product/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := productapp.SetupDependencies(store.NewInMemoryStore(), nil, logger)
	srv := httptest.NewServer(productapp.SetupHttpHandler(deps))
	t.Cleanup(srv.Close)
	return srv
}

// syncBuffer lets timer callbacks and the test read output concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type manualTimers struct {
	mu     sync.Mutex
	queued []func()
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func (m *manualTimers) afterFunc(_ time.Duration, f func()) ui.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, f)
	return manualTimer{}
}

func (m *manualTimers) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queued)
}

func (m *manualTimers) fire(i int) {
	m.mu.Lock()
	f := m.queued[i]
	m.mu.Unlock()
	f()
}

// execute runs productctl against url and returns stdout.
func execute(t *testing.T, url string, stdin string, args ...string) (string, error) {
	t.Helper()
	timers := &manualTimers{}
	root := newRootCommand(&app{uiOpts: []ui.Option{ui.WithAfterFunc(timers.afterFunc)}})
	out := &syncBuffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--api-url", url))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func Test_List_Empty(t *testing.T) {
	// given
	srv := newAPIServer(t)

	// when
	out, err := execute(t, srv.URL, "", "list")

	// then
	require.NoError(t, err)
	assert.Contains(t, out, "CREATED AT ▼")
	assert.Contains(t, out, "No products yet.")
}

func Test_List_SearchAndSort(t *testing.T) {
	// given
	srv := newAPIServer(t)
	c := client.New(srv.URL)
	for _, p := range [][2]string{{"Widget A", "5.00"}, {"Gadget B", "7.50"}, {"widget C", "1.25"}} {
		_, _, err := c.Create(context.Background(), p[0], p[1])
		require.NoError(t, err)
	}

	// when
	out, err := execute(t, srv.URL, "", "list", "--search", "WID", "--sort", "price", "--desc")

	// then
	require.NoError(t, err)
	assert.Contains(t, out, `Search: "WID" (2 of 3 products)`)
	assert.Contains(t, out, "PRICE ▼")
	assert.NotContains(t, out, "Gadget B")
	assert.Less(t, strings.Index(out, "Widget A"), strings.Index(out, "widget C"))
}

func Test_List_UnknownSortField(t *testing.T) {
	srv := newAPIServer(t)

	_, err := execute(t, srv.URL, "", "list", "--sort", "color")

	assert.ErrorContains(t, err, `unknown sort field "color"`)
}

func Test_List_APIDown(t *testing.T) {
	// given
	srv := newAPIServer(t)
	srv.Close()

	// when
	out, err := execute(t, srv.URL, "", "list")

	// then
	require.ErrorIs(t, err, ErrReported)
	assert.Contains(t, out, "[ERROR] Failed to load products.")
}

func Test_Add(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		wantOut    string
		wantErr    bool
		wantStored int
	}{
		{
			name:       "created",
			args:       []string{"add", "Desk lamp", "24.90"},
			wantOut:    "[OK] Product created successfully.\n",
			wantStored: 1,
		},
		{
			name:    "empty input",
			args:    []string{"add", "", ""},
			wantOut: "[ERROR] The name field is required. The price field is required.\n",
			wantErr: true,
		},
		{
			name:    "price below minimum",
			args:    []string{"add", "Pen", "0"},
			wantOut: "[ERROR] The price field must be at least 0.01.\n",
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv := newAPIServer(t)

			// when
			out, err := execute(t, srv.URL, "", tc.args...)

			// then
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrReported)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantOut, out)
			products, err := client.New(srv.URL).List(context.Background())
			require.NoError(t, err)
			assert.Len(t, products, tc.wantStored)
		})
	}
}

func Test_Delete(t *testing.T) {
	testCases := []struct {
		name       string
		args       func(id string) []string
		stdin      string
		wantOut    []string
		wantErr    bool
		wantStored int
	}{
		{
			name:       "confirmed",
			args:       func(id string) []string { return []string{"delete", id} },
			stdin:      "y\n",
			wantOut:    []string{`Delete "Widget" (#`, "[OK] Product deleted successfully."},
			wantStored: 0,
		},
		{
			name:       "declined",
			args:       func(id string) []string { return []string{"delete", id} },
			stdin:      "n\n",
			wantOut:    []string{"Cancelled."},
			wantStored: 1,
		},
		{
			name:       "no answer",
			args:       func(id string) []string { return []string{"delete", id} },
			wantOut:    []string{"Cancelled."},
			wantStored: 1,
		},
		{
			name:       "yes flag",
			args:       func(id string) []string { return []string{"delete", "--yes", id} },
			wantOut:    []string{"[OK] Product deleted successfully."},
			wantStored: 0,
		},
		{
			name:       "unknown id",
			args:       func(string) []string { return []string{"delete", "-y", "99999"} },
			wantOut:    []string{"[ERROR] Failed to delete product."},
			wantErr:    true,
			wantStored: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv := newAPIServer(t)
			c := client.New(srv.URL)
			created, _, err := c.Create(context.Background(), "Widget", "9.99")
			require.NoError(t, err)
			id := strconv.FormatInt(created.ID, 10)

			// when
			out, err := execute(t, srv.URL, tc.stdin, tc.args(id)...)

			// then
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrReported)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tc.wantOut {
				assert.Contains(t, out, want)
			}
			products, err := c.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, products, tc.wantStored)
		})
	}
}

func Test_Delete_InvalidID(t *testing.T) {
	srv := newAPIServer(t)

	_, err := execute(t, srv.URL, "", "delete", "abc")

	assert.ErrorContains(t, err, `invalid product id "abc"`)
}

func Test_Seed(t *testing.T) {
	// given
	srv := newAPIServer(t)

	// when
	out, err := execute(t, srv.URL, "", "seed", "--count", "3", "--seed", "42")

	// then
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 3 products.")
	products, err := client.New(srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func Test_Seed_InvalidCount(t *testing.T) {
	srv := newAPIServer(t)

	_, err := execute(t, srv.URL, "", "seed", "--count", "0")

	assert.ErrorContains(t, err, "count must be positive")
}

func Test_IsYes(t *testing.T) {
	for answer, want := range map[string]bool{
		"y\n":   true,
		" YES ": true,
		"Y":     true,
		"":      false,
		"n":     false,
		"yep":   false,
	} {
		assert.Equal(t, want, isYes(answer), "answer %q", answer)
	}
}
