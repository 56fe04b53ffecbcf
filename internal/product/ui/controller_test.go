package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	perrors "github.com/abgdnv/productboard/internal/product/errors"
	"github.com/abgdnv/productboard/internal/product/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI keeps products in memory and records calls.
type fakeAPI struct {
	mu        sync.Mutex
	products  []service.ProductDto
	nextID    int64
	listErr   error
	createErr error
	deleteErr error
	lists     int
	// listGate, when set, blocks List until closed.
	listGate chan struct{}
	// createGate, when set, blocks Create until closed.
	createGate chan struct{}
}

func (f *fakeAPI) List(_ context.Context) ([]service.ProductDto, error) {
	if f.listGate != nil {
		<-f.listGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]service.ProductDto(nil), f.products...), nil
}

func (f *fakeAPI) Create(_ context.Context, name, price string) (*service.ProductDto, string, error) {
	if f.createGate != nil {
		<-f.createGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, "", f.createErr
	}
	f.nextID++
	p := service.ProductDto{ID: f.nextID, Name: name, Price: decimal.RequireFromString(price), CreatedAt: time.Now()}
	f.products = append(f.products, p)
	return &p, "Product created successfully.", nil
}

func (f *fakeAPI) Delete(_ context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return "Product deleted successfully.", nil
		}
	}
	return "", perrors.ErrProductNotFound
}

// fakeTimers collects scheduled clears so tests fire them by hand.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (ft *fakeTimers) afterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

func (ft *fakeTimers) last() *fakeTimer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.timers[len(ft.timers)-1]
}

func newTestController(api API) (*Controller, *fakeTimers) {
	timers := &fakeTimers{}
	return NewController(api, NewStore(), WithAfterFunc(timers.afterFunc)), timers
}

func Test_Controller_Load(t *testing.T) {
	// given
	api := &fakeAPI{products: sample()}
	c, _ := newTestController(api)
	var loading []bool
	c.Store().Subscribe(func(st State) { loading = append(loading, st.Loading) })

	// when
	err := c.Load(context.Background())

	// then
	require.NoError(t, err)
	st := c.Store().Snapshot()
	assert.Len(t, st.Products, 3)
	assert.Equal(t, []int64{2, 3, 1}, ids(st.View), "newest first by default")
	assert.False(t, st.Loading)
	require.NotEmpty(t, loading)
	assert.True(t, loading[0], "loading is set before the request")
	assert.False(t, loading[len(loading)-1])
}

func Test_Controller_Load_Failure(t *testing.T) {
	api := &fakeAPI{listErr: &perrors.TransportError{Op: "list products", StatusCode: 500}}
	c, _ := newTestController(api)

	err := c.Load(context.Background())

	require.Error(t, err)
	st := c.Store().Snapshot()
	require.NotNil(t, st.Message)
	assert.Equal(t, MessageError, st.Message.Kind)
	assert.Equal(t, MsgLoadFailed, st.Message.Text)
	assert.False(t, st.Loading)
}

func Test_Controller_Load_Coalesced(t *testing.T) {
	// given a list request that blocks
	gate := make(chan struct{})
	api := &fakeAPI{products: sample(), listGate: gate}
	c, _ := newTestController(api)

	// when two loads overlap
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Load(context.Background())
		}()
	}
	require.Eventually(t, func() bool { return c.Store().Snapshot().Loading }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(gate)
	wg.Wait()

	// then
	assert.Equal(t, 1, api.lists)
	assert.False(t, c.Store().Snapshot().Loading)
}

func Test_Controller_AddProduct(t *testing.T) {
	// given
	api := &fakeAPI{}
	c, timers := newTestController(api)
	c.SetDraft("Widget", "9.99")

	// when
	err := c.AddProduct(context.Background())

	// then
	require.NoError(t, err)
	st := c.Store().Snapshot()
	assert.Equal(t, Draft{}, st.Draft, "draft cleared")
	require.Len(t, st.Products, 1, "list refetched")
	assert.Equal(t, "Widget", st.Products[0].Name)
	require.NotNil(t, st.Message)
	assert.Equal(t, Message{Kind: MessageSuccess, Text: "Product created successfully."}, *st.Message)
	assert.Equal(t, DefaultMessageDelay, timers.last().delay)
	assert.False(t, st.Loading)
	assert.Equal(t, 1, api.lists)
}

func Test_Controller_AddProduct_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "validation messages joined in field order",
			err: &perrors.ValidationError{Fields: map[string][]string{
				"price": {"The price field is required."},
				"name":  {"The name field is required."},
			}},
			expected: "The name field is required. The price field is required.",
		},
		{
			name:     "transport failure",
			err:      &perrors.TransportError{Op: "create product", Err: errors.New("connection refused")},
			expected: MsgAddFailed,
		},
		{
			name:     "empty validation error",
			err:      &perrors.ValidationError{},
			expected: MsgAddFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := &fakeAPI{createErr: tc.err}
			c, _ := newTestController(api)
			c.SetDraft("", "")

			// when
			err := c.AddProduct(context.Background())

			// then
			assert.ErrorIs(t, err, tc.err)
			st := c.Store().Snapshot()
			require.NotNil(t, st.Message)
			assert.Equal(t, MessageError, st.Message.Kind)
			assert.Equal(t, tc.expected, st.Message.Text)
			assert.False(t, st.Loading)
			assert.Zero(t, api.lists, "no refetch after a failed add")
		})
	}
}

func Test_Controller_Delete(t *testing.T) {
	// given
	api := &fakeAPI{products: sample()}
	c, _ := newTestController(api)
	require.NoError(t, c.Load(context.Background()))
	target := c.Store().Snapshot().Products[0]

	// when staged and cancelled nothing is sent
	c.ConfirmDelete(target)
	require.NotNil(t, c.Store().Snapshot().PendingDelete)
	c.CancelDelete()
	require.NoError(t, c.DeleteConfirmed(context.Background()))
	assert.Len(t, api.products, 3)

	// when staged and confirmed
	c.ConfirmDelete(target)
	err := c.DeleteConfirmed(context.Background())

	// then
	require.NoError(t, err)
	st := c.Store().Snapshot()
	assert.Nil(t, st.PendingDelete)
	assert.Len(t, st.Products, 2)
	for _, p := range st.Products {
		assert.NotEqual(t, target.ID, p.ID)
	}
	require.NotNil(t, st.Message)
	assert.Equal(t, "Product deleted successfully.", st.Message.Text)
}

func Test_Controller_Delete_Failure(t *testing.T) {
	api := &fakeAPI{products: sample(), deleteErr: perrors.ErrProductNotFound}
	c, _ := newTestController(api)
	require.NoError(t, c.Load(context.Background()))
	c.ConfirmDelete(service.ProductDto{ID: 99999, Name: "ghost"})

	err := c.DeleteConfirmed(context.Background())

	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	st := c.Store().Snapshot()
	require.NotNil(t, st.Message)
	assert.Equal(t, MsgDeleteFailed, st.Message.Text)
	assert.NotNil(t, st.PendingDelete, "kept for retry")
	assert.Len(t, st.Products, 3)
	assert.False(t, st.Loading)
}

func Test_Controller_RejectsOverlappingMutation(t *testing.T) {
	// given an add that blocks in the API
	gate := make(chan struct{})
	api := &fakeAPI{createGate: gate, products: sample()}
	c, _ := newTestController(api)
	c.SetDraft("Widget", "1")
	done := make(chan error, 1)
	go func() { done <- c.AddProduct(context.Background()) }()
	require.Eventually(t, func() bool { return c.Store().Snapshot().Loading }, time.Second, time.Millisecond)

	// when a delete is requested meanwhile
	c.ConfirmDelete(sample()[0])
	err := c.DeleteConfirmed(context.Background())

	// then
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, c.AddProduct(context.Background()), ErrBusy)
	close(gate)
	require.NoError(t, <-done)
	assert.Len(t, api.products, 4)
	assert.False(t, c.Store().Snapshot().Loading)
}

func Test_Controller_SortBy(t *testing.T) {
	api := &fakeAPI{products: sample()}
	c, _ := newTestController(api)
	require.NoError(t, c.Load(context.Background()))
	c.SetSearch("g")
	filtered := ids(c.Store().Snapshot().View)

	// new field sorts ascending
	c.SortBy(SortName)
	st := c.Store().Snapshot()
	assert.Equal(t, SortName, st.SortField)
	assert.False(t, st.SortDesc)
	assert.Equal(t, "▲", c.SortIcon(SortName))
	assert.Equal(t, "⇅", c.SortIcon(SortPrice))

	// same field flips direction, filter untouched
	c.SortBy(SortName)
	st = c.Store().Snapshot()
	assert.True(t, st.SortDesc)
	assert.Equal(t, "▼", c.SortIcon(SortName))
	assert.Equal(t, "g", st.Search)
	assert.ElementsMatch(t, filtered, ids(st.View))
}

func Test_Controller_MessageAutoClear(t *testing.T) {
	// given a success banner
	api := &fakeAPI{}
	c, timers := newTestController(api)
	c.SetDraft("Widget", "1")
	require.NoError(t, c.AddProduct(context.Background()))
	first := timers.last()

	// when a new banner replaces it
	c.msg.show(MessageError, "boom")
	second := timers.last()

	// then the first clear is cancelled and cannot wipe the new banner
	assert.True(t, first.stopped)
	first.f()
	require.NotNil(t, c.Store().Snapshot().Message)
	assert.Equal(t, "boom", c.Store().Snapshot().Message.Text)

	// when the delay elapses
	second.f()

	// then
	assert.Nil(t, c.Store().Snapshot().Message)
}

func Test_Controller_MessageAutoClear_RealTimer(t *testing.T) {
	c := NewController(&fakeAPI{}, NewStore(), WithMessageDelay(20*time.Millisecond))

	c.msg.show(MessageSuccess, "hello")
	require.NotNil(t, c.Store().Snapshot().Message)

	assert.Eventually(t, func() bool { return c.Store().Snapshot().Message == nil }, time.Second, 5*time.Millisecond)
}
