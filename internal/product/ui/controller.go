package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	perrors "github.com/abgdnv/productboard/internal/product/errors"
	"github.com/abgdnv/productboard/internal/product/service"
	"golang.org/x/sync/singleflight"
)

const (
	MsgLoadFailed   = "Failed to load products."
	MsgAddFailed    = "Failed to add product."
	MsgDeleteFailed = "Failed to delete product."
)

// ErrBusy is returned when an add or delete is requested while another one is running.
var ErrBusy = errors.New("another change is in progress")

const listKey = "list"

// API is the product API as seen by the controller. *client.Client implements it.
type API interface {
	List(ctx context.Context) ([]service.ProductDto, error)
	Create(ctx context.Context, name, price string) (*service.ProductDto, string, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// Controller turns user actions into API calls and store updates.
// The list is never patched locally: every successful change refetches it.
type Controller struct {
	api    API
	store  *Store
	logger *slog.Logger
	msg    *messenger

	loads    singleflight.Group
	mutating atomic.Bool

	loadingMu sync.Mutex
	inFlight  int
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMessageDelay changes how long banners stay visible.
func WithMessageDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.msg.delay = d
	}
}

// WithAfterFunc replaces the timer used to clear banners.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) {
		c.msg.afterFunc = f
	}
}

func NewController(api API, store *Store, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		msg: &messenger{
			store:     store,
			delay:     DefaultMessageDelay,
			afterFunc: realAfterFunc,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Store() *Store {
	return c.store
}

// Load fetches the list. Concurrent calls share one request.
func (c *Controller) Load(ctx context.Context) error {
	_, err, _ := c.loads.Do(listKey, func() (any, error) {
		release := c.begin()
		defer release()

		products, err := c.api.List(ctx)
		if err != nil {
			c.logger.ErrorContext(ctx, "Failed to load products", "error", err)
			c.msg.show(MessageError, MsgLoadFailed)
			return nil, err
		}
		if products == nil {
			products = []service.ProductDto{}
		}
		c.store.update(func(s *State) {
			s.Products = products
		})
		return nil, nil
	})
	return err
}

// refresh reloads after a change. A load that started before the change may
// hold stale data, so it is not joined.
func (c *Controller) refresh(ctx context.Context) {
	c.loads.Forget(listKey)
	_ = c.Load(ctx)
}

// AddProduct submits the draft. On success the draft is cleared and the list reloaded.
func (c *Controller) AddProduct(ctx context.Context) error {
	if !c.mutating.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.mutating.Store(false)

	c.msg.clear()
	release := c.begin()
	defer release()

	draft := c.store.Snapshot().Draft
	_, message, err := c.api.Create(ctx, draft.Name, draft.Price)
	if err != nil {
		var verr *perrors.ValidationError
		if errors.As(err, &verr) && !verr.Empty() {
			c.msg.show(MessageError, strings.Join(verr.Messages(), " "))
		} else {
			c.logger.ErrorContext(ctx, "Failed to add product", "error", err)
			c.msg.show(MessageError, MsgAddFailed)
		}
		return err
	}

	c.msg.show(MessageSuccess, message)
	c.store.update(func(s *State) {
		s.Draft = Draft{}
	})
	c.refresh(ctx)
	return nil
}

// ConfirmDelete stages p for deletion. Nothing is sent until DeleteConfirmed.
func (c *Controller) ConfirmDelete(p service.ProductDto) {
	c.store.update(func(s *State) {
		s.PendingDelete = &p
	})
}

func (c *Controller) CancelDelete() {
	c.store.update(func(s *State) {
		s.PendingDelete = nil
	})
}

// DeleteConfirmed deletes the staged product. Without one it does nothing.
// On failure the product stays staged so the user can retry or cancel.
func (c *Controller) DeleteConfirmed(ctx context.Context) error {
	pending := c.store.Snapshot().PendingDelete
	if pending == nil {
		return nil
	}
	if !c.mutating.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.mutating.Store(false)

	c.msg.clear()
	release := c.begin()
	defer release()

	message, err := c.api.Delete(ctx, pending.ID)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to delete product", "ID", pending.ID, "error", err)
		c.msg.show(MessageError, MsgDeleteFailed)
		return err
	}

	c.msg.show(MessageSuccess, message)
	c.refresh(ctx)
	c.store.update(func(s *State) {
		s.PendingDelete = nil
	})
	return nil
}

// SortBy flips the direction when field is already the sort column,
// otherwise sorts ascending by field.
func (c *Controller) SortBy(field SortField) {
	c.store.update(func(s *State) {
		if s.SortField == field {
			s.SortDesc = !s.SortDesc
			return
		}
		s.SortField = field
		s.SortDesc = false
	})
}

// SortIcon returns the indicator for a column header.
func (c *Controller) SortIcon(field SortField) string {
	st := c.store.Snapshot()
	return sortIcon(st, field)
}

func sortIcon(st State, field SortField) string {
	switch {
	case st.SortField != field:
		return "⇅"
	case st.SortDesc:
		return "▼"
	default:
		return "▲"
	}
}

func (c *Controller) SetSearch(text string) {
	c.store.update(func(s *State) {
		s.Search = text
	})
}

func (c *Controller) SetDraft(name, price string) {
	c.store.update(func(s *State) {
		s.Draft = Draft{Name: name, Price: price}
	})
}

// begin marks a request as running and returns the func that ends it.
// Loading stays true while any request runs.
func (c *Controller) begin() func() {
	c.loadingMu.Lock()
	c.inFlight++
	if c.inFlight == 1 {
		c.store.update(func(s *State) { s.Loading = true })
	}
	c.loadingMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.loadingMu.Lock()
			defer c.loadingMu.Unlock()
			c.inFlight--
			if c.inFlight == 0 {
				c.store.update(func(s *State) { s.Loading = false })
			}
		})
	}
}
