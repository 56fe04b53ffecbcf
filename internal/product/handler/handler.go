// Package handler provides the REST API of the product store.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	perrors "github.com/abgdnv/productboard/internal/product/errors"
	"github.com/abgdnv/productboard/internal/product/service"
	"github.com/abgdnv/productboard/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

const (
	MsgProductCreated  = "Product created successfully."
	MsgProductDeleted  = "Product deleted successfully."
	MsgProductNotFound = "Product not found."
)

// maxBodyBytes caps the create request body.
const maxBodyBytes = 1 << 20

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the product API and the health check.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.DeleteByID)
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll returns every product.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products.")
		return
	}
	if list == nil {
		list = []service.ProductDto{}
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondSuccess(w, mLogger, http.StatusOK, "", list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	dto, verr := decodeCreate(io.LimitReader(r.Body, maxBodyBytes))
	mLogger.DebugContext(r.Context(), "Received request to create product", "name", dto.Name)

	for field, messages := range validationFields(service.ValidateCreate(dto)) {
		if !verr.Has(field) {
			verr.Fields[field] = messages
		}
	}
	if !verr.Empty() {
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", verr.Fields)
		web.RespondValidation(w, mLogger, verr.Fields)
		return
	}

	created, err := h.service.Create(r.Context(), dto)
	if err != nil {
		var rejected *perrors.ValidationError
		if errors.As(err, &rejected) {
			mLogger.WarnContext(r.Context(), "Product rejected by service", "errors", rejected.Fields)
			web.RespondValidation(w, mLogger, rejected.Fields)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product.")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondSuccess(w, mLogger, http.StatusCreated, MsgProductCreated, created)
}

// DeleteByID removes a product. Ids that are not positive integers are reported as not found.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseInt64Param(r, "id")
	if !ok {
		mLogger.WarnContext(r.Context(), "Invalid product ID", "ID", chi.URLParam(r, "id"))
		web.RespondError(w, mLogger, http.StatusNotFound, MsgProductNotFound)
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, MsgProductNotFound)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to delete product.")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondSuccess(w, mLogger, http.StatusOK, MsgProductDeleted, nil)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}

// decodeCreate reads a create request field by field so that a value of the
// wrong JSON type becomes a field error instead of failing the whole body.
// Anything that is not a JSON object is read as an empty request.
func decodeCreate(body io.Reader) (service.ProductCreateDto, *perrors.ValidationError) {
	var dto service.ProductCreateDto
	verr := perrors.NewValidationError()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return dto, verr
	}

	if value, ok := present(raw, "name"); ok {
		var name string
		if err := json.Unmarshal(value, &name); err != nil {
			verr.Add("name", service.StringMessage("name"))
		} else {
			dto.Name = strings.TrimSpace(name)
		}
	}

	if value, ok := present(raw, "price"); ok {
		price, blank, err := decodePrice(value)
		switch {
		case err != nil:
			verr.Add("price", service.NumberMessage("price"))
		case !blank:
			dto.Price = &price
		}
	}

	return dto, verr
}

// present returns the raw value of key unless it is absent or null.
func present(raw map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	value, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil, false
	}
	return value, true
}

// decodePrice accepts a JSON number or a numeric string. An empty string is
// reported as blank so it fails the required rule like a missing value.
func decodePrice(value json.RawMessage) (decimal.Decimal, bool, error) {
	value = bytes.TrimSpace(value)
	if len(value) > 0 && value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return decimal.Decimal{}, false, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Decimal{}, true, nil
		}
		d, err := decimal.NewFromString(s)
		return d, false, err
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return decimal.Decimal{}, false, err
	}
	d, err := decimal.NewFromString(n.String())
	return d, false, err
}

func validationFields(verr *perrors.ValidationError) map[string][]string {
	if verr == nil {
		return nil
	}
	return verr.Fields
}
