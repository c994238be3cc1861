// Package api serves the books over HTTP as JSON.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cleared-dev/bookkeeper/internal/books"
)

// SaveFunc persists the books after an accepted change.
type SaveFunc func(ctx context.Context) error

// Handler holds the books and the chi router.
type Handler struct {
	books  *books.Books
	save   SaveFunc
	log    *slog.Logger
}

// NewHandler wires the router. save may be nil; logger may be nil.
func NewHandler(b *books.Books, save SaveFunc, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{books: b, save: save, log: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(h.Logger)
	r.Use(h.Recoverer)

	r.Get("/api/health", h.health)

	r.Route("/api/accounts", func(r chi.Router) {
		r.Get("/", h.listAccounts)
		r.Post("/", h.createAccount)
		r.Patch("/{id}", h.updateAccount)
		r.Delete("/{id}", h.deleteAccount)
		r.Get("/{id}/ledger", h.ledger)
	})

	r.Get("/api/entries", h.listEntries)
	r.Post("/api/entries", h.postJournal)
	r.Get("/api/cashbook", h.cashBook)
	r.Post("/api/cashbook", h.postVoucher)
	r.Get("/api/invoices", h.listInvoices)
	r.Post("/api/invoices", h.postInvoice)
	r.Get("/api/invoices/references", h.referenceDocs)

	r.Get("/api/stock", h.stock)
	r.Get("/api/stock/{id}/register", h.stockRegister)

	r.Get("/api/depreciation/assets", h.depreciationAssets)
	r.Post("/api/depreciation", h.postDepreciation)

	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/trial-balance", h.trialBalance)
		r.Get("/final-accounts", h.finalAccounts)
		r.Get("/fiscal", h.fiscal)
	})

	r.Get("/api/notes", h.listNotes)
	r.Post("/api/notes", h.addNote)
	r.Delete("/api/notes/{id}", h.deleteNote)
	r.Get("/api/settings", h.settings)
	r.Put("/api/settings", h.updateSettings)
	r.Get("/api/export", h.export)

	return r
}

type contextKey string

const requestIDKey contextKey = "request_id"

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9\-]{1,64}$`)

func requestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// RequestID tags each request with an X-Request-ID, keeping a safe
// caller-supplied one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Logger logs method, path, status and duration for each request.
func (h *Handler) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", requestIDFromContext(r.Context()))
	})
}

// Recoverer turns a panic into a 500 response.
func (h *Handler) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				h.log.Error("panic", "error", rv, "path", r.URL.Path)
				writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// persist saves after a change. A failed save is reported but the change
// stays in memory.
func (h *Handler) persist(w http.ResponseWriter, r *http.Request) bool {
	if h.save == nil {
		return true
	}
	if err := h.save(r.Context()); err != nil {
		h.log.Error("saving books", "error", err)
		writeError(w, r, "change accepted but not saved: "+err.Error(), "SAVE_FAILED", http.StatusInternalServerError)
		return false
	}
	return true
}
