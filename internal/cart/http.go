package cart

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CartBridge/internal/pricing"
	"CartBridge/internal/session"
	"CartBridge/pkg/kit"
)

const maxBodyBytes = 1 << 20

// HeaderIdempotencyKey marks a mutating request as retry-safe;
// HeaderIdempotentReplay marks a response served from the cache.
const (
	HeaderIdempotencyKey   = "Idempotency-Key"
	HeaderIdempotentReplay = "Idempotent-Replay"
)

type Server struct {
	Service *Service
	Log     *zap.Logger

	// Production hides internal error detail from responses.
	Production bool
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Post("/cart/context", s.handleCreateContext)
	r.Get("/cart", s.handleGetCart)
	r.Post("/cart/items", s.handleUpsertItems)
	r.Delete("/cart/items/{sku}", s.handleRemoveItem)
	r.Post("/cart/refreshCart", s.handleRefreshCart)
	r.Post("/cart/checkout", s.handleCheckout)

	return r
}

func (s *Server) handleCreateContext(w http.ResponseWriter, r *http.Request) {
	view, err := s.Service.CreateContext()
	if err != nil {
		s.writeDomainError(w, err, "create context failed")
		return
	}

	if s.Log != nil {
		s.Log.Info("cart context created", zap.String("context_id", view.ContextID))
	}
	kit.WriteSuccess(w, http.StatusCreated, view, "Cart context created")
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	contextID := r.URL.Query().Get("contextId")
	if contextID == "" {
		kit.WriteFail(w, http.StatusBadRequest, "validation_error", "contextId is required")
		return
	}

	view, err := s.Service.GetCart(contextID)
	if err != nil {
		s.writeDomainError(w, err, "get cart failed", zap.String("context_id", contextID))
		return
	}

	kit.WriteSuccess(w, http.StatusOK, view, "Cart fetched successfully")
}

type upsertReq struct {
	ContextID string `json:"contextId"`
	Items     []Item `json:"items"`
}

func (s *Server) handleUpsertItems(w http.ResponseWriter, r *http.Request) {
	var req upsertReq
	if !s.decode(w, r, &req) {
		return
	}
	if req.ContextID == "" || len(req.Items) == 0 {
		kit.WriteFail(w, http.StatusBadRequest, "validation_error", "contextId and items are required")
		return
	}

	idemKey := r.Header.Get(HeaderIdempotencyKey)

	res, err := s.Service.UpsertItems(req.ContextID, req.Items, idemKey)
	if err != nil {
		s.writeDomainError(w, err, "upsert items failed", zap.String("context_id", req.ContextID))
		return
	}

	if res.Replayed {
		if s.Log != nil {
			s.Log.Info("idempotent replay",
				zap.String("context_id", req.ContextID),
				zap.String("idempotency_key", idemKey),
			)
		}
		w.Header().Set(HeaderIdempotentReplay, "true")
	}

	// The frozen body is embedded verbatim so a replay is byte-identical
	// to the first response.
	kit.WriteSuccess(w, http.StatusOK, res.Body, "Items added/updated successfully")
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	contextID := r.URL.Query().Get("contextId")
	if contextID == "" {
		kit.WriteFail(w, http.StatusBadRequest, "validation_error", "contextId is required")
		return
	}
	sku := chi.URLParam(r, "sku")

	view, err := s.Service.RemoveItem(contextID, sku)
	if err != nil {
		s.writeDomainError(w, err, "remove item failed",
			zap.String("context_id", contextID), zap.String("sku", sku))
		return
	}

	kit.WriteSuccess(w, http.StatusOK, view, "Item "+sku+" removed successfully")
}

type contextReq struct {
	ContextID string `json:"contextId"`
}

func (s *Server) handleRefreshCart(w http.ResponseWriter, r *http.Request) {
	var req contextReq
	if !s.decode(w, r, &req) {
		return
	}
	if req.ContextID == "" {
		kit.WriteFail(w, http.StatusBadRequest, "validation_error", "contextId is required")
		return
	}

	view, err := s.Service.ExtendContext(req.ContextID)
	if err != nil {
		s.writeDomainError(w, err, "extend context failed", zap.String("context_id", req.ContextID))
		return
	}

	kit.WriteSuccess(w, http.StatusOK, view, "Context extended successfully")
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req contextReq
	if !s.decode(w, r, &req) {
		return
	}
	if req.ContextID == "" {
		kit.WriteFail(w, http.StatusBadRequest, "validation_error", "contextId is required")
		return
	}

	view, err := s.Service.Checkout(req.ContextID)
	if err != nil {
		s.writeDomainError(w, err, "checkout failed", zap.String("context_id", req.ContextID))
		return
	}

	if s.Log != nil {
		s.Log.Info("checkout complete",
			zap.String("context_id", req.ContextID),
			zap.String("order_id", view.OrderID),
		)
	}
	kit.WriteSuccess(w, http.StatusOK, view, "Checkout successful")
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		kit.WriteFail(w, http.StatusBadRequest, "validation_error", "bad json")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		kit.WriteFail(w, http.StatusBadRequest, "validation_error", "extra data after json object")
		return false
	}
	return true
}

// writeDomainError maps the closed error set to HTTP statuses. Internal
// errors never leak detail in production.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, logMsg string, fields ...zap.Field) {
	var (
		expired *session.ExpiredError
		unproc  *pricing.UnprocessableError
	)

	switch {
	case errors.Is(err, session.ErrNotFound):
		kit.WriteFail(w, http.StatusNotFound, "context_not_found", err.Error())
	case errors.As(err, &expired):
		kit.WriteFail(w, http.StatusConflict, "context_expired", expired.Error())
	case errors.Is(err, ErrItemNotInCart):
		kit.WriteFail(w, http.StatusNotFound, "sku_not_found", err.Error())
	case errors.Is(err, ErrCheckedOut):
		kit.WriteFail(w, http.StatusConflict, "cart_checked_out", err.Error())
	case errors.As(err, &unproc):
		kit.WriteFail(w, http.StatusUnprocessableEntity, "unprocessable", unproc.Error())
	default:
		if s.Log != nil {
			s.Log.Error(logMsg, append(fields, zap.Error(err))...)
		}
		msg := err.Error()
		if s.Production {
			msg = "internal server error"
		}
		kit.WriteFail(w, http.StatusInternalServerError, "internal_error", msg)
		return
	}

	if s.Log != nil {
		s.Log.Info(logMsg, append(fields, zap.Error(err))...)
	}
}
