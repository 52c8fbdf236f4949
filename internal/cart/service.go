package cart

import (
	"encoding/json"
	"time"

	"CartBridge/internal/pricing"
	"CartBridge/internal/session"
)

// ContextView is the external shape of a session.
type ContextView struct {
	ContextID  string `json:"contextId"`
	ExpiresAt  string `json:"expiresAt"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// CartView is assembled fresh on every read; priced lines are never stored.
type CartView struct {
	ContextID string               `json:"contextId"`
	Items     []pricing.PricedItem `json:"items"`
	Currency  string               `json:"currency"`
	Totals    pricing.Totals       `json:"totals"`
	Status    Status               `json:"status"`
	UpdatedAt string               `json:"updatedAt"`
}

type OrderView struct {
	OrderID   string `json:"orderId"`
	ContextID string `json:"contextId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"createdAt"`
}

// UpsertResult carries the frozen response body for an upsert. Replayed
// marks a body served from the idempotency cache instead of a mutation.
type UpsertResult struct {
	Body     json.RawMessage
	Replayed bool
}

// Service coordinates the three stores and the pricing engine. It is the
// sole writer to all of them; every operation on session-scoped state goes
// through the session store's expiry gate first.
type Service struct {
	Sessions session.Store
	Carts    Store
	Idem     IdemStore
	Pricer   *pricing.Engine
	IdemTTL  time.Duration
}

func NewService(sessions session.Store, carts Store, idem IdemStore, pricer *pricing.Engine, idemTTL time.Duration) *Service {
	return &Service{
		Sessions: sessions,
		Carts:    carts,
		Idem:     idem,
		Pricer:   pricer,
		IdemTTL:  idemTTL,
	}
}

func (s *Service) CreateContext() (ContextView, error) {
	sess, err := s.Sessions.Create()
	if err != nil {
		return ContextView{}, err
	}
	return s.contextView(sess), nil
}

func (s *Service) ExtendContext(contextID string) (ContextView, error) {
	sess, err := s.Sessions.Extend(contextID)
	if err != nil {
		return ContextView{}, err
	}
	return s.contextView(sess), nil
}

func (s *Service) GetCart(contextID string) (CartView, error) {
	if _, err := s.Sessions.Get(contextID); err != nil {
		return CartView{}, err
	}
	return s.cartView(contextID)
}

// UpsertItems applies a merge batch. With an idempotency key, the first
// successful response body is frozen and replayed verbatim for duplicates
// within the cache TTL, skipping the mutation entirely.
func (s *Service) UpsertItems(contextID string, items []Item, idemKey string) (UpsertResult, error) {
	if _, err := s.Sessions.Get(contextID); err != nil {
		return UpsertResult{}, err
	}

	if idemKey != "" {
		if body, ok := s.Idem.Get(contextID, idemKey); ok {
			return UpsertResult{Body: body, Replayed: true}, nil
		}
	}

	if err := s.rejectCheckedOut(contextID); err != nil {
		return UpsertResult{}, err
	}

	if err := s.Carts.UpsertItems(contextID, items); err != nil {
		return UpsertResult{}, err
	}

	view, err := s.cartView(contextID)
	if err != nil {
		return UpsertResult{}, err
	}

	body, err := json.Marshal(view)
	if err != nil {
		return UpsertResult{}, err
	}

	if idemKey != "" {
		s.Idem.Set(contextID, idemKey, body, s.IdemTTL)
	}

	return UpsertResult{Body: body}, nil
}

func (s *Service) RemoveItem(contextID, sku string) (CartView, error) {
	if _, err := s.Sessions.Get(contextID); err != nil {
		return CartView{}, err
	}

	if err := s.rejectCheckedOut(contextID); err != nil {
		return CartView{}, err
	}

	existed, err := s.Carts.RemoveItem(contextID, sku)
	if err != nil {
		return CartView{}, err
	}
	if !existed {
		return CartView{}, ErrItemNotInCart
	}

	return s.cartView(contextID)
}

func (s *Service) Checkout(contextID string) (OrderView, error) {
	if _, err := s.Sessions.Get(contextID); err != nil {
		return OrderView{}, err
	}

	c, ok, err := s.Carts.Get(contextID)
	if err != nil {
		return OrderView{}, err
	}
	if ok && c.Status == StatusCheckedOut {
		return OrderView{}, ErrCheckedOut
	}

	order, err := s.Pricer.Checkout(toPricing(c.Items))
	if err != nil {
		return OrderView{}, err
	}

	if err := s.Carts.SetStatus(contextID, StatusCheckedOut); err != nil {
		return OrderView{}, err
	}

	return OrderView{
		OrderID:   order.OrderID,
		ContextID: contextID,
		Amount:    order.AmountCents,
		Currency:  order.Currency,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}, nil
}

// cartView prices the current items and assembles the external view.
// Callers have already passed the session gate.
func (s *Service) cartView(contextID string) (CartView, error) {
	c, ok, err := s.Carts.Get(contextID)
	if err != nil {
		return CartView{}, err
	}
	if !ok {
		c = Cart{
			ContextID: contextID,
			Currency:  pricing.Currency,
			Status:    StatusOpen,
			UpdatedAt: time.Now(),
		}
	}

	priced, err := s.Pricer.Price(toPricing(c.Items))
	if err != nil {
		return CartView{}, err
	}

	return CartView{
		ContextID: contextID,
		Items:     priced.Items,
		Currency:  priced.Currency,
		Totals:    priced.Totals,
		Status:    c.Status,
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Service) rejectCheckedOut(contextID string) error {
	c, ok, err := s.Carts.Get(contextID)
	if err != nil {
		return err
	}
	if ok && c.Status == StatusCheckedOut {
		return ErrCheckedOut
	}
	return nil
}

func (s *Service) contextView(sess session.Session) ContextView {
	return ContextView{
		ContextID:  sess.ID,
		ExpiresAt:  sess.ExpiresAt.UTC().Format(time.RFC3339),
		TTLSeconds: int(s.Sessions.TTL().Seconds()),
	}
}

func toPricing(items []Item) []pricing.Item {
	out := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.Item{SKU: it.SKU, Quantity: it.Quantity})
	}
	return out
}
