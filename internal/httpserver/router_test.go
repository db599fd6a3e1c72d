package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"seesaw/internal/domain"
	"seesaw/internal/payment"
	tokenrepo "seesaw/internal/repository/token"
	cartsvc "seesaw/internal/service/cart"
	checkoutsvc "seesaw/internal/service/checkout"
	couponsvc "seesaw/internal/service/coupon"
	customersvc "seesaw/internal/service/customer"
	guestsvc "seesaw/internal/service/guest"
	"seesaw/internal/service/merge"
	wishlistsvc "seesaw/internal/service/wishlist"
	"seesaw/internal/store/local"
)

func logDiscard() *log.Logger { return log.New(io.Discard, "", 0) }

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]tokenrepo.Token
}

func newMemTokens() *memTokens { return &memTokens{tokens: make(map[string]tokenrepo.Token)} }

func (m *memTokens) Create(_ context.Context, t tokenrepo.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	m.tokens[t.Token] = t
	return nil
}

func (m *memTokens) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *memTokens) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

type memCustomers struct {
	mu   sync.Mutex
	next int
	byID map[string]domain.Customer
}

func newMemCustomers() *memCustomers { return &memCustomers{byID: make(map[string]domain.Customer)} }

func (m *memCustomers) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == c.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	m.next++
	c.ID = fmt.Sprintf("cust-%d", m.next)
	m.byID[c.ID] = c
	return &c, nil
}

func (m *memCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Email == email {
			out := c
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := c
	return &out, nil
}

type memCarts struct {
	mu    sync.Mutex
	lines map[string][]domain.CartLine
}

func newMemCarts() *memCarts { return &memCarts{lines: make(map[string][]domain.CartLine)} }

func (m *memCarts) Load(_ context.Context, userID string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.lines[userID]...), nil
}

func (m *memCarts) UpsertLine(_ context.Context, userID string, line domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.lines[userID] {
		if l.Key() == line.Key() {
			m.lines[userID][i] = line
			return nil
		}
	}
	m.lines[userID] = append(m.lines[userID], line)
	return nil
}

func (m *memCarts) RemoveLine(_ context.Context, userID string, key domain.VariantKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.lines[userID][:0]
	for _, l := range m.lines[userID] {
		if l.Key() != key {
			kept = append(kept, l)
		}
	}
	m.lines[userID] = kept
	return nil
}

func (m *memCarts) UpdateQuantity(_ context.Context, userID string, key domain.VariantKey, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.lines[userID] {
		if l.Key() == key {
			m.lines[userID][i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memCarts) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, userID)
	return nil
}

func (m *memCarts) quantity(userID string, key domain.VariantKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lines[userID] {
		if l.Key() == key {
			return l.Quantity
		}
	}
	return 0
}

type memWishlists struct {
	mu  sync.Mutex
	ids map[string][]string
}

func newMemWishlists() *memWishlists { return &memWishlists{ids: make(map[string][]string)} }

func (m *memWishlists) Load(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ids[userID]...), nil
}

func (m *memWishlists) Add(_ context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.ids[userID] {
		if id == productID {
			return nil
		}
	}
	m.ids[userID] = append(m.ids[userID], productID)
	return nil
}

func (m *memWishlists) Remove(_ context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.ids[userID][:0]
	for _, id := range m.ids[userID] {
		if id != productID {
			kept = append(kept, id)
		}
	}
	m.ids[userID] = kept
	return nil
}

func (m *memWishlists) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, userID)
	return nil
}

type memCoupons struct {
	mu       sync.Mutex
	byCode   map[string]domain.Coupon
	redeemed map[string]bool
}

func newMemCoupons() *memCoupons {
	return &memCoupons{byCode: make(map[string]domain.Coupon), redeemed: make(map[string]bool)}
}

func (m *memCoupons) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memCoupons) Redeem(_ context.Context, couponID, orderNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redeemed[couponID+"/"+orderNumber] = true
	return nil
}

type memProducts struct {
	products []domain.Product
}

func (m *memProducts) List(_ context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), m.products...), nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memProducts) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memProducts) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	m.products = append(m.products, p)
	return &p, nil
}

type memOrders struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func newMemOrders() *memOrders { return &memOrders{orders: make(map[string]domain.Order)} }

func (m *memOrders) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.OrderNumber]; ok {
		return nil, domain.ErrAlreadyExists
	}
	m.orders[o.OrderNumber] = o
	return &o, nil
}

func (m *memOrders) GetByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, orderNumber, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderNumber]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	m.orders[orderNumber] = o
	return nil
}

// fakeGateway marks every created session paid immediately, echoing metadata
// back the way the real gateway does.
type fakeGateway struct {
	mu       sync.Mutex
	next     int
	sessions map[string]payment.Status
}

func newFakeGateway() *fakeGateway { return &fakeGateway{sessions: make(map[string]payment.Status)} }

func (g *fakeGateway) CreateSession(_ context.Context, in payment.SessionInput) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	id := fmt.Sprintf("sess_%d", g.next)
	g.sessions[id] = payment.Status{
		ID:          id,
		OrderNumber: in.OrderNumber,
		Email:       in.Email,
		Paid:        true,
		Metadata:    in.Metadata,
	}
	return &payment.Session{ID: id, URL: "https://pay.example/" + id}, nil
}

func (g *fakeGateway) GetSession(_ context.Context, sessionID string) (*payment.Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

type testEnv struct {
	router    *gin.Engine
	carts     *memCarts
	wishlists *memWishlists
	coupons   *memCoupons
	products  *memProducts
	orders    *memOrders
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := newMemTokens()
	customers := newMemCustomers()
	carts := newMemCarts()
	wishlists := newMemWishlists()
	coupons := newMemCoupons()
	products := &memProducts{}
	orders := newMemOrders()

	localStore := local.New(local.NewMemorySlots(), logDiscard())
	cartSvc := cartsvc.New(carts, localStore, logDiscard())
	wishlistSvc := wishlistsvc.New(wishlists, localStore, logDiscard())
	couponSvc := couponsvc.New(coupons, logDiscard())
	checkoutSvc := checkoutsvc.New(newFakeGateway(), orders, couponSvc, cartSvc,
		"EUR", 500, "https://shop.example/checkout/success", "https://shop.example/checkout", logDiscard())

	deps := Deps{
		CustomerSvc: customersvc.New(customers, tokens),
		GuestSvc:    guestsvc.New(tokens),
		CartSvc:     cartSvc,
		WishlistSvc: wishlistSvc,
		CouponSvc:   couponSvc,
		CheckoutSvc: checkoutSvc,
		MergeEngine: merge.NewEngine(localStore, carts, wishlists, logDiscard()),
		LocalStore:  localStore,
		ProductRepo: products,
		OrderRepo:   orders,
	}

	router, err := buildRouter(logDiscard(), nil, deps, "http://localhost:3000")
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testEnv{
		router:    router,
		carts:     carts,
		wishlists: wishlists,
		coupons:   coupons,
		products:  products,
		orders:    orders,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) guestToken(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/session/guest", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("guest session: %d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		DeviceToken string `json:"deviceToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode guest session: %v", err)
	}
	return out.DeviceToken
}

func (e *testEnv) signup(t *testing.T, deviceToken, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"longenough","firstName":"Ada"}`, email)
	rec := e.do(t, http.MethodPost, "/auth/signup", body, map[string]string{"X-Device-Token": deviceToken})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	return out.AccessToken
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCartRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/cart", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	device := env.guestToken(t)
	headers := map[string]string{"X-Device-Token": device}

	line := `{"productId":"p1","name":"Linen Shirt","priceCents":4900,"size":"M","color":"white","quantity":2}`
	rec := env.do(t, http.MethodPost, "/cart/items", line, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: %d body=%s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/cart", "", headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d body=%s", rec.Code, rec.Body.String())
	}
	var view cartView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if view.TotalItems != 2 || view.SubtotalCents != 9800 {
		t.Fatalf("unexpected totals: %+v", view)
	}
}

func TestSignupMergesGuestCart(t *testing.T) {
	env := newTestEnv(t)
	device := env.guestToken(t)
	guestHeaders := map[string]string{"X-Device-Token": device}

	line := `{"productId":"p1","name":"Linen Shirt","priceCents":4900,"size":"M","color":"white","quantity":2}`
	if rec := env.do(t, http.MethodPost, "/cart/items", line, guestHeaders); rec.Code != http.StatusOK {
		t.Fatalf("guest add: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/wishlist/toggle", `{"productId":"p9"}`, guestHeaders); rec.Code != http.StatusOK {
		t.Fatalf("guest wishlist: %d", rec.Code)
	}

	access := env.signup(t, device, "ada@example.com")
	authHeaders := map[string]string{
		"Authorization":  "Bearer " + access,
		"X-Device-Token": device,
	}

	rec := env.do(t, http.MethodGet, "/cart", "", authHeaders)
	var view cartView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if view.TotalItems != 2 {
		t.Fatalf("guest lines did not reach the account cart: %+v", view)
	}

	rec = env.do(t, http.MethodGet, "/wishlist", "", authHeaders)
	if !strings.Contains(rec.Body.String(), `"p9"`) {
		t.Fatalf("guest wishlist did not reach the account: %s", rec.Body.String())
	}

	key := domain.VariantKey{ProductID: "p1", Size: "M", Color: "white"}
	if got := env.carts.quantity("cust-1", key); got != 2 {
		t.Fatalf("remote quantity = %d, want 2", got)
	}
}

func TestLoginMergeOverwritesRemoteQuantity(t *testing.T) {
	env := newTestEnv(t)

	// Existing account with a stale remote quantity.
	firstDevice := env.guestToken(t)
	env.signup(t, firstDevice, "ada@example.com")
	key := domain.VariantKey{ProductID: "p1", Size: "M", Color: "white"}
	_ = env.carts.UpsertLine(context.Background(), "cust-1", domain.CartLine{
		ProductID: "p1", Name: "Linen Shirt", PriceCents: 4900, Size: "M", Color: "white", Quantity: 5,
	})

	// Second device shops as a guest, then signs in.
	device := env.guestToken(t)
	guestHeaders := map[string]string{"X-Device-Token": device}
	line := `{"productId":"p1","name":"Linen Shirt","priceCents":4900,"size":"M","color":"white","quantity":2}`
	if rec := env.do(t, http.MethodPost, "/cart/items", line, guestHeaders); rec.Code != http.StatusOK {
		t.Fatalf("guest add: %d", rec.Code)
	}

	body := `{"email":"ada@example.com","password":"longenough"}`
	rec := env.do(t, http.MethodPost, "/auth/login", body, guestHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d body=%s", rec.Code, rec.Body.String())
	}

	// The device's line wins over the remote one for the same variant.
	if got := env.carts.quantity("cust-1", key); got != 2 {
		t.Fatalf("remote quantity = %d, want 2", got)
	}
}

func TestValidateCouponHandler(t *testing.T) {
	env := newTestEnv(t)
	env.coupons.byCode["SAVE20"] = domain.Coupon{
		ID: "c1", Code: "SAVE20", DiscountType: domain.DiscountPercentage, DiscountValue: 20, IsActive: true,
	}

	rec := env.do(t, http.MethodPost, "/coupons/validate", `{"code":"save20","subtotal":100000}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"discountAmount":20000`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/coupons/validate", `{"code":"NOPE","subtotal":100000}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown code, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"valid":false`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestProductViewFeedsRecentlyViewed(t *testing.T) {
	env := newTestEnv(t)
	env.products.products = []domain.Product{
		{ID: "p1", Slug: "linen-shirt", Name: "Linen Shirt", PriceCents: 4900, Currency: "EUR"},
	}
	device := env.guestToken(t)
	headers := map[string]string{"X-Device-Token": device}

	if rec := env.do(t, http.MethodGet, "/products/linen-shirt", "", headers); rec.Code != http.StatusOK {
		t.Fatalf("get product: %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/recently-viewed", "", headers)
	if !strings.Contains(rec.Body.String(), `"id":"p1"`) {
		t.Fatalf("recently viewed missing product: %s", rec.Body.String())
	}
}

func TestCheckoutRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	device := env.guestToken(t)
	headers := map[string]string{"X-Device-Token": device}

	line := `{"productId":"p1","name":"Linen Shirt","priceCents":4900,"size":"M","color":"white","quantity":1}`
	if rec := env.do(t, http.MethodPost, "/cart/items", line, headers); rec.Code != http.StatusOK {
		t.Fatalf("add: %d", rec.Code)
	}

	start := `{"email":"guest@example.com","address":{"fullName":"Ada L","line1":"1 Main St","city":"Berlin","postalCode":"10115","country":"DE"}}`
	rec := env.do(t, http.MethodPost, "/checkout/session", start, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: %d body=%s", rec.Code, rec.Body.String())
	}
	var started checkoutsvc.StartResult
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start: %v", err)
	}

	confirm := fmt.Sprintf(`{"orderNumber":%q,"sessionId":%q}`, started.OrderNumber, started.SessionID)
	rec = env.do(t, http.MethodPost, "/checkout/confirm", confirm, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: %d body=%s", rec.Code, rec.Body.String())
	}

	order, err := env.orders.GetByNumber(context.Background(), started.OrderNumber)
	if err != nil {
		t.Fatalf("order not written: %v", err)
	}
	if order.TotalCents != 4900+500 {
		t.Fatalf("total = %d, want %d", order.TotalCents, 4900+500)
	}

	// The cart is consumed by the purchase.
	rec = env.do(t, http.MethodGet, "/cart", "", headers)
	var view cartView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if view.TotalItems != 0 {
		t.Fatalf("cart not cleared after purchase: %+v", view)
	}
}

func TestGetOrderScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := "cust-1"
	_, _ = env.orders.Create(context.Background(), domain.Order{
		OrderNumber: "SSW-1", UserID: &owner, Email: "ada@example.com", Status: domain.OrderPaid,
	})

	device := env.guestToken(t)
	rec := env.do(t, http.MethodGet, "/orders/SSW-1", "", map[string]string{"X-Device-Token": device})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", rec.Code)
	}
}
