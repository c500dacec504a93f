package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
	"github.com/zakolabs/zako-backend/internal/domain/order"
	"github.com/zakolabs/zako-backend/internal/domain/user"
	"github.com/zakolabs/zako-backend/internal/notify"
	"github.com/zakolabs/zako-backend/internal/state"
	"github.com/zakolabs/zako-backend/internal/storage/localstore"
)

func newTestServer(t *testing.T) (*httptest.Server, *state.Manager) {
	t.Helper()

	lg := zaptest.NewLogger(t)
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	gw := notify.NewLocalGateway(lg)
	gw.RequestPermission()

	mgr := state.NewManager(store, gw, lg)
	mgr.Rehydrate()

	h := New(mgr, catalog.NewStaticRepository(), gw, lg)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv, mgr
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func signUp(t *testing.T, srv *httptest.Server) user.User {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/api/users", map[string]string{
		"firstName": "Awa",
		"lastName":  "Biya",
		"phone":     "699000000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var u user.User
	decode(t, resp, &u)
	return u
}

func TestSignUp(t *testing.T) {
	srv, mgr := newTestServer(t)

	u := signUp(t, srv)
	assert.Equal(t, 250, u.Points)
	assert.Equal(t, 0, u.VIPLevel)
	assert.NotEmpty(t, u.ReferralCode)

	assert.Equal(t, state.ScreenHome, mgr.Snapshot().Screen)
}

func TestSignUp_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/users", map[string]string{
		"firstName": "Awa",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/users", "not an object")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrderFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	signUp(t, srv)

	resp := do(t, srv, http.MethodPut, "/api/session/pressing", map[string]string{"id": "1"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Pressing 1 prices per piece at 500, which wins over the tariff default.
	resp = do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{
		"type": "shirt", "quantity": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{
		"type": "shirt", "quantity": 2, "delta": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart struct {
		Items []order.Item    `json:"items"`
		Total decimal.Decimal `json:"total"`
	}
	decode(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(2500).Equal(cart.Total))

	resp = do(t, srv, http.MethodPost, "/api/orders/", map[string]string{"method": "delivery"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var placed order.Order
	decode(t, resp, &placed)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, "Zako Express", placed.PressingName)

	// Cart is empty, the session moved to tracking, and points were awarded
	// for the order value (2500 F -> 25 points).
	resp = do(t, srv, http.MethodGet, "/api/session/", nil)
	var snap struct {
		Screen string `json:"screen"`
		User   struct {
			Points int           `json:"points"`
			Orders []order.Order `json:"orders"`
		} `json:"user"`
		Cart []order.Item `json:"cart"`
	}
	decode(t, resp, &snap)
	assert.Equal(t, "tracking", snap.Screen)
	assert.Empty(t, snap.Cart)
	assert.Equal(t, 275, snap.User.Points)
	require.NotEmpty(t, snap.User.Orders)
	assert.Equal(t, placed.ID, snap.User.Orders[0].ID)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	srv, _ := newTestServer(t)
	signUp(t, srv)
	resp := do(t, srv, http.MethodPut, "/api/session/pressing", map[string]string{"id": "1"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/orders/", map[string]string{"method": "collect"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPlaceOrder_NoUser(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/orders/", map[string]string{"method": "collect"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPlaceOrder_BadMethod(t *testing.T) {
	srv, _ := newTestServer(t)
	signUp(t, srv)

	resp := do(t, srv, http.MethodPost, "/api/orders/", map[string]string{"method": "teleport"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAddCartItem_UnknownGarment(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{
		"type": "spacesuit", "quantity": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAddCartItem_TariffFallback(t *testing.T) {
	srv, _ := newTestServer(t)

	// No pressing selected and no explicit price: the garment tariff applies.
	resp := do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{
		"type": "duvet", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart struct {
		Items []order.Item `json:"items"`
	}
	decode(t, resp, &cart)
	require.Len(t, cart.Items, 1)

	g, ok := catalog.GarmentByType("duvet")
	require.True(t, ok)
	assert.True(t, g.PiecePrice.Equal(cart.Items[0].Price))
}

func TestRemoveCartItem(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"type": "shirt", "quantity": 1})
	do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"type": "pants", "quantity": 1})

	resp := do(t, srv, http.MethodDelete, "/api/cart/items/0", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/cart/", nil)
	var cart struct {
		Items []order.Item `json:"items"`
	}
	decode(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "pants", cart.Items[0].Type)

	resp = do(t, srv, http.MethodDelete, "/api/cart/items/9", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/api/cart/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateOrderStatus(t *testing.T) {
	srv, mgr := newTestServer(t)
	signUp(t, srv)
	do(t, srv, http.MethodPut, "/api/session/pressing", map[string]string{"id": "1"})
	do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"type": "shirt", "quantity": 1})

	resp := do(t, srv, http.MethodPost, "/api/orders/", map[string]string{"method": "collect"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed order.Order
	decode(t, resp, &placed)

	resp = do(t, srv, http.MethodPut, "/api/orders/"+placed.ID+"/status", map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, order.StatusAccepted, mgr.Snapshot().User.Orders[0].Status)

	// Backward move.
	resp = do(t, srv, http.MethodPut, "/api/orders/"+placed.ID+"/status", map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Outside the closed status set.
	resp = do(t, srv, http.MethodPut, "/api/orders/"+placed.ID+"/status", map[string]string{"status": "vanished"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown order.
	resp = do(t, srv, http.MethodPut, "/api/orders/nope/status", map[string]string{"status": "washing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContactLink(t *testing.T) {
	srv, _ := newTestServer(t)
	signUp(t, srv)
	do(t, srv, http.MethodPut, "/api/session/pressing", map[string]string{"id": "1"})
	do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"type": "shirt", "quantity": 1})

	resp := do(t, srv, http.MethodPost, "/api/orders/", map[string]string{"method": "collect"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed order.Order
	decode(t, resp, &placed)

	resp = do(t, srv, http.MethodGet, "/api/orders/"+placed.ID+"/contact-link", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var link struct {
		Link string `json:"link"`
	}
	decode(t, resp, &link)
	assert.Contains(t, link.Link, "https://wa.me/237699123456?text=")
	assert.Contains(t, link.Link, "commande")

	resp = do(t, srv, http.MethodGet, "/api/orders/nope/contact-link", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListOrders(t *testing.T) {
	srv, _ := newTestServer(t)

	// Without a user the list is empty, not an error.
	resp := do(t, srv, http.MethodGet, "/api/orders/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []order.Order
	decode(t, resp, &orders)
	assert.Empty(t, orders)
}

func TestListPressings(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/pressings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []catalog.Pressing
	decode(t, resp, &all)
	assert.Len(t, all, 4)

	resp = do(t, srv, http.MethodGet, "/api/pressings?delivery=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var delivering []catalog.Pressing
	decode(t, resp, &delivering)
	require.Len(t, delivering, 2)
	for _, p := range delivering {
		assert.True(t, p.Delivery)
	}

	resp = do(t, srv, http.MethodGet, "/api/pressings?search=zako", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []catalog.Pressing
	decode(t, resp, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Zako Express", found[0].Name)
}

func TestListGarments(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/garments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var garments []catalog.Garment
	decode(t, resp, &garments)
	assert.Len(t, garments, 14)
}

func TestSelectPressing_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPut, "/api/session/pressing", map[string]string{"id": "999"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSelectOrder(t *testing.T) {
	srv, mgr := newTestServer(t)
	signUp(t, srv)
	do(t, srv, http.MethodPut, "/api/session/pressing", map[string]string{"id": "1"})
	do(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"type": "shirt", "quantity": 1})

	resp := do(t, srv, http.MethodPost, "/api/orders/", map[string]string{"method": "collect"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed order.Order
	decode(t, resp, &placed)

	resp = do(t, srv, http.MethodPut, "/api/session/order", map[string]string{"id": placed.ID})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.NotNil(t, mgr.Snapshot().SelectedOrder)
	assert.Equal(t, placed.ID, mgr.Snapshot().SelectedOrder.ID)

	// Empty id clears the selection.
	resp = do(t, srv, http.MethodPut, "/api/session/order", map[string]string{"id": ""})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, mgr.Snapshot().SelectedOrder)

	resp = do(t, srv, http.MethodPut, "/api/session/order", map[string]string{"id": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	srv, mgr := newTestServer(t)
	signUp(t, srv)

	resp := do(t, srv, http.MethodDelete, "/api/session/user", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	snap := mgr.Snapshot()
	assert.Nil(t, snap.User)
	assert.Equal(t, state.ScreenOnboarding, snap.Screen)
}

func TestSetScreen(t *testing.T) {
	srv, mgr := newTestServer(t)

	resp := do(t, srv, http.MethodPut, "/api/session/screen", map[string]string{"screen": "profile"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, state.ScreenProfile, mgr.Snapshot().Screen)

	resp = do(t, srv, http.MethodPut, "/api/session/screen", map[string]string{"screen": "basement"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotifications(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/notifications/permission", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var perm struct {
		Permission string `json:"permission"`
	}
	decode(t, resp, &perm)
	assert.Equal(t, "granted", perm.Permission)

	resp = do(t, srv, http.MethodPost, "/api/notifications/", map[string]string{"message": "Rappel"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/notifications/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recent []notify.Notification
	decode(t, resp, &recent)
	require.NotEmpty(t, recent)
	assert.Equal(t, "Rappel", recent[len(recent)-1].Title)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPatch, "/api/pressings", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
