package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartResponse struct {
	Items []struct {
		Key       string  `json:"key"`
		ProductID string  `json:"productId"`
		Name      string  `json:"name"`
		Volume    string  `json:"volume"`
		Price     float64 `json:"price"`
		Quantity  int     `json:"quantity"`
		Subtotal  string  `json:"subtotal"`
	} `json:"items"`
	Count int    `json:"count"`
	Total string `json:"total"`
	Toast *struct {
		Message        string `json:"message"`
		DismissAfterMs int64  `json:"dismissAfterMs"`
	} `json:"toast"`
}

type checkoutResponse struct {
	Message   string `json:"message"`
	URL       string `json:"url"`
	ItemCount int    `json:"itemCount"`
	Total     string `json:"total"`
}

func seedCatalog(t *testing.T, e *testEnv) (attar, perfume, soldOut models.Product) {
	t.Helper()
	ctx := context.Background()
	attar = models.Product{
		Name: "Royal Musk", Slug: "royal-musk", Category: models.CategoryAttar, Gender: models.GenderUnisex,
		Price: 799, InStock: true,
		Volumes: []models.VolumeOption{{Volume: "6ml", Price: 450}, {Volume: "12ml", Price: 799}},
	}
	perfume = models.Product{Name: "Oud Wood", Slug: "oud-wood", Category: models.CategoryPerfume, Price: 1200, InStock: true}
	soldOut = models.Product{Name: "Rose Petal", Slug: "rose-petal", Category: models.CategoryAttar, Price: 300}
	for _, p := range []*models.Product{&attar, &perfume, &soldOut} {
		require.NoError(t, e.store.CreateProduct(ctx, p))
	}
	return attar, perfume, soldOut
}

// cartSession replays the cart cookie the first response handed out.
type cartSession struct {
	e      *testEnv
	cookie *http.Cookie
}

func (s *cartSession) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var cookies []*http.Cookie
	if s.cookie != nil {
		cookies = append(cookies, s.cookie)
	}
	w := s.e.do(method, path, body, cookies...)
	if c := findCookie(w, CartCookieName); c != nil {
		s.cookie = c
	}
	return w
}

func TestCart_AddSameLineTwice(t *testing.T) {
	e := newTestEnv(t, nil)
	attar, perfume, _ := seedCatalog(t, e)
	s := &cartSession{e: e}

	r := s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": attar.Id, "volume": "6ml"})
	require.Equal(t, http.StatusOK, r.Code, r.Body.String())
	require.NotNil(t, s.cookie)
	assert.True(t, s.cookie.HttpOnly)

	r = s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": attar.Id, "volume": "6ml"})
	require.Equal(t, http.StatusOK, r.Code)
	r = s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": attar.Id, "volume": "12ml"})
	require.Equal(t, http.StatusOK, r.Code)
	r = s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": perfume.Id})
	require.Equal(t, http.StatusOK, r.Code)

	got := decode[cartResponse](t, r)
	require.Len(t, got.Items, 3)
	assert.Equal(t, attar.Id+"-6ml", got.Items[0].Key)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, 450.0, got.Items[0].Price)
	assert.Equal(t, "900", got.Items[0].Subtotal)
	assert.Equal(t, attar.Id+"-12ml", got.Items[1].Key)
	assert.Equal(t, perfume.Id, got.Items[2].Key)
	assert.Equal(t, 4, got.Count)
	assert.Equal(t, "2899", got.Total)
	require.NotNil(t, got.Toast)
	assert.Equal(t, "Oud Wood added to cart", got.Toast.Message)
	assert.Equal(t, int64(2000), got.Toast.DismissAfterMs)

	r = s.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, r.Code)
	again := decode[cartResponse](t, r)
	assert.Equal(t, 4, again.Count)
	assert.Nil(t, again.Toast)
}

func TestCart_Snapshot(t *testing.T) {
	e := newTestEnv(t, nil)
	_, perfume, _ := seedCatalog(t, e)
	s := &cartSession{e: e}

	s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": perfume.Id})

	perfume.Price = 9999
	require.NoError(t, e.store.UpdateProduct(context.Background(), &perfume, false))

	got := decode[cartResponse](t, s.do(t, http.MethodGet, "/api/cart", nil))
	assert.Equal(t, "1200", got.Total)
}

func TestCart_AddErrors(t *testing.T) {
	e := newTestEnv(t, nil)
	attar, _, soldOut := seedCatalog(t, e)
	s := &cartSession{e: e}

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "missing"}).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": soldOut.Id}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": attar.Id, "volume": "50ml"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/cart/items", map[string]string{}).Code)
}

func TestCart_UpdateQuantityAndRemove(t *testing.T) {
	e := newTestEnv(t, nil)
	attar, perfume, _ := seedCatalog(t, e)
	s := &cartSession{e: e}

	s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": attar.Id, "volume": "6ml"})
	s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": perfume.Id})
	key := attar.Id + "-6ml"

	r := s.do(t, http.MethodPut, "/api/cart/items/"+key, map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, r.Code, r.Body.String())
	got := decode[cartResponse](t, r)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.Equal(t, 6, got.Count)

	for _, n := range []int{0, -1} {
		s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": attar.Id, "volume": "6ml"})
		r = s.do(t, http.MethodPut, "/api/cart/items/"+key, map[string]int{"quantity": n})
		require.Equal(t, http.StatusOK, r.Code)
		got = decode[cartResponse](t, r)
		require.Len(t, got.Items, 1, "quantity %d", n)
		assert.Equal(t, perfume.Id, got.Items[0].Key)
	}

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/cart/items/"+key, map[string]int{"quantity": 2}).Code)
	for _, n := range []int{0, -1} {
		r = s.do(t, http.MethodPut, "/api/cart/items/not-there", map[string]int{"quantity": n})
		require.Equal(t, http.StatusOK, r.Code, "quantity %d", n)
		assert.Len(t, decode[cartResponse](t, r).Items, 1)
	}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/cart/items/"+perfume.Id, map[string]string{}).Code)

	r = s.do(t, http.MethodDelete, "/api/cart/items/not-there", nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Len(t, decode[cartResponse](t, r).Items, 1)

	r = s.do(t, http.MethodDelete, "/api/cart/items/"+perfume.Id, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Empty(t, decode[cartResponse](t, r).Items)
}

func TestCart_ClearAndCorruptState(t *testing.T) {
	e := newTestEnv(t, nil)
	_, perfume, _ := seedCatalog(t, e)
	s := &cartSession{e: e}

	s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": perfume.Id})
	r := s.do(t, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, 0, decode[cartResponse](t, r).Count)

	require.NoError(t, e.carts.Save(context.Background(), s.cookie.Value, []byte("{broken")))
	r = s.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, r.Code)
	got := decode[cartResponse](t, r)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestCart_ForeignCookieGetsFreshCart(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(http.MethodGet, "/api/cart", nil, &http.Cookie{Name: CartCookieName, Value: "../../etc/passwd"})
	require.Equal(t, http.StatusOK, w.Code)
	c := findCookie(w, CartCookieName)
	require.NotNil(t, c)
	assert.NotEqual(t, "../../etc/passwd", c.Value)
}

func TestCheckout(t *testing.T) {
	e := newTestEnv(t, nil)
	attar, perfume, _ := seedCatalog(t, e)
	admin := e.login(t)
	s := &cartSession{e: e}

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/cart/checkout", nil).Code)

	s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": attar.Id, "volume": "6ml"})
	s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": attar.Id, "volume": "6ml"})
	s.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": perfume.Id})

	r := s.do(t, http.MethodPost, "/api/cart/checkout", nil)
	require.Equal(t, http.StatusOK, r.Code, r.Body.String())
	got := decode[checkoutResponse](t, r)

	want := "Hi Choudhary Perfumes! 👋 I would like to order:\n\n" +
		"1. *Royal Musk* (6ml) (x2) - ₹900\n" +
		"2. *Oud Wood* (x1) - ₹1200\n" +
		"\n*Total Items: 3*\n*Total Order Value: ₹2100*\n\n" +
		"Please confirm availability and delivery details. Thanks!"
	assert.Equal(t, want, got.Message)
	assert.Equal(t, 3, got.ItemCount)
	assert.Equal(t, "2100", got.Total)
	assert.True(t, strings.HasPrefix(got.URL, "https://wa.me/916363278962?text="))

	u, err := url.Parse(got.URL)
	require.NoError(t, err)
	assert.Equal(t, want, u.Query().Get("text"))

	// the number comes from settings once it is set
	w := e.do(http.MethodPut, "/api/settings", map[string]string{"key": "whatsapp_number", "value": "+91 98765 43210"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[checkoutResponse](t, s.do(t, http.MethodPost, "/api/cart/checkout", nil))
	assert.True(t, strings.HasPrefix(got.URL, "https://wa.me/919876543210?text="))

	// checkout leaves the cart alone
	assert.Equal(t, 3, decode[cartResponse](t, s.do(t, http.MethodGet, "/api/cart", nil)).Count)
}

func TestBuyNow(t *testing.T) {
	e := newTestEnv(t, nil)
	attar, _, soldOut := seedCatalog(t, e)

	w := e.do(http.MethodPost, "/api/checkout/buy-now", map[string]interface{}{"productId": attar.Id, "volume": "12ml", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[checkoutResponse](t, w)
	assert.Contains(t, got.Message, "1. Royal Musk (12ml) (x2) - ₹1598")
	assert.Equal(t, 2, got.ItemCount)
	assert.Equal(t, "1598", got.Total)
	assert.Nil(t, findCookie(w, CartCookieName))

	w = e.do(http.MethodPost, "/api/checkout/buy-now", map[string]interface{}{"productId": attar.Id, "quantity": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/checkout/buy-now", map[string]interface{}{"productId": soldOut.Id})
	assert.Equal(t, http.StatusConflict, w.Code)
}
