package controllers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func createProduct(t *testing.T, e *testEnv, admin *http.Cookie, body map[string]interface{}) models.Product {
	t.Helper()
	w := e.do(http.MethodPost, "/api/products", body, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Product](t, w)
}

func TestAddProduct_Defaults(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)

	p := createProduct(t, e, admin, map[string]interface{}{
		"name":     "Royal Musk!!",
		"price":    799,
		"category": "attar",
		"volumes":  []map[string]interface{}{{"volume": "6ml", "price": 450}, {"volume": "12ml", "price": 799}},
	})

	assert.NotEmpty(t, p.Id)
	assert.Equal(t, "royal-musk", p.Slug)
	assert.Equal(t, models.GenderUnisex, p.Gender)
	assert.Equal(t, models.PlaceholderImage, p.ImageUrl)
	assert.True(t, p.InStock)
	assert.False(t, p.Featured)
	require.Len(t, p.Volumes, 2)
	assert.Equal(t, "6ml", p.Volumes[0].Volume)

	w := e.do(http.MethodGet, "/api/products/"+p.Id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Product](t, w)
	assert.Equal(t, p.Name, got.Name)
	assert.Len(t, got.Volumes, 2)

	w = e.do(http.MethodGet, "/api/products/slug/royal-musk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, p.Id, decode[models.Product](t, w).Id)
}

func TestAddProduct_Validation(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)

	cases := []map[string]interface{}{
		{"price": 100, "category": "attar"},
		{"name": "No Price", "category": "attar"},
		{"name": "Bad Category", "price": 100, "category": "candle"},
		{"name": "Zero", "price": 0, "category": "perfume"},
	}
	for _, body := range cases {
		w := e.do(http.MethodPost, "/api/products", body, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
		assert.Contains(t, w.Body.String(), "Missing required fields")
	}

	w := e.do(http.MethodPost, "/api/products", "{not json", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request"}`, w.Body.String())

	w = e.do(http.MethodPost, "/api/products", map[string]interface{}{"name": "!!!", "price": 10, "category": "attar"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "slug")
}

func TestAddProduct_DuplicateSlug(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)

	createProduct(t, e, admin, map[string]interface{}{"name": "Oud Wood", "price": 1200, "category": "perfume"})
	w := e.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Another", "slug": "OUD wood", "price": 900, "category": "perfume",
	}, admin)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"slug already exists","field":"slug"}`, w.Body.String())
}

func TestMutationsNeedSession(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)
	p := createProduct(t, e, admin, map[string]interface{}{"name": "Oud Wood", "price": 1200, "category": "perfume"})

	w := e.do(http.MethodDelete, "/api/products/"+p.Id, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, "/api/products", map[string]interface{}{"name": "X", "price": 1, "category": "attar"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, err := e.store.GetProduct(context.Background(), p.Id)
	assert.NoError(t, err)
}

func TestGetProducts_Filters(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)

	createProduct(t, e, admin, map[string]interface{}{"name": "Royal Musk", "brand": "Choudhary", "price": 799, "category": "attar", "gender": "men", "featured": true})
	createProduct(t, e, admin, map[string]interface{}{"name": "Rose Petal", "price": 450, "category": "attar", "gender": "women", "inStock": false})
	createProduct(t, e, admin, map[string]interface{}{"name": "Blue Ocean", "brand": "Aqua", "price": 1500, "category": "perfume"})

	names := func(path string) []string {
		w := e.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out []string
		for _, p := range decode[[]models.Product](t, w) {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Royal Musk", "Rose Petal", "Blue Ocean"}, names("/api/products"))
	assert.Equal(t, []string{"Royal Musk", "Rose Petal"}, names("/api/products?category=attar"))
	assert.Equal(t, []string{"Rose Petal"}, names("/api/products?gender=women"))
	assert.Equal(t, []string{"Blue Ocean"}, names("/api/products?q=aqua"))
	assert.Equal(t, []string{"Royal Musk"}, names("/api/products?featured=true"))
	assert.Equal(t, []string{"Royal Musk", "Blue Ocean"}, names("/api/products?inStock=true"))
	assert.Equal(t, []string{"Rose Petal", "Royal Musk", "Blue Ocean"}, names("/api/products?sort=price_asc"))
	assert.Equal(t, []string{"Blue Ocean", "Royal Musk", "Rose Petal"}, names("/api/products?sort=price_desc"))
	assert.Equal(t, []string{"Blue Ocean", "Rose Petal", "Royal Musk"}, names("/api/products?sort=name"))
	assert.Equal(t, []string{"Rose Petal", "Royal Musk"}, names("/api/products?sort=price_asc&limit=2"))
	assert.Len(t, names("/api/products?limit=abc"), 3)
	assert.Empty(t, names("/api/products?q=nothing"))
}

func TestGetProduct_NotFound(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.do(http.MethodGet, "/api/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())

	w = e.do(http.MethodGet, "/api/products/slug/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProduct_Partial(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)
	p := createProduct(t, e, admin, map[string]interface{}{
		"name": "Royal Musk", "price": 799, "category": "attar", "description": "warm",
		"volumes": []map[string]interface{}{{"volume": "6ml", "price": 450}},
	})

	w := e.do(http.MethodPut, "/api/products/"+p.Id, map[string]interface{}{"price": 899}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[models.Product](t, w)
	assert.Equal(t, 899.0, got.Price)
	assert.Equal(t, "royal-musk", got.Slug)
	assert.Equal(t, "warm", got.Description)
	assert.Len(t, got.Volumes, 1)

	w = e.do(http.MethodPut, "/api/products/"+p.Id, map[string]interface{}{"name": "Royal Musk Intense"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "royal-musk-intense", decode[models.Product](t, w).Slug)

	w = e.do(http.MethodPut, "/api/products/"+p.Id, map[string]interface{}{"slug": "Musk 2026"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "musk-2026", decode[models.Product](t, w).Slug)

	w = e.do(http.MethodPut, "/api/products/"+p.Id, map[string]interface{}{
		"volumes": []map[string]interface{}{{"volume": "3ml", "price": 250}, {"volume": "12ml", "price": 799}},
	}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := e.store.GetProduct(context.Background(), p.Id)
	require.NoError(t, err)
	require.Len(t, stored.Volumes, 2)
	assert.Equal(t, "3ml", stored.Volumes[0].Volume)

	w = e.do(http.MethodPut, "/api/products/"+p.Id, map[string]interface{}{"volumes": []interface{}{}}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	stored, err = e.store.GetProduct(context.Background(), p.Id)
	require.NoError(t, err)
	assert.Empty(t, stored.Volumes)

	w = e.do(http.MethodPut, "/api/products/missing", map[string]interface{}{"price": 1}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProduct_SlugConflict(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)
	createProduct(t, e, admin, map[string]interface{}{"name": "Oud Wood", "price": 1200, "category": "perfume"})
	p := createProduct(t, e, admin, map[string]interface{}{"name": "Amber", "price": 900, "category": "perfume"})

	w := e.do(http.MethodPut, "/api/products/"+p.Id, map[string]interface{}{"name": "Oud Wood"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"slug already exists","field":"slug"}`, w.Body.String())
}

func TestDeleteProduct_CascadesAndRemovesImage(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)
	ctx := context.Background()

	url, err := e.bucket.Put(ctx, "products/musk-1.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	p := createProduct(t, e, admin, map[string]interface{}{
		"name": "Royal Musk", "price": 799, "category": "attar", "imageUrl": url,
		"volumes": []map[string]interface{}{{"volume": "6ml", "price": 450}},
	})

	w := e.do(http.MethodDelete, "/api/products/"+p.Id, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	volumes, err := e.store.ListVolumes(ctx, p.Id)
	require.NoError(t, err)
	assert.Empty(t, volumes)

	_, err = os.Stat(filepath.Join(e.bucket.Dir(), "products", "musk-1.png"))
	assert.True(t, os.IsNotExist(err))

	w = e.do(http.MethodDelete, "/api/products/"+p.Id, nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportProducts(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)
	createProduct(t, e, admin, map[string]interface{}{
		"name": "Royal Musk", "price": 799, "category": "attar",
		"volumes": []map[string]interface{}{{"volume": "6ml", "price": 450}, {"volume": "12ml", "price": 799.5}},
	})

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/products/export", nil).Code)

	w := e.do(http.MethodGet, "/api/products/export", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0].Cells[1].Value)
	assert.Equal(t, "Royal Musk", rows[1].Cells[1].Value)
	assert.Equal(t, "royal-musk", rows[1].Cells[3].Value)
	assert.Equal(t, "6ml:450,12ml:799.5", rows[1].Cells[7].Value)
}

func TestGetCategories(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.login(t)

	createProduct(t, e, admin, map[string]interface{}{"name": "Royal Musk", "price": 799, "category": "attar"})
	createProduct(t, e, admin, map[string]interface{}{"name": "Rose Petal", "price": 450, "category": "attar", "inStock": false})
	createProduct(t, e, admin, map[string]interface{}{"name": "Blue Ocean", "price": 1500, "category": "perfume"})

	w := e.do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"items":[
		{"slug":"attar","name":"Attars","productCount":2,"inStockCount":1},
		{"slug":"perfume","name":"Perfumes","productCount":1,"inStockCount":1}]}`, w.Body.String())
}
