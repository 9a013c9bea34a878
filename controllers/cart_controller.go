package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/choudharyperfumes/storefront/cart"
	"github.com/choudharyperfumes/storefront/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const CartCookieName = "cart_id"

type cartLine struct {
	cart.Item
	Key      string          `json:"key"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items []cartLine      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	Toast *toastView      `json:"toast,omitempty"`
}

type toastView struct {
	Message        string `json:"message"`
	DismissAfterMs int64  `json:"dismissAfterMs"`
}

func viewCart(e *cart.Engine) cartView {
	items := e.Items()
	lines := make([]cartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, cartLine{Item: it, Key: it.Key(), Subtotal: it.Subtotal()})
	}
	return cartView{Items: lines, Count: e.Count(), Total: e.Total()}
}

// cartID reads the cart cookie, issuing a fresh id when it is missing or
// was not issued by us.
func (a *App) cartID(c *gin.Context) string {
	if id, err := c.Cookie(CartCookieName); err == nil {
		if _, perr := uuid.Parse(id); perr == nil {
			return id
		}
	}
	id := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CartCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(a.Config.CartTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (a *App) openCart(c *gin.Context, notifier *cart.Notifier) *cart.Engine {
	return cart.Open(c.Request.Context(), a.cartID(c), a.Carts, notifier)
}

func cartSaveFailed(c *gin.Context, route string, err error) {
	log.Printf("%s: %v", route, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
}

func (a *App) GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, viewCart(a.openCart(c, nil)))
	}
}

// AddCartItem snapshots the product as it is now. Adding the same product
// and volume again bumps the quantity by one.
func (a *App) AddCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.AddCartItemDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "productId is required")
			return
		}

		p, err := a.Store.GetProduct(ctx, body.ProductID)
		if err != nil {
			storeError(c, "POST /api/cart/items", err, "Product not found", "Failed to fetch product")
			return
		}
		item, err := cart.NewItem(*p, body.Volume)
		if err != nil {
			switch {
			case errors.Is(err, cart.ErrOutOfStock):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		notifier := cart.NewNotifier(a.Config.ToastDuration)
		defer notifier.Stop()

		e := a.openCart(c, notifier)
		if err := e.Add(ctx, item); err != nil {
			cartSaveFailed(c, "POST /api/cart/items", err)
			return
		}

		view := viewCart(e)
		if msg, ok := notifier.Current(); ok {
			view.Toast = &toastView{Message: msg, DismissAfterMs: notifier.Delay().Milliseconds()}
		}
		c.JSON(http.StatusOK, view)
	}
}

// UpdateCartItem sets the quantity; below 1 removes the line. Only a
// positive quantity on an unknown key is a 404.
func (a *App) UpdateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateCartItemDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "quantity is required")
			return
		}

		e := a.openCart(c, nil)
		key := c.Param("key")
		if *body.Quantity < 1 {
			// same as removing, which is a no-op for unknown keys
			if err := e.Remove(c.Request.Context(), key); err != nil {
				cartSaveFailed(c, "PUT /api/cart/items/:key", err)
				return
			}
			c.JSON(http.StatusOK, viewCart(e))
			return
		}
		if !e.Has(key) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		if err := e.SetQuantity(c.Request.Context(), key, *body.Quantity); err != nil {
			cartSaveFailed(c, "PUT /api/cart/items/:key", err)
			return
		}
		c.JSON(http.StatusOK, viewCart(e))
	}
}

// RemoveCartItem is a no-op for keys that are not in the cart.
func (a *App) RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		e := a.openCart(c, nil)
		if err := e.Remove(c.Request.Context(), c.Param("key")); err != nil {
			cartSaveFailed(c, "DELETE /api/cart/items/:key", err)
			return
		}
		c.JSON(http.StatusOK, viewCart(e))
	}
}

func (a *App) ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		e := a.openCart(c, nil)
		if err := e.Clear(c.Request.Context()); err != nil {
			cartSaveFailed(c, "DELETE /api/cart", err)
			return
		}
		c.JSON(http.StatusOK, viewCart(e))
	}
}

// Checkout only composes the WhatsApp message; no order is stored and the
// cart is left as it is.
func (a *App) Checkout() gin.HandlerFunc {
	return func(c *gin.Context) {
		e := a.openCart(c, nil)
		items := e.Items()
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}

		msg := cart.ComposeMessage(a.Config.StoreName, items)
		c.JSON(http.StatusOK, gin.H{
			"message":   msg,
			"url":       cart.WhatsAppURL(a.WhatsAppNumber(c.Request.Context()), msg),
			"itemCount": e.Count(),
			"total":     e.Total(),
		})
	}
}

// BuyNow builds the single product message from a product page without
// touching the cart.
func (a *App) BuyNow() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.BuyNowDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "productId is required and quantity must be 1 to 99")
			return
		}

		p, err := a.Store.GetProduct(ctx, body.ProductID)
		if err != nil {
			storeError(c, "POST /api/checkout/buy-now", err, "Product not found", "Failed to fetch product")
			return
		}
		item, err := cart.NewItem(*p, body.Volume)
		if err != nil {
			if errors.Is(err, cart.ErrOutOfStock) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.Quantity > 0 {
			item.Quantity = body.Quantity
		}

		msg := cart.ComposeBuyNow(a.Config.StoreName, item)
		c.JSON(http.StatusOK, gin.H{
			"message":   msg,
			"url":       cart.WhatsAppURL(a.WhatsAppNumber(ctx), msg),
			"itemCount": item.Quantity,
			"total":     item.Subtotal(),
		})
	}
}
