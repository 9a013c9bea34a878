package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/choudharyperfumes/storefront/auth"
	"github.com/choudharyperfumes/storefront/dto"
	"github.com/choudharyperfumes/storefront/middleware"
	"github.com/choudharyperfumes/storefront/models"
	"github.com/gin-gonic/gin"
)

func (a *App) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		token, sess, err := a.Sessions.Login(c.Request.Context(), body.Username, body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			log.Printf("POST /api/auth/login: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "connection failed"})
			return
		}

		auth.SetSessionCookie(c, token, a.Sessions.TTL(), a.Config.IsProduction())
		c.JSON(http.StatusOK, gin.H{"success": true, "expiresAt": sess.ExpiresAt})
	}
}

// Logout always clears the cookie, even when the session was already gone.
func (a *App) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(auth.CookieName)
		if token != "" {
			if err := a.Sessions.Logout(c.Request.Context(), token); err != nil {
				log.Printf("POST /api/auth/logout: %v", err)
			}
		}
		auth.ClearSessionCookie(c, a.Config.IsProduction())
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (a *App) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(auth.CookieName)
		sess, err := a.Sessions.Validate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"authenticated": true,
			"username":      sess.Username,
			"expiresAt":     sess.ExpiresAt,
		})
	}
}

// ChangePassword runs behind the admin gate. Every session of the admin is
// revoked, so the cookie is cleared and the admin logs in again.
func (a *App) ChangePassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangePasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "New password must be 8 to 72 characters")
			return
		}

		v, ok := c.Get(middleware.AdminSessionKey)
		sess, _ := v.(*models.AdminSession)
		if !ok || sess == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		err := a.Sessions.ChangePassword(c.Request.Context(), sess.Username, body.CurrentPassword, body.NewPassword)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
				return
			}
			log.Printf("PUT /api/auth/password: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
			return
		}

		auth.ClearSessionCookie(c, a.Config.IsProduction())
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
