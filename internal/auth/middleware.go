// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKeyUser is the echo context key holding the authenticated username.
const ContextKeyUser = "auth_user"

// Middleware returns an echo middleware that requires a valid bearer token.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "missing bearer token"})
			}
			user, err := a.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid or expired token"})
			}
			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}
