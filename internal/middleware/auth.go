package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // bounds identity lookups with a timeout
    "errors"   // sentinel error matching
    "net/http" // HTTP status codes for responses
    "time"     // lookup timeout duration

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/arashn/storefront/internal/model"
    "github.com/arashn/storefront/internal/repository"
    "github.com/arashn/storefront/internal/utils"
)

// UserGetter is the identity lookup the route guard needs; satisfied by
// *repository.UserRepo and by test fakes.
type UserGetter interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Protect returns an Echo middleware that validates the access token cookie
// and loads the matching account.  Handlers behind it read the identity via
// `c.Get("user")`.  Every token or identity resolution failure (missing
// cookie, bad signature, expired token, unknown user) maps to 401; only a
// failing user store yields 500.
func Protect(accessSecret, cookieName string, users UserGetter) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ck, err := c.Cookie(cookieName)
            if err != nil || ck.Value == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized: Access token missing"})
            }
            userID, err := utils.ParseUserID(accessSecret, ck.Value)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized: Invalid access token"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            u, err := users.GetByID(ctx, userID)
            if err != nil {
                if errors.Is(err, repository.ErrNotFound) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized: User not found"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
            }
            // The password hash stays inside the repository/model layers and
            // is never serialized; handlers respond with DTOs.
            c.Set("user", u)
            return next(c)
        }
    }
}

// AdminOnly gates a route to admin accounts.  It assumes Protect already
// ran and attached the identity; a missing identity is treated the same as
// an insufficient role.
func AdminOnly() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            u, ok := c.Get("user").(model.User)
            if !ok || u.Role != model.RoleAdmin {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden: Admins only"})
            }
            return next(c)
        }
    }
}

// CurrentUser extracts the identity attached by Protect.  The boolean is
// false when the guard did not run on this route.
func CurrentUser(c echo.Context) (model.User, bool) {
    u, ok := c.Get("user").(model.User)
    return u, ok
}
