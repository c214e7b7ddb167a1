package handler

import (
    "context"  // provides context with cancellation for store calls
    "errors"   // sentinel error matching
    "net/http" // HTTP status codes and cookie primitives
    "regexp"   // basic email shape validation
    "strings"  // string trimming utilities
    "time"     // timeouts for store calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/arashn/storefront/internal/config"
    "github.com/arashn/storefront/internal/model"
    "github.com/arashn/storefront/internal/repository"
    "github.com/arashn/storefront/internal/session"
    "github.com/arashn/storefront/internal/utils"
)

// Cookie names shared with the route guard.
const (
    AccessCookie  = "accessToken"
    RefreshCookie = "refreshToken"
)

// UserStore is the slice of the user repository the auth endpoints need.
// Declaring it here lets tests drive the handler with an in-memory fake.
type UserStore interface {
    Create(ctx context.Context, name, email, password, role string, cost int) (model.User, error)
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
    Cfg      config.Config
    Users    UserStore
    Sessions session.Store
}

func NewAuthHandler(cfg config.Config, users UserStore, sessions session.Store) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions}
}

// ----- DTOs -----

type signupReq struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
    Role     string `json:"role"` // optional: customer | admin
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// userPart is a user stripped of its password hash for responses.
type userPart struct {
    ID        uint64    `json:"id"`
    Name      string    `json:"name"`
    Email     string    `json:"email"`
    Role      string    `json:"role"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

func toUserPart(u model.User) userPart {
    return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role,
        CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

// emailShape is the permissive local@domain check used at signup.
var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Signup: validate, create the user and issue a full session.
func (h *AuthHandler) Signup(c echo.Context) error {
    var req signupReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Name == "" || req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "All fields are required"})
    }
    if len(req.Password) < 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password must be at least 6 characters long"})
    }
    if !emailShape.MatchString(req.Email) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email format"})
    }
    role := model.RoleCustomer
    if req.Role != "" {
        if !model.ValidRole(req.Role) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid role. Must be 'customer' or 'admin'"})
        }
        role = req.Role
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, role, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is already in use"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }

    if err := h.openSession(ctx, c, u.ID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "User registered successfully",
        "user":    toUserPart(u),
    })
}

// Login: verify credentials and issue a full session.  A missing account
// and a wrong password produce the same response on purpose.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email or password"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email or password"})
    }

    if err := h.openSession(ctx, c, u.ID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Login successful",
        "user":    toUserPart(u),
    })
}

// Logout is idempotent: a verifiable refresh cookie revokes the cached
// session, a garbage or absent cookie is ignored, and the cookies are
// cleared either way.
func (h *AuthHandler) Logout(c echo.Context) error {
    if ck, err := c.Cookie(RefreshCookie); err == nil && ck.Value != "" {
        if userID, err := utils.ParseUserID(h.Cfg.RefreshSecret, ck.Value); err == nil {
            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            if err := h.Sessions.Delete(ctx, userID); err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
            }
        }
    }
    h.clearAuthCookies(c)
    return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// Refresh mints a new access token when the presented refresh token matches
// the cached one exactly.  The refresh token itself is not rotated; calling
// this endpoint twice with the same cookie succeeds twice.
func (h *AuthHandler) Refresh(c echo.Context) error {
    ck, err := c.Cookie(RefreshCookie)
    if err != nil || ck.Value == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Refresh token missing"})
    }
    userID, err := utils.ParseUserID(h.Cfg.RefreshSecret, ck.Value)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid refresh token"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    stored, err := h.Sessions.Get(ctx, userID)
    if err != nil {
        if errors.Is(err, session.ErrNoSession) {
            return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid refresh token"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    // An old token from before a logout or a second login no longer matches
    // the cache even though its signature still verifies.
    if stored != ck.Value {
        return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid refresh token"})
    }

    access, err := utils.NewToken(h.Cfg.AccessSecret, userID, h.Cfg.AccessTTL())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    h.setCookie(c, AccessCookie, access.Value, h.Cfg.AccessTTL())
    return c.JSON(http.StatusOK, echo.Map{"message": "Token refreshed successfully"})
}

// Profile returns the identity attached by the route guard.
func (h *AuthHandler) Profile(c echo.Context) error {
    u, ok := c.Get("user").(model.User)
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// openSession issues a fresh token pair, records the refresh token as the
// user's single live session and sets both cookies.
func (h *AuthHandler) openSession(ctx context.Context, c echo.Context, userID uint64) error {
    access, err := utils.NewToken(h.Cfg.AccessSecret, userID, h.Cfg.AccessTTL())
    if err != nil {
        return err
    }
    refresh, err := utils.NewToken(h.Cfg.RefreshSecret, userID, h.Cfg.RefreshTTL())
    if err != nil {
        return err
    }
    if err := h.Sessions.Save(ctx, userID, refresh.Value, h.Cfg.RefreshTTL()); err != nil {
        return err
    }
    h.setCookie(c, AccessCookie, access.Value, h.Cfg.AccessTTL())
    h.setCookie(c, RefreshCookie, refresh.Value, h.Cfg.RefreshTTL())
    return nil
}

// setCookie writes an HTTP-only, strict-same-site cookie whose MaxAge
// matches the token TTL exactly.  Secure is set outside local development.
func (h *AuthHandler) setCookie(c echo.Context, name, value string, ttl time.Duration) {
    c.SetCookie(&http.Cookie{
        Name:     name,
        Value:    value,
        Path:     "/",
        MaxAge:   int(ttl.Seconds()),
        HttpOnly: true,
        Secure:   h.Cfg.IsProduction(),
        SameSite: http.SameSiteStrictMode,
    })
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
    for _, name := range []string{AccessCookie, RefreshCookie} {
        c.SetCookie(&http.Cookie{
            Name:     name,
            Value:    "",
            Path:     "/",
            MaxAge:   -1,
            HttpOnly: true,
            Secure:   h.Cfg.IsProduction(),
            SameSite: http.SameSiteStrictMode,
        })
    }
}
