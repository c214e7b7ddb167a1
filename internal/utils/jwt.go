package utils // package utils provides helpers for token creation and verification

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
    "github.com/google/uuid"       // random jti claim values
)

// ErrInvalidToken is returned when a token fails signature, format or
// expiry checks. Callers treat every variant the same way, so the parse
// helpers collapse all of jwt's failure modes into this one sentinel.
var ErrInvalidToken = errors.New("invalid token")

// Token carries a signed JWT string together with its expiration time.
// Both the short-lived access token and the long-lived refresh token use
// this shape; they differ only in secret and TTL.
type Token struct {
    Value string    // the serialized JWT
    Exp   time.Time // UTC expiration time
}

// NewToken builds and signs an HS256 JWT for a user. Claims are subject
// (sub) carrying the user id, expiration (exp), issued at (iat) and a
// random jti, so two tokens minted within the same second still differ and
// a later login always supersedes the cached refresh token. Access and
// refresh tokens are minted by the same function with different secrets
// and TTLs so their lifecycles stay independent.
func NewToken(secret string, userID uint64, ttl time.Duration) (Token, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": now.Unix(),
        "jti": uuid.NewString(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return Token{}, err
    }
    return Token{Value: signed, Exp: exp}, nil
}

// ParseUserID verifies a token against the given secret and returns the
// user id from the subject claim. Any failure (wrong algorithm, bad
// signature, malformed token, past expiry, missing subject) comes back as
// ErrInvalidToken.
func ParseUserID(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC; an RS256 token with
        // the public key as secret would otherwise verify.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return 0, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrInvalidToken
    }
    // Numeric JSON claims decode as float64.
    sub, ok := claims["sub"].(float64)
    if !ok || sub <= 0 {
        return 0, ErrInvalidToken
    }
    return uint64(sub), nil
}
