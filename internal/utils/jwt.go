package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel error for rejected tokens
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are sent in the Authorization
// header when calling protected endpoints; the server keeps no record of
// issued tokens, so validity is purely a function of signature and expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Principal is the public-safe identity embedded in every access token.
// Handlers use it to stamp authorship on created recipes without trusting
// any client-supplied author fields.
type Principal struct {
    ID    uint64 // user id
    Email string // user email
    Name  string // display name
}

// ErrInvalidToken is returned by ParseAccessToken for any token that
// cannot be accepted: bad signature, wrong algorithm, malformed claims
// or past expiry.  Callers should not distinguish between these cases.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user's identity, and a TTL in days.  It returns an
// AccessToken structure containing the signed token and its expiration
// time.  The JWT carries the principal fields (id, email, name) plus the
// standard expiration (exp) and issued at (iat) claims.
func NewAccessToken(secret string, p Principal, ttlDays int) (AccessToken, error) {
    // Calculate the expiration time by adding the TTL to the current UTC time.
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "id":    p.ID,
        "email": p.Email,
        "name":  p.Name,
        "exp":   exp.Unix(),
        "iat":   time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken validates a raw JWT string against the signing secret
// and returns the embedded Principal.  The signing method must be HMAC;
// tokens signed with any other algorithm are rejected.  Expiry is checked
// by the jwt library as part of claim validation.
func ParseAccessToken(secret, raw string) (Principal, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return Principal{}, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Principal{}, ErrInvalidToken
    }
    id, ok := claims["id"].(float64) // JSON numbers decode as float64
    if !ok || id <= 0 {
        return Principal{}, ErrInvalidToken
    }
    email, _ := claims["email"].(string)
    name, _ := claims["name"].(string)
    return Principal{ID: uint64(id), Email: email, Name: name}, nil
}
