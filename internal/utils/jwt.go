package utils // package utils provides helper functions for session tokens and password hashing

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
)

// ErrInvalidSession is returned for any token that does not yield a usable
// principal: bad signature, wrong algorithm, expired, or a subject that is
// not a student UUID.
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims are the claims carried by a student session token.  The
// subject is the student's UUID (students.id).
type SessionClaims struct {
    Email     string `json:"email,omitempty"`
    StudentNo string `json:"student_no,omitempty"`
    jwt.RegisteredClaims
}

// SessionToken is a signed session token and its expiry.
type SessionToken struct {
    Token string
    Exp   time.Time
}

// NewSessionToken signs an HS256 session token for studentID valid for ttl.
func NewSessionToken(secret, studentID, email, studentNo string, ttl time.Duration) (SessionToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := SessionClaims{
        Email:     email,
        StudentNo: studentNo,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   studentID,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns its claims.  Only HS256 is
// accepted and an expiry is required.
func ParseSessionToken(secret, raw string) (*SessionClaims, error) {
    var claims SessionClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return nil, ErrInvalidSession
    }
    if _, err := uuid.Parse(claims.Subject); err != nil {
        return nil, ErrInvalidSession
    }
    return &claims, nil
}
