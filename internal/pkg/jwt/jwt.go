package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// CookieName is the cookie jwtauth.TokenFromCookie reads.
const CookieName = "jwt"

const tokenTypeConsole = "console"

var ErrInvalidSessionToken = errors.New("invalid session token")

type Service interface {
	GenerateSessionToken(sessionID string, expiresAt time.Time) (string, error)
	// SessionID extracts the session id from a verified console token.
	SessionID(token jwt.Token) (string, error)
	JWTAuth() *jwtauth.JWTAuth
	SessionCookie(token string, expiresAt time.Time) *http.Cookie
	ClearSessionCookie() *http.Cookie
}

type JWTService struct {
	tokenAuth    *jwtauth.JWTAuth
	secureCookie bool
}

func NewJWTService(secretKey string, secureCookie bool) Service {
	return &JWTService{
		tokenAuth:    jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		secureCookie: secureCookie,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateSessionToken(sessionID string, expiresAt time.Time) (string, error) {
	if sessionID == "" {
		return "", ErrInvalidSessionToken
	}
	claims := map[string]any{
		"sid":  sessionID,
		"type": tokenTypeConsole,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	}
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, err
}

func (j *JWTService) SessionID(token jwt.Token) (string, error) {
	if token == nil {
		return "", ErrInvalidSessionToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != tokenTypeConsole {
		return "", ErrInvalidSessionToken
	}

	sidVal, ok := token.Get("sid")
	if !ok {
		return "", ErrInvalidSessionToken
	}
	sid, ok := sidVal.(string)
	if !ok || sid == "" {
		return "", ErrInvalidSessionToken
	}
	return sid, nil
}

func (j *JWTService) SessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
