// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing) from
// the console logic. The session service depends on it through small
// interfaces so tests can swap in fixed clocks or secrets.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrWeakSecret is returned when the signing secret is too short for HS256.
var ErrWeakSecret = errors.New("sec: session secret must be at least 32 bytes")

// minSecretLength is the HS256 key size.
const minSecretLength = 32

// Claims is the payload of a session token.
//
// The token only points at a session; the session record itself stays in
// the session store, so logging out revokes the token immediately.
type Claims struct {
	jwt.RegisteredClaims

	// Custom claims are abbreviated to keep the token small.
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
	Username  string `json:"unm"`
	Role      string `json:"rol"`
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a TokenService from a shared secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue signs a token for one session that expires after timeToLive.
func (service *TokenService) Issue(sessionID, userID, username, role string, timeToLive time.Duration) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(timeToLive)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		UserID:    userID,
		Username:  username,
		Role:      role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, issuer and expiry of a token.
func (service *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithIssuer(service.issuer),
		jwt.WithTimeFunc(service.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.New("sec: invalid token claims")
	}
	return claims, nil
}
