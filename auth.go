package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

const (
	// signatureHeader carries base64(HMAC-SHA256(secret, body)).
	signatureHeader    = "X-SIG"
	forwardedForHeader = "X-Forwarded-For"
	realIPHeader       = "X-Real-IP"
)

// AuthContext is the authenticated request state: the resolved key record
// plus the exact body bytes the signature was verified over. The handler
// signs these bytes, never a re-read or re-encoded copy.
type AuthContext struct {
	Record KeyRecord
	Body   []byte
}

// Authenticator verifies requests against the loaded keychain.
type Authenticator struct {
	keychain *Keychain
}

// NewAuthenticator creates an authenticator backed by the given keychain.
func NewAuthenticator(keychain *Keychain) *Authenticator {
	return &Authenticator{keychain: keychain}
}

// Authenticate runs the per-request access checks in fixed order:
// key lookup, IP allow-list, signature header, body signature.
// A failed check returns an AuthRejection carrying its status code;
// any other error is an internal fault for the top-level mapper.
// The body is not read until a signature header is present.
func (a *Authenticator) Authenticate(r *http.Request, keyID string) (*AuthContext, error) {
	record, ok := a.keychain.Get(keyID)
	if !ok {
		return nil, rejectKeyNotFound(keyID)
	}

	if len(record.AllowedIPs) > 0 {
		ip := clientIP(r)
		if !containsString(record.AllowedIPs, ip) {
			return nil, rejectRestrictedIP(ip)
		}
	}

	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		return nil, rejectNoSignature()
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}

	if !VerifySignature(record.Secret, body, signature) {
		return nil, rejectWrongSignature()
	}

	return &AuthContext{Record: record, Body: body}, nil
}

// SignBody computes the signature value a caller puts in the X-SIG
// header: base64(HMAC-SHA256(secret, body)).
func SignBody(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a presented signature against the expected one
// for the given secret and body. The comparison is constant-time.
func VerifySignature(secret, body []byte, signature string) bool {
	expected := SignBody(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// clientIP resolves the caller address used for allow-list checks.
// Ordered fallback: connection remote address, then the first entry of
// X-Forwarded-For, then X-Real-IP, then empty.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "" {
		return host
	}

	if forwarded := r.Header.Get(forwardedForHeader); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	return r.Header.Get(realIPHeader)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
