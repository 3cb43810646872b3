package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeychain(t *testing.T, records ...KeyRecord) *Keychain {
	t.Helper()
	if len(records) == 0 {
		records = []KeyRecord{{ID: "alice", Secret: []byte("s3cr3t"), Mnemonic: testMnemonic}}
	}
	return NewKeychain(records)
}

// trackingReader flags whether the request body was ever read.
type trackingReader struct {
	read bool
}

func (r *trackingReader) Read([]byte) (int, error) {
	r.read = true
	return 0, errors.New("body must not be read")
}

func requireRejection(t *testing.T, err error, status int, reason string) *AuthRejection {
	t.Helper()
	var rejection *AuthRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, status, rejection.Status)
	assert.Equal(t, reason, rejection.Reason)
	return rejection
}

// TestSignBody pins the header value format against known vectors
func TestSignBody(t *testing.T) {
	assert.Equal(t, "PIHMlJbhwlJQ9sy4X2l8G7Yj40gNZTitjLamZIFCd30=", SignBody([]byte("s3cr3t"), nil))
	assert.Equal(t, "2bXz6EBYew6gEOG0x37XqKO66Z73uxU923qzEHW4yoA=", SignBody([]byte("s3cr3t"), []byte("hello world")))
}

func TestAuthenticateKeyNotFound(t *testing.T) {
	auth := NewAuthenticator(testKeychain(t))

	body := &trackingReader{}
	r := httptest.NewRequest(http.MethodGet, "/", body)
	r.Header.Set(signatureHeader, SignBody([]byte("s3cr3t"), nil))

	_, err := auth.Authenticate(r, "carol")
	rejection := requireRejection(t, err, http.StatusNotFound, RejectionKeyNotFound)
	assert.Equal(t, `unknown key "carol"`, rejection.Message)

	// An unknown key is rejected before the body is touched.
	assert.False(t, body.read)
}

func TestAuthenticateNoSignature(t *testing.T) {
	auth := NewAuthenticator(testKeychain(t))

	body := &trackingReader{}
	r := httptest.NewRequest(http.MethodGet, "/", body)

	_, err := auth.Authenticate(r, "alice")
	requireRejection(t, err, http.StatusUnauthorized, RejectionNoSignature)
	assert.False(t, body.read)
}

func TestAuthenticateRestrictedIP(t *testing.T) {
	kc := testKeychain(t, KeyRecord{
		ID:         "alice",
		Secret:     []byte("s3cr3t"),
		Mnemonic:   testMnemonic,
		AllowedIPs: []string{"10.0.0.1"},
	})
	auth := NewAuthenticator(kc)

	t.Run("mismatching address rejected despite valid signature", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.0.2.7:4444"
		r.Header.Set(signatureHeader, SignBody([]byte("s3cr3t"), nil))

		_, err := auth.Authenticate(r, "alice")
		rejection := requireRejection(t, err, http.StatusForbidden, RejectionRestrictedIP)
		assert.Contains(t, rejection.Message, `"192.0.2.7"`)
	})

	t.Run("matching address passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:4444"
		r.Header.Set(signatureHeader, SignBody([]byte("s3cr3t"), nil))

		authCtx, err := auth.Authenticate(r, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", authCtx.Record.ID)
	})

	t.Run("exact match only, no CIDR semantics", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.12:4444"
		r.Header.Set(signatureHeader, SignBody([]byte("s3cr3t"), nil))

		_, err := auth.Authenticate(r, "alice")
		requireRejection(t, err, http.StatusForbidden, RejectionRestrictedIP)
	})
}

func TestAuthenticateWrongSignature(t *testing.T) {
	auth := NewAuthenticator(testKeychain(t))

	t.Run("signature over different bytes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("actual body")))
		r.Header.Set(signatureHeader, SignBody([]byte("s3cr3t"), []byte("other body")))

		_, err := auth.Authenticate(r, "alice")
		rejection := requireRejection(t, err, http.StatusForbidden, RejectionWrongSignature)
		assert.Equal(t, "invalid request signature", rejection.Message)
	})

	t.Run("signature with wrong secret", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("body")))
		r.Header.Set(signatureHeader, SignBody([]byte("not-the-secret"), []byte("body")))

		_, err := auth.Authenticate(r, "alice")
		requireRejection(t, err, http.StatusForbidden, RejectionWrongSignature)
	})

	t.Run("garbage header value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("body")))
		r.Header.Set(signatureHeader, "not base64!!!")

		_, err := auth.Authenticate(r, "alice")
		requireRejection(t, err, http.StatusForbidden, RejectionWrongSignature)
	})
}

func TestAuthenticateRoundTrip(t *testing.T) {
	auth := NewAuthenticator(testKeychain(t))
	body := []byte(`{"tx":"0x0102"}`)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	r.Header.Set(signatureHeader, SignBody([]byte("s3cr3t"), body))

	authCtx, err := auth.Authenticate(r, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", authCtx.Record.ID)
	// The context carries the exact verified bytes.
	assert.Equal(t, body, authCtx.Body)
}

// TestAuthenticateFlippedByte checks that any single-byte change in the
// body invalidates a previously valid signature.
func TestAuthenticateFlippedByte(t *testing.T) {
	auth := NewAuthenticator(testKeychain(t))
	body := []byte("raw transaction bytes")
	signature := SignBody([]byte("s3cr3t"), body)

	for i := range body {
		flipped := append([]byte(nil), body...)
		flipped[i] ^= 0x01

		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(flipped))
		r.Header.Set(signatureHeader, signature)

		_, err := auth.Authenticate(r, "alice")
		requireRejection(t, err, http.StatusForbidden, RejectionWrongSignature)
	}
}

func TestClientIP(t *testing.T) {
	t.Run("remote address wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		r.Header.Set(forwardedForHeader, "172.16.0.9")
		r.Header.Set(realIPHeader, "172.16.0.10")

		assert.Equal(t, "10.0.0.1", clientIP(r))
	})

	t.Run("remote address without port", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1"

		assert.Equal(t, "10.0.0.1", clientIP(r))
	})

	t.Run("first forwarded-for entry", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = ""
		r.Header.Set(forwardedForHeader, " 172.16.0.9 , 10.0.0.1")
		r.Header.Set(realIPHeader, "172.16.0.10")

		assert.Equal(t, "172.16.0.9", clientIP(r))
	})

	t.Run("real ip header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = ""
		r.Header.Set(realIPHeader, "172.16.0.10")

		assert.Equal(t, "172.16.0.10", clientIP(r))
	})

	t.Run("nothing resolves to empty", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = ""

		assert.Equal(t, "", clientIP(r))
	})
}

func TestVerifySignature(t *testing.T) {
	secret := []byte("s3cr3t")
	body := []byte("payload")

	assert.True(t, VerifySignature(secret, body, SignBody(secret, body)))
	assert.False(t, VerifySignature(secret, body, SignBody(secret, []byte("payload2"))))
	assert.False(t, VerifySignature(secret, body, ""))
}
