package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/fuxingjun/taoli-tools-signer/pkg/log"
	"github.com/fuxingjun/taoli-tools-signer/pkg/wallet"
)

// Browser origins allowed to call the gateway. Advisory only; the
// signature check is the security boundary.
var allowedOrigins = []string{
	"https://app.taoli.tools",
	"https://console.taoli.tools",
}

// Gateway serves the signing HTTP surface: a keychain summary on the
// root route and the per-key address and signing routes.
type Gateway struct {
	keychain *Keychain
	auth     *Authenticator
	metrics  *Metrics
	logger   log.Logger
}

// NewGateway creates a gateway over a loaded keychain.
func NewGateway(keychain *Keychain, metrics *Metrics, logger log.Logger) *Gateway {
	return &Gateway{
		keychain: keychain,
		auth:     NewAuthenticator(keychain),
		metrics:  metrics,
		logger:   logger.Named("gateway"),
	}
}

// Handler builds the router with CORS and the request middleware applied.
func (g *Gateway) Handler() http.Handler {
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{signatureHeader},
	})

	r := chi.NewRouter()
	r.Use(corsMiddleware.Handler)
	r.Use(g.requestMiddleware)

	r.Get("/", g.handleIndex)
	r.Get("/{key}/{platform}", g.wrap(g.handleDeriveAddress))
	r.Post("/{key}/{platform}", g.wrap(g.handleSignTransaction))

	return r
}

// requestMiddleware seeds each request with an id-scoped logger and
// records the served request in the metrics once the handler returns.
func (g *Gateway) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		logger := g.logger.With("requestId", requestID)
		ctx := log.SetContextLogger(r.Context(), logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		route := chi.RouteContext(ctx).RoutePattern()
		g.metrics.RecordRequest(route, r.Method, rec.status)
		logger.Debug("request served", "method", r.Method, "route", route, "status", rec.status)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// wrap adapts an error-returning handler. Access rejections carry their
// own status and message; everything else funnels through mapError into
// a uniform 500 response.
func (g *Gateway) wrap(handler handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.FromContext(r.Context())

		defer func() {
			if cause := recover(); cause != nil {
				logger.Error("handler panic", "panic", cause)
				http.Error(w, "server error", http.StatusInternalServerError)
			}
		}()

		err := handler(w, r)
		if err == nil {
			return
		}

		var rejection *AuthRejection
		if errors.As(err, &rejection) {
			g.metrics.RecordAuthRejection(rejection.Reason)
			logger.Info("request rejected", "reason", rejection.Reason, "status", rejection.Status)
			http.Error(w, rejection.Message, rejection.Status)
			return
		}

		status, message := mapError(err)
		logger.Error("request failed", "error", err)
		http.Error(w, message, status)
	}
}

func (g *Gateway) handleIndex(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "KEYCHAIN: %d", g.keychain.Count())
}

func (g *Gateway) handleDeriveAddress(w http.ResponseWriter, r *http.Request) error {
	authCtx, err := g.auth.Authenticate(r, chi.URLParam(r, "key"))
	if err != nil {
		return err
	}

	// The platform identifier is validated only here, once the caller
	// has already proven possession of the key's secret.
	platform, err := wallet.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		return err
	}

	signer, err := wallet.New(platform, authCtx.Record.Mnemonic, authCtx.Record.Passphrase)
	g.metrics.RecordSigningOperation(platform, "derive_address", err)
	if err != nil {
		return err
	}

	log.FromContext(r.Context()).Info("derived address",
		"key", authCtx.Record.ID, "platform", platform)

	_, err = io.WriteString(w, signer.Address())
	return err
}

func (g *Gateway) handleSignTransaction(w http.ResponseWriter, r *http.Request) error {
	authCtx, err := g.auth.Authenticate(r, chi.URLParam(r, "key"))
	if err != nil {
		return err
	}

	platform, err := wallet.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		return err
	}

	signer, err := wallet.New(platform, authCtx.Record.Mnemonic, authCtx.Record.Passphrase)
	if err != nil {
		g.metrics.RecordSigningOperation(platform, "sign_transaction", err)
		return err
	}

	// Sign the exact bytes the signature check covered.
	signed, err := signer.SignTransaction(authCtx.Body)
	g.metrics.RecordSigningOperation(platform, "sign_transaction", err)
	if err != nil {
		return err
	}

	log.FromContext(r.Context()).Info("signed transaction",
		"key", authCtx.Record.ID, "platform", platform, "bytes", len(signed))

	_, err = w.Write(signed)
	return err
}
