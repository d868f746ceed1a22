package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xrpl-evm-faucet/config"
	"xrpl-evm-faucet/pkg/recaptcha"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the CAPTCHA verification relay",
	Long: `Run the small HTTP relay the web front end calls before each faucet
request. It verifies reCAPTCHA tokens against Google's siteverify endpoint
using the server-held XRPL_FAUCET_RECAPTCHA_SECRET_KEY.

Examples:
  xrpl-evm-faucet serve
  xrpl-evm-faucet serve --addr :9090`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides configured listen_addr)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.Get()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	addr := cfg.ListenAddr
	if listenAddr != "" {
		addr = listenAddr
	}
	if cfg.RecaptchaSecret == "" {
		// Still serve; the handler answers 500 so misconfiguration is
		// visible to the front end rather than a connection refused.
		zap.L().Warn("XRPL_FAUCET_RECAPTCHA_SECRET_KEY is not set")
	}

	verifier := recaptcha.NewVerifier(cfg.RecaptchaSecret, "")

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Options("/*", corsHeaders)
	r.Post("/api/recaptcha", withCORS(recaptcha.Handler(verifier)))

	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zap.L().Info("CAPTCHA relay listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-done
	zap.L().Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zap.L().Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func corsHeaders(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
}

func withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		next(w, r)
	}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Origin")
}
