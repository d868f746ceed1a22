package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultVerifyURL is Google's siteverify endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks CAPTCHA tokens against the siteverify endpoint using a
// server-held secret. It is stateless.
type Verifier struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

// NewVerifier creates a Verifier. An empty verifyURL selects the Google
// endpoint; tests point it at a fake.
func NewVerifier(secret, verifyURL string) *Verifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &Verifier{
		secret:    secret,
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether a server secret is present.
func (v *Verifier) Configured() bool {
	return v.secret != ""
}

type siteverifyResponse struct {
	Success bool `json:"success"`
}

// Verify checks a client token and returns whether it passed.
func (v *Verifier) Verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify request failed: %w", err)
	}
	defer resp.Body.Close()

	var sr siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return false, fmt.Errorf("failed to decode siteverify response: %w", err)
	}
	return sr.Success, nil
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Handler serves POST /api/recaptcha: 400 on a missing or failed token, 500
// when no secret is configured, {"success":true} on a pass.
func Handler(v *Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			respond(w, http.StatusBadRequest, verifyResponse{Error: "No CAPTCHA token provided"})
			return
		}

		if !v.Configured() {
			zap.L().Error("reCAPTCHA secret key is not configured")
			respond(w, http.StatusInternalServerError, verifyResponse{Error: "Server misconfiguration"})
			return
		}

		ok, err := v.Verify(r.Context(), req.Token)
		if err != nil {
			zap.L().Error("CAPTCHA verification request failed", zap.Error(err))
			respond(w, http.StatusBadGateway, verifyResponse{Error: "CAPTCHA verification unavailable"})
			return
		}
		if !ok {
			respond(w, http.StatusBadRequest, verifyResponse{Error: "CAPTCHA verification failed"})
			return
		}

		respond(w, http.StatusOK, verifyResponse{Success: true})
	}
}

func respond(w http.ResponseWriter, status int, body verifyResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
