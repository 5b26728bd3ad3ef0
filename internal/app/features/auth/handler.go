// internal/app/features/auth/handler.go
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	identitystore "github.com/rabindra-basnet/team-project-saas/internal/app/store/identity"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auditlog"
	sysauth "github.com/rabindra-basnet/team-project-saas/internal/app/system/auth"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/httpjson"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/normalize"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/timeouts"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const stateCookieName = "oauth_state"

// Handler serves credential and Google OAuth sign-in.
type Handler struct {
	Identity   *identitystore.Store
	SessionMgr *sysauth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// OAuth configuration
	ClientID            string
	ClientSecret        string
	RedirectURL         string // e.g. "https://example.com/api/auth/google/callback"
	FrontendCallbackURL string // where the browser lands after the OAuth flow

	stateCodec *securecookie.SecureCookie
}

// NewHandler creates the auth handler. sessionKey signs the short-lived
// OAuth state cookie.
func NewHandler(
	identity *identitystore.Store,
	sessionMgr *sysauth.SessionManager,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL, frontendCallbackURL string,
	sessionKey []byte,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Identity:            identity,
		SessionMgr:          sessionMgr,
		AuditLog:            audit,
		Log:                 logger,
		ClientID:            clientID,
		ClientSecret:        clientSecret,
		RedirectURL:         baseURL + "/api/auth/google/callback",
		FrontendCallbackURL: frontendCallbackURL,
		stateCodec:          securecookie.New(sessionKey, nil),
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleConfigured reports whether the Google client credentials are set.
func (h *Handler) GoogleConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister handles POST /api/auth/register.
// Provisions the user together with their default workspace.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if err := validateRegister(req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, workspaceID, err := h.Identity.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.AuditLog.Record(auditlog.Event{
		Action:  "auth.register",
		Actor:   userID,
		Outcome: "success",
		IP:      auditlog.ClientIP(r),
	})

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message":     "User created successfully",
		"userId":      userID.Hex(),
		"workspaceId": workspaceID.Hex(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		httpjson.WriteError(w, h.Log, apperror.BadRequest("Email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Identity.Verify(ctx, req.Email, req.Password)
	if err != nil {
		h.AuditLog.Record(auditlog.Event{
			Action:  "auth.login",
			Outcome: "denied",
			IP:      auditlog.ClientIP(r),
			Detail:  normalize.Email(req.Email),
		})
		httpjson.WriteError(w, h.Log, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sysauth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
	}); err != nil {
		h.Log.Error("failed to establish session", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.AuditLog.Record(auditlog.Event{
		Action:  "auth.login",
		Actor:   user.ID,
		Outcome: "success",
		IP:      auditlog.ClientIP(r),
	})

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"user":    user,
	})
}

// HandleLogout handles POST /api/auth/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := sysauth.CurrentUser(r); ok {
		h.Log.Info("user logged out", zap.String("user_id", u.ID))
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}

// ServeGoogleLogin handles GET /api/auth/google.
// Redirects the browser to Google's consent screen, carrying a signed
// state cookie the callback validates.
func (h *Handler) ServeGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.GoogleConfigured() {
		httpjson.WriteError(w, h.Log, apperror.BadRequest("Google sign-in is not configured"))
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	encoded, err := h.stateCodec.Encode(stateCookieName, state)
	if err != nil {
		h.Log.Error("failed to encode OAuth state cookie", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

// ServeGoogleCallback handles GET /api/auth/google/callback.
// Exchanges the code, fetches the Google profile, signs the user in
// (creating them with a default workspace on first login), and redirects
// the browser back to the frontend.
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.redirectToFrontend(w, r, "failure", "")
		return
	}

	if !h.validState(r) {
		h.Log.Warn("invalid or missing OAuth state")
		h.redirectToFrontend(w, r, "failure", "")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		h.redirectToFrontend(w, r, "failure", "")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.redirectToFrontend(w, r, "failure", "")
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		h.redirectToFrontend(w, r, "failure", "")
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	user, err := h.Identity.LoginOrCreate(dbCtx, identitystore.ExternalIdentity{
		Provider:   models.ProviderGoogle,
		ProviderID: googleUser.ID,
		Name:       googleUser.Name,
		Email:      googleUser.Email,
		Picture:    googleUser.Picture,
	})
	if err != nil {
		h.Log.Error("failed to login or create Google user", zap.Error(err))
		h.redirectToFrontend(w, r, "failure", "")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sysauth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
	}); err != nil {
		h.Log.Error("failed to establish session", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		h.redirectToFrontend(w, r, "failure", "")
		return
	}

	h.AuditLog.Record(auditlog.Event{
		Action:  "auth.login.google",
		Actor:   user.ID,
		Outcome: "success",
		IP:      auditlog.ClientIP(r),
	})

	currentWorkspace := ""
	if user.CurrentWorkspace != nil {
		currentWorkspace = user.CurrentWorkspace.Hex()
	}
	h.redirectToFrontend(w, r, "success", currentWorkspace)
}

func (h *Handler) validState(r *http.Request) bool {
	state := r.URL.Query().Get("state")
	if state == "" {
		return false
	}
	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		return false
	}
	var stored string
	if err := h.stateCodec.Decode(stateCookieName, cookie.Value, &stored); err != nil {
		return false
	}
	return stored == state
}

func (h *Handler) redirectToFrontend(w http.ResponseWriter, r *http.Request, status, currentWorkspace string) {
	dest := fmt.Sprintf("%s?status=%s", h.FrontendCallbackURL, status)
	if currentWorkspace != "" {
		dest += "&current_workspace=" + currentWorkspace
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

func validateRegister(req registerRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperror.BadRequest("Name is required")
	}
	email := normalize.Email(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apperror.BadRequest("A valid email is required")
	}
	if len(req.Password) < 8 {
		return apperror.BadRequest("Password must be at least 8 characters")
	}
	return nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
