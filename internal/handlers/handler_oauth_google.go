package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
)

const (
	oauthStateCookie = "oauthstate"
	oauthStateMaxAge = 10 * 60
)

// googleOAuthHandler signs users in with Google, either through the redirect
// flow or with an ID token obtained by the frontend.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	sessions           *sessionIssuer
}

func newGoogleOAuthHandler(googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade, sessions *sessionIssuer) *googleOAuthHandler {
	return &googleOAuthHandler{
		googleOAuthService: googleOAuthService,
		sessions:           sessions,
	}
}

func registerGoogleOAuthRoutes(api *gin.RouterGroup, googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade, sessions *sessionIssuer) {
	h := newGoogleOAuthHandler(googleOAuthService, sessions)
	google := api.Group("/auth/google")
	{
		google.POST("", h.loginWithIDToken)
		google.GET("/login", h.redirectToGoogle)
		google.GET("/callback", h.callback)
	}
}

// redirectToGoogle godoc
// @Summary Start Google sign-in
// @Description Redirects to the Google consent screen. A state cookie guards the callback.
// @Tags oauth
// @Success 307
// @Failure 404 {object} ErrorResponse "Google sign-in is not configured"
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) redirectToGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	if !h.sessions.cfg.GoogleOAuthEnabled() {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Google sign-in is not configured"})
		return
	}

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		respondWithError(c, logger, err, "Failed to start Google sign-in")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/api/auth/google", "", h.sessions.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.GetGoogleLoginURL(ctx, state))
}

// callback godoc
// @Summary Google sign-in callback
// @Description Exchanges the authorization code, signs the user in and redirects to the frontend with the token in the URL fragment.
// @Tags oauth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 302
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) callback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	expected, err := c.Cookie(oauthStateCookie)
	state := c.Query("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/api/auth/google", "", h.sessions.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to communicate with Google"})
		return
	}
	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Google did not return an ID token"})
		return
	}

	resp, err := h.signIn(c, idTokenString)
	if err != nil {
		respondWithError(c, logger, err, "Failed to sign in with Google")
		return
	}
	c.Redirect(http.StatusFound, h.sessions.cfg.FrontendBaseURL+"/index.html#token="+url.QueryEscape(resp.Token))
}

// loginWithIDToken godoc
// @Summary Sign in with a Google ID token
// @Tags oauth
// @Accept json
// @Produce json
// @Param request body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google [post]
func (h *googleOAuthHandler) loginWithIDToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.signIn(c, req.IDToken)
	if err != nil {
		respondWithError(c, logger, err, "Failed to sign in with Google")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// signIn validates the ID token, finds or creates the user and issues a session.
func (h *googleOAuthHandler) signIn(c *gin.Context, idTokenString string) (*dto.LoginResponse, error) {
	ctx := c.Request.Context()
	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, err
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "Google sign-in unavailable", err)
	}

	name, email, emailVerified := googleProfile(payload)
	if payload.Subject == "" {
		return nil, apperrors.NewUnauthorizedError("Google token has no subject")
	}

	user, err := h.sessions.userService.CreateOAuthUser(ctx, name, email, domain.ProviderGoogle, payload.Subject, emailVerified)
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("User signed in with Google", slog.String("user_id", user.UserID))
	return h.sessions.issue(c, user)
}

func googleProfile(payload *idtoken.Payload) (name, email string, emailVerified bool) {
	name, _ = payload.Claims["name"].(string)
	email, _ = payload.Claims["email"].(string)
	emailVerified, _ = payload.Claims["email_verified"].(bool)
	return name, email, emailVerified
}
