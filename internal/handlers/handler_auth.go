package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/middleware"
	"github.com/SscSPs/money_tracker/internal/platform/config"
	"github.com/SscSPs/money_tracker/internal/utils"
	"github.com/gin-gonic/gin"
)

// sessionIssuer hands out access and refresh tokens and manages their cookies.
// Password and Google sign-in share it.
type sessionIssuer struct {
	cfg          *config.Config
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

// issue creates a new access token, rotates the refresh token and sets both cookies.
func (s *sessionIssuer) issue(c *gin.Context, user *domain.User) (*dto.LoginResponse, error) {
	ctx := c.Request.Context()

	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := s.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.userService.UpdateRefreshToken(ctx, user.UserID, refreshToken, refreshExpiry); err != nil {
		return nil, err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.TokenCookieName, accessToken, int(time.Until(expiresAt).Seconds()), "/", "", s.cfg.IsProduction, true)
	c.SetCookie(s.cfg.RefreshTokenCookieName, utils.EncodeRefreshCookie(user.UserID, refreshToken),
		int(time.Until(refreshExpiry).Seconds()), s.cfg.RefreshTokenCookiePath, "", s.cfg.IsProduction, true)

	return &dto.LoginResponse{Token: accessToken, ExpiresAt: expiresAt, Username: user.Username}, nil
}

func (s *sessionIssuer) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.TokenCookieName, "", -1, "/", "", s.cfg.IsProduction, true)
	c.SetCookie(s.cfg.RefreshTokenCookieName, "", -1, s.cfg.RefreshTokenCookiePath, "", s.cfg.IsProduction, true)
}

// authHandler handles password based authentication.
type authHandler struct {
	sessions *sessionIssuer
}

func newAuthHandler(sessions *sessionIssuer) *authHandler {
	return &authHandler{sessions: sessions}
}

// registerAuthRoutes sets up the public /auth routes. Login is rate limited per client IP.
func registerAuthRoutes(api *gin.RouterGroup, sessions *sessionIssuer, authMiddleware gin.HandlerFunc) error {
	h := newAuthHandler(sessions)

	loginLimiter, err := middleware.NewRateLimiter(sessions.cfg.LoginRateLimit)
	if err != nil {
		return err
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.login)
		auth.POST("/register", h.register)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", authMiddleware, h.logout)
	}
	return nil
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT. The token and a refresh token are also set as HttpOnly cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.sessions.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, logger, err, "Failed to authenticate")
		return
	}

	resp, err := h.sessions.issue(c, user)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate token")
		return
	}
	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, resp)
}

// register godoc
// @Summary Register new user
// @Description Creates a new local user account.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username already exists"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	newUser, err := h.sessions.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(newUser))
}

// refresh godoc
// @Summary Refresh the access token
// @Description Exchanges the refresh token cookie for a new access token and rotates the refresh token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cookie, err := c.Cookie(h.sessions.cfg.RefreshTokenCookieName)
	if err != nil || cookie == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token required"})
		return
	}
	userID, refreshToken, err := utils.DecodeRefreshCookie(cookie)
	if err != nil {
		h.sessions.clearCookies(c)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid refresh token"})
		return
	}

	user, err := h.sessions.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), userID, refreshToken)
	if err != nil {
		if statusForError(err) == http.StatusUnauthorized {
			h.sessions.clearCookies(c)
		}
		respondWithError(c, logger, err, "Failed to refresh token")
		return
	}

	resp, err := h.sessions.issue(c, user)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// logout godoc
// @Summary Log out
// @Description Revokes the current access token and the stored refresh token, then clears the cookies.
// @Tags auth
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	userID, ok := middleware.GetUserIDFromContext(c)
	token, hasToken := middleware.GetTokenFromContext(c)
	if !ok || !hasToken {
		respondWithError(c, logger, apperrors.ErrUnauthorized, "Unauthorized")
		return
	}

	if err := h.sessions.tokenService.RevokeAccessToken(ctx, token); err != nil {
		respondWithError(c, logger, err, "Failed to revoke token")
		return
	}
	if err := h.sessions.userService.ClearRefreshToken(ctx, userID); err != nil {
		respondWithError(c, logger, err, "Failed to clear refresh token")
		return
	}

	h.sessions.clearCookies(c)
	logger.Info("User logged out")
	c.Status(http.StatusNoContent)
}
