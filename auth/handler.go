package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vib1247-cyber/Codepulse/domain"
)

var (
	ErrMissingTokenStr          = "missing-token"
	ErrExpiredTokenStr          = "expired-token"
	ErrBadTokenStr              = "bad-token"
	ErrServerTimeoutStr         = "server-timeout"
	ErrInvalidRequestFormatStr  = "bad-request-format"
	ErrInvalidCredentialsStr    = "invalid-credentials"
	ErrUnknownStr               = "unknown-error"
	ErrUsernameAlreadyExistsStr = "username-already-exists"
	ErrWeakPasswordStr          = "weak-password"
	ErrPasswordTooLongStr       = "password-too-long"
	ErrInvalidUsernameFormatStr = "invalid-username-format"
)

type AuthHandler struct {
	authService *Service
}

func NewAuthHandler(service *Service) *AuthHandler {
	return &AuthHandler{authService: service}
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	token = strings.Trim(token, `"' `)
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireAuthMiddleware authenticates the request and stores the resolved
// user id under "id". The user must still exist: a valid token for a
// deleted account is rejected the same way as a bad token.
func (ah *AuthHandler) RequireAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrMissingTokenStr})
			return
		}

		user, err := ah.authService.ResolveToken(ctx.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrExpiredTokenStr})
			case errors.Is(err, domain.ErrInvalidSigningAlg),
				errors.Is(err, domain.ErrInvalidTokenSignature),
				errors.Is(err, domain.ErrCorruptedToken),
				errors.Is(err, domain.ErrUserNotFound):
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrBadTokenStr})
			default:
				log.Error().Err(err).Msg("token resolution failed")
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
			}
			return
		}

		ctx.Set("id", user.Id)
		ctx.Next()
	}
}

func (ah *AuthHandler) SignupHandler(ctx *gin.Context) {
	var signupCredentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := ctx.ShouldBindJSON(&signupCredentials); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRequestFormatStr})
		return
	}

	token, err := ah.authService.Signup(ctx.Request.Context(), signupCredentials.Username, signupCredentials.Password)

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			ctx.JSON(http.StatusConflict, gin.H{"error": ErrUsernameAlreadyExistsStr})
		case errors.Is(err, ErrWeakPassword):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrWeakPasswordStr})
		case errors.Is(err, ErrPasswordTooLong):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrPasswordTooLongStr})
		case errors.Is(err, ErrInvalidUsernameFormat):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidUsernameFormatStr})
		case errors.Is(err, context.DeadlineExceeded):
			ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": ErrServerTimeoutStr})
		case errors.Is(err, context.Canceled):
			ctx.Status(499) // http code for "Client Closed Request"
		default:
			log.Error().Err(err).Msg("signup failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"token": token})
}

func (ah *AuthHandler) LoginHandler(ctx *gin.Context) {
	var loginCredentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := ctx.ShouldBindJSON(&loginCredentials); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRequestFormatStr})
		return
	}

	token, err := ah.authService.Login(ctx.Request.Context(), loginCredentials.Username, loginCredentials.Password)

	if err != nil {
		switch {
		case errors.Is(err, ErrIncorrectPassword), errors.Is(err, domain.ErrUserNotFound):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentialsStr})
		case errors.Is(err, context.DeadlineExceeded):
			ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": ErrServerTimeoutStr})
		case errors.Is(err, context.Canceled):
			ctx.Status(499)
		default:
			log.Error().Err(err).Msg("login failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
