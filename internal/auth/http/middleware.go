package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	authUseCase "github.com/allisson/phiguard/internal/auth/usecase"
	apperrors "github.com/allisson/phiguard/internal/errors"
	"github.com/allisson/phiguard/internal/httputil"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// AuthenticationMiddleware authenticates requests via Bearer credentials in
// the Authorization header.
//
// Authorization header format: "Bearer <client_id>:<secret>" (case-insensitive
// "bearer"). On success the middleware stores two values in the request
// context: the authenticated actor and the tenant scope derived from the
// actor's tenant. Every downstream query runs under that scope; there is no
// header or parameter that widens it.
//
// Error handling:
//   - Missing/malformed Authorization header → 401 Unauthorized
//   - Unknown client, inactive client or wrong secret → 401 Unauthorized,
//     identical body for all three
func AuthenticationMiddleware(
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer credentials (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		credentials := authHeader[len(bearerPrefix):]
		clientIDStr, secret, found := strings.Cut(credentials, ":")
		if !found || clientIDStr == "" || secret == "" {
			logger.Debug("authentication failed: malformed credentials")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		clientID, err := uuid.Parse(clientIDStr)
		if err != nil {
			logger.Debug("authentication failed: invalid client id")
			httputil.HandleErrorGin(c, authDomain.ErrInvalidCredentials, logger)
			c.Abort()
			return
		}

		actor, err := clientUseCase.Authenticate(c.Request.Context(), clientID, secret)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		sc, err := scope.ForTenant(actor.TenantID)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithActor(c.Request.Context(), actor)
		ctx = WithScope(ctx, sc)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("client_id", actor.ClientID.String()),
			slog.String("tenant_id", actor.TenantID.String()),
			slog.String("role", actor.Role),
		)

		c.Next()
	}
}

// RequireRoles restricts a route to the given roles. It must run after
// AuthenticationMiddleware.
func RequireRoles(logger *slog.Logger, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		logger.Debug("authorization failed: role not allowed",
			slog.String("client_id", actor.ClientID.String()),
			slog.String("role", actor.Role),
		)
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
		c.Abort()
	}
}
