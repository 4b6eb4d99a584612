package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"campfire/internal/middleware"
	"campfire/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "session_token"
	tokenIssuer       = "campfire-api"
	tokenAudience     = "campfire-client"
	sessionTTL        = 7 * 24 * time.Hour
)

// sessionClaims are the parts of a validated token handlers care about.
type sessionClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(sessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parseToken validates signature, expiry, issuer and audience.
func (s *Server) parseToken(tokenString string) (*sessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, models.NewUnauthorizedError("Invalid user ID in token")
	}

	out := &sessionClaims{UserID: uint(userID)}
	if jti, ok := claims["jti"].(string); ok {
		out.JTI = jti
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// tokenFromRequest reads a Bearer token, falling back to the session cookie.
func tokenFromRequest(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Cookies(sessionCookieName)
}

// authenticate resolves the caller's session, including the revocation check.
func (s *Server) authenticate(c *fiber.Ctx) (*sessionClaims, error) {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if s.cache.IsTokenRevoked(c.UserContext(), claims.JTI) {
		return nil, models.NewUnauthorizedError("Token has been revoked")
	}
	// Other sessions of a deleted account must not keep working.
	if _, err := s.userRepo.GetByID(c.UserContext(), claims.UserID); err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("Account no longer exists")
		}
		return nil, err
	}
	return claims, nil
}

func setCaller(c *fiber.Ctx, claims *sessionClaims) {
	c.Locals("userID", claims.UserID)
	c.Locals("session", claims)
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID)
	c.SetUserContext(ctx)
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := s.authenticate(c)
		if err != nil {
			if models.ErrorCode(err) != models.CodeUnauthorized {
				return respondServiceError(c, err)
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		setCaller(c, claims)
		return c.Next()
	}
}

// optionalAuth identifies the caller when a valid session is present but never rejects.
func (s *Server) optionalAuth(c *fiber.Ctx) uint {
	if id := currentUserID(c); id != 0 {
		return id
	}
	claims, err := s.authenticate(c)
	if err != nil {
		return 0
	}
	setCaller(c, claims)
	return claims.UserID
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := currentUserID(c)

		admin, err := s.isAdmin(c.UserContext(), userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

func (s *Server) isAdmin(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// startSession issues a token for user and sets it as the session cookie.
func (s *Server) startSession(c *fiber.Ctx, user *models.User) (string, error) {
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HTTPOnly: true,
		Secure:   s.config.SessionCookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return token, nil
}

// endSession revokes the caller's token until it would have expired and clears the cookie.
func (s *Server) endSession(c *fiber.Ctx) {
	if claims, ok := c.Locals("session").(*sessionClaims); ok {
		ttl := time.Until(claims.ExpiresAt)
		if err := s.cache.RevokeToken(c.UserContext(), claims.JTI, ttl); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "token revocation failed", "error", err.Error())
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.SessionCookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
