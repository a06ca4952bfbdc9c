package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

const (
	userContextKey  = "currentUser"
	adminContextKey = "currentAdmin"
)

// Guard resolves bearer tokens to principals.
type Guard struct {
	db     *gorm.DB
	secret string
}

// NewGuard constructs a Guard.
func NewGuard(db *gorm.DB, secret string) *Guard {
	return &Guard{db: db, secret: secret}
}

// AuthenticateUser resolves authorization to an existing User.
func (g *Guard) AuthenticateUser(ctx context.Context, authorization string) (*models.User, error) {
	claims, err := g.verify(authorization)
	if err != nil {
		return nil, err
	}
	if claims.Role != utils.RoleUser {
		return nil, services.ErrUnauthorized("invalid token")
	}
	subject, err := claims.SubjectID()
	if err != nil {
		return nil, services.ErrUnauthorized("invalid token")
	}

	var user models.User
	if err := g.db.WithContext(ctx).First(&user, "id = ?", subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrUnauthorized("user no longer exists")
		}
		return nil, services.ErrInternal("failed to load user", err)
	}
	return &user, nil
}

// AuthenticateAdmin resolves authorization to an active Admin. A valid token
// that does not carry the admin role, or whose subject is not an admin, is
// forbidden rather than unauthorized.
func (g *Guard) AuthenticateAdmin(ctx context.Context, authorization string) (*models.Admin, error) {
	claims, err := g.verify(authorization)
	if err != nil {
		return nil, err
	}
	if claims.Role != utils.RoleAdmin {
		return nil, services.ErrForbidden("admin access required")
	}
	subject, err := claims.SubjectID()
	if err != nil {
		return nil, services.ErrUnauthorized("invalid token")
	}

	var admin models.Admin
	if err := g.db.WithContext(ctx).First(&admin, "id = ?", subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrForbidden("admin access required")
		}
		return nil, services.ErrInternal("failed to load admin", err)
	}
	if !admin.IsActive {
		return nil, services.ErrForbidden("admin account is deactivated")
	}
	return &admin, nil
}

// RequireUser rejects requests without a valid user token.
func (g *Guard) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := g.AuthenticateUser(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// RequireAdmin rejects requests without a valid admin token.
func (g *Guard) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, err := g.AuthenticateAdmin(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}

		c.Locals(adminContextKey, admin)
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userContextKey).(*models.User)
	return user, ok && user != nil
}

// CurrentAdmin returns the admin stored by RequireAdmin.
func CurrentAdmin(c *fiber.Ctx) (*models.Admin, bool) {
	admin, ok := c.Locals(adminContextKey).(*models.Admin)
	return admin, ok && admin != nil
}

func (g *Guard) verify(authorization string) (*utils.TokenClaims, error) {
	if authorization == "" {
		return nil, services.ErrUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, services.ErrUnauthorized("invalid authorization header")
	}

	claims, err := utils.ParseToken(g.secret, strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, services.ErrUnauthorized("invalid token")
	}
	return claims, nil
}
