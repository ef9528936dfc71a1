package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/Nogthings/befosa-software/internal/apierror"
	"github.com/Nogthings/befosa-software/internal/config"
	"github.com/Nogthings/befosa-software/internal/database"
	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordCost matches the cost used by the seed tooling.
const PasswordCost = 12

var errAdminExists = fiber.NewError(fiber.StatusForbidden, "An administrator already exists")

type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// POST /api/auth/register-admin
// Only allowed while no administrator exists.
func RegisterAdminHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		if err := apierror.Validate(&body); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), PasswordCost)
		if err != nil {
			return err
		}
		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}

		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.User{}).
				Where("role = ?", models.RoleAdmin).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errAdminExists
			}
			if err := tx.Create(&user).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return errAdminExists
				}
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// POST /api/auth/login
func LoginHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		if err := apierror.Validate(&body); err != nil {
			return err
		}

		var user models.User
		err := db.WithContext(c.UserContext()).Where("email = ?", body.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}
		if err != nil {
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}

		token, claims, err := GenerateToken(cfg.JWTSecret, &user, cfg.SessionTTL)
		if err != nil {
			return err
		}

		return c.JSON(LoginResponse{
			Token:     token,
			ExpiresAt: claims.ExpiresAt.Time,
			User:      &user,
		})
	}
}

// POST /api/auth/logout
func LogoutHandler(sessions SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		if err := sessions.Revoke(c.UserContext(), claims.ID, claims.ExpiresAt.Time); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		var user models.User
		err := db.WithContext(c.UserContext()).First(&user, "id = ?", claims.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "User no longer exists")
		}
		if err != nil {
			return err
		}
		return c.JSON(user)
	}
}
