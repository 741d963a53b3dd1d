package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

// AuthHandler signs in the back-office administrator configured through
// the environment and mints HS256 tokens for the admin routes.
type AuthHandler struct {
	email        string
	passwordHash []byte
	secret       []byte
}

func NewAuthHandler(email, passwordHash, secret string) *AuthHandler {
	return &AuthHandler{
		email:        strings.TrimSpace(email),
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
	}
}

func (h *AuthHandler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/admin/sign-in", h.signIn)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) signIn(c *fiber.Ctx) error {
	payload := new(signInRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}

	if h.email == "" || len(h.passwordHash) == 0 ||
		!strings.EqualFold(strings.TrimSpace(payload.Email), h.email) ||
		bcrypt.CompareHashAndPassword(h.passwordHash, []byte(payload.Password)) != nil {
		log.Warn().Str("email", payload.Email).Msg("admin sign-in rejected")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"sub":  h.email,
		"role": "admin",
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Sign-in successful",
		"token":   signed,
	})
}

// RequireAdmin rejects requests whose token, stored in c.Locals("user") by
// the JWT middleware, lacks the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin role required"})
	}
	return c.Next()
}
