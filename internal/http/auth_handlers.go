package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/artosku/duitku-backend/internal/auth"
	"github.com/artosku/duitku-backend/internal/store"
)

// UsersCollection is the document collection user accounts live in.
const UsersCollection = "users"

type AuthHandler struct {
	Store  store.Store
	Secret []byte
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}
	if len(body.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	ctx := c.UserContext()

	existing, err := h.Store.QueryByField(ctx, UsersCollection, "email", body.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}
	if len(existing) > 0 {
		return fiber.NewError(fiber.StatusConflict, "email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	userID, err := h.Store.Create(ctx, UsersCollection, map[string]any{
		"email":        body.Email,
		"passwordHash": string(hashed),
		"name":         strings.TrimSpace(body.FullName),
		"createdAt":    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	token, err := auth.GenerateToken(h.Secret, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	docs, err := h.Store.QueryByField(c.UserContext(), UsersCollection, "email", body.Email)
	if err != nil || len(docs) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	doc := docs[0]
	hash := store.StringField(doc.Fields, "passwordHash")
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := auth.GenerateToken(h.Secret, doc.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.JSON(authResponse{Token: token})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	doc, err := h.Store.Get(c.UserContext(), UsersCollection, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{
		"id":        doc.ID,
		"email":     store.StringField(doc.Fields, "email"),
		"name":      store.StringField(doc.Fields, "name"),
		"gender":    store.StringField(doc.Fields, "gender"),
		"birthdate": store.StringField(doc.Fields, "birthdate"),
	})
}
