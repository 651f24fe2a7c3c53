package auth

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"concrete-reservation/logger"
	userModel "concrete-reservation/models/user"
	"concrete-reservation/types"
	"concrete-reservation/utils"
)

const tokenLifetime = 24 * time.Hour

// AuthController handles staff login and logout.
type AuthController struct {
	DB *gorm.DB
}

// NewAuthController creates a new auth controller
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB: db,
	}
}

// Login verifies a staff account and issues an HS256 token carrying the
// account's permissions.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var account userModel.User
	err := ac.DB.Where("username = ?", req.Username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Incorrect username or password",
				Data:    nil,
			})
		}
		logger.Error("Failed to load account", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Incorrect username or password",
			Data:    nil,
		})
	}

	claims := jwt.MapClaims{
		"user_id":     account.ID,
		"username":    account.Username,
		"full_name":   account.FullName,
		"permissions": []string(account.Permissions),
		"exp":         time.Now().Add(tokenLifetime).Unix(),
		"iat":         time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		logger.Error("Failed to sign token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to sign token",
			Data:    nil,
		})
	}

	logger.Success("Login succeeded for " + account.Username)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Logged in successfully",
		Token:   token,
		Data: fiber.Map{
			"username":    account.Username,
			"full_name":   account.FullName,
			"permissions": account.Permissions,
		},
	})
}

// LogOut acknowledges the logout; tokens are stateless and simply
// dropped by the client.
func (ac *AuthController) LogOut(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Logged out successfully",
		Data:    nil,
	})
}
