package authController

import (
	"log"

	"futureminds/config"
	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	authValidator "futureminds/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Signup registers a user and bootstraps the account: role row, profile and
// the initial progress row (xp 0, level 1), all in one transaction.
func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	avatar := reqData.Avatar
	if avatar == "" {
		avatar = "🚀"
	}

	newUser := models.User{
		DisplayName: reqData.DisplayName,
		Email:       reqData.Email,
		Password:    string(hashedPassword),
		Avatar:      avatar,
	}

	tx := db.Begin()
	if err := tx.Create(&newUser).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign up user!", nil)
	}

	role := models.UserRole{UserID: newUser.ID, Role: reqData.Role}
	if err := tx.Create(&role).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign role!", nil)
	}

	profile := models.Profile{
		UserID:      newUser.ID,
		DisplayName: reqData.DisplayName,
		Avatar:      avatar,
	}
	if err := tx.Create(&profile).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create profile!", nil)
	}

	progress := models.UserProgress{UserID: newUser.ID, XP: 0, Level: 1}
	if err := tx.Create(&progress).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initialize progress!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign up user!", nil)
	}

	token, err := middleware.GenerateJWT(newUser.ID, newUser.DisplayName, role.Role, newUser.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"token": token,
		"user":  newUser,
		"role":  role.Role,
	})
}

// Login authenticates with email/password and returns a JWT carrying the
// user's role, which the client uses to pick a dashboard.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	var userRole models.UserRole
	roleName := models.RoleStudent
	if err := db.Where("user_id = ?", user.ID).First(&userRole).Error; err == nil {
		roleName = userRole.Role
	}

	token, err := middleware.GenerateJWT(user.ID, user.DisplayName, roleName, user.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged in successfully.", fiber.Map{
		"token": token,
		"user":  user,
		"role":  roleName,
	})
}

// Me returns the signed-in user's account, profile and roles
func Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	user.Password = ""

	var profile models.Profile
	db.Where("user_id = ?", userID).First(&profile)

	var roles []models.UserRole
	db.Where("user_id = ?", userID).Find(&roles)

	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		roleNames = append(roleNames, r.Role)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", fiber.Map{
		"user":    user,
		"profile": profile,
		"roles":   roleNames,
	})
}
