package progressController_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"futureminds/config"
	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	progressRoutes "futureminds/routers/progressRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	progressRoutes.SetupProgressRoutes(app)
	return app
}

func createUser(t *testing.T, role string) (models.User, string) {
	t.Helper()
	db := database.Database.Db

	user := models.User{
		DisplayName: role + " user",
		Email:       uuid.NewString() + "@futureminds.test",
		Password:    "unused",
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, Role: role}).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: user.ID, DisplayName: user.DisplayName}).Error)
	require.NoError(t, db.Create(&models.UserProgress{UserID: user.ID, Level: 1}).Error)

	token, err := middleware.GenerateJWT(user.ID, user.DisplayName, role, user.Email)
	require.NoError(t, err)
	return user, token
}

func jsonRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGetMyProgress(t *testing.T) {
	app := setupApp(t)
	student, token := createUser(t, models.RoleStudent)
	db := database.Database.Db

	require.NoError(t, db.Model(&models.UserProgress{}).Where("user_id = ?", student.ID).Update("xp", 250).Error)

	resp := jsonRequest(t, app, fiber.MethodGet, "/progress", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data models.UserProgress `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 250, body.Data.XP)
	assert.Equal(t, 1, body.Data.Level)
}

func TestCompleteLesson(t *testing.T) {
	app := setupApp(t)
	student, token := createUser(t, models.RoleStudent)
	db := database.Database.Db

	resp := jsonRequest(t, app, fiber.MethodPost, "/progress/lessons/intro-robotics/complete", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var progress models.UserProgress
	require.NoError(t, db.Where("user_id = ?", student.ID).First(&progress).Error)
	assert.Equal(t, 50, progress.XP)
	assert.Equal(t, 10, progress.Coins)
	assert.Equal(t, 1, progress.LessonsCompleted)

	var completed int64
	db.Model(&models.ActivityLog{}).Where("user_id = ? AND activity_type = ?", student.ID, models.ActivityLessonCompleted).Count(&completed)
	assert.EqualValues(t, 1, completed)

	var earned int64
	db.Model(&models.ActivityLog{}).Where("user_id = ? AND activity_type = ?", student.ID, models.ActivityXPEarned).Count(&earned)
	assert.EqualValues(t, 1, earned)
}

func TestActivityFeedLimit(t *testing.T) {
	app := setupApp(t)
	student, token := createUser(t, models.RoleStudent)
	db := database.Database.Db

	for i := 0; i < 15; i++ {
		require.NoError(t, db.Create(&models.ActivityLog{UserID: student.ID, ActivityType: models.ActivityLessonStarted}).Error)
	}

	resp := jsonRequest(t, app, fiber.MethodGet, "/progress/activity", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []models.ActivityLog `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data, 10)

	resp = jsonRequest(t, app, fiber.MethodGet, "/progress/activity?limit=5", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body.Data = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data, 5)
}

func TestLinkChildAndOverview(t *testing.T) {
	app := setupApp(t)
	child, _ := createUser(t, models.RoleStudent)
	_, parentToken := createUser(t, models.RoleParent)
	db := database.Database.Db

	resp := jsonRequest(t, app, fiber.MethodPost, "/parent/link", parentToken, fiber.Map{
		"child_email": child.Email,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Linking twice conflicts
	resp = jsonRequest(t, app, fiber.MethodPost, "/parent/link", parentToken, fiber.Map{
		"child_email": child.Email,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	require.NoError(t, db.Create(&models.ApprovalRequest{
		ChildID: child.ID, RequestType: models.RequestPublishProject, Status: models.ApprovalPending,
	}).Error)
	require.NoError(t, db.Create(&models.ActivityLog{UserID: child.ID, ActivityType: models.ActivityLessonCompleted}).Error)

	resp = jsonRequest(t, app, fiber.MethodGet, "/parent/children", parentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []struct {
			ChildID         uint                     `json:"child_id"`
			Profile         models.Profile           `json:"profile"`
			PendingRequests []models.ApprovalRequest `json:"pending_requests"`
			RecentActivity  []models.ActivityLog     `json:"recent_activity"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, child.ID, body.Data[0].ChildID)
	assert.Equal(t, child.DisplayName, body.Data[0].Profile.DisplayName)
	assert.Len(t, body.Data[0].PendingRequests, 1)
	assert.Len(t, body.Data[0].RecentActivity, 1)
}

func TestLinkChildRejectsNonStudent(t *testing.T) {
	app := setupApp(t)
	otherParent, _ := createUser(t, models.RoleParent)
	_, parentToken := createUser(t, models.RoleParent)

	resp := jsonRequest(t, app, fiber.MethodPost, "/parent/link", parentToken, fiber.Map{
		"child_email": otherParent.Email,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
