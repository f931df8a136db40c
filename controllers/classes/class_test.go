package classController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"futureminds/config"
	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	classRoutes "futureminds/routers/classRoutes"
	"futureminds/utils"

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

	config.AppConfig = &config.Config{JWTKey: "test-secret", UploadDir: t.TempDir()}

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
	classRoutes.SetupClassRoutes(app)
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

// writeAttachment puts a blob on disk and references it from the submission
func writeAttachment(t *testing.T, submission *models.Submission) string {
	t.Helper()

	key := fmt.Sprintf("submissions/%d/%d/1700000000000_cafe1234_notes.txt", submission.StudentID, submission.ID)
	path, err := utils.ResolveFilePath(key)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("attached work"), 0644))

	submission.SetFileList([]string{key})
	require.NoError(t, database.Database.Db.Model(submission).Update("file_urls", submission.FileURLs).Error)
	return key
}

func TestDeleteClassCascadesWithAttachments(t *testing.T) {
	app := setupApp(t)
	db := database.Database.Db

	educator, educatorToken := createUser(t, models.RoleEducator)
	student, _ := createUser(t, models.RoleStudent)

	class := models.Class{EducatorID: educator.ID, Name: "Electronics"}
	require.NoError(t, db.Create(&class).Error)
	require.NoError(t, db.Create(&models.ClassEnrollment{ClassID: class.ID, StudentID: student.ID}).Error)

	assignment := models.Assignment{ClassID: class.ID, EducatorID: educator.ID, Title: "Solder a circuit"}
	require.NoError(t, db.Create(&assignment).Error)

	submission := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Status: models.SubmissionSubmitted}
	require.NoError(t, db.Create(&submission).Error)
	key := writeAttachment(t, &submission)

	resp := jsonRequest(t, app, fiber.MethodDelete, fmt.Sprintf("/classes/%d", class.ID), educatorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Submission{}).Where("assignment_id = ?", assignment.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.Assignment{}).Where("class_id = ?", class.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.ClassEnrollment{}).Where("class_id = ?", class.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	// The attachment blob goes with the rows
	path, err := utils.ResolveFilePath(key)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteClassForeignEducator(t *testing.T) {
	app := setupApp(t)
	db := database.Database.Db

	educator, _ := createUser(t, models.RoleEducator)
	_, otherToken := createUser(t, models.RoleEducator)

	class := models.Class{EducatorID: educator.ID, Name: "Not Yours"}
	require.NoError(t, db.Create(&class).Error)

	resp := jsonRequest(t, app, fiber.MethodDelete, fmt.Sprintf("/classes/%d", class.ID), otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var count int64
	db.Model(&models.Class{}).Where("id = ?", class.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnrollStudentTwiceConflicts(t *testing.T) {
	app := setupApp(t)
	db := database.Database.Db

	educator, educatorToken := createUser(t, models.RoleEducator)
	student, _ := createUser(t, models.RoleStudent)

	class := models.Class{EducatorID: educator.ID, Name: "Astronomy"}
	require.NoError(t, db.Create(&class).Error)

	resp := jsonRequest(t, app, fiber.MethodPost, fmt.Sprintf("/classes/%d/enroll", class.ID), educatorToken, fiber.Map{
		"student_id": student.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = jsonRequest(t, app, fiber.MethodPost, fmt.Sprintf("/classes/%d/enroll", class.ID), educatorToken, fiber.Map{
		"student_id": student.ID,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
