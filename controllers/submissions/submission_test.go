package submissionController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"futureminds/config"
	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	submissionRoutes "futureminds/routers/submissionRoutes"
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
	submissionRoutes.SetupSubmissionRoutes(app)
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

// seedAssignment enrolls a fresh student into a fresh class with one assignment
func seedAssignment(t *testing.T) (student models.User, studentToken string, assignment models.Assignment) {
	t.Helper()
	db := database.Database.Db

	educator, _ := createUser(t, models.RoleEducator)
	student, studentToken = createUser(t, models.RoleStudent)

	class := models.Class{EducatorID: educator.ID, Name: "Creative Coding"}
	require.NoError(t, db.Create(&class).Error)
	require.NoError(t, db.Create(&models.ClassEnrollment{ClassID: class.ID, StudentID: student.ID}).Error)

	assignment = models.Assignment{ClassID: class.ID, EducatorID: educator.ID, Title: "Animate a sprite", XPReward: 50}
	require.NoError(t, db.Create(&assignment).Error)
	return student, studentToken, assignment
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

func uploadRequest(t *testing.T, app *fiber.App, assignmentID uint, token string, filenames ...string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, fmt.Sprintf("/assignments/%d/submission/files", assignmentID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestGetMySubmissionBeforeAnyWork(t *testing.T) {
	app := setupApp(t)
	_, token, assignment := seedAssignment(t)

	resp := jsonRequest(t, app, fiber.MethodGet, fmt.Sprintf("/assignments/%d/submission", assignment.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data struct {
		Status string   `json:"status"`
		Files  []string `json:"files"`
	}
	decodeData(t, resp, &data)
	assert.Equal(t, models.SubmissionNotStarted, data.Status)
	assert.Empty(t, data.Files)
}

func TestUploadCreatesSubmission(t *testing.T) {
	app := setupApp(t)
	student, token, assignment := seedAssignment(t)
	db := database.Database.Db

	resp := uploadRequest(t, app, assignment.ID, token, "sketch.png")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var submission models.Submission
	require.NoError(t, db.Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).First(&submission).Error)
	assert.Equal(t, models.SubmissionInProgress, submission.Status)

	files := submission.FileList()
	require.Len(t, files, 1)

	path, err := utils.ResolveFilePath(files[0])
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestUploadTwiceReusesSubmission(t *testing.T) {
	app := setupApp(t)
	student, token, assignment := seedAssignment(t)
	db := database.Database.Db

	require.Equal(t, fiber.StatusOK, uploadRequest(t, app, assignment.ID, token, "draft.txt").StatusCode)
	require.Equal(t, fiber.StatusOK, uploadRequest(t, app, assignment.ID, token, "final.txt").StatusCode)

	var count int64
	db.Model(&models.Submission{}).Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var submission models.Submission
	require.NoError(t, db.Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).First(&submission).Error)
	assert.Len(t, submission.FileList(), 2)
}

func TestUploadRequiresEnrollment(t *testing.T) {
	app := setupApp(t)
	_, _, assignment := seedAssignment(t)
	_, outsiderToken := createUser(t, models.RoleStudent)

	resp := uploadRequest(t, app, assignment.ID, outsiderToken, "sneaky.txt")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUploadPartialFailureKeepsUploadedFiles(t *testing.T) {
	app := setupApp(t)
	student, token, assignment := seedAssignment(t)
	db := database.Database.Db

	// The second filename exceeds the filesystem name limit, so its save
	// fails after the first file already landed
	unsavable := strings.Repeat("x", 300) + ".txt"
	resp := uploadRequest(t, app, assignment.ID, token, "first.txt", unsavable)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var data struct {
		Uploaded   []string `json:"uploaded"`
		FailedFile string   `json:"failed_file"`
	}
	decodeData(t, resp, &data)
	require.Len(t, data.Uploaded, 1)
	assert.Equal(t, unsavable, data.FailedFile)

	// The file saved before the failure stays attached and on disk
	var submission models.Submission
	require.NoError(t, db.Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).First(&submission).Error)
	files := submission.FileList()
	require.Len(t, files, 1)
	assert.Equal(t, data.Uploaded[0], files[0])

	path, err := utils.ResolveFilePath(files[0])
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRemoveFile(t *testing.T) {
	app := setupApp(t)
	student, token, assignment := seedAssignment(t)
	db := database.Database.Db

	require.Equal(t, fiber.StatusOK, uploadRequest(t, app, assignment.ID, token, "keep.txt", "drop.txt").StatusCode)

	var submission models.Submission
	require.NoError(t, db.Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).First(&submission).Error)
	files := submission.FileList()
	require.Len(t, files, 2)
	target := files[1]

	resp := jsonRequest(t, app, fiber.MethodDelete, fmt.Sprintf("/assignments/%d/submission/files", assignment.ID), token, fiber.Map{
		"file_url": target,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).First(&submission).Error)
	remaining := submission.FileList()
	require.Len(t, remaining, 1)
	assert.Equal(t, files[0], remaining[0])

	path, err := utils.ResolveFilePath(target)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveUnknownFile(t *testing.T) {
	app := setupApp(t)
	_, token, assignment := seedAssignment(t)

	require.Equal(t, fiber.StatusOK, uploadRequest(t, app, assignment.ID, token, "only.txt").StatusCode)

	resp := jsonRequest(t, app, fiber.MethodDelete, fmt.Sprintf("/assignments/%d/submission/files", assignment.ID), token, fiber.Map{
		"file_url": "submissions/1/1/0_deadbeef_other.txt",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitAssignment(t *testing.T) {
	app := setupApp(t)
	student, token, assignment := seedAssignment(t)
	db := database.Database.Db

	resp := jsonRequest(t, app, fiber.MethodPost, fmt.Sprintf("/assignments/%d/submission/submit", assignment.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var submission models.Submission
	require.NoError(t, db.Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).First(&submission).Error)
	assert.Equal(t, models.SubmissionSubmitted, submission.Status)
	assert.NotNil(t, submission.SubmittedAt)

	// Resubmitting refreshes the timestamp rather than failing
	resp = jsonRequest(t, app, fiber.MethodPost, fmt.Sprintf("/assignments/%d/submission/submit", assignment.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSubmitAfterGradedConflicts(t *testing.T) {
	app := setupApp(t)
	student, token, assignment := seedAssignment(t)
	db := database.Database.Db

	require.Equal(t, fiber.StatusOK, jsonRequest(t, app, fiber.MethodPost, fmt.Sprintf("/assignments/%d/submission/submit", assignment.ID), token, nil).StatusCode)
	require.NoError(t, db.Model(&models.Submission{}).
		Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).
		Update("status", models.SubmissionGraded).Error)

	resp := jsonRequest(t, app, fiber.MethodPost, fmt.Sprintf("/assignments/%d/submission/submit", assignment.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	upload := uploadRequest(t, app, assignment.ID, token, "late.txt")
	assert.Equal(t, fiber.StatusConflict, upload.StatusCode)
}

func TestDownloadFileAuthorization(t *testing.T) {
	app := setupApp(t)
	student, token, assignment := seedAssignment(t)
	db := database.Database.Db

	require.Equal(t, fiber.StatusOK, uploadRequest(t, app, assignment.ID, token, "report.pdf").StatusCode)

	var submission models.Submission
	require.NoError(t, db.Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).First(&submission).Error)
	key := submission.FileList()[0]

	resp := jsonRequest(t, app, fiber.MethodGet, "/files/"+key, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, strangerToken := createUser(t, models.RoleStudent)
	resp = jsonRequest(t, app, fiber.MethodGet, "/files/"+key, strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = jsonRequest(t, app, fiber.MethodGet, "/files/submissions/999/999/0_cafebabe_nope.txt", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
