package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jobboard-dev/jobboard/internal/auth"
	"github.com/jobboard-dev/jobboard/internal/models"
	"github.com/jobboard-dev/jobboard/internal/router"
	"github.com/jobboard-dev/jobboard/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	os.Setenv("JWT_SECRET", "test-secret")

	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type testApp struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Resumes *services.ResumeStore
	Dir     string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conn := setupTestDB(t)
	dir := t.TempDir()

	resumes, err := services.NewResumeStore(dir)
	if err != nil {
		t.Fatalf("resume store: %v", err)
	}

	return &testApp{
		Router:  router.NewRouter(conn, resumes),
		DB:      conn,
		Resumes: resumes,
		Dir:     dir,
	}
}

const testPassword = "password123"

func createUser(t *testing.T, conn *gorm.DB, username, email string, role models.Role) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createJob(t *testing.T, conn *gorm.DB, employer models.User, title, company, location string) models.Job {
	t.Helper()

	job := models.Job{
		Title:       title,
		Description: title + " description",
		Salary:      "100k",
		Location:    location,
		Company:     company,
		EmployerID:  employer.ID,
	}
	if err := conn.Create(&job).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func sessionCookie(t *testing.T, user models.User) *http.Cookie {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Email, string(user.Role))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return &http.Cookie{Name: "token", Value: token}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return payload
}

func resumeForm(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func applyToJob(t *testing.T, app *testApp, seeker models.User, jobID uint, filename string) *httptest.ResponseRecorder {
	t.Helper()

	buf, contentType := resumeForm(t, filename, "resume content")
	req := httptest.NewRequest(http.MethodPost, jobPath(jobID)+"/apply", buf)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie(t, seeker))

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func jobPath(jobID uint) string {
	return "/api/jobs/" + strconv.FormatUint(uint64(jobID), 10)
}

func countRows(t *testing.T, conn *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	tx := conn.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}
