package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/jobboard-dev/jobboard/internal/models"
)

// Full walkthrough: a seeker and an employer register, the employer posts a
// job, the seeker applies with a resume, and a re-apply is a no-op notice.
func TestJobBoardWalkthrough(t *testing.T) {
	app := newTestApp(t)

	w := doJSON(t, app.Router, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"password123","role":"job_seeker"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register alice: expected 201 got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, app.Router, http.MethodPost, "/api/auth/register",
		`{"username":"bob","email":"b@x.com","password":"password123","role":"employer"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register bob: expected 201 got %d: %s", w.Code, w.Body.String())
	}

	var alice, bob models.User
	if err := app.DB.Where("email = ?", "a@x.com").First(&alice).Error; err != nil {
		t.Fatalf("alice: %v", err)
	}
	if err := app.DB.Where("email = ?", "b@x.com").First(&bob).Error; err != nil {
		t.Fatalf("bob: %v", err)
	}
	if bob.Role != models.RoleEmployer {
		t.Fatalf("bob registered as %s", bob.Role)
	}

	w = doJSON(t, app.Router, http.MethodPost, "/api/jobs",
		`{"title":"Eng","description":"build things","location":"NY","company":"Acme"}`, sessionCookie(t, bob))
	if w.Code != http.StatusCreated {
		t.Fatalf("post job: expected 201 got %d: %s", w.Code, w.Body.String())
	}

	var job models.Job
	if err := app.DB.First(&job).Error; err != nil {
		t.Fatalf("job: %v", err)
	}

	if w := applyToJob(t, app, alice, job.ID, "r.pdf"); w.Code != http.StatusCreated {
		t.Fatalf("apply: expected 201 got %d: %s", w.Code, w.Body.String())
	}
	if got := countRows(t, app.DB, &models.Application{}, ""); got != 1 {
		t.Fatalf("expected 1 application, got %d", got)
	}

	w = doJSON(t, app.Router, http.MethodGet, jobPath(job.ID), "", sessionCookie(t, alice))
	if payload := decodeBody(t, w); payload["has_applied"] != true {
		t.Fatalf("has_applied flag not set: %v", payload)
	}

	w = applyToJob(t, app, alice, job.ID, "r.pdf")
	if w.Code != http.StatusOK {
		t.Fatalf("re-apply: expected 200 notice got %d: %s", w.Code, w.Body.String())
	}
	if msg, _ := decodeBody(t, w)["message"].(string); !strings.Contains(msg, "already applied") {
		t.Fatalf("expected already-applied notice, got %q", msg)
	}
	if got := countRows(t, app.DB, &models.Application{}, ""); got != 1 {
		t.Fatalf("re-apply created a record, got %d", got)
	}
}
