package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/UdayIge/User-Management-System/internal/models"
	"github.com/UdayIge/User-Management-System/internal/repository"
	"github.com/UdayIge/User-Management-System/internal/service"
	"github.com/UdayIge/User-Management-System/internal/storage"
	"github.com/UdayIge/User-Management-System/internal/validation"
)

// builds a full app against the in-memory repository and a temp-dir store,
// with the same route table and error boundary as main.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := zap.NewNop().Sugar()
	svc := service.NewUserService(repository.NewMemoryUserRepo(), validation.New(), log)
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	h := NewUserHandler(svc, store, log)

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(true, log)})
	app.Get("/health", h.Health)
	users := app.Group("/users")
	users.Get("/", h.List)
	users.Post("/", h.Create)
	users.Get("/export", h.Export)
	users.Get("/:id", h.GetByID)
	users.Put("/:id", h.Update)
	users.Delete("/:id", h.Delete)
	app.Use(func(c *fiber.Ctx) error {
		return respondError(c, fiber.StatusNotFound, fmt.Sprintf("Route %s not found", c.OriginalURL()), nil)
	})
	return app
}

type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Errors     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeEnvelope(t *testing.T, res *http.Response) envelope {
	t.Helper()
	var env envelope
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("invalid envelope %q: %v", string(b), err)
	}
	return env
}

func multipartBody(t *testing.T, fields map[string]string, fileName, fileType string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profile"; filename="%s"`, fileName))
		h.Set("Content-Type", fileType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(fileContent)
	}
	_ = w.Close()
	return &buf, w.FormDataContentType()
}

func createUser(t *testing.T, app *fiber.App, fields map[string]string) envelope {
	t.Helper()
	body, ct := multipartBody(t, fields, "", "", nil)
	req := httptest.NewRequest("POST", "/users", body)
	req.Header.Set("Content-Type", ct)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d: %s", res.StatusCode, string(b))
	}
	return decodeEnvelope(t, res)
}

type userPayload struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Status   string `json:"status"`
	Email    string `json:"email"`
	Profile  string `json:"profile"`
}

func TestCreateReadDeleteLifecycle(t *testing.T) {
	app := newTestApp(t)

	env := createUser(t, app, map[string]string{
		"firstName": "Ann",
		"email":     "ann@x.com",
		"gender":    "Female",
		"status":    "Active",
	})
	var u userPayload
	_ = json.Unmarshal(env.Data, &u)
	if u.FullName != "Ann" || u.Status != "Active" || u.ID == "" {
		t.Fatalf("unexpected created payload: %+v", u)
	}

	// duplicate email conflicts
	body, ct := multipartBody(t, map[string]string{"firstName": "Other", "email": "ann@x.com"}, "", "", nil)
	req := httptest.NewRequest("POST", "/users", body)
	req.Header.Set("Content-Type", ct)
	res, _ := app.Test(req, -1)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %d", res.StatusCode)
	}

	// read one
	res, _ = app.Test(httptest.NewRequest("GET", "/users/"+u.ID, nil), -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on read, got %d", res.StatusCode)
	}

	// delete, then the record is gone
	res, _ = app.Test(httptest.NewRequest("DELETE", "/users/"+u.ID, nil), -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", res.StatusCode)
	}
	res, _ = app.Test(httptest.NewRequest("GET", "/users/"+u.ID, nil), -1)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", res.StatusCode)
	}
	res, _ = app.Test(httptest.NewRequest("DELETE", "/users/"+u.ID, nil), -1)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 deleting a missing user, got %d", res.StatusCode)
	}
}

func TestCreateValidationEnvelope(t *testing.T) {
	app := newTestApp(t)

	body, ct := multipartBody(t, map[string]string{"mobile": "12ab"}, "", "", nil)
	req := httptest.NewRequest("POST", "/users", body)
	req.Header.Set("Content-Type", ct)
	res, _ := app.Test(req, -1)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	env := decodeEnvelope(t, res)
	if env.Success || env.Message != "Validation failed" || len(env.Errors) == 0 {
		t.Fatalf("unexpected error envelope: %+v", env)
	}
}

func TestListPaginationEnvelope(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 3; i++ {
		createUser(t, app, map[string]string{
			"firstName": fmt.Sprintf("U%d", i),
			"email":     fmt.Sprintf("u%d@x.com", i),
		})
	}

	res, _ := app.Test(httptest.NewRequest("GET", "/users?limit=2", nil), -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	env := decodeEnvelope(t, res)
	if env.Pagination == nil {
		t.Fatal("expected pagination descriptor")
	}
	if env.Pagination.TotalCount != 3 || env.Pagination.TotalPages != 2 || !env.Pagination.HasNextPage || env.Pagination.HasPrevPage {
		t.Fatalf("unexpected pagination: %+v", env.Pagination)
	}

	// malformed limit is rejected before the query builder
	res, _ = app.Test(httptest.NewRequest("GET", "/users?limit=0", nil), -1)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", res.StatusCode)
	}

	// search across fields
	res, _ = app.Test(httptest.NewRequest("GET", "/users?search=U1", nil), -1)
	env = decodeEnvelope(t, res)
	if env.Pagination.TotalCount != 1 {
		t.Fatalf("expected one search hit, got %+v", env.Pagination)
	}
}

func TestInvalidIDRejected(t *testing.T) {
	app := newTestApp(t)
	res, _ := app.Test(httptest.NewRequest("GET", "/users/not-an-id", nil), -1)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", res.StatusCode)
	}
	env := decodeEnvelope(t, res)
	if len(env.Errors) != 1 || env.Errors[0].Field != "id" {
		t.Fatalf("expected id violation, got %+v", env.Errors)
	}
}

func TestProfileUploadAndUpdateSemantics(t *testing.T) {
	app := newTestApp(t)

	// wrong MIME type fails before any handler logic
	body, ct := multipartBody(t, map[string]string{"firstName": "Ann", "email": "ann@x.com"},
		"notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest("POST", "/users", body)
	req.Header.Set("Content-Type", ct)
	res, _ := app.Test(req, -1)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for wrong file type, got %d", res.StatusCode)
	}

	// valid upload lands under /uploads/profiles/
	body, ct = multipartBody(t, map[string]string{"firstName": "Ann", "email": "ann@x.com"},
		"me.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	req = httptest.NewRequest("POST", "/users", body)
	req.Header.Set("Content-Type", ct)
	res, _ = app.Test(req, -1)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	var u userPayload
	_ = json.Unmarshal(decodeEnvelope(t, res).Data, &u)
	if !strings.HasPrefix(u.Profile, "/uploads/profiles/") || !strings.HasSuffix(u.Profile, ".png") {
		t.Fatalf("unexpected profile path %q", u.Profile)
	}
	firstProfile := u.Profile

	// update without a file leaves the path untouched
	body, ct = multipartBody(t, map[string]string{"lastName": "Lee"}, "", "", nil)
	req = httptest.NewRequest("PUT", "/users/"+u.ID, body)
	req.Header.Set("Content-Type", ct)
	res, _ = app.Test(req, -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on update, got %d", res.StatusCode)
	}
	_ = json.Unmarshal(decodeEnvelope(t, res).Data, &u)
	if u.Profile != firstProfile {
		t.Fatalf("profile must stay untouched, got %q", u.Profile)
	}
	if u.FullName != "Ann Lee" {
		t.Fatalf("expected merged fullName, got %q", u.FullName)
	}

	// a new upload replaces it
	body, ct = multipartBody(t, nil, "new.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF})
	req = httptest.NewRequest("PUT", "/users/"+u.ID, body)
	req.Header.Set("Content-Type", ct)
	res, _ = app.Test(req, -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on update, got %d", res.StatusCode)
	}
	_ = json.Unmarshal(decodeEnvelope(t, res).Data, &u)
	if u.Profile == firstProfile || !strings.HasSuffix(u.Profile, ".jpg") {
		t.Fatalf("profile must be replaced, got %q", u.Profile)
	}
}

func TestExportAttachment(t *testing.T) {
	app := newTestApp(t)
	createUser(t, app, map[string]string{"firstName": "Ann", "email": "ann@x.com"})

	res, _ := app.Test(httptest.NewRequest("GET", "/users/export", nil), -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if cd := res.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment; filename=users-export-") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.HasPrefix(string(b), "ID,First Name,Last Name,Full Name,Email") {
		t.Fatalf("unexpected CSV head: %q", string(b)[:40])
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	res, _ := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 from health, got %d", res.StatusCode)
	}
	env := decodeEnvelope(t, res)
	if !env.Success || env.Message != "API is running" {
		t.Fatalf("unexpected health envelope: %+v", env)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/nope", nil), -1)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", res.StatusCode)
	}
	env = decodeEnvelope(t, res)
	if env.Success || env.Errors == nil {
		t.Fatalf("unknown route must use the error envelope: %+v", env)
	}
}
