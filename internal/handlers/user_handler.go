package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/UdayIge/User-Management-System/internal/apperr"
	"github.com/UdayIge/User-Management-System/internal/models"
	"github.com/UdayIge/User-Management-System/internal/service"
	"github.com/UdayIge/User-Management-System/internal/storage"
	"github.com/UdayIge/User-Management-System/internal/validation"
)

type UserHandler struct {
	svc   *service.UserService
	store storage.Store
	log   *zap.SugaredLogger
}

func NewUserHandler(svc *service.UserService, store storage.Store, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{svc: svc, store: store, log: log}
}

// GET /users
func (h *UserHandler) List(c *fiber.Ctx) error {
	q, violations := validation.ParseListQuery(c.Query("page"), c.Query("limit"), c.Query("search"))
	if len(violations) > 0 {
		return apperr.Validation("Validation failed", violations...)
	}
	users, pagination, err := h.svc.List(c.Context(), q)
	if err != nil {
		return err
	}
	return respondPaginated(c, fiber.StatusOK, users, pagination, "Users fetched successfully")
}

// POST /users (multipart form, optional "profile" file)
func (h *UserHandler) Create(c *fiber.Ctx) error {
	profilePath, err := h.saveUpload(c)
	if err != nil {
		return err
	}
	form, err := decodeForm(c)
	if err != nil {
		return err
	}
	path := ""
	if profilePath != nil {
		path = *profilePath
	}
	user, err := h.svc.Create(c.Context(), form, path)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusCreated, user, "User created successfully")
}

// PUT /users/:id (multipart form, all fields optional)
func (h *UserHandler) Update(c *fiber.Ctx) error {
	profilePath, err := h.saveUpload(c)
	if err != nil {
		return err
	}
	form, err := decodeForm(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Update(c.Context(), c.Params("id"), form, profilePath)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, user, "User updated successfully")
}

// DELETE /users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, nil, "User deleted successfully")
}

// GET /users/:id
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, user, "User fetched successfully")
}

// GET /users/export
func (h *UserHandler) Export(c *fiber.Ctx) error {
	csv, err := h.svc.ExportCSV(c.Context())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=users-export-%d.csv`, time.Now().UnixMilli()))
	return c.Status(fiber.StatusOK).SendString(csv)
}

// GET /health
func (h *UserHandler) Health(c *fiber.Ctx) error {
	return respondSuccess(c, fiber.StatusOK, nil, "API is running")
}

// saveUpload validates and stores the "profile" file when one was sent.
// nil means the request carried no file, which leaves an existing profile
// path untouched on update.
func (h *UserHandler) saveUpload(c *fiber.Ctx) (*string, error) {
	fh, err := c.FormFile("profile")
	if err != nil {
		return nil, nil
	}
	if err := storage.ValidateImage(fh); err != nil {
		return nil, err
	}
	data, err := readFile(fh)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	path, err := h.store.Save(c.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &path, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// decodeForm extracts the user fields from a multipart body. A nil pointer
// means the field was absent; for email and mobile an empty submitted value
// counts as absent as well.
func decodeForm(c *fiber.Ctx) (models.UserForm, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return models.UserForm{}, apperr.Validation("Invalid form body")
	}
	field := func(key string) *string {
		vs, ok := mf.Value[key]
		if !ok || len(vs) == 0 {
			return nil
		}
		v := strings.TrimSpace(vs[0])
		return &v
	}
	blankIsAbsent := func(p *string) *string {
		if p != nil && *p == "" {
			return nil
		}
		return p
	}
	return models.UserForm{
		FirstName: field("firstName"),
		LastName:  field("lastName"),
		Email:     blankIsAbsent(field("email")),
		Mobile:    blankIsAbsent(field("mobile")),
		Gender:    field("gender"),
		Status:    field("status"),
		Location:  field("location"),
	}, nil
}
