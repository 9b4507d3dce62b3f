package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-api/internal/application"
	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/internal/repository"
	"github.com/oksasatya/go-user-api/pkg/apperrors"
	"github.com/oksasatya/go-user-api/pkg/pagination"
	"github.com/oksasatya/go-user-api/pkg/response"
	"github.com/oksasatya/go-user-api/pkg/validation"
)

// UserHandler decodes HTTP requests into manager calls and renders the
// results. Field names cross the boundary in camelCase; storage names are
// snake_case and the manager translates between them.
type UserHandler struct {
	Manager *application.UserManager
	Logger  *logrus.Logger
}

func NewUserHandler(m *application.UserManager, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Manager: m, Logger: logger}
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,max=50"`
}

type updateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email,max=100"`
}

type listUsersRequest struct {
	OrderBy   string `form:"orderBy,default=id"`
	Desc      bool   `form:"desc"`
	PageSize  int    `form:"pageSize,default=10" binding:"gte=1,lte=100"`
	PageToken string `form:"pageToken"`
}

// UserRead is the external representation of a user. The password never
// appears here.
type UserRead struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func readUser(u *entity.User) UserRead {
	return UserRead{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

// List handles GET /users with cursor pagination.
func (h *UserHandler) List(c *gin.Context) {
	var req listUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationFail(c, validation.ToDetails(err), nil)
		return
	}
	page, err := h.Manager.FetchPaginated(
		c.Request.Context(),
		repository.Query{OrderBy: req.OrderBy, Desc: req.Desc},
		req.PageToken,
		req.PageSize,
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(page, readUser))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.Manager.FetchByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, readUser(u))
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.ValidationFail(c, validation.ToDetails(err), rawBody(c))
		return
	}
	in := &application.UserCreate{Email: req.Email, Password: req.Password}
	if err := in.Validate(); err != nil {
		h.fail(c, err)
		return
	}
	u, err := h.Manager.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, readUser(u))
}

// Update handles PATCH /users/:id; only supplied fields change.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.ValidationFail(c, validation.ToDetails(err), rawBody(c))
		return
	}
	in := &application.UserUpdate{Email: req.Email}
	if err := in.Validate(); err != nil {
		h.fail(c, err)
		return
	}
	u, err := h.Manager.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, readUser(u))
}

// Delete handles DELETE /users/:id; success is 204 with no body.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.Manager.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	if apperrors.StatusOf(err) >= http.StatusInternalServerError && h.Logger != nil {
		h.Logger.WithError(err).WithField("path", c.FullPath()).Error("user request failed")
	}
	response.FromError(c, err)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "Invalid user id")
		return 0, false
	}
	return id, true
}

// rawBody echoes the request payload cached by ShouldBindBodyWith into the
// validation envelope.
func rawBody(c *gin.Context) any {
	if v, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := v.([]byte); ok && len(b) > 0 {
			var body any
			if json.Unmarshal(b, &body) == nil {
				return body
			}
			return string(b)
		}
	}
	return nil
}
