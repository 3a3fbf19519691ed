package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/flatsheet/flatsheet/api/auth"
	"github.com/flatsheet/flatsheet/api/models"
	"github.com/flatsheet/flatsheet/config"
	"github.com/flatsheet/flatsheet/grid"
	"github.com/flatsheet/flatsheet/store"
)

// Literal responses the login and registration forms surface verbatim.
const (
	MsgLoginFailed = "Invalid username or password!"
	MsgUserExists  = "Username already exists"
)

type Handler struct {
	cfg    *config.Config
	users  *store.UserStore
	sheets *store.SheetStore
}

func New(cfg *config.Config, users *store.UserStore, sheets *store.SheetStore) *Handler {
	return &Handler{
		cfg:    cfg,
		users:  users,
		sheets: sheets,
	}
}

func (h *Handler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login checks the submitted credentials and establishes the session. When
// the form carries a non-empty role, it must match the stored one; the
// failure text never reveals which part was wrong.
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	wantRole := c.PostForm("role")

	role, ok, err := h.users.Check(username, password)
	if err != nil {
		log.Error("failed to check credentials", "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	if !ok || (wantRole != "" && store.Role(wantRole) != role) {
		c.String(http.StatusOK, MsgLoginFailed)
		return
	}

	user := &models.User{Username: username, Role: role}
	if err := auth.SaveSession(c, user); err != nil {
		log.Error("failed to save session", "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if user.IsAdmin() {
		c.Redirect(http.StatusFound, "/admin_dashboard")
	} else {
		c.Redirect(http.StatusFound, "/employee_dashboard")
	}
}

func (h *Handler) Logout(c *gin.Context) {
	if err := auth.ClearSession(c); err != nil {
		log.Error("failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	c.Redirect(http.StatusFound, "/sheet")
}

func (h *Handler) EmployeeDashboard(c *gin.Context) {
	c.Redirect(http.StatusFound, "/sheet")
}

func (h *Handler) RegisterAdminPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Role": store.RoleAdmin})
}

func (h *Handler) RegisterAdmin(c *gin.Context) {
	h.register(c, store.RoleAdmin)
}

func (h *Handler) RegisterEmployeePage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Role": store.RoleEmployee})
}

func (h *Handler) RegisterEmployee(c *gin.Context) {
	h.register(c, store.RoleEmployee)
}

// register appends a new user record. Duplicate usernames surface as the
// literal plain-text message, not a structured error.
func (h *Handler) register(c *gin.Context, role store.Role) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	err := h.users.Add(username, password, role)
	switch {
	case errors.Is(err, store.ErrUserExists):
		c.String(http.StatusOK, MsgUserExists)
	case err != nil:
		log.Error("failed to add user", "username", username, "error", err)
		c.String(http.StatusInternalServerError, "internal error")
	default:
		log.Info("registered user", "username", username, "role", role)
		c.Redirect(http.StatusFound, "/sheet")
	}
}

// SheetPage renders the grid for any logged-in user. Admins get editable
// cells, employees a read-only view.
func (h *Handler) SheetPage(c *gin.Context) {
	h.renderSheet(c)
}

// SheetAction applies an admin edit posted from the sheet page and re-renders
// the grid. Structural actions only exist in the freeform shape.
func (h *Handler) SheetAction(c *gin.Context) {
	shape := h.cfg.SheetShape()
	action := c.PostForm("action")

	var err error
	switch action {
	case "edit":
		var row, col int
		row, col, err = formIndices(c)
		if err == nil {
			value := c.PostForm("value")
			err = h.sheets.Update(func(s grid.Sheet) (grid.Sheet, error) {
				return s.SetCell(row, col, value, shape)
			})
		}
	case "add_row":
		err = h.structural(shape, func(s grid.Sheet) (grid.Sheet, error) {
			return s.AddRow(), nil
		})
	case "delete_row":
		err = h.structural(shape, func(s grid.Sheet) (grid.Sheet, error) {
			row, aerr := strconv.Atoi(c.PostForm("row"))
			if aerr != nil {
				return s, errMalformed
			}
			return s.DeleteRow(row)
		})
	case "add_col":
		err = h.structural(shape, func(s grid.Sheet) (grid.Sheet, error) {
			return s.AddCol(), nil
		})
	case "delete_col":
		err = h.structural(shape, func(s grid.Sheet) (grid.Sheet, error) {
			col, aerr := strconv.Atoi(c.PostForm("col"))
			if aerr != nil {
				return s, errMalformed
			}
			return s.DeleteCol(col)
		})
	default:
		err = errMalformed
	}

	if err != nil {
		status := http.StatusBadRequest
		if !isMalformed(err) {
			log.Error("sheet action failed", "action", action, "error", err)
			status = http.StatusInternalServerError
		}
		c.Status(status)
		return
	}
	h.renderSheet(c)
}

// UpdateCell is the auto-save endpoint: a single cell write answered with an
// empty body.
func (h *Handler) UpdateCell(c *gin.Context) {
	row, col, err := formIndices(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	value := c.PostForm("value")

	err = h.sheets.Update(func(s grid.Sheet) (grid.Sheet, error) {
		return s.SetCell(row, col, value, h.cfg.SheetShape())
	})
	if err != nil {
		if isMalformed(err) {
			c.Status(http.StatusBadRequest)
			return
		}
		log.Error("failed to update cell", "row", row, "col", col, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) renderSheet(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	sheet, err := h.sheets.Load()
	if err != nil {
		log.Error("failed to load sheet", "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.HTML(http.StatusOK, "sheet.html", gin.H{
		"User":     user,
		"Sheet":    sheet,
		"IsAdmin":  user.IsAdmin(),
		"Freeform": h.cfg.SheetShape() == grid.ShapeFreeform,
	})
}

// structural rejects structural edits outside the freeform shape before
// applying fn through the store.
func (h *Handler) structural(shape grid.Shape, fn func(grid.Sheet) (grid.Sheet, error)) error {
	if shape != grid.ShapeFreeform {
		return errMalformed
	}
	return h.sheets.Update(fn)
}

var errMalformed = errors.New("malformed request")

func isMalformed(err error) bool {
	return errors.Is(err, errMalformed) ||
		errors.Is(err, grid.ErrRowRange) ||
		errors.Is(err, grid.ErrColumnRange)
}

func formIndices(c *gin.Context) (row, col int, err error) {
	row, err = strconv.Atoi(c.PostForm("row"))
	if err != nil {
		return 0, 0, errMalformed
	}
	col, err = strconv.Atoi(c.PostForm("col"))
	if err != nil {
		return 0, 0, errMalformed
	}
	return row, col, nil
}
