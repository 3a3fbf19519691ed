package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/flatsheet/flatsheet/api/auth"
	"github.com/flatsheet/flatsheet/api/handler"
	"github.com/flatsheet/flatsheet/config"
	"github.com/flatsheet/flatsheet/store"
	"github.com/flatsheet/flatsheet/web"
)

// Plain-text guard messages shown to non-admins on the registration routes.
const (
	msgAdminRegisterDenied    = "Only admin can register a new admin"
	msgEmployeeRegisterDenied = "Only admin can register a new employee"
)

type Server struct {
	cfg        *config.Config
	ginEngine  *gin.Engine
	httpServer *http.Server
	users      *store.UserStore
	sheets     *store.SheetStore
}

func New(cfg *config.Config, users *store.UserStore, sheets *store.SheetStore) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	return &Server{
		cfg:       cfg,
		ginEngine: gin.Default(),
		users:     users,
		sheets:    sheets,
	}, nil
}

func (s *Server) setupSession() {
	sessionStore := cookie.NewStore([]byte(s.cfg.Session.Key))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions("flatsheet_session", sessionStore))
}

func (s *Server) setupRoutes() error {
	s.setupSession()

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.ginEngine.SetHTMLTemplate(tmpl)

	static, err := web.Static()
	if err != nil {
		return fmt.Errorf("failed to load static assets: %w", err)
	}
	s.ginEngine.StaticFS("/static", static)

	h := handler.New(s.cfg, s.users, s.sheets)

	s.ginEngine.GET("/", h.Home)
	s.ginEngine.GET("/login", h.LoginPage)
	s.ginEngine.POST("/login", h.Login)
	s.ginEngine.GET("/logout", h.Logout)

	// Dashboards redirect wrong-role and anonymous visitors back to login.
	s.ginEngine.GET("/admin_dashboard",
		auth.RequireRole(store.RoleAdmin, auth.RejectRedirect()), h.AdminDashboard)
	s.ginEngine.GET("/employee_dashboard",
		auth.RequireRole(store.RoleEmployee, auth.RejectRedirect()), h.EmployeeDashboard)

	// Registration answers non-admins with a literal explanation instead of a
	// redirect.
	adminOnlyMsg := auth.RequireRole(store.RoleAdmin, auth.RejectMessage(msgAdminRegisterDenied))
	s.ginEngine.GET("/admin_register", adminOnlyMsg, h.RegisterAdminPage)
	s.ginEngine.POST("/admin_register", adminOnlyMsg, h.RegisterAdmin)

	if s.cfg.Registration.EmployeeOpen {
		s.ginEngine.GET("/employee_register", h.RegisterEmployeePage)
		s.ginEngine.POST("/employee_register", h.RegisterEmployee)
	} else {
		employeeGate := auth.RequireRole(store.RoleAdmin, auth.RejectMessage(msgEmployeeRegisterDenied))
		s.ginEngine.GET("/employee_register", employeeGate, h.RegisterEmployeePage)
		s.ginEngine.POST("/employee_register", employeeGate, h.RegisterEmployee)
	}

	s.ginEngine.GET("/sheet", auth.RequireAuth(), h.SheetPage)
	s.ginEngine.POST("/sheet",
		auth.RequireRole(store.RoleAdmin, auth.RejectRedirect()), h.SheetAction)

	// Auto-save replies with a bare status, never a page.
	s.ginEngine.POST("/update_cell",
		auth.RequireRole(store.RoleAdmin, auth.RejectStatus(http.StatusForbidden)), h.UpdateCell)

	return nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	if err := s.setupRoutes(); err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.ginEngine,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
