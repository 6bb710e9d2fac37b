// Package postadmin is an admin panel for blog posts that live behind a
// remote REST API. It is built with Go, Echo, and templ: the panel renders
// list, form, and detail views over the remote collection, attaching
// bearer-token authentication to every outgoing API request.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// postadmin handles the handler logic, middleware, session login, and all
// communication with the remote API.
package postadmin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/postadmin/client"
	"github.com/eringen/postadmin/form"
)

// State bundles everything a panel template needs for one render.
type State struct {
	Title      string // panel title from Config.Name
	Controller ControllerState
	Form       form.State
	Content    templ.Component // rendered body of the selected post, set in detail mode
}

// ViewFuncs holds user-provided templ components that the panel calls when
// rendering. This is the inversion-of-control mechanism that lets users own
// and customize all templates.
type ViewFuncs struct {
	Login         func(showError bool, csrfToken string) templ.Component
	Panel         func(s State, csrfToken string) templ.Component
	ListPartial   func(s State, csrfToken string) templ.Component
	FormPartial   func(s State, csrfToken string) templ.Component
	DetailPartial func(s State, csrfToken string) templ.Component
	Settings      func(hasToken bool, message string, csrfToken string) templ.Component
	NotFound      func() templ.Component
	ServerError   func() templ.Component
}

// App is the central postadmin application. It wires together the API
// client, token store, panel controllers, middleware, and user-provided
// templates.
type App struct {
	Config Config
	Echo   *echo.Echo
	Tokens *TokenStore
	Client *client.Client
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	panels       *panelRegistry
	customRoutes []func(*App)
	staticDir    string
}

// New creates a postadmin App with the given configuration and view functions.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the token store, API client, middleware, and routes,
// then starts the server.
func (a *App) Start() error {
	if a.Config.APIURL == "" {
		return fmt.Errorf("postadmin: APIURL is required")
	}
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("postadmin: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("postadmin: SessionSecret is required")
	}

	tokens, err := NewTokenStore(a.Config.DBPath)
	if err != nil {
		return fmt.Errorf("postadmin: init token store: %w", err)
	}
	a.Tokens = tokens

	apiClient, err := client.New(a.Config.APIURL, tokens)
	if err != nil {
		return err
	}
	a.Client = apiClient

	a.panels = newPanelRegistry(apiClient.Posts())
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)

	e.GET("/", handleAdminRedirect)
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)

	// Collection view
	e.GET("/admin/posts/", a.handlePosts)
	e.GET("/admin/posts/new/", a.handlePostNew)
	e.GET("/admin/posts/:id/", a.handlePostDetail)
	e.GET("/admin/posts/:id/edit/", a.handlePostEdit)

	// Delete confirmation flow
	e.POST("/admin/posts/:id/delete/", a.handleDeleteRequest)
	e.POST("/admin/posts/delete/confirm/", a.handleDeleteConfirm)
	e.POST("/admin/posts/delete/cancel/", a.handleDeleteCancel)

	// Form interactions (htmx partial updates)
	e.POST("/admin/form/field/", a.handleFormField)
	e.POST("/admin/form/tags/add/", a.handleFormTagAdd)
	e.POST("/admin/form/tags/remove/", a.handleFormTagRemove)
	e.POST("/admin/form/images/add/", a.handleFormImageAdd)
	e.POST("/admin/form/images/remove/", a.handleFormImageRemove)
	e.POST("/admin/form/stage/", a.handleFormStage)
	e.POST("/admin/form/submit/", a.handleFormSubmit)
	e.POST("/admin/form/cancel/", a.handleFormCancel)

	// API token settings
	e.GET("/admin/settings/token/", a.handleTokenSettings)
	e.POST("/admin/settings/token/", a.handleTokenSave)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Tokens != nil {
		return a.Tokens.Close()
	}
	return nil
}

func handleAdminRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/admin/")
}
