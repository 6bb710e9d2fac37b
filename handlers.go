package postadmin

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/postadmin/form"
	"github.com/eringen/postadmin/markdown"
)

// panel returns the session's panel, assigning a panel id to sessions that
// predate the registry entry.
func (a *App) panel(c echo.Context) *panel {
	id, p := a.panels.get(panelID(c))
	if id != panelID(c) {
		_ = setAdminSession(c, id)
	}
	return p
}

// state assembles the render state for one request. In detail mode the
// selected post's body is pre-rendered so templates can drop it in as-is.
func (a *App) state(p *panel) State {
	s := State{
		Title:      a.Config.Name,
		Controller: p.ctrl.Snapshot(),
		Form:       p.ctrl.Form().Snapshot(),
	}
	if s.Controller.Mode == ViewDetail && s.Controller.Selected != nil {
		s.Content = markdown.Markdown(s.Controller.Selected.Content)
	}
	return s
}

// renderPanel renders the partial matching the active view mode for htmx
// requests, or the full panel shell otherwise.
func (a *App) renderPanel(c echo.Context, p *panel) error {
	s := a.state(p)
	token := CsrfToken(c)
	if c.Request().Header.Get("HX-Request") == "true" {
		switch s.Controller.Mode {
		case ViewForm:
			return Render(c, a.Views.FormPartial(s, token))
		case ViewDetail:
			return Render(c, a.Views.DetailPartial(s, token))
		default:
			return Render(c, a.Views.ListPartial(s, token))
		}
	}
	return Render(c, a.Views.Panel(s, token))
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.Login(false, CsrfToken(c)))
	}
	p := a.panel(c)
	p.ctrl.Refresh(c.Request().Context())
	return a.renderPanel(c, p)
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(c.RealIP())
		return Render(c, a.Views.Login(true, CsrfToken(c)))
	}
	id, _ := a.panels.get("")
	if err := setAdminSession(c, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	a.panels.drop(panelID(c))
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handlePosts(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	ctx := c.Request().Context()
	snap := p.ctrl.Snapshot()
	if snap.Mode != ViewList {
		p.ctrl.Cancel()
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	switch {
	case c.QueryParams().Has("q") && c.QueryParam("q") != snap.Search:
		p.ctrl.SetSearch(ctx, c.QueryParam("q"))
	case page > 0 && page != snap.Page:
		p.ctrl.SetPage(ctx, page)
	default:
		p.ctrl.Refresh(ctx)
	}
	return a.renderPanel(c, p)
}

func (a *App) handlePostNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.ShowCreate()
	return a.renderPanel(c, p)
}

func (a *App) handlePostDetail(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.ShowDetail(c.Request().Context(), c.Param("id"))
	return a.renderPanel(c, p)
}

func (a *App) handlePostEdit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.ShowEdit(c.Request().Context(), c.Param("id"))
	return a.renderPanel(c, p)
}

func (a *App) handleDeleteRequest(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.RequestDelete(c.Param("id"))
	return a.renderPanel(c, p)
}

func (a *App) handleDeleteConfirm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.ConfirmDelete(c.Request().Context())
	return a.renderPanel(c, p)
}

func (a *App) handleDeleteCancel(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.CancelDelete()
	return a.renderPanel(c, p)
}

func (a *App) handleFormField(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	name := c.FormValue("name")
	value := c.FormValue("value")
	switch name {
	case "isPublished", "isFeatured":
		p.ctrl.Form().SetChecked(name, value == "on" || value == "true")
	case "tagInput":
		p.ctrl.Form().SetTagInput(value)
	default:
		p.ctrl.Form().SetField(name, value)
	}
	return a.renderPanel(c, p)
}

func (a *App) handleFormTagAdd(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.Form().SetTagInput(c.FormValue("tag"))
	p.ctrl.Form().AddTag()
	return a.renderPanel(c, p)
}

func (a *App) handleFormTagRemove(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.Form().RemoveTag(c.FormValue("tag"))
	return a.renderPanel(c, p)
}

func (a *App) handleFormImageAdd(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.Form().SetImageInput(form.ImageInput{
		URL:     c.FormValue("url"),
		Alt:     c.FormValue("alt"),
		Caption: c.FormValue("caption"),
	})
	p.ctrl.Form().AddImage()
	return a.renderPanel(c, p)
}

func (a *App) handleFormImageRemove(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	idx, err := strconv.Atoi(c.FormValue("index"))
	if err != nil {
		return c.String(http.StatusBadRequest, "Image index required")
	}
	p.ctrl.Form().RemoveImage(idx)
	return a.renderPanel(c, p)
}

func (a *App) handleFormStage(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mime := file.Header.Get("Content-Type")
	if c.FormValue("via") == "drop" {
		p.ctrl.Form().DropFile(file.Filename, mime, src)
	} else if err := p.ctrl.Form().StageFile(file.Filename, mime, src); err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	return a.renderPanel(c, p)
}

func (a *App) handleFormSubmit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.SubmitForm(c.Request().Context())
	return a.renderPanel(c, p)
}

func (a *App) handleFormCancel(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p := a.panel(c)
	p.ctrl.Cancel()
	p.ctrl.Refresh(c.Request().Context())
	return a.renderPanel(c, p)
}

func (a *App) handleTokenSettings(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	token, err := a.Tokens.Token(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Settings(token != "", c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleTokenSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ctx := c.Request().Context()
	token := c.FormValue("token")
	if token == "" {
		if err := a.Tokens.ClearToken(ctx); err != nil {
			return err
		}
		return Render(c, a.Views.Settings(false, "Token cleared", CsrfToken(c)))
	}
	if err := a.Tokens.SetToken(ctx, token); err != nil {
		return err
	}
	return Render(c, a.Views.Settings(true, "Token saved", CsrfToken(c)))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
