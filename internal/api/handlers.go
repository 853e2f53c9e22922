package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/romangod6/agency-site/internal/consent"
	"github.com/romangod6/agency-site/internal/content"
	"github.com/romangod6/agency-site/internal/metrics"
	"github.com/romangod6/agency-site/internal/models"
	"github.com/romangod6/agency-site/internal/render"
	"github.com/romangod6/agency-site/internal/sitemap"
	"github.com/romangod6/agency-site/internal/storage"
	"go.uber.org/zap"
)

const (
	visitorCookie    = "visitor_id"
	visitorCookieAge = 365 * 24 * 60 * 60
	xmlContentType   = "application/xml; charset=utf-8"
)

type Handler struct {
	registry  *content.Registry
	generator *sitemap.Generator
	store     storage.Store
	consent   *consent.Service
	metrics   *metrics.Metrics
	logger    *zap.Logger
	site      render.Site
	filename  string
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ConsentResponse struct {
	VisitorID   uuid.UUID           `json:"visitorId,omitempty"`
	Preferences consent.Preferences `json:"preferences"`
	Warning     string              `json:"warning,omitempty"`
}

type consentActionRequest struct {
	Preferences map[string]bool    `json:"preferences"`
	Type        consent.ActionType `json:"type"`
	Category    string             `json:"category"`
}

type consentSaveRequest struct {
	Preferences map[string]bool `json:"preferences"`
}

func NewHandler(deps Deps) *Handler {
	h := &Handler{
		registry:  deps.Registry,
		generator: deps.Generator,
		store:     deps.Store,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		site:      deps.Site,
		filename:  deps.Filename,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.filename == "" {
		h.filename = sitemap.DefaultFilename
	}
	// Without a store pages still render, with default preferences.
	if deps.Store != nil {
		h.consent = consent.NewService(deps.Store)
	}
	return h
}

// Sitemap handlers
func (h *Handler) ServeSitemap(c *gin.Context) {
	doc := h.generator.Generate(h.registry.Entries())
	c.Data(http.StatusOK, xmlContentType, []byte(doc))
}

func (h *Handler) ExportSitemap(c *gin.Context) {
	entries := h.registry.Entries()
	doc := h.generator.Generate(entries)

	if h.store != nil {
		export := models.NewSitemapExport("download", h.filename, h.generator.BaseURL, sitemap.CountPublic(entries), len(doc))
		if err := h.store.RecordExport(c.Request.Context(), export); err != nil {
			h.logger.Warn("Failed to record sitemap export", zap.Error(err))
		}
	}
	h.metrics.ExportRecorded("download")

	c.Header("Content-Disposition", sitemap.ContentDisposition(h.filename))
	c.Data(http.StatusOK, xmlContentType, []byte(doc))
}

func (h *Handler) ListExports(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Export history unavailable"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	exports, err := h.store.ListExports(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch exports"})
		return
	}

	if exports == nil {
		exports = []*models.SitemapExport{}
	}

	c.JSON(http.StatusOK, exports)
}

func (h *Handler) ListPages(c *gin.Context) {
	pages := h.registry.Public()
	entries := make([]models.SitemapEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, p.Entry())
	}
	c.JSON(http.StatusOK, entries)
}

// Consent handlers
func (h *Handler) GetConsent(c *gin.Context) {
	visitorID := h.visitorID(c, true)
	resp := ConsentResponse{VisitorID: visitorID, Preferences: consent.Defaults()}

	if h.consent != nil {
		prefs, err := h.consent.Load(c.Request.Context(), visitorID)
		resp.Preferences = prefs
		if err != nil {
			h.logger.Error("Failed to load consent", zap.String("visitor", visitorID.String()), zap.Error(err))
			resp.Warning = "Saved preferences could not be loaded; defaults apply"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ApplyConsentAction runs the reducer on the state the client sends and
// returns the next state. Nothing is persisted.
func (h *Handler) ApplyConsentAction(c *gin.Context) {
	var req consentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid consent action"})
		return
	}

	action := consent.Action{Type: req.Type}
	switch req.Type {
	case consent.ActionToggle:
		category, ok := consent.ParseCategory(req.Category)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown cookie category"})
			return
		}
		action.Category = category
	case consent.ActionAcceptAll, consent.ActionRejectAll, consent.ActionReset:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown consent action"})
		return
	}

	state := consent.Defaults()
	if req.Preferences != nil {
		state = consent.FromMap(req.Preferences).Normalize()
	}

	c.JSON(http.StatusOK, ConsentResponse{Preferences: consent.Reduce(state, action)})
}

func (h *Handler) SaveConsent(c *gin.Context) {
	if h.consent == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Preference storage unavailable"})
		return
	}

	isForm := c.ContentType() == gin.MIMEPOSTForm || c.ContentType() == gin.MIMEMultipartPOSTForm

	var prefs consent.Preferences
	if isForm {
		prefs = consent.Defaults()
		for _, category := range consent.Categories {
			prefs[category] = c.PostForm(string(category)) != ""
		}
	} else {
		var req consentSaveRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Preferences == nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid consent preferences"})
			return
		}
		prefs = consent.FromMap(req.Preferences)
	}

	visitorID := h.visitorID(c, true)
	saved, err := h.consent.Save(c.Request.Context(), visitorID, prefs)
	h.metrics.ConsentSaved(err)

	if err != nil {
		h.logger.Error("Failed to save consent", zap.String("visitor", visitorID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save preferences"})
		return
	}

	if isForm {
		c.Redirect(http.StatusSeeOther, safeReferer(c))
		return
	}

	c.JSON(http.StatusOK, ConsentResponse{VisitorID: visitorID, Preferences: saved})
}

// Page rendering
func (h *Handler) RenderPage(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	if path != "/" {
		path = strings.TrimRight(path, "/")
	}

	rc := render.Context{
		Site:       h.site,
		Navigation: h.registry.Public(),
		Consent:    h.visitorPreferences(c),
		Year:       time.Now().Year(),
	}

	status := http.StatusOK
	page, ok := h.registry.Lookup(path)
	component := render.NotFound(rc)
	if ok && page.IsPublic() {
		rc.Page = page
		component = render.Page(rc)
	} else {
		status = http.StatusNotFound
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		h.logger.Error("Failed to render page", zap.String("path", path), zap.Error(err))
	}
	h.metrics.PageViewed(status)
}

// visitorID reads the visitor cookie. With issue set, a fresh id is
// generated and set when the cookie is missing or malformed.
func (h *Handler) visitorID(c *gin.Context, issue bool) uuid.UUID {
	if raw, err := c.Cookie(visitorCookie); err == nil {
		if id, err := uuid.Parse(raw); err == nil {
			return id
		}
	}
	if !issue {
		return uuid.Nil
	}

	id := uuid.New()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(visitorCookie, id.String(), visitorCookieAge, "/", "", false, true)
	return id
}

func (h *Handler) visitorPreferences(c *gin.Context) consent.Preferences {
	visitorID := h.visitorID(c, false)
	if visitorID == uuid.Nil || h.consent == nil {
		return consent.Defaults()
	}

	prefs, err := h.consent.Load(c.Request.Context(), visitorID)
	if err != nil {
		h.logger.Warn("Falling back to default consent", zap.Error(err))
	}
	return prefs
}

// safeReferer only redirects back to local paths on this host.
func safeReferer(c *gin.Context) string {
	u, err := url.Parse(c.Request.Referer())
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return "/"
	}
	// A leading "//" or "/\" would be read by the browser as another host.
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return "/"
	}

	target := u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}
