package main

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hephzaron/portfolio/internal/catalog"
	"github.com/hephzaron/portfolio/internal/config"
	"github.com/hephzaron/portfolio/internal/db"
	"github.com/hephzaron/portfolio/internal/logger"
	"github.com/hephzaron/portfolio/internal/mail"
	"github.com/hephzaron/portfolio/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	visitorCookie = "visitor_id"
	themeCookie   = "theme"
	themeMaxAge   = 365 * 24 * 3600
)

type server struct {
	cfg       *config.Config
	catalog   *catalog.Catalog
	sessions  *session.Registry
	analytics *db.Store // nil when analytics are off
	mailer    mail.Sender
	admin     *adminAuth

	visits sync.WaitGroup
}

func newServer(cfg *config.Config, cat *catalog.Catalog, analytics *db.Store, mailer mail.Sender) *server {
	return &server{
		cfg:       cfg,
		catalog:   cat,
		sessions:  session.NewRegistry(cat, cfg.Content.ProjectsPerPage, cfg.Server.SessionTTL),
		analytics: analytics,
		mailer:    mailer,
		admin:     newAdminAuth(cfg.Admin),
	}
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"iterate": func(n int) []int {
			out := make([]int, max(n, 0))
			for i := range out {
				out[i] = i
			}
			return out
		},
		"mod": func(a, b int) int { return a % b },
	}).ParseFS(templateFS, "templates/*.html")
}

func (s *server) router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))

	r.Use(s.visitorTrackingMiddleware())

	r.GET("/", s.handleIndex)
	r.GET("/projects", func(c *gin.Context) {
		s.mutate(c, "projects", func(*session.Session) bool { return false })
	})

	r.POST("/skills/toggle", s.handleToggle)
	r.POST("/skills/select", s.handleSelect)
	r.POST("/skills/reset", s.handleReset)
	r.POST("/skills/category", s.handleCategory)

	r.POST("/projects/page/:n", func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("n"))
		s.mutate(c, "projects", func(ss *session.Session) bool {
			if err == nil {
				ss.Projects.GoToPage(n)
			}
			return false
		})
	})
	r.POST("/projects/next", func(c *gin.Context) {
		s.mutate(c, "projects", func(ss *session.Session) bool {
			ss.Projects.NextPage()
			return false
		})
	})
	r.POST("/projects/prev", func(c *gin.Context) {
		s.mutate(c, "projects", func(ss *session.Session) bool {
			ss.Projects.PrevPage()
			return false
		})
	})

	r.POST("/theme/toggle", s.handleTheme)

	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{})
	})
	r.POST("/contact", s.handleContact)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
	})

	s.setupAdminRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", gin.H{"theme": theme(c)})
	})

	return r, nil
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func theme(c *gin.Context) string {
	if t, _ := c.Cookie(themeCookie); t == "dark" {
		return "dark"
	}
	return "light"
}

// session returns the visitor's session, issuing a new visitor cookie when
// the request carried none or an unknown one.
func (s *server) session(c *gin.Context) *session.Session {
	id, _ := c.Cookie(visitorCookie)
	sess := s.sessions.Get(id)
	if sess.ID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(visitorCookie, sess.ID, 0, "/", "", false, true)
	}
	return sess
}

func (s *server) showcaseData(ss *session.Session) gin.H {
	return gin.H{
		"skills":    ss.Skills.Snapshot(),
		"projects":  ss.Projects.Snapshot(),
		"githubURL": GithubURL,
	}
}

func (s *server) handleIndex(c *gin.Context) {
	var data gin.H
	s.session(c).Do(func(ss *session.Session) {
		data = s.showcaseData(ss)
	})

	data["theme"] = theme(c)
	data["firstName"] = OwnerFirstName
	data["lastName"] = OwnerLastName
	data["tagline"] = HeroTagline
	data["aboutHeadline"] = AboutHeadline
	data["about"] = AboutMe
	data["nav"] = NavItems
	data["year"] = time.Now().Year()

	c.HTML(http.StatusOK, "index.html", data)
}

// mutate applies fn to the visitor's session and renders the showcase
// fragment. fn reports whether the client should scroll to the projects.
// Plain form posts are redirected back to anchor on the full page.
func (s *server) mutate(c *gin.Context, anchor string, fn func(*session.Session) bool) {
	var (
		scroll bool
		data   gin.H
	)
	s.session(c).Do(func(ss *session.Session) {
		scroll = fn(ss)
		data = s.showcaseData(ss)
	})

	if !isHTMX(c) {
		if scroll {
			anchor = "projects"
		}
		c.Redirect(http.StatusSeeOther, "/#"+anchor)
		return
	}
	if scroll {
		c.Header("HX-Trigger", `{"scrollTo":"projects"}`)
	}
	c.HTML(http.StatusOK, "showcase.html", data)
}

func (s *server) handleToggle(c *gin.Context) {
	tag, ok := c.GetPostForm("tag")
	if !ok || tag == "" {
		c.String(http.StatusBadRequest, "missing tag")
		return
	}
	s.mutate(c, "skills", func(ss *session.Session) bool {
		selected := ss.Skills.Click(tag)
		s.recordSkillEvent(c.Request.Context(), "toggle", tag, ss.ID, selected)
		return selected
	})
}

func (s *server) handleSelect(c *gin.Context) {
	tag, ok := c.GetPostForm("tag")
	if !ok || tag == "" {
		c.String(http.StatusBadRequest, "missing tag")
		return
	}
	s.mutate(c, "projects", func(ss *session.Session) bool {
		ss.Store.Select(tag)
		s.recordSkillEvent(c.Request.Context(), "select", tag, ss.ID, true)
		return true
	})
}

func (s *server) handleReset(c *gin.Context) {
	s.mutate(c, "projects", func(ss *session.Session) bool {
		ss.Store.Reset()
		s.recordSkillEvent(c.Request.Context(), "reset", "", ss.ID, false)
		return false
	})
}

func (s *server) handleCategory(c *gin.Context) {
	category := c.PostForm("category")
	s.mutate(c, "skills", func(ss *session.Session) bool {
		ss.Skills.SetCategory(category)
		return false
	})
}

// recordSkillEvent stores a filter interaction. A toggle that cleared the
// filter is stored as a reset.
func (s *server) recordSkillEvent(ctx context.Context, action, tag, visitorID string, selected bool) {
	if s.analytics == nil {
		return
	}
	if action == "toggle" && !selected {
		action, tag = "reset", ""
	}
	err := s.analytics.RecordSkillEvent(ctx, db.SkillEvent{
		Action:    action,
		Tag:       tag,
		VisitorID: visitorID,
		Timestamp: time.Now(),
	})
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to record skill event")
	}
}

func (s *server) handleTheme(c *gin.Context) {
	next := "dark"
	if theme(c) == "dark" {
		next = "light"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, next, themeMaxAge, "/", "", false, false)

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Header("HX-Trigger", `{"themeChanged":"`+next+`"}`)
	c.HTML(http.StatusOK, "theme-toggle.html", gin.H{"theme": next})
}

func (s *server) handleContact(c *gin.Context) {
	var msg mail.Message
	if err := c.ShouldBind(&msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": mail.FieldError(err).Error()})
		return
	}
	if err := msg.Validate(); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": err.Error()})
		return
	}

	if err := s.mailer.Send(c.Request.Context(), msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
