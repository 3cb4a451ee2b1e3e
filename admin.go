// admin.go - privacy-conscious visitor analytics and the admin dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hephzaron/portfolio/internal/config"
	"github.com/hephzaron/portfolio/internal/db"
	"github.com/hephzaron/portfolio/internal/logger"
)

const (
	adminCookie = "admin_token"
	retention   = 365 * 24 * time.Hour
)

type adminAuth struct {
	token    string
	salt     string
	username string
	password string
}

func newAdminAuth(cfg config.AdminConfig) *adminAuth {
	a := &adminAuth{
		token:    generateToken(),
		salt:     generateToken(),
		username: cfg.Username,
		password: cfg.Password,
	}

	logger.L.Info("admin access available at /admin/login")
	if gin.Mode() == gin.DebugMode && cfg.Password == config.DefaultAdminPassword {
		logger.L.Warn("using default admin password, set ADMIN_PASSWORD")
	}
	return a
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.L.WithError(err).Fatal("failed to generate admin token")
	}
	return hex.EncodeToString(b)
}

// hashIP is stable per IP for the lifetime of the process.
func (a *adminAuth) hashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + a.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return u&p == 1
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

var untrackedPrefixes = []string{"/static/", "/admin/", "/favicon", "/privacy", "/healthz"}

// visitorTrackingMiddleware records page views with a hashed IP. Requests
// carrying DNT: 1 are not recorded.
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.analytics == nil || c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		visit := db.Visit{
			HashedIP:  s.admin.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now(),
		}
		s.visits.Add(1)
		go func() {
			defer s.visits.Done()
			s.trackVisit(visit)
		}()
		c.Next()
	}
}

func (s *server) trackVisit(v db.Visit) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.analytics.RecordVisit(ctx, v); err != nil {
		logger.G(ctx).WithError(err).Warn("error recording visitor")
	}
}

// waitForVisits blocks until every visit handed to trackVisit is stored.
func (s *server) waitForVisits() {
	s.visits.Wait()
}

func (s *server) adminStats(c *gin.Context) (*db.Stats, bool) {
	if s.analytics == nil {
		c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{
			"error": "Analytics are disabled",
		})
		return nil, false
	}
	stats, err := s.analytics.Stats(c.Request.Context(), time.Now())
	if err != nil {
		logger.G(c.Request.Context()).WithError(err).Error("error loading admin stats")
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
			"error": "Failed to load statistics",
		})
		return nil, false
	}
	return stats, true
}

func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{"title": "Privacy Policy"})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		log := logger.G(c.Request.Context()).WithField("client", s.admin.hashIP(c.ClientIP()))
		if !s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			log.Warn("failed admin login attempt")
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"error": "Invalid credentials",
			})
			return
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", false, true)
		log.Info("admin login successful")
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.admin.middleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, ok := s.adminStats(c)
		if !ok {
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.sessions.Len(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		if s.analytics == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		stats, err := s.analytics.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		if s.analytics == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{"error": "Analytics are disabled"})
			return
		}
		visitors, err := s.analytics.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.analytics == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		n, err := s.analytics.Cleanup(c.Request.Context(), time.Now().Add(-retention))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "deleted": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, ok := s.adminStats(c)
		if !ok {
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}
