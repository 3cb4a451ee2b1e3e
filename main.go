package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hephzaron/portfolio/internal/catalog"
	"github.com/hephzaron/portfolio/internal/cleanup"
	"github.com/hephzaron/portfolio/internal/config"
	"github.com/hephzaron/portfolio/internal/db"
	"github.com/hephzaron/portfolio/internal/logger"
	"github.com/hephzaron/portfolio/internal/mail"
	"github.com/hephzaron/portfolio/internal/skill"
	"github.com/hephzaron/portfolio/internal/view"
)

var catalogPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Personal portfolio site",
	}
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog YAML file (defaults to CATALOG_PATH or the built-in catalog)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(skillsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	path := cfg.Content.CatalogPath
	if catalogPath != "" {
		path = catalogPath
	}
	return catalog.Load(path)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.SetLogLevel(cfg.Log.Level); err != nil {
		return errors.Wrap(err, "invalid LOG_LEVEL")
	}
	logger.SetLogFormat(cfg.Log.Format)
	gin.SetMode(cfg.Server.Mode)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	analytics, err := db.Open(ctx, cfg.DB.Path)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("visitor analytics disabled")
		analytics = nil
	} else {
		defer analytics.Close()
		logger.G(ctx).WithField("path", cfg.DB.Path).Info("privacy-conscious visitor tracking initialized")
	}

	srv := newServer(cfg, cat, analytics, mail.NewSMTPSender(cfg.SMTP))
	defer srv.waitForVisits()
	router, err := srv.router()
	if err != nil {
		return errors.Wrap(err, "failed to build router")
	}

	var retainer cleanup.Retainer
	if analytics != nil {
		retainer = analytics
	}
	cleanup.NewCleaner(srv.sessions, retainer, 10*time.Minute, retention).Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.G(ctx).WithField("addr", httpServer.Addr).Info("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "HTTP server error")
	case <-ctx.Done():
	}

	logger.L.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func projectsCmd() *cobra.Command {
	var (
		tag     string
		page    int
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects, optionally filtered by skill",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			if perPage <= 0 {
				perPage = cfg.Content.ProjectsPerPage
			}

			store := skill.NewStore()
			v := view.NewProjectsView(cat.Projects, perPage, store)
			if tag != "" {
				store.Select(tag)
			}
			if page > 1 && !v.GoToPage(page) {
				return errors.Errorf("page %d out of range", page)
			}
			printProjects(cmd.OutOrStdout(), v.Snapshot())
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "skill", "", "only list projects tagged with this skill")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "projects per page (defaults to PROJECTS_PER_PAGE)")
	return cmd
}

func printProjects(out io.Writer, snap view.ProjectsSnapshot) {
	if snap.Empty {
		fmt.Fprintf(out, "No projects match %q. Run without --skill to list all projects.\n", snap.Tag)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTAGS")
	for _, p := range snap.Projects {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Title, strings.Join(p.Tags, ", "))
	}
	w.Flush()
	fmt.Fprintf(out, "page %d of %d (%d projects)\n", snap.Page, snap.Total, snap.Matching)
}

func skillsCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List skills by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			categories := cat.Categories
			if category != "" {
				if !cat.HasCategory(category) {
					return errors.Errorf("unknown category %q", category)
				}
				categories = []string{category}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tSKILL\tSTARS")
			for _, c := range categories {
				for _, s := range cat.SkillsIn(c) {
					fmt.Fprintf(w, "%s\t%s\t%.1f\n", c, s.Name, s.Stars())
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	return cmd
}
