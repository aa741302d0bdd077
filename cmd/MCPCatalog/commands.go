package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	httpServer "MCPCatalog/api/http"
	"MCPCatalog/internal/initial"
	"MCPCatalog/internal/modules/catalog/application/service"
	"MCPCatalog/internal/modules/catalog/domain/entity"
	mcpServer "MCPCatalog/internal/modules/catalog/infrastructure/mcp/server"
	"MCPCatalog/internal/modules/catalog/infrastructure/persistence"
	catalogHandler "MCPCatalog/internal/modules/catalog/interface/http"
	"MCPCatalog/internal/modules/catalog/interface/scheduler"
	"MCPCatalog/pkg/util"
	"MCPCatalog/pkg/util/myjwt"
	"MCPCatalog/pkg/zlog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	dbPath     string
}

type enrichOptions struct {
	limit      int
	dryRun     bool
	reportPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "MCPCatalog",
		Short:        "Extract MCP server tools and parameters from README files into the catalog",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default configs/config_local.toml)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "sqlite database path, overrides databaseConfig")

	root.AddCommand(
		newEnrichCmd(opts, "tools", entity.RunKindTools, "Extract tools from server READMEs"),
		newEnrichCmd(opts, "params", entity.RunKindParams, "Extract parameters of stored tools"),
		newEnrichCmd(opts, "enrich", entity.RunKindPipeline, "Extract tools and parameters per server in one transaction"),
		newImportCmd(opts),
		newMigrateCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func newEnrichCmd(root *rootOptions, use, kind, short string) *cobra.Command {
	opts := &enrichOptions{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(root, !opts.dryRun)
			if err != nil {
				return err
			}
			defer a.Close()

			limit := opts.limit
			if !cmd.Flags().Changed("limit") {
				limit = a.conf.EnrichConfig.Limit
			}
			e, err := a.enricher(kind)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			report, err := e.Enrich(ctx, service.EnrichOptions{Limit: limit, DryRun: opts.dryRun, Trigger: entity.TriggerCLI})
			if report != nil {
				printSummary(cmd, report.Stats)
				if opts.reportPath != "" {
					if werr := report.WriteJSON(opts.reportPath); werr != nil {
						return fmt.Errorf("write report: %w", werr)
					}
				}
			}
			return err
		},
	}
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max units to process, 0 means all")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "extract everything but roll back all writes")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "write extracted records and stats as JSON")
	return cmd
}

func printSummary(cmd *cobra.Command, st service.EnrichStats) {
	out := cmd.OutOrStdout()
	mode := "commit"
	if st.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(out, "%s (%s)\n", st.Kind, mode)
	fmt.Fprintf(out, "  processed:   %d\n", st.Processed)
	fmt.Fprintf(out, "  matched:     %d (%.1f%%)\n", st.Matched, st.SuccessRate())
	fmt.Fprintf(out, "  no section:  %d\n", st.NoSection)
	fmt.Fprintf(out, "  tools:       +%d ~%d =%d\n", st.ToolsInserted, st.ToolsUpdated, st.ToolsUnchanged)
	fmt.Fprintf(out, "  parameters:  +%d ~%d =%d\n", st.ParamsInserted, st.ParamsUpdated, st.ParamsUnchanged)
	fmt.Fprintf(out, "  errors:      %d\n", st.Errors)
	fmt.Fprintf(out, "  low conf:    %d, missing anchor: %d, malformed json: %d\n", st.LowConfidence, st.MissingAnchor, st.MalformedBlocks)

	keys := make([]string, 0, len(st.Strategies))
	for k := range st.Strategies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-28s %d\n", k, st.Strategies[k])
	}
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var slug, name string
	cmd := &cobra.Command{
		Use:   "import <README.md>",
		Short: "Store a README for a server, creating the server when missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug = strings.TrimSpace(slug)
			if slug == "" {
				return errors.New("--slug is required")
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			a, err := bootstrap(root, false)
			if err != nil {
				return err
			}
			defer a.Close()

			servers := persistence.NewServerRepository(a.db)
			srv, err := servers.GetServerBySlug(slug)
			if err != nil {
				return err
			}
			now := time.Now()
			if srv == nil {
				if name == "" {
					name = slug
				}
				srv = &entity.Server{Id: util.GenerateUUID(), Slug: slug, Name: name, DisplayName: name, CreatedAt: now, UpdatedAt: now}
				if err := servers.CreateServer(srv); err != nil {
					return err
				}
			}
			if err := persistence.NewReadmeRepository(a.db).UpsertContent(&entity.MarkdownContent{
				Id:          util.GenerateUUID(),
				ServerId:    srv.Id,
				ContentType: entity.ContentTypeReadme,
				Content:     string(content),
				CreatedAt:   now,
				UpdatedAt:   now,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored readme for %s (%d bytes)\n", slug, len(content))
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "server slug")
	cmd.Flags().StringVar(&name, "name", "", "server name, defaults to slug")
	return cmd
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var chunkSize int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the local catalog to the target database with idempotent upserts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(root, false)
			if err != nil {
				return err
			}
			defer a.Close()

			target, err := initial.InitGorm(a.conf.MigrationConfig.Target)
			if err != nil {
				return fmt.Errorf("open migration target: %w", err)
			}
			defer func() {
				if sqlDB, err := target.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			if !cmd.Flags().Changed("chunk-size") {
				chunkSize = a.conf.MigrationConfig.ChunkSize
			}
			res, err := service.NewMigrationService(persistence.NewCatalogMigrator(a.db, target)).Migrate(cmd.Context(), chunkSize)
			if res != nil {
				for _, t := range res.Tables {
					fmt.Fprintf(cmd.OutOrStdout(), "%-18s %d rows\n", t.Table, t.Rows)
				}
			}
			return err
		},
	}
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 500, "rows per chunk")
	return cmd
}

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the MCP endpoint and the enrichment schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(root, true)
			if err != nil {
				return err
			}
			defer a.Close()

			handlers := httpServer.Handlers{
				Catalog: catalogHandler.NewCatalogHandler(a.query),
				Extract: catalogHandler.NewExtractionHandler(a.extract),
				Admin:   catalogHandler.NewAdminHandler(a.enrichers),
				Events:  catalogHandler.NewEventsHandler(a.hub),
			}
			if a.conf.MCPConfig.Enabled {
				s := mcpServer.NewCatalogMCPServer(a.mcpConfig(), a.mcpDeps())
				handlers.MCPPath = "/mcp"
				handlers.MCP = mcpServer.NewHTTPHandler(s, handlers.MCPPath)
			}

			sched := scheduler.NewSchedulerManager(a.enrichers[entity.RunKindPipeline], a.conf.EnrichConfig.Limit)
			if err := sched.Start(a.conf.EnrichConfig.Schedule); err != nil {
				return fmt.Errorf("start scheduler: %w", err)
			}
			defer sched.Stop()

			addr := fmt.Sprintf("%s:%d", a.conf.MainConfig.Host, a.conf.MainConfig.Port)
			srv := &http.Server{Addr: addr, Handler: httpServer.NewRouter(a.conf, handlers)}
			go func() {
				zlog.Info("http server listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					zlog.Fatal("http server failed", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			zlog.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

func newMCPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the catalog MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(root, true)
			if err != nil {
				return err
			}
			defer a.Close()
			return mcpServer.ServeStdio(mcpServer.NewCatalogMCPServer(a.mcpConfig(), a.mcpDeps()))
		},
	}
}

func newTokenCmd(root *rootOptions) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin JWT for the /admin endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := loadConfigOnly(root); err != nil {
				return err
			}
			tok, err := myjwt.GenerateToken(subject, myjwt.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	return cmd
}
