package sync

import (
	"errors"
	"fmt"
	"log/slog"

	"voicesync/internal/clients"
	"voicesync/internal/config"
	"voicesync/internal/db"
	"voicesync/internal/render"
	"voicesync/internal/syncer"
	"voicesync/internal/tools"
	"voicesync/internal/trace"
	"voicesync/internal/ultravox"

	"github.com/spf13/cobra"
)

var (
	agentID    string
	clientName string
	clientID   string
	dryRun     bool
)

var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync Ultravox agent templates from the clients table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Ultravox.APIKey == "" {
			return errors.New("no Ultravox API key: set ultravox.api_key in the config or ULTRAVOX_API_KEY in the environment")
		}

		shutdown, err := trace.Init(ctx, trace.Config{
			Endpoint: cfg.Trace.Endpoint,
			URLPath:  cfg.Trace.URLPath,
			APIKey:   cfg.Trace.APIKey,
		})
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				slog.Warn("trace shutdown failed", "error", err)
			}
		}()

		database, err := db.Open(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		out := render.Stdout()
		out.Header("Ultravox Agent Sync")
		if dryRun {
			out.Line()
			out.Println("DRY RUN MODE - no changes will be made")
			out.Line()
		}

		filter := clients.Filter{AgentID: agentID, Name: clientName, ID: clientID}
		switch {
		case agentID != "":
			out.Println("Filtering by agent_id: %s", agentID)
		case clientName != "":
			out.Println("Filtering by client name: %s", clientName)
		case clientID != "":
			out.Println("Filtering by client ID: %s", clientID)
		default:
			out.Println("Syncing ALL agents")
		}

		s := syncer.New(
			clients.NewStore(database),
			ultravox.NewClient(cfg.Ultravox.BaseURL, cfg.Ultravox.APIKey),
			&tools.Builder{
				Catalog:          tools.DefaultCatalog(),
				CorpusMaxResults: cfg.Sync.CorpusMaxResults,
			},
			out,
			syncer.Options{DryRun: dryRun, DefaultVoice: cfg.Sync.DefaultVoice},
		)

		totals, err := s.Run(ctx, filter)
		if err != nil {
			return err
		}
		if totals.Errors > 0 {
			return fmt.Errorf("%d record(s) failed to sync", totals.Errors)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&agentID, "agent-id", "", "sync the client with this ultravox_agent_id")
	Cmd.Flags().StringVar(&clientName, "client-name", "", "sync the client with this name")
	Cmd.Flags().StringVar(&clientID, "client-id", "", "sync the client with this id")
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report diffs without applying changes")
	Cmd.MarkFlagsMutuallyExclusive("agent-id", "client-name", "client-id")
}
