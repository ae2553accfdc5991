package setup

import (
	"fmt"
	"os"
	"path/filepath"

	"voicesync/internal/config"
	"voicesync/internal/db"

	"github.com/spf13/cobra"
)

const starterConfig = `[ultravox]
base_url = "https://api.ultravox.ai"
# api_key = "..."            # or set ULTRAVOX_API_KEY

[sync]
default_voice = "Jessica"
corpus_max_results = 5

[trace]
# endpoint = "localhost:4318"
`

var Cmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a starter config and apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path := config.Path()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(starterConfig), 0o600); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		} else {
			fmt.Printf("config already exists at %s\n", path)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
		fmt.Printf("database ready at %s\n", cfg.DB.Path)
		return nil
	},
}
