package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskplan/internal/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List LLM providers and their availability",
	Long: `List the supported LLM providers, the model each would use, and
whether the required credentials are present.

With --check, a live connectivity probe is made against each
configured provider.`,
	RunE: runProviders,
}

var providersCheck bool

func init() {
	providersCmd.Flags().BoolVar(&providersCheck, "check", false, "probe each provider's API for connectivity")

	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := provider.NewRegistry()
	defer reg.CloseAll() //nolint:errcheck

	unavailable := map[string]string{}
	for _, name := range []string{"groq", "openai", "ollama"} {
		pc := cfg.Provider
		if name != cfg.Provider.Name {
			// Model and endpoint overrides only apply to the
			// configured provider.
			pc = provider.Config{}
		}
		pc.Name = name
		client, err := provider.New(&pc)
		if err != nil {
			unavailable[name] = err.Error()
			continue
		}
		if err := reg.Register(name, client, &pc); err != nil {
			return err
		}
	}

	for _, name := range []string{"groq", "openai", "ollama"} {
		marker := " "
		if name == cfg.Provider.Name {
			marker = "*"
		}

		if reason, ok := unavailable[name]; ok {
			cmd.Printf("%s %-8s unavailable: %s\n", marker, name, firstLine(reason))
			continue
		}

		client, err := reg.Get(name)
		if err != nil {
			return err
		}
		info := client.Info()

		status := "configured"
		if providersCheck {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			if err := client.Health(ctx); err != nil {
				status = "unreachable"
			} else {
				status = "healthy"
			}
			cancel()
		}

		cmd.Printf("%s %-8s %-12s model=%s\n", marker, name, status, info.Model)
	}

	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
