package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change prospect configuration.

Well-known keys:
  ollama.base_url           Generation endpoint (default http://localhost:11434)
  ollama.model              Model used for extraction and categorisation
  processing.chunk_size     Chunk size in words
  processing.chunk_overlap  Chunk overlap in words
  processing.workers        Files processed concurrently`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configuration values",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

// wellKnownKeys are printed by list even when unset.
var wellKnownKeys = []string{
	driven.ConfigOllamaURL,
	driven.ConfigOllamaModel,
	driven.ConfigChunkSize,
	driven.ConfigChunkOverlap,
	driven.ConfigWorkers,
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := make([]string, len(wellKnownKeys))
	copy(keys, wellKnownKeys)
	sort.Strings(keys)

	for _, key := range keys {
		if val, ok := configStore.Get(key); ok {
			cmd.Printf("  %-26s %v\n", key, val)
		} else {
			cmd.Printf("  %-26s (not set)\n", key)
		}
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	if err := configStore.Set(key, coerceValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}

	cmd.Printf("Unset %s\n", args[0])
	return nil
}

// coerceValue stores integers and booleans typed rather than as strings,
// so GetInt and GetBool work on values set from the command line.
func coerceValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
