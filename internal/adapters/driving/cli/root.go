// Package cli implements the prospect command-line interface.
// Commands are thin shells over the driving ports; all wiring happens
// in main via SetServices or a lazy initialiser.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driving"
	"github.com/equinox-labs/prospect-cli/internal/logger"
)

var version = "dev"

// Persistent flag values.
var (
	verboseFlag bool
	dataDirFlag string
)

// Services the commands depend on. Set by main before Execute, or
// lazily via the initialiser once flags are parsed. Tests swap these
// directly.
var (
	processOrchestrator driving.ProcessOrchestrator
	projectReader       driving.ProjectReader
	llmService          driven.LLMService
	configStore         driven.ConfigStore
	projectStore        driven.ProjectStore
	scanStateStore      driven.ScanStateStore
	fileScanner         driven.Scanner
	storeAdmin          StoreAdmin
)

// StoreAdmin exposes maintenance operations on the backing database.
type StoreAdmin interface {
	// Stats returns the number of projects and scan state entries.
	Stats(ctx context.Context) (projects, scanned int, err error)

	// Backup writes a consistent copy of the database to dest.
	Backup(ctx context.Context, dest string) error
}

// Services bundles the wired implementations the commands use.
type Services struct {
	Process   driving.ProcessOrchestrator
	Projects  driving.ProjectReader
	LLM       driven.LLMService
	Config    driven.ConfigStore
	Store     driven.ProjectStore
	ScanState driven.ScanStateStore
	Scanner   driven.Scanner
	Admin     StoreAdmin
}

// initialiser builds services after flags are parsed, so --data-dir
// can influence wiring.
var initialiser func(dataDir string) (Services, error)

var rootCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Extract verbatim project intelligence from engineering documents",
	Long: `Prospect scans folders of engineering documents (PDF, DOCX, PPTX, XLSX),
identifies the projects they discuss using a local LLM, and appends the
verbatim text about each project to an append-only per-project record.
Touched projects are then classified against a configurable taxonomy.

All inference runs locally via Ollama; no document text leaves the machine.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)

		if initialiser != nil && processOrchestrator == nil {
			services, err := initialiser(dataDirFlag)
			if err != nil {
				return err
			}
			SetServices(services)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (default ~/.prospect)")
}

// SetServices injects the wired service implementations.
func SetServices(s Services) {
	processOrchestrator = s.Process
	projectReader = s.Projects
	llmService = s.LLM
	configStore = s.Config
	projectStore = s.Store
	scanStateStore = s.ScanState
	fileScanner = s.Scanner
	storeAdmin = s.Admin
}

// SetInitialiser registers a lazy service builder invoked after flag
// parsing, before any command runs.
func SetInitialiser(fn func(dataDir string) (Services, error)) {
	initialiser = fn
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
