// Command dugout is an interactive baseball statistics assistant backed by
// the Lahman database and the Anthropic Messages API.
package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/statline/dugout/internal/anthropic"
	"github.com/statline/dugout/internal/baseball"
	"github.com/statline/dugout/internal/config"
	"github.com/statline/dugout/internal/costcontrol"
	"github.com/statline/dugout/internal/models"
	"github.com/statline/dugout/internal/session"
	"github.com/statline/dugout/internal/telemetry"
)

func main() {
	var (
		testFlag   bool
		debugFlag  bool
		modelsFlag string
	)

	args := os.Args[1:]
	i := 0
	for i < len(args) {
		switch args[i] {
		case "-h", "--help":
			printHelp()
			return
		case "--test":
			testFlag = true
			i++
		case "-d", "--debug":
			debugFlag = true
			i++
		case "--models":
			if i+1 < len(args) {
				modelsFlag = args[i+1]
				i += 2
			} else {
				fmt.Fprintln(os.Stderr, "Error: --models requires a value")
				os.Exit(1)
			}
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown option: %s\n", args[i])
			os.Exit(1)
		}
	}

	setupLogging(debugFlag)

	// Load .env before reading the environment.
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if modelsFlag != "" {
		cfg.ModelsPath = modelsFlag
	}

	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if testFlag {
		os.Exit(runSelfTest(db))
	}

	apiKey := resolveAPIKey(cfg.APIKey)
	if apiKey == "" {
		fmt.Println("API key is required.")
		os.Exit(1)
	}

	registry, err := models.Load(cfg.ModelsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model registry: %v\n", err)
		os.Exit(1)
	}

	toolset := baseball.NewToolset(db, func(sqlText string) {
		fmt.Printf("\n[Executing SQL: %s]\n", sqlText)
	})
	client := anthropic.NewClient(apiKey, toolset)
	ledger := costcontrol.NewLedger()

	sess, err := session.New(client, registry, ledger, baseball.Definitions(), cfg.ModelKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.TelemetryDB != "" {
		journal, jerr := telemetry.Open(cfg.TelemetryDB)
		if jerr != nil {
			log.Warn().Err(jerr).Msg("usage journal disabled")
		} else {
			defer func() { _ = journal.Close() }()
			sess.WithJournal(journal)
		}
	}

	runREPL(sess)
}

// setupLogging routes zerolog to stderr so log lines never interleave with
// the chat transcript on stdout.
func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

// resolveAPIKey falls back to a one-time interactive prompt. The prompt is
// no-echo when stdin is a terminal.
func resolveAPIKey(fromEnv string) string {
	if fromEnv != "" {
		return fromEnv
	}

	fmt.Print("Enter your Anthropic API key: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		key, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(key))
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func printHelp() {
	fmt.Println(`dugout - baseball statistics chat assistant

Usage: dugout [options]

Options:
  --test           Run local database tool checks and exit
  -d, --debug      Verbose logging
  --models <path>  Override the model registry YAML
  -h, --help       Show this help

Environment:
  ANTHROPIC_API_KEY   API key (prompted for when unset)
  LAHMAN_DSN          SQL Server connection string
  DUGOUT_MODEL        Initial model key (default: haiku)
  DUGOUT_MODELS       Model registry YAML path
  DUGOUT_TELEMETRY_DB sqlite usage journal path (disabled when unset)`)
}
