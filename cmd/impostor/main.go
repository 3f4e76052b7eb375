// cmd/impostor/main.go

// impostor is a terminal client for the impostor party game. It creates or
// joins a room over the lifecycle API, opens the realtime connection, and
// drives the game from stdin commands.
package main

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const releaseVersion = "0.1.0"

type config struct {
	server      string
	wsURL       string
	name        string
	room        string
	maxPlayers  int
	totalRounds int
	debate      bool
	baseDelay   time.Duration
	capDelay    time.Duration
	maxAttempts int
	verbose     bool
}

// wsBase returns the websocket base URL, derived from the HTTP server URL
// unless overridden.
func (c *config) wsBase() string {
	if c.wsURL != "" {
		return c.wsURL
	}
	base := c.server
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("IMPOSTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "impostor",
		Short:         "Terminal client for the impostor football party game.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8000", "lifecycle API base URL (env: IMPOSTOR_SERVER)")
	fs.StringVar(&cfg.wsURL, "ws-url", "", "websocket base URL override (env: IMPOSTOR_WS_URL)")
	fs.StringVarP(&cfg.name, "name", "n", "", "display name (required) (env: IMPOSTOR_NAME)")
	fs.StringVarP(&cfg.room, "room", "r", "", "room code to join; omit to create a room (env: IMPOSTOR_ROOM)")
	fs.IntVar(&cfg.maxPlayers, "max-players", 15, "maximum players when creating a room (env: IMPOSTOR_MAX_PLAYERS)")
	fs.IntVar(&cfg.totalRounds, "rounds", 5, "rounds when creating a room (env: IMPOSTOR_ROUNDS)")
	fs.BoolVar(&cfg.debate, "debate", false, "enable the debate phase when creating a room (env: IMPOSTOR_DEBATE)")
	fs.DurationVar(&cfg.baseDelay, "reconnect-base", 3*time.Second, "base reconnection delay (env: IMPOSTOR_RECONNECT_BASE)")
	fs.DurationVar(&cfg.capDelay, "reconnect-cap", 15*time.Second, "maximum reconnection delay (env: IMPOSTOR_RECONNECT_CAP)")
	fs.IntVar(&cfg.maxAttempts, "reconnect-attempts", 5, "reconnection attempts before giving up (env: IMPOSTOR_RECONNECT_ATTEMPTS)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "debug logging (env: IMPOSTOR_VERBOSE)")

	_ = cmd.MarkFlagRequired("name")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("impostor v{{.Version}}\n")

	return cmd
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

func main() {
	cfg := &config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}
