package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/money_tracker/internal/platform/logging"
	"github.com/SscSPs/money_tracker/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultServer = "http://localhost:8080"

// app carries what every command needs once flags are parsed.
type app struct {
	out    io.Writer
	in     *bufio.Reader
	v      *viper.Viper
	client *client.Client
}

func newRootCmd(out io.Writer, in io.Reader) *cobra.Command {
	a := &app{out: out, in: bufio.NewReader(in), v: viper.New()}

	root := &cobra.Command{
		Use:           "mtctl",
		Short:         "Track money sent to and received from people",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("server", defaultServer, "API base URL (env MT_SERVER)")
	flags.String("session", "", "session file (env MT_SESSION, default in the user config dir)")
	flags.BoolP("verbose", "v", false, "log retries and other details to stderr")
	_ = a.v.BindPFlag("server", flags.Lookup("server"))
	_ = a.v.BindPFlag("session", flags.Lookup("session"))
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))
	a.v.SetEnvPrefix("MT")
	a.v.AutomaticEnv()

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.peopleCmd(),
		a.addCmd(),
		a.recordCmd("send", "Record money you gave to someone"),
		a.recordCmd("receive", "Record money you received from someone"),
		a.deleteCmd(),
		a.transactionsCmd(),
		a.reverseCmd(),
		a.exportCmd(),
		a.summaryCmd(),
	)
	return root
}

func (a *app) setup() error {
	level := slog.LevelWarn
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(logging.NewHandler(os.Stderr, false, level))

	path := a.v.GetString("session")
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return err
		}
	}

	a.client = client.New(a.v.GetString("server"),
		client.WithSession(client.FileSession{Path: path}),
		client.WithLogger(logger),
	)
	return nil
}

// prompt reads one line from the input. label is printed first.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ":")), err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question unless yes is already set.
func (a *app) confirm(yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	answer, err := a.prompt(question + " [y/N]: ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
