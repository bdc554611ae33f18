package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/cordon-lang/cordon/interp"
	"github.com/cordon-lang/cordon/internal/calendar"
	"github.com/cordon-lang/cordon/policy"
)

// envConfig carries settings picked up from the environment; flags override.
type envConfig struct {
	Policy string `env:"CORDON_POLICY"`
	Debug  bool   `env:"CORDON_DEBUG"`
}

// appState holds the flag values shared by the subcommands.
type appState struct {
	policyPath string
	debug      bool
	timeout    time.Duration
}

func (a *appState) logger() *slog.Logger {
	level := slog.LevelInfo
	if a.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildInterpreter wires the demo calendar graph, applies the policy file if
// one is configured, and returns a ready interpreter.
func (a *appState) buildInterpreter() (*interp.Interpreter, error) {
	logger := a.logger()
	cal := calendar.New()

	opts := []interp.Option{
		interp.WithLogger(logger),
		interp.WithObject("calendar", cal.Graph()),
	}

	if a.policyPath != "" {
		p, err := policy.Load(a.policyPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded policy", "policy", p.String())
		opts = append(opts, p.Options()...)
		for name, fn := range calendar.Constructors() {
			if p.PermitsConstructor(name) {
				opts = append(opts, interp.WithConstructor(name, fn))
			}
		}
	} else {
		// Default surface when no policy file is given.
		opts = append(opts,
			interp.WithAllow("calendar", "addEvent", "listEvents", "removeEvent"),
			interp.WithAllow("settings", "get", "set"),
		)
		for name, fn := range calendar.Constructors() {
			opts = append(opts, interp.WithConstructor(name, fn))
		}
	}

	return interp.New(opts...), nil
}

// execute runs one command, racing it against the configured timeout. The
// interpreter itself is synchronous; the deadline only abandons a dispatch
// that blocks inside a whitelisted callable.
func (a *appState) execute(i *interp.Interpreter, command string) (string, error) {
	if a.timeout <= 0 {
		v, err := i.Execute(command)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := i.Execute(command)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		done <- outcome{text: v.String()}
	}()

	select {
	case out := <-done:
		return out.text, out.err
	case <-ctx.Done():
		return "", fmt.Errorf("command timed out after %s", a.timeout)
	}
}

func newRootCmd() *cobra.Command {
	var defaults envConfig
	_ = env.Parse(&defaults)

	app := &appState{}

	root := &cobra.Command{
		Use:           "cordon",
		Short:         "Execute textual commands against a whitelisted object graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.policyPath, "policy", defaults.Policy, "Path to a YAML policy file")
	root.PersistentFlags().BoolVar(&app.debug, "debug", defaults.Debug, "Enable debug logging")
	root.PersistentFlags().DurationVar(&app.timeout, "timeout", 10*time.Second, "Per-command execution deadline (0 disables)")

	root.AddCommand(newRunCmd(app))
	root.AddCommand(newReplCmd(app))
	return root
}
