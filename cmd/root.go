// Package cmd implements the pathpick command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/pkg/logger"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/settings"
	"github.com/oakwood-commons/pathpick/pkg/tui"
)

// ExitCancelled is the exit status when the user quits without choosing.
const ExitCancelled = 130

type rootOptions struct {
	run settings.Run

	start     string
	preview   []string
	multi     bool
	filter    string
	globs     []string
	tree      bool
	theme     string
	snapshot  bool
	width     int
	height    int
	startKeys []string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [SOURCE]",
		Short: "Choose a path in a directory tree or a structured document",
		Long: `pathpick opens an interactive chooser over SOURCE and prints the chosen path.

SOURCE is a directory (default "."), a JSON/YAML/TOML/NDJSON file browsed as a
tree, any other file (opened in its directory), or "-" to read data from stdin.`,
		Example: "  pathpick\n  pathpick ~/src -g '*.go'\n  pathpick config.yaml -p info,data\n  kubectl get pods -o json | pathpick - -f 'leaf'\n",
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			o.run.MinLogLevel = logger.LevelFor(o.run.Debug)
			lgr := logger.Get(o.run.MinLogLevel)
			named := lgr.WithValues("command", cmd.Name())
			ctx := logger.WithLogger(cmd.Context(), &named)
			cmd.SetContext(settings.IntoContext(ctx, &o.run))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			return runChooser(cmd, o, arg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.Flags()
	f.StringVarP(&o.start, "start", "s", "", "initial path inside SOURCE")
	f.StringSliceVarP(&o.preview, "preview", "p", nil, "preview types: info,data,text,tree (default from config)")
	f.BoolVarP(&o.multi, "multi", "m", false, "allow multiple selection")
	f.StringVarP(&o.filter, "filter", "f", "", "CEL filter over name, path, leaf, depth, kind and size, e.g. '!leaf || size < 1024'")
	f.StringArrayVarP(&o.globs, "glob", "g", nil, "glob patterns for leaf names, comma separated or repeated")
	f.BoolVar(&o.tree, "tree", false, "start in tree mode")
	f.StringVar(&o.theme, "theme", "", "theme name (default from config; see 'pathpick config themes')")
	f.BoolVar(&o.run.NoColor, "no-color", false, "disable colors")
	f.BoolVar(&o.snapshot, "snapshot", false, "render one frame non-interactively and exit; honors --width/--height")
	f.IntVar(&o.width, "width", 0, "snapshot width in columns")
	f.IntVar(&o.height, "height", 0, "snapshot height in rows")
	f.StringArrayVar(&o.startKeys, "press", nil, "keys to replay on startup, e.g. --press '<Down>' --press '<C-t>'")
	f.BoolVarP(&o.run.Print0, "print0", "0", false, "separate printed paths with NUL")
	cmd.PersistentFlags().StringVar(&o.run.ConfigFile, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&o.run.Debug, "debug", false, "debug logging to stderr")

	cmd.AddCommand(newVersionCmd(), newConfigCmd(&o.run))
	return cmd
}

func runChooser(cmd *cobra.Command, o *rootOptions, arg string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	run := settings.FromContextOrDefault(ctx)

	settingsCfg, err := loadConfig(run.ConfigFile)
	if err != nil {
		return err
	}
	showHidden := settingsCfg.UI.Defaults.ShowHidden != nil && *settingsCfg.UI.Defaults.ShowHidden
	src, err := openSource(arg, cmd.InOrStdin(), showHidden)
	if err != nil {
		return err
	}
	p := src.startPath(o.start)
	filter, err := buildFilter(o.filter, o.globs)
	if err != nil {
		return err
	}
	if filter != nil {
		p.SetFilter(filter)
	}

	cfg := tui.ConfigFromSettings(settingsCfg)
	cfg.ThemeName = o.theme
	cfg.NoColor = run.NoColor || os.Getenv("NO_COLOR") != ""
	cfg.StartKeys = o.startKeys
	cfg.Logger = *log
	if cmd.Flags().Changed("preview") {
		cfg.PreviewTypes = o.preview
	}
	if cmd.Flags().Changed("multi") {
		cfg.MultiSelect = o.multi
	}
	if o.tree {
		cfg.DisplayMode = ui.DisplayModeTree
	}
	log.V(1).Info("starting chooser", "source", arg, "start", p.String(), "snapshot", o.snapshot)

	if o.snapshot {
		cfg.Width, cfg.Height = o.width, o.height
		out, err := tui.Snapshot(p, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	chosen, err := tui.Choose(p, cfg, programOptions(arg == "-")...)
	if err != nil {
		return err
	}
	return printPaths(cmd.OutOrStdout(), src, chosen, run.Separator())
}

// programOptions draws the chooser on stderr so stdout stays clean for the
// result. With data on stdin, keys come from the controlling terminal.
func programOptions(stdinIsData bool) []tea.ProgramOption {
	var in io.Reader
	if stdinIsData {
		if tty, err := os.Open("/dev/tty"); err == nil {
			in = tty
		}
	}
	var out io.Writer
	if term.IsTerminal(int(os.Stderr.Fd())) {
		out = os.Stderr
	}
	return tui.WithIO(in, out)
}

func printPaths(w io.Writer, src *source, chosen []*path.Path, sep string) error {
	for _, p := range chosen {
		if _, err := io.WriteString(w, src.format(p)+sep); err != nil {
			return err
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}

func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func newConfigCmd(run *settings.Run) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(run.ConfigFile)
			if err != nil {
				return err
			}
			out, err := configYAML(cfg, resolveConfigPath(run.ConfigFile))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(run.ConfigFile)
			if err != nil {
				return err
			}
			names := ui.ThemeNames(cfg)
			sort.Strings(names)
			for _, name := range names {
				mark := "  "
				if name == cfg.UI.Theme.Default {
					mark = "* "
				}
				fmt.Fprintln(cmd.OutOrStdout(), mark+name)
			}
			return nil
		},
	})
	return cfgCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, tui.ErrCancelled):
		return ExitCancelled
	}
	return 1
}

// ErrorMessage formats err for stderr; cancellation prints nothing.
func ErrorMessage(err error) string {
	if err == nil || errors.Is(err, tui.ErrCancelled) {
		return ""
	}
	return strings.TrimSpace(settings.CliBinaryName + ": " + err.Error())
}
