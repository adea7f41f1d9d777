package cli

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
)

// GlobalFlags are the persistent flags every command accepts. They are
// read before the command tree is built because they decide which config
// file and store to open.
type GlobalFlags struct {
	Config string
	DB     string
}

func bindGlobalFlags(fs *pflag.FlagSet, g *GlobalFlags) {
	fs.StringVar(&g.Config, "config", "", "Path to config.toml (default ~/.config/scanland/config.toml)")
	fs.StringVar(&g.DB, "db", "", "Path to the SQLite store (overrides config and SCANLAND_DB)")
}

// ParseGlobalFlags extracts --config and --db from args, ignoring every
// other flag and argument.
func ParseGlobalFlags(args []string) (GlobalFlags, error) {
	var g GlobalFlags
	fs := pflag.NewFlagSet("scanland", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	bindGlobalFlags(fs, &g)
	// Help and version flags belong to cobra.
	fs.BoolP("help", "h", false, "")
	fs.BoolP("version", "v", false, "")
	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return g, err
	}
	return g, nil
}

// selection is the subject/chapter pair attached to recorded sessions.
type selection struct {
	Subject string
	Chapter string
}

func (s selection) empty() bool {
	return strings.TrimSpace(s.Subject) == ""
}

func bindSelectionFlags(fs *pflag.FlagSet, sel *selection) {
	fs.StringVarP(&sel.Subject, "subject", "s", "", "Subject to attach to recorded sessions")
	fs.StringVarP(&sel.Chapter, "chapter", "c", "", "Chapter to attach to recorded sessions")
}
