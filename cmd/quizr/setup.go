package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mark3labs/quizr/internal/config"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a quizr.yml with default settings",
	Long: `Write a quizr.yml holding every setting at its default value.

The file goes to ~/.config/quizr/quizr.yml unless --project is given, in
which case it is written to ./quizr.yml. An existing file is left alone
unless --force is passed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := writeDefaultConfig(setupFlags.project, setupFlags.force)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote %s\n", path)
		fmt.Fprintln(out, "Next: quizr create")
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Write ./quizr.yml instead of the global file")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Replace a config file that is already there")
}

// writeDefaultConfig writes config.Defaults to the project or global path and
// returns where it went.
func writeDefaultConfig(project, force bool) (string, error) {
	path, write := config.GlobalPath(), config.WriteGlobal
	if project {
		path, write = config.ProjectPath(), config.WriteProject
	}

	if !force {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return "", fmt.Errorf("%s exists (pass --force to replace it)", path)
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("cannot stat %s: %w", path, err)
		}
	}

	if err := write(config.Defaults()); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
