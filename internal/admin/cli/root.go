package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/ideabank/internal/logging"
	"github.com/dmitrijs2005/ideabank/internal/server"
	"github.com/dmitrijs2005/ideabank/internal/server/config"
	"github.com/dmitrijs2005/ideabank/internal/server/mirror"
	"github.com/dmitrijs2005/ideabank/internal/server/services"
)

const programName = "ideactl"

// newMirror is a seam for tests; production builds the configured mirror.
var newMirror = server.NewMirror

type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
}

// loadConfig reuses the server configuration layers. Only the -c and -env
// flags are forwarded so the server's own flags never reach cobra.
func (g *globalFlags) loadConfig() *config.Config {
	args := []string{"-env", g.envFile}
	if g.configFile != "" {
		args = append(args, "-c", g.configFile)
	}
	return config.Load(args)
}

// NewRootCommand builds the ideactl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           programName,
		Short:         "Idea bank administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "JSON config file")
	root.PersistentFlags().StringVar(&g.envFile, "env", ".env", "dotenv file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level")

	root.AddCommand(hashPasswordCommand(), uploadCommand(g))
	return root
}

func hashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password for the admins config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := GetNewPassword(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer clear(pw)

			hash, err := services.HashPassword(string(pw))
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func uploadCommand(g *globalFlags) *cobra.Command {
	var driver string

	cmd := &cobra.Command{
		Use:   "upload <dir> <folder> [pattern]",
		Short: "Upload the files of a directory to the file mirror",
		Long: "Uploads every regular file in <dir> whose name matches the regular\n" +
			"expression [pattern] to the configured file mirror under <folder>.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 3 {
				pattern = args[2]
			}
			re, err := CompilePattern(pattern)
			if err != nil {
				return err
			}

			cfg := g.loadConfig()
			if driver != "" {
				cfg.MirrorDriver = driver
			}

			ctx := cmd.Context()
			m, err := newMirror(ctx, cfg)
			if err != nil {
				return err
			}
			defer server.CloseMirror(m)

			logger := logging.New(cmd.ErrOrStderr(), g.logLevel, "text")
			return runUpload(ctx, cmd.OutOrStdout(), m, args[0], args[1], re, logger)
		},
	}
	cmd.Flags().StringVarP(&driver, "mirror", "m", "", "mirror driver override (s3, gcs, fs)")
	return cmd
}

func runUpload(ctx context.Context, out io.Writer, m mirror.Mirror, dir, folder string, re *regexp.Regexp, logger logging.Logger) error {
	results, err := UploadDir(ctx, m, dir, folder, re, logger)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(out, "OK   %s -> %s\n", r.Name, r.Key)
	}
	fmt.Fprintf(out, "%d uploaded, %d failed\n", len(results)-failed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(results))
	}
	return nil
}

// Execute runs ideactl with the process arguments.
func Execute(ctx context.Context) int {
	if err := NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		return 1
	}
	return 0
}
