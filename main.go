// phraseup bulk-uploads localization keys and their content to Phrase.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/phraseup/config"
	"github.com/minios-linux/phraseup/i18n"
	"github.com/minios-linux/phraseup/keyfile"
	"github.com/minios-linux/phraseup/phrase"
	"github.com/minios-linux/phraseup/progress"
	"github.com/minios-linux/phraseup/settings"
	"github.com/minios-linux/phraseup/upload"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

// logOut receives all diagnostics and the progress bar.
var logOut io.Writer = os.Stderr

func logInfo(format string, args ...any) {
	fmt.Fprintln(logOut, colorBlue+"[INFO]"+colorReset+" "+i18n.Tf(format, args...))
}

func logSuccess(format string, args ...any) {
	fmt.Fprintln(logOut, colorGreen+"[OK]"+colorReset+" "+i18n.Tf(format, args...))
}

func logWarning(format string, args ...any) {
	fmt.Fprintln(logOut, colorYellow+"[WARN]"+colorReset+" "+i18n.Tf(format, args...))
}

func logError(format string, args ...any) {
	fmt.Fprintln(logOut, colorRed+"[ERROR]"+colorReset+" "+i18n.Tf(format, args...))
}

// logDebug prints only with --verbose. Messages come from other packages
// and are not translated.
func logDebug(format string, args ...any) {
	if verbose {
		fmt.Fprintf(logOut, "  "+format+"\n", args...)
	}
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var verbose bool

// argMissingError is reported before any file or network I/O.
type argMissingError struct {
	arg string
}

func (e *argMissingError) Error() string {
	return i18n.Tf("command line argument %s was missing", e.arg)
}

// ---------------------------------------------------------------------------
// Root command (upload)
// ---------------------------------------------------------------------------

type uploadArgs struct {
	accessToken string
	projectName string
	locale      string
	configPath  string
	apiURL      string
	proxy       string
	dryRun      bool
	noProgress  bool
}

func bindUploadFlags(fs *pflag.FlagSet, a *uploadArgs) {
	fs.StringVarP(&a.accessToken, "access-token", "t", "", "Phrase API token with read and write scopes (or PHRASE_ACCESS_TOKEN env var)")
	fs.StringVarP(&a.projectName, "project-name", "p", "", "Name of the Phrase project to add the strings to (required)")
	fs.StringVarP(&a.locale, "locale", "l", "", "Locale the strings are uploaded to (default \"en\")")
	fs.StringVar(&a.configPath, "config", "", "Project file (default ./"+config.ProjectFileName+" if present)")
	fs.StringVar(&a.apiURL, "api-url", "", "Phrase API host (or PHRASE_API_URL env var, default "+phrase.DefaultBaseURL+")")
	fs.StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	fs.BoolVar(&a.dryRun, "dry-run", false, "Parse the file and resolve project and locale without creating anything")
	fs.BoolVar(&a.noProgress, "no-progress", false, "Do not render a progress bar")
}

func newRootCmd() *cobra.Command {
	var a uploadArgs

	root := &cobra.Command{
		Use:   "phraseup FILE",
		Short: "Quickly upload multiple keys to Phrase",
		Long: `phraseup bulk-uploads localization keys to Phrase.

FILE holds one key per line followed by its translation on the next line.
Empty lines are ignored:

  greeting
  Hello
  farewell
  Goodbye

Every key is created in the project first, then each translation is
attached in the selected locale. The first failed request stops the run;
keys created up to that point are kept.

Examples:
  # Upload English strings
  phraseup strings.txt -p "My App"

  # Upload German strings with an explicit token
  phraseup strings_de.txt -p "My App" -l de -t $TOKEN

  # Check project and locale without creating anything
  phraseup strings.txt -p "My App" --dry-run`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &argMissingError{arg: "FILE"}
			}
			return cobra.MaximumNArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), args[0], a)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging")
	bindUploadFlags(root.Flags(), &a)

	root.AddCommand(
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		logError("%v", err)
		if verbose {
			printErrorChain(err)
		}
		os.Exit(1)
	}
}

// printErrorChain writes every wrapped error with its type, outermost first.
// Joined errors are listed one level deeper than the error that joins them.
func printErrorChain(err error) {
	fmt.Fprintln(logOut, i18n.T("Error chain:"))
	writeErrorChain(err, 0)
}

func writeErrorChain(err error, depth int) {
	for ; err != nil; depth++ {
		fmt.Fprintf(logOut, "  %s%d: %T: %v\n", strings.Repeat("  ", depth), depth, err, err)
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				writeErrorChain(e, depth+1)
			}
			return
		}
		err = errors.Unwrap(err)
	}
}

// ---------------------------------------------------------------------------
// upload
// ---------------------------------------------------------------------------

// loadProjectFile honors --config and otherwise looks in the working
// directory.
func loadProjectFile(path string) (*config.ProjectFile, error) {
	if path != "" {
		return config.LoadProjectFilePath(path)
	}
	return config.LoadProjectFile(".")
}

// resolveToken picks the token from the flag, the environment, then the
// credential store for apiURL.
func resolveToken(flagToken string, env *config.Env, apiURL string) (string, error) {
	if t := strings.TrimSpace(flagToken); t != "" {
		return t, nil
	}
	if env != nil && env.AccessToken != "" {
		return env.AccessToken, nil
	}
	if t := settings.Token(apiURL); t != "" {
		return t, nil
	}
	return "", &argMissingError{arg: "access-token"}
}

// resolveSettings merges flags over the environment (and .env) over the
// project file. Uploads and the auth commands share it so both agree on
// the API host.
func resolveSettings(flags config.Settings, configPath string) (config.Settings, *config.Env, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return config.Settings{}, nil, err
	}
	pf, err := loadProjectFile(configPath)
	if err != nil {
		return config.Settings{}, nil, err
	}
	if pf != nil {
		logDebug("Using %s", pf.Path())
	}

	s := config.Resolve(config.Settings{
		ProjectName: strings.TrimSpace(flags.ProjectName),
		Locale:      strings.TrimSpace(flags.Locale),
		APIURL:      strings.TrimSpace(flags.APIURL),
	}, env, pf)
	if s.APIURL == "" {
		s.APIURL = phrase.DefaultBaseURL
	}
	return s, env, nil
}

func runUpload(ctx context.Context, file string, a uploadArgs) error {
	s, env, err := resolveSettings(config.Settings{
		ProjectName: a.projectName,
		Locale:      a.locale,
		APIURL:      a.apiURL,
	}, a.configPath)
	if err != nil {
		return err
	}

	token, err := resolveToken(a.accessToken, env, s.APIURL)
	if err != nil {
		return err
	}
	if s.ProjectName == "" {
		return &argMissingError{arg: "project-name"}
	}
	if a.proxy != "" {
		if _, err := phrase.ParseProxyURL(a.proxy); err != nil {
			return err
		}
	}

	records, err := keyfile.ParseFile(file)
	if err != nil {
		return err
	}

	client := phrase.NewClient(token,
		phrase.WithBaseURL(s.APIURL),
		phrase.WithProxy(a.proxy),
		phrase.WithUserAgent("phraseup/"+version),
		phrase.WithLogger(logDebug),
	)
	logDebug("API host %s, messages in %s", client.BaseURL(), i18n.Lang())

	logInfo("Uploading %d key(s) from %s to project %q, locale %q", len(records), file, s.ProjectName, s.Locale)

	var sink upload.Progress = progress.Discard
	showBar := !a.noProgress && !a.dryRun && !verbose && len(records) > 0
	if showBar {
		sink = progress.New(logOut, len(records), filepath.Base(file))
	}

	u := upload.New(client, sink, upload.Options{
		ProjectName: s.ProjectName,
		LocaleName:  s.Locale,
		DryRun:      a.dryRun,
		Log:         logDebug,
	})
	if err := u.Run(ctx, records); err != nil {
		if showBar {
			fmt.Fprintln(logOut)
		}
		return err
	}

	if a.dryRun {
		logSuccess("Dry run: project %q (%s) and locale %q (%s) found, %d key(s) ready",
			u.Project().Name, u.Project().ID, u.Locale().Name, u.Locale().ID, len(records))
		return nil
	}
	logSuccess(i18n.N("Uploaded %d key", "Uploaded %d keys", u.Uploaded()), u.Uploaded())
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "phraseup version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored Phrase access token",
		Long: `Manage access tokens stored in ` + settings.FilePath() + `.

A stored token is used when neither --access-token nor PHRASE_ACCESS_TOKEN
is given. Tokens are kept per API host.

Examples:
  phraseup auth login                      Paste a token interactively
  phraseup auth login --token $TOKEN       Store a token non-interactively
  phraseup auth status                     Show stored tokens
  phraseup auth logout                     Remove the token for the API host
  phraseup auth logout --all               Remove every stored token`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthStatusCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		token    string
		apiURL   string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := apiHost(apiURL)
			if err != nil {
				return err
			}

			if token == "" {
				existing := settings.Token(host)
				if existing != "" {
					fmt.Fprintf(logOut, i18n.T("  Current token: %s%s%s\n"), colorYellow, settings.MaskKey(existing), colorReset)
				}
				fmt.Fprint(logOut, i18n.T("  Enter access token: "))

				scanner := bufio.NewScanner(cmd.InOrStdin())
				if !scanner.Scan() {
					return errors.New(i18n.T("no input received"))
				}
				token = strings.TrimSpace(scanner.Text())
				if token == "" {
					if existing != "" {
						logInfo("Keeping existing token")
						return nil
					}
					return errors.New(i18n.T("no access token provided"))
				}
			}

			if !noVerify {
				client := phrase.NewClient(token, phrase.WithBaseURL(host), phrase.WithLogger(logDebug))
				projects, err := client.ListProjects(cmd.Context())
				if err != nil {
					return fmt.Errorf(i18n.T("verifying token: %w"), err)
				}
				logInfo("Token can see %d project(s)", len(projects))
			}

			if err := settings.SetToken(host, token); err != nil {
				return err
			}
			logSuccess("Token for %s saved", host)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token (prompted if empty)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Phrase API host (default "+phrase.DefaultBaseURL+")")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Store the token without checking it against the API")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	var (
		apiURL string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("All stored tokens removed")
				return nil
			}

			host, err := apiHost(apiURL)
			if err != nil {
				return err
			}
			if settings.Token(host) == "" {
				logWarning("No token stored for %s", host)
				return nil
			}
			if err := settings.Remove(host); err != nil {
				return err
			}
			logSuccess("Token for %s removed", host)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Phrase API host (default "+phrase.DefaultBaseURL+")")
	cmd.Flags().BoolVar(&all, "all", false, "Remove tokens for every API host")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"list", "ls"},
		Short:   "Show stored tokens",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, env, err := resolveSettings(config.Settings{}, "")
			if err != nil {
				return err
			}

			fmt.Fprintf(logOut, "\n%s%s%s\n", colorBlue, i18n.T("Stored Tokens"), colorReset)
			fmt.Fprintln(logOut, strings.Repeat("─", 60))

			store := settings.Load()
			if len(store) == 0 {
				fmt.Fprintf(logOut, "  %s%s%s\n", colorRed, i18n.T("none"), colorReset)
			}
			for _, host := range slices.Sorted(maps.Keys(store)) {
				fmt.Fprintf(logOut, "  %-36s %s%s%s\n", host, colorGreen, settings.MaskKey(store[host].Token), colorReset)
			}

			fmt.Fprintf(logOut, "\n  %s%s%s\n", colorYellow, i18n.T("Environment Variables"), colorReset)
			if env.AccessToken != "" {
				fmt.Fprintf(logOut, i18n.T("  PHRASE_ACCESS_TOKEN: %s%s%s (overrides stored tokens)\n"), colorGreen, settings.MaskKey(env.AccessToken), colorReset)
			} else {
				fmt.Fprintf(logOut, i18n.T("  PHRASE_ACCESS_TOKEN: %snot set%s\n"), colorRed, colorReset)
			}
			fmt.Fprintln(logOut)
			return nil
		},
	}
}

// apiHost resolves the API host the way an upload from the working
// directory would: flag, then PHRASE_API_URL (or .env), then the api_url
// of ./.phraseup.yaml, then the default host.
func apiHost(flag string) (string, error) {
	s, _, err := resolveSettings(config.Settings{APIURL: flag}, "")
	if err != nil {
		return "", err
	}
	return s.APIURL, nil
}
