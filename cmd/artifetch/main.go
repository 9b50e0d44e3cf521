package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/artifetch-go/internal/app"
	"github.com/quantmind-br/artifetch-go/internal/config"
	"github.com/quantmind-br/artifetch-go/internal/domain"
	"github.com/quantmind-br/artifetch-go/internal/utils"
	"github.com/quantmind-br/artifetch-go/pkg/version"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "artifetch <source>",
	Short: "Fetch artifacts and repositories from GitLab, Artifactory, and Git",
	Long: `Artifetch resolves a single source string into a local artifact:
a cloned repository, a repository subdirectory, a single file, or a
generic binary artifact.

Sources:
  gitlab://group/sub/repo@main//services/auth   repository content
  https://host/org/repo.git                     git clone
  group/repo                                    clone shorthand (explicit -p git)
  https://artifactory.example.com/repo/a.jar    artifact download`,
	Version:       version.Short(),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.artifetch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().StringP("dest", "d", ".", "Destination folder")
	rootCmd.Flags().StringP("provider", "p", "",
		fmt.Sprintf("Provider (%s); auto-detected otherwise", strings.Join(domain.ProviderKeys(), ", ")))
	rootCmd.Flags().StringP("branch", "b", "", "Branch to clone (git provider)")
	rootCmd.Flags().StringP("kind", "k", "auto", "Content kind (repo, dir, file, auto)")
	rootCmd.Flags().Bool("no-progress", false, "Disable the download progress bar")

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dest, _ := cmd.Flags().GetString("dest")
	provider, _ := cmd.Flags().GetString("provider")
	branch, _ := cmd.Flags().GetString("branch")
	kind, _ := cmd.Flags().GetString("kind")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	application := app.New(app.AppOptions{
		Config:   cfg,
		Logger:   log,
		Progress: !noProgress,
	})

	result, err := application.Fetch(ctx, app.Options{
		Source:   args[0],
		Dest:     dest,
		Provider: provider,
		Branch:   branch,
		Kind:     kind,
	})
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that the external dependencies artifetch relies on are available.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking system dependencies...")
		allPassed := true

		fmt.Print("  git binary: ")
		if path := checkGit(); path != "" {
			fmt.Printf("OK (%s)\n", path)
		} else {
			fmt.Println("NOT FOUND (clone provider will be unavailable)")
			allPassed = false
		}

		fmt.Print("  Internet connection: ")
		if checkInternet() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		fmt.Print("  Write permissions: ")
		if checkWritePermissions() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		fmt.Print("  Config file: ")
		if _, err := config.Load(); err != nil {
			fmt.Printf("WARN (%v)\n", err)
		} else {
			fmt.Println("OK")
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkGit resolves the git binary, honoring GIT_BINARY
func checkGit() string {
	if bin := os.Getenv("GIT_BINARY"); bin != "" {
		if _, err := os.Stat(bin); err == nil {
			return bin
		}
		return ""
	}
	if path, err := exec.LookPath("git"); err == nil {
		return path
	}
	return ""
}

// checkInternet checks if there's an internet connection
func checkInternet() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://gitlab.com", nil)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions() bool {
	f, err := os.CreateTemp(".", ".artifetch_write_*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
