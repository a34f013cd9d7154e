package trigger

import (
	"errors"
	"time"

	flag "github.com/spf13/pflag"
)

type Config struct {
	Actions                   bool          `json:"actions"`
	AppID                     string        `json:"app-id"`
	AutoMerge                 bool          `json:"auto-merge"`
	Description               string        `json:"description"`
	DryRun                    bool          `json:"dry-run"`
	Environment               string        `json:"environment"`
	GithubAPIURL              string        `json:"github-api-url"`
	InstallationID            int64         `json:"installation-id"`
	OpenTelemetryCollectorURL string        `json:"otel-collector-endpoint"`
	PrintPayload              bool          `json:"print-payload"`
	PrivateKey                string        `json:"private-key"`
	PrivateKeyFile            string        `json:"private-key-file"`
	Quiet                     bool          `json:"quiet"`
	Ref                       string        `json:"ref"`
	Repository                string        `json:"repository"`
	Timeout                   time.Duration `json:"timeout"`
	Traceparent               string        `json:"traceparent"`
}

const (
	DefaultRef            = "main"
	DefaultEnvironment    = "production"
	DefaultDescription    = "Build triggered from organiser repository"
	DefaultGithubAPIURL   = "https://api.github.com/"
	DefaultTriggerTimeout = time.Minute * 10
)

var (
	ErrAppIDRequired          = errors.New("GitHub App id required")
	ErrInstallationIDRequired = errors.New("installation id required")
	ErrPrivateKeyRequired     = errors.New("exactly one of private key or private key file required")
	ErrRepositoryRequired     = errors.New("target repository required, in the format OWNER/NAME")
	ErrRefRequired            = errors.New("git reference required")
)

// All values may also be set through correspondingly named environment
// variables, e.g. APP_ID for --app-id. Secrets usually arrive that way.
func InitConfig() {
	flag.Bool("actions", false, "Use GitHub Actions compatible error and warning messages. (env ACTIONS)")
	flag.String("app-id", "", "GitHub App identifier. (env APP_ID)")
	flag.Bool("auto-merge", true, "Let GitHub merge the default branch into the requested ref. (env AUTO_MERGE)")
	flag.String("description", DefaultDescription, "Free-text description attached to the deployment. (env DESCRIPTION)")
	flag.Bool("dry-run", false, "Validate configuration and mint a token, but don't make any requests. (env DRY_RUN)")
	flag.String("environment", DefaultEnvironment, "Environment to deploy the ref to. (env ENVIRONMENT)")
	flag.String("github-api-url", DefaultGithubAPIURL, "Base URL of the GitHub REST API. (env GITHUB_API_URL)")
	flag.Int64("installation-id", 0, "Installation of the GitHub App on the target repository. (env INSTALLATION_ID)")
	flag.String("otel-collector-endpoint", "", "OpenTelemetry collector endpoint; tracing is disabled when empty. (env OTEL_COLLECTOR_ENDPOINT)")
	flag.Bool("print-payload", false, "Print the deployment request to standard output. (env PRINT_PAYLOAD)")
	flag.String("private-key", "", "PEM encoded RSA private key of the GitHub App. (env PRIVATE_KEY)")
	flag.String("private-key-file", "", "File containing the PEM encoded RSA private key of the GitHub App. (env PRIVATE_KEY_FILE)")
	flag.Bool("quiet", false, "Suppress printing of informational messages except errors. (env QUIET)")
	flag.String("ref", DefaultRef, "Git commit hash, tag, or branch of the code being deployed. (env REF)")
	flag.String("repository", "", "Target repository, in the format OWNER/NAME. (env REPOSITORY)")
	flag.Duration("timeout", DefaultTriggerTimeout, "Time to wait for the deployment to be created. (env TIMEOUT)")
	flag.String("traceparent", "", "The W3C Trace Context traceparent value for the workflow run. (env TRACEPARENT)")
}

func (cfg *Config) Validate() error {
	if len(cfg.AppID) == 0 {
		return ErrAppIDRequired
	}
	if cfg.InstallationID <= 0 {
		return ErrInstallationIDRequired
	}
	if !xor(cfg.PrivateKey, cfg.PrivateKeyFile) {
		return ErrPrivateKeyRequired
	}
	if len(cfg.Repository) == 0 {
		return ErrRepositoryRequired
	}
	if len(cfg.Ref) == 0 {
		return ErrRefRequired
	}
	return nil
}

func xor(a, b string) bool {
	return len(a) > 0 != (len(b) > 0)
}
