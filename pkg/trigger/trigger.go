package trigger

import (
	"context"
	"fmt"
	"os"

	gh "github.com/google/go-github/v41/github"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwk"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	ocodes "go.opentelemetry.io/otel/codes"

	"github.com/organiser/deploy-trigger/pkg/github"
	"github.com/organiser/deploy-trigger/pkg/github/tokens"
	"github.com/organiser/deploy-trigger/pkg/telemetry"
)

// Run is a fully validated deployment trigger, ready to be fired exactly
// once.
type Run struct {
	Config        *Config
	CorrelationID string
	Request       *gh.DeploymentRequest

	// Client constructors, swappable in tests.
	NewExchanger func(ctx context.Context, appToken, baseURL string) (github.Exchanger, error)
	NewDeployer  func(ctx context.Context, installationToken, baseURL string) (github.Deployer, error)

	key   jwk.Key
	owner string
	name  string
}

// Prepare validates the configuration and loads the signing key. Nothing
// here touches the network; a malformed key fails the run before any
// request is made.
func Prepare(cfg *Config) (*Run, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, ErrorWrap(ExitInvocationFailure, err)
	}

	owner, name, err := github.SplitFullname(cfg.Repository)
	if err != nil {
		return nil, ErrorWrap(ExitInvocationFailure, err)
	}

	pemData := []byte(cfg.PrivateKey)
	if len(cfg.PrivateKeyFile) > 0 {
		pemData, err = os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, Errorf(ExitInvocationFailure, "read private key: %s", err)
		}
	}

	key, err := tokens.ParsePrivateKey(pemData)
	if err != nil {
		return nil, ErrorWrap(ExitSigningFailure, err)
	}

	return &Run{
		Config:        cfg,
		CorrelationID: uuid.NewString(),
		Request: &gh.DeploymentRequest{
			Ref:         gh.String(cfg.Ref),
			Environment: gh.String(cfg.Environment),
			Description: gh.String(cfg.Description),
			AutoMerge:   gh.Bool(cfg.AutoMerge),
		},
		NewExchanger: github.NewExchanger,
		NewDeployer:  github.NewDeployer,
		key:          key,
		owner:        owner,
		name:         name,
	}, nil
}

// Trigger mints an app token, exchanges it for an installation token, and
// creates a deployment on the target repository. The three steps run in
// strict sequence; the first failure terminates the run. None of the
// steps is retried, although a caller may safely start over with a fresh
// Run.
func (r *Run) Trigger(ctx context.Context) error {
	cfg := r.Config

	// Root span for tracing.
	// All sub-spans must be created from this context.
	ctx, span := telemetry.Tracer().Start(ctx, "Trigger GitHub deployment")
	defer span.End()
	span.SetAttributes(
		attribute.String("correlation_id", r.CorrelationID),
		attribute.String("repository", cfg.Repository),
		attribute.String("environment", cfg.Environment),
	)

	fail := func(code ExitCode, err error) error {
		if ctx.Err() != nil {
			err = fmt.Errorf("deployment trigger timed out: %w", ctx.Err())
			code = ExitTimeout
		}
		span.SetStatus(ocodes.Error, err.Error())
		span.RecordError(err)
		return ErrorWrap(code, err)
	}

	log.Infof("Triggering deployment of %s to %s on %s/%s", cfg.Ref, cfg.Environment, r.owner, r.name)
	log.Infof("Correlation ID: %s", r.CorrelationID)

	_, mintSpan := telemetry.Tracer().Start(ctx, "Mint app token")
	assertion, err := tokens.AppToken(r.key, cfg.AppID, tokens.DefaultDuration)
	mintSpan.End()
	if err != nil {
		return fail(ExitSigningFailure, err)
	}

	exchanger, err := r.NewExchanger(ctx, assertion, cfg.GithubAPIURL)
	if err != nil {
		return fail(ExitInternalError, err)
	}

	exchangeCtx, exchangeSpan := telemetry.Tracer().Start(ctx, "Exchange installation token")
	installationToken, err := exchanger.InstallationToken(exchangeCtx, cfg.InstallationID)
	exchangeSpan.End()
	if err != nil {
		return fail(ExitAuthenticationFailure, err)
	}

	log.Infof("Authorized as installation %d.", cfg.InstallationID)

	deployer, err := r.NewDeployer(ctx, installationToken, cfg.GithubAPIURL)
	if err != nil {
		return fail(ExitInternalError, err)
	}

	deployCtx, deploySpan := telemetry.Tracer().Start(ctx, "Create deployment")
	deployment, err := deployer.CreateDeployment(deployCtx, r.owner, r.name, r.Request)
	deploySpan.End()
	if err != nil {
		return fail(ExitDeploymentFailure, err)
	}

	log.Infof("Deployment %d of %s created in environment %s.", deployment.GetID(), cfg.Ref, deployment.GetEnvironment())

	return nil
}
