package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"
)

var (
	ErrEmptyToken      = fmt.Errorf("authorization endpoint returned an empty token")
	ErrEmptyDeployment = fmt.Errorf("deployment endpoint returned an empty deployment")
)

// Exchanger trades a signed app token for a short-lived installation token.
type Exchanger interface {
	InstallationToken(ctx context.Context, installationID int64) (string, error)
}

// Deployer creates deployments on a target repository using an
// installation token.
type Deployer interface {
	CreateDeployment(ctx context.Context, owner, repository string, request *gh.DeploymentRequest) (*gh.Deployment, error)
}

type exchanger struct {
	client *gh.Client
}

type deployer struct {
	client *gh.Client
}

// NewExchanger returns an Exchanger whose requests are authenticated with
// the given app token.
func NewExchanger(ctx context.Context, appToken, baseURL string) (Exchanger, error) {
	client, err := newClient(ctx, appToken, baseURL)
	if err != nil {
		return nil, err
	}
	return &exchanger{client: client}, nil
}

// NewDeployer returns a Deployer whose requests are authenticated with the
// given installation token.
func NewDeployer(ctx context.Context, installationToken, baseURL string) (Deployer, error) {
	client, err := newClient(ctx, installationToken, baseURL)
	if err != nil {
		return nil, err
	}
	return &deployer{client: client}, nil
}

func newClient(ctx context.Context, token, baseURL string) (*gh.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gh.NewClient(oauth2.NewClient(ctx, ts))

	if len(baseURL) > 0 {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}

	return client, nil
}

func (e *exchanger) InstallationToken(ctx context.Context, installationID int64) (string, error) {
	token, resp, err := e.client.Apps.CreateInstallationToken(ctx, installationID, &gh.InstallationTokenOptions{})
	if err != nil {
		return "", fmt.Errorf("create installation token: %w", err)
	}

	// Current API versions answer 201; older ones used 200.
	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
	default:
		return "", fmt.Errorf("authorization endpoint returned %s", resp.Status)
	}

	if len(token.GetToken()) == 0 {
		return "", ErrEmptyToken
	}

	return token.GetToken(), nil
}

func (d *deployer) CreateDeployment(ctx context.Context, owner, repository string, request *gh.DeploymentRequest) (*gh.Deployment, error) {
	dep, resp, err := d.client.Repositories.CreateDeployment(ctx, owner, repository, request)
	if err != nil {
		return nil, fmt.Errorf("create deployment: %w", err)
	}

	// 202 means GitHub started an auto-merge instead of recording a
	// deployment. Only 201 carries a deployment object.
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("deployment endpoint returned %s", resp.Status)
	}

	if dep == nil {
		return nil, ErrEmptyDeployment
	}

	return dep, nil
}
