package trigger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/organiser/deploy-trigger/pkg/trigger"
)

func validConfig() *trigger.Config {
	return &trigger.Config{
		AppID:          "12345",
		InstallationID: 67890,
		PrivateKey:     "placeholder",
		Repository:     "org/main",
		Ref:            trigger.DefaultRef,
		Environment:    trigger.DefaultEnvironment,
		Description:    trigger.DefaultDescription,
		AutoMerge:      true,
		GithubAPIURL:   trigger.DefaultGithubAPIURL,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *trigger.Config)
		err    error
	}{
		{
			name:   "valid configuration",
			mutate: func(cfg *trigger.Config) {},
			err:    nil,
		},
		{
			name:   "missing app id",
			mutate: func(cfg *trigger.Config) { cfg.AppID = "" },
			err:    trigger.ErrAppIDRequired,
		},
		{
			name:   "missing installation id",
			mutate: func(cfg *trigger.Config) { cfg.InstallationID = 0 },
			err:    trigger.ErrInstallationIDRequired,
		},
		{
			name:   "negative installation id",
			mutate: func(cfg *trigger.Config) { cfg.InstallationID = -1 },
			err:    trigger.ErrInstallationIDRequired,
		},
		{
			name:   "missing private key",
			mutate: func(cfg *trigger.Config) { cfg.PrivateKey = "" },
			err:    trigger.ErrPrivateKeyRequired,
		},
		{
			name: "both private key and private key file",
			mutate: func(cfg *trigger.Config) {
				cfg.PrivateKeyFile = "/path/to/key.pem"
			},
			err: trigger.ErrPrivateKeyRequired,
		},
		{
			name:   "missing repository",
			mutate: func(cfg *trigger.Config) { cfg.Repository = "" },
			err:    trigger.ErrRepositoryRequired,
		},
		{
			name:   "missing ref",
			mutate: func(cfg *trigger.Config) { cfg.Ref = "" },
			err:    trigger.ErrRefRequired,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validConfig()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}
}
