package github_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/organiser/deploy-trigger/pkg/github"
)

func TestSplitFullname(t *testing.T) {
	t.Run("owner and name are split on the slash", func(t *testing.T) {
		owner, name, err := github.SplitFullname("org/main")
		assert.NoError(t, err)
		assert.Equal(t, "org", owner)
		assert.Equal(t, "main", name)
	})
	t.Run("missing slash", func(t *testing.T) {
		_, _, err := github.SplitFullname("orgmain")
		assert.Error(t, err)
	})
	t.Run("too many path segments", func(t *testing.T) {
		_, _, err := github.SplitFullname("org/main/extra")
		assert.Error(t, err)
	})
	t.Run("empty owner", func(t *testing.T) {
		_, _, err := github.SplitFullname("/main")
		assert.Error(t, err)
	})
	t.Run("empty name", func(t *testing.T) {
		_, _, err := github.SplitFullname("org/")
		assert.Error(t, err)
	})
}
