//go:build architecture

package architecture_test

import (
	"testing"

	"github.com/mstrYoda/go-arctest/pkg/arctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mod = `github\.com/Nazarious-ucu/blogsphere-api`

func TestLayeredArchitecture(t *testing.T) {
	arch, err := arctest.New("../")
	require.NoError(t, err)

	err = arch.ParsePackages()
	require.NoError(t, err, "failed to parse packages")

	domainLayer, err := arctest.NewLayer("domain", `^`+mod+`/internal/models`)
	require.NoError(t, err)

	validationLayer, err := arctest.NewLayer("validation", `^`+mod+`/internal/forms`)
	require.NoError(t, err)

	observabilityLayer, err := arctest.NewLayer("observability", `^`+mod+`/internal/metrics`)
	require.NoError(t, err)

	infraLayer, err := arctest.NewLayer("infrastructure", `^`+mod+`/internal/repository`)
	require.NoError(t, err)

	userLayer, err := arctest.NewLayer("handlers", `^`+mod+`/internal/handlers`)
	require.NoError(t, err)

	layered := arch.NewLayeredArchitecture(domainLayer, validationLayer, observabilityLayer, infraLayer, userLayer)

	require.NoError(t, validationLayer.DependsOnLayer(domainLayer))
	require.NoError(t, infraLayer.DependsOnLayer(domainLayer))
	require.NoError(t, infraLayer.DependsOnLayer(observabilityLayer))
	require.NoError(t, userLayer.DependsOnLayer(domainLayer))
	require.NoError(t, userLayer.DependsOnLayer(validationLayer))
	require.NoError(t, userLayer.DependsOnLayer(observabilityLayer))

	violations, err := layered.Check()
	require.NoError(t, err)

	assert.Len(t, violations, 0)
	for _, v := range violations {
		assert.Failf(t, "", "violation: %s", v)
	}
}
