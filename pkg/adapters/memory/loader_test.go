package memory_test

import (
	"testing"

	"github.com/aretw0/onboard/internal/compiler"
	"github.com/aretw0/onboard/pkg/adapters/memory"
	"github.com/aretw0/onboard/pkg/domain"
	contract "github.com/aretw0/onboard/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	data := map[string]string{
		"greeting": "name: greeting\nsteps:\n  - id: name\n    type: text-input\n",
		"survey":   `{"name":"survey","steps":[{"id":"ok","type":"custom"}]}`,
	}

	bytesData := make(map[string][]byte)
	for k, v := range data {
		bytesData[k] = []byte(v)
	}

	contract.FlowLoaderContractTest(t, memory.NewLoader(data), bytesData)
}

func TestNewFromFlows(t *testing.T) {
	flow := domain.Flow{
		Name: "prefs",
		Steps: []domain.Step{
			{
				ID:   "theme",
				Type: domain.StepSingleChoice,
				Options: []domain.Option{
					{Value: "light", Label: "Light"},
					{Value: "dark", Label: "Dark"},
				},
			},
		},
	}

	loader, err := memory.NewFromFlows(flow)
	require.NoError(t, err)

	raw, err := loader.GetFlow("prefs")
	require.NoError(t, err)

	parsed, err := compiler.NewParser().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "prefs", parsed.Name)
	require.Len(t, parsed.Steps, 1)
	assert.True(t, parsed.Steps[0].HasOption("dark"))

	_, err = memory.NewFromFlows(domain.Flow{})
	assert.Error(t, err)
}
