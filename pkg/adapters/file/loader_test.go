package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/onboard/pkg/adapters/file"
	"github.com/aretw0/onboard/pkg/domain"
	contract "github.com/aretw0/onboard/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	data := map[string][]byte{
		"prefs":  []byte("name: prefs\nsteps:\n  - id: theme\n    type: single-choice\n"),
		"survey": []byte(`{"name":"survey","steps":[{"id":"x","type":"custom"}]}`),
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prefs.yaml"), data["prefs"], 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "survey.json"), data["survey"], 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	contract.FlowLoaderContractTest(t, file.NewLoader(dir), data)
}

func TestFileLoader_RejectsPaths(t *testing.T) {
	loader := file.NewLoader(t.TempDir())

	for _, name := range []string{"", "..", "../etc/passwd", `a\b`} {
		_, err := loader.GetFlow(name)
		assert.ErrorIs(t, err, domain.ErrFlowNotFound, name)
	}
}

func TestFileLoader_MissingDir(t *testing.T) {
	loader := file.NewLoader(filepath.Join(t.TempDir(), "missing"))

	names, err := loader.ListFlows()
	require.NoError(t, err)
	assert.Empty(t, names)
}
