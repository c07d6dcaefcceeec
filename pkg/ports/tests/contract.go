package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/ports"
)

// FlowLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.FlowLoader.
func FlowLoaderContractTest(t *testing.T, loader ports.FlowLoader, setupData map[string][]byte) {
	t.Helper()

	t.Run("GetFlow_Success", func(t *testing.T) {
		for name, expectedContent := range setupData {
			content, err := loader.GetFlow(name)
			if err != nil {
				t.Fatalf("unexpected error getting flow %s: %v", name, err)
			}
			if string(content) != string(expectedContent) {
				t.Errorf("content mismatch for %s. got %q, want %q", name, content, expectedContent)
			}
		}
	})

	t.Run("GetFlow_NotFound", func(t *testing.T) {
		_, err := loader.GetFlow("non-existent-flow")
		if !errors.Is(err, domain.ErrFlowNotFound) {
			t.Errorf("expected ErrFlowNotFound for non-existent flow, got %v", err)
		}
	})

	t.Run("ListFlows", func(t *testing.T) {
		names, err := loader.ListFlows()
		if err != nil {
			t.Fatalf("unexpected error listing flows: %v", err)
		}

		if len(names) != len(setupData) {
			t.Errorf("expected %d flows, got %d", len(setupData), len(names))
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range setupData {
			if !lookup[name] {
				t.Errorf("flow %s missing from list", name)
			}
		}
	})
}
