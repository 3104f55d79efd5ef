package nexus_test

import (
	"encoding/json"
	"testing"

	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Deterministic(t *testing.T) {
	t.Parallel()

	fields := map[string]interface{}{
		"@id":         "https://nexus.test/v1/orgs/bbp",
		"_label":      "bbp",
		"_rev":        3,
		"name":        "Blue Brain",
		"description": "simulation data",
	}

	first, err := nexus.Fingerprint(fields)
	require.NoError(t, err)

	second, err := nexus.Fingerprint(fields)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestFingerprint_IndependentOfDecodingOrder(t *testing.T) {
	t.Parallel()

	var a, b map[string]interface{}

	require.NoError(t, json.Unmarshal([]byte(`{"name": "x", "description": "y", "_rev": 2}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"_rev": 2, "description": "y", "name": "x"}`), &b))

	fpA, err := nexus.Fingerprint(a)
	require.NoError(t, err)

	fpB, err := nexus.Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB)
}

func TestFingerprint_DetectsChanges(t *testing.T) {
	t.Parallel()

	base := map[string]interface{}{"name": "x", "_rev": 2}
	changed := map[string]interface{}{"name": "y", "_rev": 2}

	fpBase, err := nexus.Fingerprint(base)
	require.NoError(t, err)

	fpChanged, err := nexus.Fingerprint(changed)
	require.NoError(t, err)

	assert.NotEqual(t, fpBase, fpChanged)
}

func TestFingerprint_IntAndFloatEncodeAlike(t *testing.T) {
	t.Parallel()

	// A fetched document decodes numbers as float64 while locally built maps
	// may hold ints. Both must fingerprint identically.
	fromWire := map[string]interface{}{"_rev": float64(3)}
	local := map[string]interface{}{"_rev": 3}

	fpWire, err := nexus.Fingerprint(fromWire)
	require.NoError(t, err)

	fpLocal, err := nexus.Fingerprint(local)
	require.NoError(t, err)

	assert.Equal(t, fpWire, fpLocal)
}

func TestFingerprintResource(t *testing.T) {
	t.Parallel()

	resource := nexus.FromMap(map[string]interface{}{
		"_label": "bbp",
		"_rev":   float64(1),
		"name":   "Blue Brain",
	})

	fromResource, err := nexus.FingerprintResource(&resource)
	require.NoError(t, err)

	fromMap, err := nexus.Fingerprint(resource.ToMap())
	require.NoError(t, err)

	assert.Equal(t, fromResource, fromMap)
}
