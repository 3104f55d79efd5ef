package nexus_test

import (
	"encoding/json"
	"testing"

	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_UnmarshalPreservesUnknownFields(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"@id": "https://nexus.test/v1/orgs/bbp",
		"@context": "https://nexus.test/contexts/org",
		"_label": "bbp",
		"_rev": 4,
		"_deprecated": false,
		"_uuid": "91b1c8e4",
		"name": "Blue Brain",
		"description": "simulation data",
		"_createdBy": "alice",
		"customTag": 42
	}`)

	var resource nexus.Resource
	require.NoError(t, json.Unmarshal(body, &resource))

	assert.Equal(t, "https://nexus.test/v1/orgs/bbp", resource.ID)
	assert.Equal(t, "bbp", resource.Label)
	assert.Equal(t, 4, resource.Rev)
	assert.False(t, resource.Deprecated)
	assert.Equal(t, "91b1c8e4", resource.UUID)
	assert.Equal(t, "Blue Brain", resource.Name)
	assert.Equal(t, "simulation data", resource.Description)

	// Fields the service attached beyond the well-known set survive
	assert.Equal(t, "alice", resource.Extra["_createdBy"])
	assert.Equal(t, float64(42), resource.Extra["customTag"])
	assert.Equal(t, "https://nexus.test/contexts/org", resource.Extra["@context"])
}

func TestResource_RoundTrip(t *testing.T) {
	t.Parallel()

	body := []byte(`{"@id":"x","_label":"bbp","_rev":2,"_deprecated":false,"name":"n","_extraField":"kept"}`)

	var resource nexus.Resource
	require.NoError(t, json.Unmarshal(body, &resource))

	out, err := json.Marshal(&resource)
	require.NoError(t, err)

	var original, roundTripped map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &original))
	require.NoError(t, json.Unmarshal(out, &roundTripped))

	// Nothing lost and nothing invented, including the explicit false
	assert.Equal(t, original, roundTripped)
}

func TestResource_ToMapOmitsUnsetFields(t *testing.T) {
	t.Parallel()

	resource := nexus.Resource{Label: "bbp", Rev: 1}
	fields := resource.ToMap()

	assert.Equal(t, "bbp", fields[nexus.FieldLabel])
	assert.Equal(t, 1, fields[nexus.FieldRev])
	assert.NotContains(t, fields, nexus.FieldID)
	assert.NotContains(t, fields, nexus.FieldName)
	assert.NotContains(t, fields, nexus.FieldDescription)
	assert.NotContains(t, fields, nexus.FieldDeprecated)
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	resource := nexus.FromMap(map[string]interface{}{
		"_label":      "bbp",
		"_rev":        float64(7),
		"_deprecated": true,
		"name":        "Blue Brain",
		"other":       "value",
	})

	assert.Equal(t, "bbp", resource.Label)
	assert.Equal(t, 7, resource.Rev)
	assert.True(t, resource.Deprecated)
	assert.Equal(t, "Blue Brain", resource.Name)
	assert.Equal(t, "value", resource.Extra["other"])
}

func TestOrganizationList_Unmarshal(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"_total": 2,
		"_results": [
			{"@id": "a", "_label": "one", "_deprecated": false},
			{"@id": "b", "_label": "two", "_deprecated": true, "description": "second"}
		]
	}`)

	var list nexus.OrganizationList
	require.NoError(t, json.Unmarshal(body, &list))

	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Results, 2)
	assert.Equal(t, "one", list.Results[0].Label)
	assert.False(t, list.Results[0].Deprecated)
	assert.Equal(t, "two", list.Results[1].Label)
	assert.True(t, list.Results[1].Deprecated)
	assert.Equal(t, "second", list.Results[1].Description)
}
