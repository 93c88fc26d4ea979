package tour

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionRoundtrip(t *testing.T) {
	for _, i := range []Interaction{PlaceOnPlane, ShowOnMarker, ShowDirectly} {
		p, err := json.Marshal(i)
		require.NoError(t, err)

		var got Interaction
		require.NoError(t, json.Unmarshal(p, &got))
		assert.Equal(t, i, got)
	}
}

func TestInteractionUnknownTolerated(t *testing.T) {
	var i Interaction
	require.NoError(t, json.Unmarshal([]byte(`"hologram"`), &i))
	assert.Equal(t, InteractionUnknown, i)

	require.NoError(t, json.Unmarshal([]byte(`""`), &i))
	assert.Equal(t, InteractionUnknown, i)
}

func TestRecordDecode(t *testing.T) {
	raw := `{
		"id": 7,
		"title": "Old Town",
		"objects": [
			{
				"id": 1,
				"title": "Statue",
				"latitude": 52.52,
				"longitude": 13.405,
				"assets": [
					{"id": 11, "model_url": "https://cdn.example.com/s.glb", "interaction": "place_on_plane"}
				]
			}
		]
	}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, 7, rec.ID)
	require.Len(t, rec.Objects, 1)
	require.NotNil(t, rec.Objects[0].Latitude)
	assert.InDelta(t, 52.52, *rec.Objects[0].Latitude, 0.001)
	require.Len(t, rec.Objects[0].Assets, 1)
	assert.Equal(t, PlaceOnPlane, rec.Objects[0].Assets[0].Interaction)
}
