package tour

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Record is a tour detail record as returned by the remote API. A tour is a
// themed collection of heritage objects with associated media and tasks.
type Record struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	Objects      []Object `json:"objects"`
}

// Object is a single heritage object within a tour.
type Object struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Assets       []Asset  `json:"assets,omitempty"`
	Tasks        []Task   `json:"tasks,omitempty"`
}

// Asset bundles the downloadable media attached to an object. All URL fields
// are optional; an asset may carry any subset of them.
type Asset struct {
	ID           int         `json:"id"`
	ModelURL     string      `json:"model_url,omitempty"`
	MaterialURLs []string    `json:"material_urls,omitempty"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	MarkerURL    string      `json:"marker_url,omitempty"`
	AudioURL     string      `json:"audio_url,omitempty"`
	VideoURL     string      `json:"video_url,omitempty"`
	Interaction  Interaction `json:"interaction,omitempty"`
}

// Task is an interactive assignment attached to an object.
type Task struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ThumbnailURL   string `json:"thumbnail_url,omitempty"`
	DetailImageURL string `json:"detail_image_url,omitempty"`
}

// Interaction selects how an asset is presented in the viewer.
type Interaction uint8

const (
	InteractionUnknown Interaction = iota
	PlaceOnPlane
	ShowOnMarker
	ShowDirectly
)

func (i Interaction) String() string {
	s := "unknown"
	switch i {
	case PlaceOnPlane:
		s = "place_on_plane"
	case ShowOnMarker:
		s = "show_on_marker"
	case ShowDirectly:
		s = "show_directly"
	}
	return s
}

// MarshalJSON encodes the interaction method as its wire string.
func (i Interaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON decodes the wire string. Unknown or empty values map to
// InteractionUnknown so that records from newer API versions still decode.
func (i *Interaction) UnmarshalJSON(p []byte) error {
	var s string
	if err := json.Unmarshal(p, &s); err != nil {
		return errors.Wrap(err, "json.Unmarshal")
	}

	switch s {
	case "place_on_plane":
		*i = PlaceOnPlane
	case "show_on_marker":
		*i = ShowOnMarker
	case "show_directly":
		*i = ShowDirectly
	default:
		*i = InteractionUnknown
	}
	return nil
}
