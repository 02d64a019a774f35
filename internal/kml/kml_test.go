package kml

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stationsDoc() *KML {
	return &KML{
		Xmlns: Namespace,
		Document: &Document{
			Name: "stations",
			Placemarks: []Placemark{
				{ID: "725300", Name: "725300", Point: NewPoint(-87.9, 41.98)},
				{ID: "999999", Name: "999999"},
			},
			GroundOverlays: []GroundOverlay{
				{Icon: &Icon{Href: "http://example.com/temps.png"}, LatLonBox: WorldBox()},
			},
		},
	}
}

func TestEncode_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, stationsDoc()))

	g := goldie.New(t)
	g.Assert(t, "stations", buf.Bytes())
}

func TestDecode_Golden(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "stations.golden"))
	require.NoError(t, err)
	defer f.Close()

	k, err := Decode(f)
	require.NoError(t, err)
	require.NotNil(t, k.Document)

	assert.Equal(t, "stations", k.Document.Name)
	require.Len(t, k.Document.Placemarks, 2)
	assert.Equal(t, "725300", k.Document.Placemarks[0].ID)
	assert.Nil(t, k.Document.Placemarks[1].Point)

	lon, lat, err := k.Document.Placemarks[0].Point.LonLat()
	require.NoError(t, err)
	assert.InDelta(t, -87.9, lon, 1e-9)
	assert.InDelta(t, 41.98, lat, 1e-9)

	require.Len(t, k.Document.GroundOverlays, 1)
	assert.Equal(t, WorldBox(), k.Document.GroundOverlays[0].LatLonBox)
	assert.False(t, k.Empty())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("<kml><Document>"))
	assert.Error(t, err)
}

func TestEmpty(t *testing.T) {
	var nilDoc *KML
	assert.True(t, nilDoc.Empty())
	assert.True(t, (&KML{}).Empty())
	assert.True(t, (&KML{Document: &Document{Name: "stations"}}).Empty())

	k, err := Decode(strings.NewReader(`<kml><Document><name>x</name></Document></kml>`))
	require.NoError(t, err)
	assert.True(t, k.Empty())
}

func TestPointLonLat(t *testing.T) {
	_, _, err := (&Point{Coordinates: "12.5"}).LonLat()
	assert.ErrorIs(t, err, ErrNoCoordinates)

	_, _, err = (&Point{Coordinates: "x,1"}).LonLat()
	assert.Error(t, err)

	lon, lat, err := (&Point{Coordinates: " 24.94,60.17,0 "}).LonLat()
	require.NoError(t, err)
	assert.Equal(t, 24.94, lon)
	assert.Equal(t, 60.17, lat)
}
