// Package kml encodes and decodes the small subset of KML used for station
// overlays: a document of point placemarks plus one ground overlay.
package kml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Namespace is the KML 2.2 namespace written on encoded documents.
const Namespace = "http://www.opengis.net/kml/2.2"

// ErrNoCoordinates is returned by Point.LonLat for a point without a usable position.
var ErrNoCoordinates = errors.New("kml: point has no coordinates")

// KML is the root element.
type KML struct {
	XMLName  xml.Name  `xml:"kml"`
	Xmlns    string    `xml:"xmlns,attr,omitempty"`
	Document *Document `xml:"Document"`
}

// Document groups the placemarks and overlays of one hour.
type Document struct {
	Name           string          `xml:"name,omitempty"`
	Placemarks     []Placemark     `xml:"Placemark"`
	GroundOverlays []GroundOverlay `xml:"GroundOverlay"`
}

// Placemark is a named station position.
type Placemark struct {
	ID          string `xml:"id,attr,omitempty"`
	Name        string `xml:"name,omitempty"`
	Description string `xml:"description,omitempty"`
	Point       *Point `xml:"Point,omitempty"`
}

// Point holds "lon,lat[,alt]" coordinates, in KML order.
type Point struct {
	Coordinates string `xml:"coordinates"`
}

// GroundOverlay drapes an image over a lat/lon box.
type GroundOverlay struct {
	Name      string     `xml:"name,omitempty"`
	Icon      *Icon      `xml:"Icon,omitempty"`
	LatLonBox *LatLonBox `xml:"LatLonBox,omitempty"`
}

type Icon struct {
	Href string `xml:"href"`
}

type LatLonBox struct {
	North    float64 `xml:"north"`
	South    float64 `xml:"south"`
	East     float64 `xml:"east"`
	West     float64 `xml:"west"`
	Rotation float64 `xml:"rotation"`
}

// NewPoint builds a point from longitude and latitude.
func NewPoint(lon, lat float64) *Point {
	return &Point{
		Coordinates: strconv.FormatFloat(lon, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64),
	}
}

// LonLat parses the first two coordinate values.
func (p *Point) LonLat() (lon, lat float64, err error) {
	if p == nil {
		return 0, 0, ErrNoCoordinates
	}
	parts := strings.Split(strings.TrimSpace(p.Coordinates), ",")
	if len(parts) < 2 {
		return 0, 0, ErrNoCoordinates
	}
	if lon, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, fmt.Errorf("kml: longitude: %w", err)
	}
	if lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, fmt.Errorf("kml: latitude: %w", err)
	}
	return lon, lat, nil
}

// WorldBox covers the whole globe.
func WorldBox() *LatLonBox {
	return &LatLonBox{North: 90, South: -90, East: 180, West: -180}
}

// Empty reports whether the document carries nothing to display.
func (k *KML) Empty() bool {
	if k == nil || k.Document == nil {
		return true
	}
	return len(k.Document.Placemarks) == 0 && len(k.Document.GroundOverlays) == 0
}

// Encode writes k as an indented XML document.
func Encode(w io.Writer, k *KML) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(k); err != nil {
		return fmt.Errorf("kml: encode: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode parses a KML document from r.
func Decode(r io.Reader) (*KML, error) {
	var k KML
	if err := xml.NewDecoder(r).Decode(&k); err != nil {
		return nil, fmt.Errorf("kml: decode: %w", err)
	}
	return &k, nil
}
