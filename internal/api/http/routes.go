package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-timelapse/internal/datehour"
	"github.com/i474232898/weather-timelapse/internal/kml"
	"github.com/i474232898/weather-timelapse/internal/locate"
	"github.com/i474232898/weather-timelapse/internal/store"
	"github.com/i474232898/weather-timelapse/internal/timelapse"
	"github.com/i474232898/weather-timelapse/internal/viewer"
	"github.com/i474232898/weather-timelapse/internal/weather"
)

// KMLContentType is the media type of overlay documents.
const KMLContentType = "application/vnd.google-earth.kml+xml"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("datehour", func(fl validator.FieldLevel) bool {
		return datehour.IsValid(fl.Field().String())
	})
	return v
}

// Deps are the components the routes drive. Globe, Driver and Locator are nil
// when the viewer could not be created.
type Deps struct {
	Service         *weather.Service
	Driver          *timelapse.Driver
	Locator         *locate.Locator
	Globe           *viewer.Globe
	Page            *viewer.Page
	OverlayIconHref string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/samples.kml", func(c *fiber.Ctx) error {
		hour, err := datehour.Parse(c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("date must look like %q", datehour.Example))
		}

		c.Set(fiber.HeaderContentType, KMLContentType)
		return kml.Encode(c, d.Service.Overlay(hour, d.OverlayIconHref))
	})

	v1 := app.Group("/api/v1")

	viewerReady := func(c *fiber.Ctx) error {
		if d.Globe == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "viewer unavailable")
		}
		return c.Next()
	}

	v1.Post("/timelapse/start", viewerReady, func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if err := d.Driver.Start(req.Date); err != nil {
			if errors.Is(err, timelapse.ErrInvalidDateHour) {
				return fiber.NewError(fiber.StatusBadRequest, timelapse.InvalidDateMessage)
			}
			return err
		}
		return c.Status(fiber.StatusAccepted).JSON(d.Driver.Status())
	})

	v1.Post("/timelapse/stop", viewerReady, func(c *fiber.Ctx) error {
		d.Driver.Stop()
		return c.Status(fiber.StatusAccepted).JSON(d.Driver.Status())
	})

	v1.Get("/timelapse", viewerReady, func(c *fiber.Ctx) error {
		return c.JSON(d.Driver.Status())
	})

	v1.Post("/locate", viewerReady, func(c *fiber.Ctx) error {
		var req locateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := d.Locator.Locate(c.UserContext(), req.Address)
		if err != nil {
			if errors.Is(err, locate.ErrGeocodeFailed) {
				return fiber.NewError(fiber.StatusBadGateway, err.Error())
			}
			return err
		}
		return c.JSON(res)
	})

	v1.Get("/page", func(c *fiber.Ctx) error {
		if d.Globe == nil {
			return c.JSON(fiber.Map{
				"page":    d.Page.Snapshot(),
				"visible": false,
			})
		}
		return c.JSON(fiber.Map{
			"page":      d.Page.Snapshot(),
			"timelapse": d.Driver.Status(),
			"camera":    d.Globe.View(),
			"visible":   d.Globe.Visible(),
			"overlays":  len(d.Globe.Children()),
		})
	})

	v1.Post("/samples", func(c *fiber.Ctx) error {
		var req importRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		samples := make([]weather.Sample, 0, len(req.Samples))
		for _, s := range req.Samples {
			samples = append(samples, s.toSample())
		}
		stored := d.Service.Import(samples)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"received": len(samples),
			"stored":   stored,
		})
	})

	v1.Get("/stations/:id/samples", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		samples, err := d.Service.StationHistory(req.StationID, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no samples for requested station and range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch station samples")
		}

		return c.JSON(fiber.Map{
			"station": req.StationID,
			"from":    req.From,
			"to":      req.To,
			"samples": samples,
		})
	})
}

type startRequest struct {
	Date string `json:"date"`
}

type locateRequest struct {
	Address string `json:"address" validate:"required"`
}

type importRequest struct {
	Samples []sampleRequest `json:"samples" validate:"required,min=1,dive"`
}

// sampleRequest is one imported observation. Without both coordinates the
// sample's position is unknown and its placemark has no point.
type sampleRequest struct {
	StationID      string   `json:"stationId" validate:"required"`
	Hour           string   `json:"hour" validate:"required,datehour"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	AirTemperature *float64 `json:"airTemperature" validate:"required"`
	Quality        string   `json:"quality" validate:"required"`
}

func (s sampleRequest) toSample() weather.Sample {
	// Hour passed the datehour validation.
	hour, _ := datehour.Parse(s.Hour)
	sample := weather.Sample{
		StationID:      s.StationID,
		Hour:           hour,
		AirTemperature: weather.Measurement{Value: *s.AirTemperature, Quality: s.Quality},
	}
	if s.Longitude != nil && s.Latitude != nil {
		sample.Position = &weather.Position{Longitude: *s.Longitude, Latitude: *s.Latitude}
	}
	return sample
}

// historyQuery holds the parameters of the station history endpoint.
type historyQuery struct {
	StationID string    `validate:"required"`
	From      time.Time `validate:"required"`
	To        time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.StationID = c.Params("id")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime accepts a date-hour, RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := datehour.Parse(s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use YYYY-MM-DD HH, RFC3339 or unix seconds")
}
