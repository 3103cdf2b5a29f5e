package tools

import (
	"context"
	"fmt"
)

// BuildSet returns the immutable registry for a named builtin tool set.
// The registry is pure and deterministic for a given name, so workflows can
// rebuild it on replay without recording it in history.
func BuildSet(name string) (*Registry, error) {
	switch name {
	case "weather":
		return weatherSet(), nil
	default:
		return nil, fmt.Errorf("unknown tool set: %s", name)
	}
}

// MustBuildSet is BuildSet for startup paths; it panics on error.
func MustBuildSet(name string) *Registry {
	r, err := BuildSet(name)
	if err != nil {
		panic(err)
	}
	return r
}

// weatherSet is the demo tool set: one in-process forecaster plus two tools
// served by the weather MCP server.
func weatherSet() *Registry {
	r := NewRegistry()
	r.MustRegister(Descriptor{
		Name:        "weather_forecast",
		Description: "Get the weather forecast for a location over the next days.",
		Kind:        KindLocal,
		Args: []ArgField{
			{Name: "location", Type: "string", Description: "City or place name", Required: true},
			{Name: "days", Type: "integer", Description: "Forecast horizon in days", Default: 7},
		},
		Run: runWeatherForecast,
	})
	r.MustRegister(Descriptor{
		Name:            "historical",
		Description:     "Get historical weather for a location between two dates.",
		Kind:            KindRemote,
		ServerNamespace: "weather",
		Args: []ArgField{
			{Name: "location", Type: "string", Description: "City or place name", Required: true},
			{Name: "start", Type: "string", Description: "Start date, YYYY-MM-DD", Required: true},
			{Name: "end", Type: "string", Description: "End date, YYYY-MM-DD", Required: true},
		},
	})
	r.MustRegister(Descriptor{
		Name:            "agricultural",
		Description:     "Get agricultural weather indicators for a location and crop.",
		Kind:            KindRemote,
		ServerNamespace: "weather",
		Args: []ArgField{
			{Name: "location", Type: "string", Description: "City or place name", Required: true},
			{Name: "crop", Type: "string", Description: "Crop to report on", Default: "corn"},
		},
	})
	return r
}

// runWeatherForecast renders a deterministic forecast token. The demo set
// keeps the local tool synthetic so conversations are reproducible without
// an upstream weather API.
func runWeatherForecast(_ context.Context, args map[string]any) (string, error) {
	location, _ := args["location"].(string)
	days, _ := args["days"].(float64)
	return fmt.Sprintf("WX(%s,%d)", location, int(days)), nil
}
