package tools

import (
	"context"
	"errors"
	"strings"

	jsonutil "github.com/richinex/twinllm/internal/json"
)

// Temperature is a daily temperature summary in degrees Celsius.
type Temperature struct {
	Current int `json:"current"`
	Low     int `json:"low"`
	High    int `json:"high"`
}

// Weather is the report returned by get_weather.
type Weather struct {
	Location        string      `json:"location"`
	Temperature     Temperature `json:"temperature"`
	RainProbability int         `json:"rain_probability"`
	Humidity        int         `json:"humidity"`
}

// sample data keyed by lowercase city name
var weatherData = map[string]Weather{
	"beijing": {
		Location:        "Beijing",
		Temperature:     Temperature{Current: 32, Low: 26, High: 35},
		RainProbability: 10,
		Humidity:        40,
	},
	"shenzhen": {
		Location:        "Shenzhen",
		Temperature:     Temperature{Current: 28, Low: 24, High: 31},
		RainProbability: 90,
		Humidity:        85,
	},
}

type weatherArgs struct {
	City *string `json:"city"`
}

// WeatherTool reports temperature, rain probability and humidity for a city.
type WeatherTool struct{}

// NewWeatherTool creates the get_weather function.
func NewWeatherTool() *WeatherTool {
	return &WeatherTool{}
}

func (t *WeatherTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "get_weather",
		Description: "Get the weather for a city, including temperature, rain probability and humidity",
		Parameters: ObjectSchema(map[string]any{
			"city": StringProperty("City name, e.g. beijing or shenzhen"),
		}, "city"),
	}
}

func (t *WeatherTool) Validate(args map[string]any) error {
	_, err := decodeWeatherArgs(args)
	return err
}

func (t *WeatherTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	city, err := decodeWeatherArgs(args)
	if err != nil {
		return ToolResult{}, err
	}

	report, ok := weatherData[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return SuccessResult(ErrorPayload("Weather Unavailable")), nil
	}
	return JSONResult(report), nil
}

func decodeWeatherArgs(args map[string]any) (string, error) {
	var a weatherArgs
	if err := jsonutil.Rebind(args, &a); err != nil {
		return "", err
	}
	if a.City == nil {
		return "", errors.New("missing required argument: city")
	}
	return *a.City, nil
}

var _ Tool = (*WeatherTool)(nil)
