package view

import (
	"math"
	"strconv"

	"github.com/alexivanou/meteo-widget/internal/weather"
	"github.com/alexivanou/meteo-widget/internal/widget"
)

// LoadingMessage is shown while a lookup is in flight
const LoadingMessage = "Chargement en cours..."

// ViewModel is what the widget displays for a given state
type ViewModel struct {
	Phase   string      `json:"phase"`
	Loading bool        `json:"loading"`
	Result  *ResultView `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ResultView holds the formatted fields of the result panel
type ResultView struct {
	City        string `json:"city"`
	IconURL     string `json:"icon_url"`
	IconAlt     string `json:"icon_alt"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Condition   string `json:"condition"`
}

// Projector turns widget states into view models
type Projector struct {
	iconBaseURL string
}

func NewProjector(iconBaseURL string) *Projector {
	return &Projector{iconBaseURL: iconBaseURL}
}

// Project maps a state onto at most one of the loading, result and error fragments
func (p *Projector) Project(state widget.State) ViewModel {
	vm := ViewModel{Phase: state.Phase().String()}

	switch state.Phase() {
	case widget.PhaseLoading:
		vm.Loading = true
	case widget.PhaseLoaded:
		snap, _ := state.Snapshot()
		cond, _ := snap.PrimaryCondition()
		vm.Result = &ResultView{
			City:        snap.City,
			IconURL:     weather.IconURL(p.iconBaseURL, cond.Icon),
			IconAlt:     cond.Description,
			Temperature: FormatCelsius(snap.Temp),
			FeelsLike:   FormatCelsius(snap.FeelsLike),
			Humidity:    strconv.FormatFloat(snap.Humidity, 'f', -1, 64) + "%",
			Wind:        strconv.FormatFloat(snap.WindSpeed, 'f', -1, 64) + " km/h",
			Condition:   cond.Description,
		}
	case widget.PhaseFailed:
		failure, _ := state.Failure()
		vm.Error = failure.Message
	}

	return vm
}

// FormatCelsius rounds half away from zero to a whole degree
func FormatCelsius(v float64) string {
	r := math.Round(v)
	if r == 0 {
		// avoid "-0°C"
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64) + "°C"
}
