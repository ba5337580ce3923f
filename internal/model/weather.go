package model

// WeatherSnapshot is one immutable weather reading for a city at fetch time
type WeatherSnapshot struct {
	City       string                `json:"city"`
	Temp       float64               `json:"temp"`
	FeelsLike  float64               `json:"feels_like"`
	Humidity   float64               `json:"humidity"`
	Pressure   float64               `json:"pressure"`
	WindSpeed  float64               `json:"wind_speed"`
	WindDeg    float64               `json:"wind_deg"`
	Conditions []ConditionDescriptor `json:"conditions"`
	Sunrise    int64                 `json:"sunrise"`
	Sunset     int64                 `json:"sunset"`
}

// ConditionDescriptor describes one sky/weather condition
type ConditionDescriptor struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

// PrimaryCondition returns the first condition descriptor, if any
func (s WeatherSnapshot) PrimaryCondition() (ConditionDescriptor, bool) {
	if len(s.Conditions) == 0 {
		return ConditionDescriptor{}, false
	}
	return s.Conditions[0], true
}

// CurrentWeatherResponse is the upstream current-weather JSON body
type CurrentWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Main        string `json:"main"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// Snapshot converts the upstream body into a WeatherSnapshot
func (r CurrentWeatherResponse) Snapshot() WeatherSnapshot {
	conditions := make([]ConditionDescriptor, 0, len(r.Weather))
	for _, w := range r.Weather {
		conditions = append(conditions, ConditionDescriptor{
			Description: w.Description,
			Icon:        w.Icon,
			Category:    w.Main,
		})
	}

	return WeatherSnapshot{
		City:       r.Name,
		Temp:       r.Main.Temp,
		FeelsLike:  r.Main.FeelsLike,
		Humidity:   r.Main.Humidity,
		Pressure:   r.Main.Pressure,
		WindSpeed:  r.Wind.Speed,
		WindDeg:    r.Wind.Deg,
		Conditions: conditions,
		Sunrise:    r.Sys.Sunrise,
		Sunset:     r.Sys.Sunset,
	}
}
