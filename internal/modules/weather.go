package modules

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"topbar/internal/config"
	"topbar/internal/module"
)

// Weather fetches current conditions from wttr.in. The fetch is the one
// module worker that leaves the machine, so it gets a span and a generous
// interval.
type Weather struct {
	module.Base
	gate   probeGate
	client *http.Client
	base   string

	mu   sync.Mutex
	text string
	desc string
	err  error
}

// NewWeather creates the weather module.
func NewWeather() *Weather {
	return &Weather{
		client: &http.Client{Timeout: 15 * time.Second},
		base:   "https://wttr.in",
	}
}

// ID implements module.Module.
func (w *Weather) ID() string { return "weather" }

// DisplayText implements module.Module.
func (w *Weather) DisplayText(cfg *config.Config) string {
	if cfg != nil && !cfg.Modules.Weather.Enabled {
		return ""
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

// Visible implements module.Module.
func (w *Weather) Visible() bool { return true }

// Update implements module.Module.
func (w *Weather) Update(uc module.UpdateContext) {
	if uc.Config == nil || !uc.Config.Modules.Weather.Enabled {
		return
	}
	wc := uc.Config.Modules.Weather
	interval := time.Duration(wc.IntervalMin) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if !w.gate.tryStart(uc.Now, interval) {
		return
	}
	notify := uc.Notify
	go func() {
		defer w.gate.finish()
		text, desc, err := w.fetch(context.Background(), wc)
		w.mu.Lock()
		if err == nil {
			w.text = text
			w.desc = desc
		}
		w.err = err
		w.mu.Unlock()
		if notify != nil {
			notify.Notify(w.ID())
		}
	}()
}

// Tooltip implements module.Module.
func (w *Weather) Tooltip() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return "weather: " + w.err.Error(), true
	}
	if w.desc == "" {
		return "", false
	}
	return w.desc, true
}

// wttrReport is the slice of wttr.in's j1 payload the bar uses.
type wttrReport struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		TempF       string `json:"temp_F"`
		FeelsLikeC  string `json:"FeelsLikeC"`
		FeelsLikeF  string `json:"FeelsLikeF"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []struct {
			Value string `json:"value"`
		} `json:"areaName"`
	} `json:"nearest_area"`
}

func (w *Weather) fetch(ctx context.Context, wc config.WeatherConfig) (text, desc string, err error) {
	ctx, span := otel.Tracer("topbar/modules").Start(ctx, "weather.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("weather.location", wc.Location))

	u := w.base + "/" + url.PathEscape(wc.Location) + "?format=j1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", "topbar")
	resp, err := w.client.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("weather: %s returned %s", w.base, resp.Status)
		span.SetStatus(codes.Error, err.Error())
		return "", "", err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", err
	}

	var rep wttrReport
	if err := json.Unmarshal(body, &rep); err != nil {
		return "", "", fmt.Errorf("weather: decode report: %w", err)
	}
	if len(rep.CurrentCondition) == 0 {
		return "", "", fmt.Errorf("weather: report has no current condition")
	}
	cur := rep.CurrentCondition[0]

	temp, feels, unit := cur.TempC, cur.FeelsLikeC, "°C"
	if wc.Fahrenheit {
		temp, feels, unit = cur.TempF, cur.FeelsLikeF, "°F"
	}
	condition := ""
	if len(cur.WeatherDesc) > 0 {
		condition = cur.WeatherDesc[0].Value
	}
	area := ""
	if len(rep.NearestArea) > 0 && len(rep.NearestArea[0].AreaName) > 0 {
		area = rep.NearestArea[0].AreaName[0].Value
	}

	text = temp + unit
	if condition != "" {
		text = condition + " " + text
	}
	desc = fmt.Sprintf("%s: %s, feels like %s%s", area, condition, feels, unit)
	return text, desc, nil
}
