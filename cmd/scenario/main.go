// Command scenario runs a scripted input sequence against a course,
// headless and deterministic, and reports the outcome. Useful for tuning
// work: change a knob, re-run, diff the numbers.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edgeabyss/ridersim/internal/config"
	"github.com/edgeabyss/ridersim/internal/core/course"
	"github.com/edgeabyss/ridersim/internal/core/rider"
	"github.com/edgeabyss/ridersim/internal/core/session"
	"github.com/edgeabyss/ridersim/internal/telemetry"
)

type phase struct {
	Name     string  `yaml:"name"`
	Duration float64 `yaml:"duration"` // seconds
	Throttle float64 `yaml:"throttle"`
	Brake    float64 `yaml:"brake"`
	Steer    float64 `yaml:"steer"`
	Focus    bool    `yaml:"focus"`
	Reset    bool    `yaml:"reset"`
}

type scenario struct {
	Name        string  `yaml:"name"`
	Course      string  `yaml:"course"`
	Rider       string  `yaml:"rider"`
	TickRate    int     `yaml:"tick_rate"`
	ExpectFalls int64   `yaml:"expect_falls"`
	Phases      []phase `yaml:"phases"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <scenario.yaml>\n", os.Args[0])
		os.Exit(2)
	}
	telemetry.Init(telemetry.ParseLogLevel(config.Load().LogLevel))

	sc, err := loadScenario(os.Args[1])
	if err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}

	crs, err := course.Load(sc.Course)
	if err != nil {
		telemetry.Errorf("Failed to load course: %v", err)
		os.Exit(1)
	}
	profiles, err := config.LoadTuningProfiles("")
	if err != nil {
		telemetry.Errorf("Failed to load tuning profiles: %v", err)
		os.Exit(1)
	}
	kind := rider.Kind(sc.Rider)
	tuning, ok := profiles.For(kind)
	if !ok {
		telemetry.Errorf("No tuning profile for rider kind %q", sc.Rider)
		os.Exit(1)
	}

	s := session.New(sc.Name, kind, crs, tuning, 1.0)
	defer s.Close()
	s.Start()

	dt := 1.0 / float64(sc.TickRate)
	telemetry.Plainf("scenario %q  rider=%s  course=%s  dt=%.4fs", sc.Name, kind, crs.Name, dt)

	for i, ph := range sc.Phases {
		in := rider.InputState{
			Throttle: ph.Throttle,
			Brake:    ph.Brake,
			Steer:    ph.Steer,
			Focus:    ph.Focus,
			Reset:    ph.Reset,
		}
		ticks := int(ph.Duration / dt)
		for t := 0; t < ticks; t++ {
			step(s, in, dt)
		}

		name := ph.Name
		if name == "" {
			name = fmt.Sprintf("phase %d", i+1)
		}
		var speed, stability, lean float64
		var falls int64
		var pos [3]float64
		run(s, func() {
			speed = s.Rider.Speed()
			stability = s.Rider.Stability()
			lean = s.Rider.LeanAngle()
			falls = s.Falls
			p := s.Rider.Position()
			pos = [3]float64{p.X, p.Y, p.Z}
		})
		telemetry.Plainf("  %-16s %5.1fs  speed=%5.2f  stability=%.3f  lean=%+6.2f  pos=(%.1f, %.1f, %.1f)  falls=%d",
			name, ph.Duration, speed, stability, lean, pos[0], pos[1], pos[2], falls)
	}

	var falls int64
	var lastReason string
	run(s, func() {
		falls = s.Falls
		if s.LastFall != nil {
			lastReason = s.LastFall.Reason.String()
		}
	})

	if falls != sc.ExpectFalls {
		if lastReason != "" {
			telemetry.Errorf("scenario %q: %d falls (last: %s), expected %d", sc.Name, falls, lastReason, sc.ExpectFalls)
		} else {
			telemetry.Errorf("scenario %q: %d falls, expected %d", sc.Name, falls, sc.ExpectFalls)
		}
		os.Exit(1)
	}
	telemetry.Plainf("scenario %q passed: %d falls as expected", sc.Name, falls)
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.Rider == "" || sc.Course == "" || len(sc.Phases) == 0 {
		return nil, fmt.Errorf("scenario needs rider, course, and at least one phase")
	}
	if sc.TickRate <= 0 {
		sc.TickRate = 60
	}
	return &sc, nil
}

// run executes fn on the session goroutine and waits for it.
func run(s *session.Session, fn func()) {
	done := make(chan struct{})
	s.Send(func() {
		fn()
		close(done)
	})
	<-done
}

// step latches the input and advances one tick. SetInput and the Step
// closure land in the inbox in order, so the input applies this tick.
func step(s *session.Session, in rider.InputState, dt float64) {
	s.SetInput(in)
	run(s, func() { s.Step(dt) })
}
