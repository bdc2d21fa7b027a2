// Command tailevents connects to a running simulation daemon and prints
// its event stream.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgeabyss/ridersim/internal/events"
	"github.com/edgeabyss/ridersim/internal/fanout"
	"github.com/edgeabyss/ridersim/internal/telemetry"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8090", "fanout server address")
	course := flag.String("course", "", "only events for this course (empty = all)")
	snapshots := flag.Bool("snapshots", false, "include state snapshots (noisy)")
	flag.Parse()

	telemetry.Init(telemetry.ParseLogLevel("warn"))

	bus := events.NewBus()
	print := func(evt events.Event) error {
		payload, _ := json.Marshal(evt.Payload)
		fmt.Printf("%s  %-14s %-5s course=%s session=%s  %s\n",
			evt.Timestamp.Format("15:04:05.000"), evt.Type, evt.Kind, evt.Course,
			shortID(evt.SessionID), payload)
		return nil
	}

	types := []events.EventType{
		events.EventRiderSpawn,
		events.EventRiderFall,
		events.EventRiderReset,
		events.EventSessionClosed,
	}
	if *snapshots {
		types = append(types, events.EventStateSnapshot)
	}
	for _, t := range types {
		bus.Subscribe(t, print)
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := fanout.NewClient(*addr, *course, bus)
	go client.ConnectWithRetry(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
