// Command stepperdemo runs a numeric stepper in the terminal. Hold a mouse
// button on [ - ] or [ + ] to repeat, or tab into the field to type. With
// -config, the stepper's bounds and timing follow a YAML or JSON file;
// -user-config layers a second file over it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/stepper"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	configPath := flag.String("config", "", "Path to a stepper config file to watch")
	userPath := flag.String("user-config", "", "Path to a config file layered over -config")
	value := flag.Int("value", 14, "Initial value")
	flag.Parse()

	if *help {
		fmt.Println("Usage: stepperdemo [options]")
		fmt.Println("\nA terminal numeric stepper with press-and-hold and debounced saves.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if err := run(*configPath, *userPath, *value); err != nil {
		fmt.Printf("Error running stepper demo: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, userPath string, value int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer capitan.Shutdown()

	events := make(chan tea.Msg, 64)
	hookSignals(events)

	s, err := stepper.New("text-size", value, stepper.DefaultConfig(), listenerOptions(events)...)
	if err != nil {
		return err
	}
	defer s.Close()

	if r := newReloader(configPath, userPath, s); r != nil {
		go func() {
			if err := r.Start(ctx); err != nil {
				deliver(events, noticeMsg(fmt.Sprintf("Config: %v", err)))
			}
		}()
	}

	p := tea.NewProgram(newModel(s, events), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

type reloader interface {
	Start(ctx context.Context) error
}

// newReloader watches the site config and, if given, the user layer over it.
func newReloader(configPath, userPath string, s *stepper.Stepper) reloader {
	switch {
	case configPath != "" && userPath != "":
		return stepper.NewLayeredReloader([]stepper.Watcher{
			stepper.NewFileWatcher(configPath),
			stepper.NewFileWatcher(userPath),
		}, s.Reconfigure, stepper.WithErrorHistory(10))
	case configPath != "":
		return stepper.NewReloader(stepper.NewFileWatcher(configPath), s.Reconfigure,
			stepper.WithErrorHistory(10),
		)
	case userPath != "":
		return stepper.NewReloader(stepper.NewFileWatcher(userPath), s.Reconfigure,
			stepper.WithErrorHistory(10),
		)
	}
	return nil
}

// hookSignals mirrors config and input signals into the event log.
func hookSignals(events chan<- tea.Msg) {
	capitan.Hook(stepper.ReloaderStateChanged, func(_ context.Context, e *capitan.Event) {
		oldState, _ := stepper.KeyOldState.From(e)
		newState, _ := stepper.KeyNewState.From(e)
		deliver(events, noticeMsg(fmt.Sprintf("Config: %s → %s", oldState, newState)))
	})

	capitan.Hook(stepper.ReloaderApplySucceeded, func(_ context.Context, _ *capitan.Event) {
		deliver(events, noticeMsg("Config: applied"))
	})

	capitan.Hook(stepper.ReloaderValidationFailed, func(_ context.Context, e *capitan.Event) {
		errMsg, _ := stepper.KeyError.From(e)
		deliver(events, noticeMsg("Config rejected: "+errMsg))
	})

	capitan.Hook(stepper.ReloaderDecodeFailed, func(_ context.Context, e *capitan.Event) {
		errMsg, _ := stepper.KeyError.From(e)
		deliver(events, noticeMsg("Config unreadable: "+errMsg))
	})

	capitan.Hook(stepper.InputRejected, func(_ context.Context, e *capitan.Event) {
		input, _ := stepper.KeyInput.From(e)
		deliver(events, noticeMsg(fmt.Sprintf("Rejected input %q", input)))
	})
}
