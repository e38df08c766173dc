// Command carousel runs one stored slider headless and prints its
// notifications as JSON lines. Commands read from stdin drive it:
//
//	next | prev | dot N | key ArrowLeft | down X | move X | up X
//	enter | leave | hide | show | state | quit
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/AaronLay10/SliderEngine/internal/config"
	"github.com/AaronLay10/SliderEngine/internal/embed"
	"github.com/AaronLay10/SliderEngine/internal/events"
	"github.com/AaronLay10/SliderEngine/internal/logger"
	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
	"github.com/AaronLay10/SliderEngine/internal/storage/backend"
)

func main() {
	cfgPath := flag.String("config", "", "path to slider.yaml")
	sliderID := flag.Int64("slider", 0, "slider id (0 runs the demo slider from memory)")
	height := flag.String("height", "", "height override")
	autoplay := flag.String("autoplay", "", "autoplay override: true or false")
	progress := flag.Bool("progress", false, "print progress ticks")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until stdin closes)")
	flag.Parse()

	if err := run(*cfgPath, *sliderID, slider.Overrides{Height: *height, Autoplay: *autoplay}, *progress, *duration); err != nil {
		fmt.Fprintf(os.Stderr, "carousel: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string, sliderID int64, ov slider.Overrides, progress bool, duration time.Duration) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if sliderID == 0 {
		cfg.Storage.Driver = "memory"
	}
	events.SetLogger(logger.Nop())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	store, err := backend.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	if sliderID == 0 {
		if _, err := storage.SeedDemo(ctx, store, cfg.Server.AssetBase); err != nil {
			return err
		}
		list, err := store.List(ctx)
		if err != nil {
			return err
		}
		sliderID = list[0].ID
	}

	embeds := embed.NewRegistry(store,
		embed.WithProgressFrame(cfg.ProgressFrame()),
		embed.WithProgressEvents(progress))
	defer embeds.Close()

	sub := events.Subscribe()
	defer events.Unsubscribe(sub)

	sess, err := embeds.Attach(ctx, sliderID, ov)
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	cmds := make(chan string)
	go readLines(os.Stdin, cmds)

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-sub:
			if !ok {
				return nil
			}
			if e.Field("embed_id") == sess.ID {
				out.Encode(e)
			}
		case line, ok := <-cmds:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			switch strings.TrimSpace(line) {
			case "quit":
				return nil
			case "state":
				out.Encode(sess.Status())
				continue
			}
			cmd, err := parseCommand(line)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			if _, err := embeds.Input(sess.ID, cmd); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
}

func readLines(r io.Reader, lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines <- sc.Text()
	}
}

var shorthands = map[string]string{
	"down":  embed.InputPointerDown,
	"move":  embed.InputPointerMove,
	"up":    embed.InputPointerUp,
	"enter": embed.InputPointerEnter,
	"leave": embed.InputPointerLeave,
}

// parseCommand turns one stdin line into an input command.
func parseCommand(line string) (embed.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return embed.Command{}, fmt.Errorf("empty command")
	}
	name, args := fields[0], fields[1:]
	if full, ok := shorthands[name]; ok {
		name = full
	}

	cmd := embed.Command{Type: name}
	switch name {
	case "hide", "show":
		visible := name == "show"
		cmd = embed.Command{Type: embed.InputVisibility, Visible: &visible}
	case embed.InputDot:
		if len(args) != 1 {
			return cmd, fmt.Errorf("usage: dot N")
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return cmd, fmt.Errorf("dot index: %w", err)
		}
		cmd.Index = i
	case embed.InputKey:
		if len(args) != 1 {
			return cmd, fmt.Errorf("usage: key NAME")
		}
		cmd.Key = args[0]
	case embed.InputPointerDown, embed.InputPointerMove, embed.InputPointerUp:
		if len(args) != 1 {
			return cmd, fmt.Errorf("usage: %s X", fields[0])
		}
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return cmd, fmt.Errorf("pointer x: %w", err)
		}
		cmd.X = x
	}
	return cmd, cmd.Validate()
}
