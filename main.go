package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"SignPad/internal/config"
	signet "SignPad/internal/net"
	"SignPad/internal/state"
	"SignPad/internal/ui"

	"fyne.io/fyne/v2"
	_ "golang.org/x/image/webp"
)

const appTitle = "SignPad"

func main() {
	configPath := flag.String("config", "signpad.toml", "path to the TOML settings file")
	background := flag.String("background", "", "image to draw under the strokes")
	follow := flag.String("follow", "", "mirror URL to view instead of drawing (ws://host:port/mirror)")
	discover := flag.Bool("discover", false, "look for a mirror on the local network and view it")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogging(cfg.LogLevel)
	if *background != "" {
		cfg.Canvas.Background = *background
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *discover {
		urls, err := signet.Browse(ctx, 3*time.Second)
		if err != nil {
			log.Printf("Discovery error: %v", err)
		}
		if len(urls) == 0 {
			log.Fatalf("No %s mirror found on the local network", appTitle)
		}
		log.Printf("Found mirror at %s", urls[0])
		*follow = urls[0]
	}

	if *follow != "" {
		runViewer(ctx, cfg, *follow)
		return
	}
	runHost(ctx, cfg)
}

func runHost(ctx context.Context, cfg config.Config) {
	log.Println("Starting as HOST")
	opts := cfg.SessionOptions()
	if cfg.Canvas.Background != "" {
		img, err := loadImage(cfg.Canvas.Background)
		if err != nil {
			log.Printf("Ignoring background: %v", err)
		} else {
			opts.Background = img
		}
	}
	opts.OnStrokeStart = func() { slog.Debug("stroke started") }
	opts.OnStrokeEnd = func() { slog.Debug("stroke ended") }

	session := state.NewSession(opts)
	defer session.Close()
	pad := ui.NewPad(session)

	var shareLink string
	if cfg.Mirror.Enabled {
		hub := signet.NewHub()
		session.Subscribe(hub.Observe)
		go func() {
			if err := hub.Serve(ctx, fmt.Sprintf(":%d", cfg.Mirror.Port)); err != nil {
				log.Printf("Mirror stopped: %v", err)
			}
		}()
		shareLink = signet.MirrorURL(signet.OutgoingIP(), cfg.Mirror.Port)
		log.Printf("Viewers can follow with -follow %s", shareLink)

		if cfg.Mirror.MDNS {
			server, err := signet.Advertise(cfg.Mirror.Port)
			if err != nil {
				log.Printf("mDNS advertise failed: %v", err)
			} else {
				defer server.Shutdown()
			}
		}
	}

	ui.RunApp(pad, ui.HostOptions{
		Title:       appTitle,
		Size:        fyne.NewSize(cfg.Canvas.Width, cfg.Canvas.Height),
		ShareLink:   shareLink,
		SnapshotDir: cfg.Snapshot.Dir,
		Snapshot:    cfg.SnapshotConfig(),
	})
}

func runViewer(ctx context.Context, cfg config.Config, url string) {
	log.Println("Starting as VIEWER of", url)
	replica := state.NewReplica()
	ui.RunViewer(appTitle+" (viewer)", fyne.NewSize(cfg.Canvas.Width, cfg.Canvas.Height), replica, cfg.Canvas.Color,
		func(refresh func()) {
			if err := signet.Follow(ctx, url, replica, refresh); err != nil {
				log.Printf("Disconnected from host: %v", err)
			}
		})
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// setupLogging routes the drawing core's diagnostics to stderr when a
// level is configured.
func setupLogging(level string) {
	if level == "" {
		return
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		log.Printf("Unknown log_level %q, using info", level)
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	state.SetLogger(logger)
}
