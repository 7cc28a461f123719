package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agar-client/internal/config"
	"agar-client/internal/session"
	"agar-client/internal/wiretrace"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (default: built-in defaults)")
	url := flag.String("url", "", "Server websocket URL (overrides config)")
	traceDir := flag.String("trace", "", "Directory for wire traces (overrides config)")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = until interrupted or disconnected)")
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Resolve(*cfgPath, ".env")
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *url != "" {
		cfg.ServerURL = *url
	}
	if *traceDir != "" {
		cfg.TraceDir = *traceDir
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("%v", err)
	}

	opts := session.Options{
		URL:            cfg.ServerURL,
		Tuning:         cfg.Tuning(),
		PositionPeriod: cfg.PositionPeriod(),
		FireKey:        cfg.FireRune(),
		SendQueue:      cfg.SendQueue,
		ScreenWidth:    cfg.Bot.ScreenW,
		ScreenHeight:   cfg.Bot.ScreenH,
		Logger:         logger,
	}
	if cfg.TraceDir != "" {
		rec := wiretrace.NewRecorder(cfg.TraceDir, logger)
		defer rec.Close()
		opts.Tracer = rec
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	s := session.New(opts)
	go s.Run(ctx)
	s.Connect()
	logger.Printf("connecting to %s", cfg.ServerURL)

	b := &bot{session: s, fireKey: opts.FireKey, fireMass: cfg.Bot.FireMass, logger: logger}
	b.run(ctx, cfg.BotTick())

	stop()
	<-s.Done()
	st := s.Stats()
	logger.Printf("done: in=%d out=%d dropped=%d decode_errors=%d consumed=%d fired=%d suppressed=%d",
		st.FramesIn, st.FramesOut, st.Dropped, st.DecodeErrors, st.ConsumeIntents, st.FireIntents, st.Suppressed)
}

type bot struct {
	session  *session.Session
	fireKey  rune
	fireMass float64
	logger   *log.Logger

	wasOpen bool
}

// run steers until ctx ends or an open connection is lost
func (b *bot) run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	statsTicker := time.NewTicker(10 * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-statsTicker.C:
			f := b.session.Frame()
			st := b.session.Stats()
			b.logger.Printf("mass=%.1f pos=(%.0f,%.0f) remotes=%d cells=%d in=%d out=%d",
				f.Mass, f.Local.X, f.Local.Y, len(f.Remotes), len(f.NearbyCells), st.FramesIn, st.FramesOut)
		case <-ticker.C:
			// The frame must reflect the previous step's input before mass
			// is checked against the fire threshold
			if err := b.session.Sync(ctx); err != nil {
				return
			}
			if !b.step(b.session.Frame()) {
				b.logger.Printf("connection lost, stopping")
				return
			}
		}
	}
}

// step issues one round of input for f. It returns false once a connection
// that had been open is gone.
func (b *bot) step(f *session.Frame) bool {
	open := f.State.Open()
	if b.wasOpen && f.State == session.Disconnected {
		return false
	}
	b.wasOpen = b.wasOpen || open

	if sx, sy, ok := steer(f); ok {
		b.session.PointerMoved(sx, sy)
	}
	if open && f.Mass > b.fireMass {
		b.session.KeyDown(b.fireKey)
		b.session.KeyUp(b.fireKey)
	}
	return true
}
