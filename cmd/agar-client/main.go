package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agar-client/internal/config"
	"agar-client/internal/session"
	"agar-client/internal/wiretrace"

	"github.com/gdamore/tcell/v2"
)

const renderPeriod = 33 * time.Millisecond

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (default: built-in defaults)")
	url := flag.String("url", "", "Server websocket URL (overrides config)")
	traceDir := flag.String("trace", "", "Directory for wire traces (overrides config)")
	mute := flag.Bool("mute", false, "Disable sound")
	flag.Parse()

	cfg, err := config.Resolve(*cfgPath, ".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *url != "" {
		cfg.ServerURL = *url
	}
	if *traceDir != "" {
		cfg.TraceDir = *traceDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	// The terminal is ours; logs go to a file
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.New(logOut, "[agar] ", log.LstdFlags|log.Lmicroseconds)

	opts := session.Options{
		URL:            cfg.ServerURL,
		Tuning:         cfg.Tuning(),
		PositionPeriod: cfg.PositionPeriod(),
		FireKey:        cfg.FireRune(),
		SendQueue:      cfg.SendQueue,
		Logger:         logger,
	}
	if cfg.TraceDir != "" {
		rec := wiretrace.NewRecorder(cfg.TraceDir, logger)
		defer rec.Close()
		opts.Tracer = rec
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	cols, rows := screen.Size()
	opts.ScreenWidth, opts.ScreenHeight = virtualSize(cols, rows)

	var cues *audioCues
	if !*mute {
		if cues, err = newAudioCues(); err != nil {
			// Non-fatal, the client runs without sound
			logger.Printf("audio initialization failed: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := session.New(opts)
	go s.Run(ctx)
	s.Connect()

	ui := &terminal{screen: screen, session: s, fireKey: opts.FireKey, cues: cues}
	ui.run(ctx)

	stop()
	<-s.Done()
	screen.Fini()
	st := s.Stats()
	logger.Printf("exit: in=%d out=%d dropped=%d decode_errors=%d consumed=%d fired=%d",
		st.FramesIn, st.FramesOut, st.Dropped, st.DecodeErrors, st.ConsumeIntents, st.FireIntents)
}
