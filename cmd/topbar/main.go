package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"topbar/internal/bar"
	"topbar/internal/config"
	"topbar/internal/module"
	"topbar/internal/modules"
	"topbar/internal/trace"
)

// cliConfig holds the parsed CLI configuration for a bar run.
type cliConfig struct {
	configPath string
	logPath    string
	noWatch    bool
}

func parseFlags() cliConfig {
	var cfg cliConfig

	flag.StringVar(&cfg.configPath, "config", "", "path to config.yaml (default ~/.config/topbar/config.yaml)")
	flag.StringVar(&cfg.logPath, "log", "", "path to the log file (default next to the config)")
	flag.BoolVar(&cfg.noWatch, "no-watch", false, "disable config file watching")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: topbar [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Topbar is an interactive terminal status bar. Click modules to act\n")
		fmt.Fprintf(os.Stderr, "on them, drag to reorder; the order persists to the config file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return cfg
}

func run(cli cliConfig) error {
	cfgPath := cli.configPath
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// The bar owns the terminal; diagnostics must go to a file.
	logPath := cli.logPath
	if logPath == "" {
		logPath = cfg.Log.File
	}
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(cfgPath), "topbar.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)

	shutdown, err := trace.Init(context.Background())
	if err != nil {
		logger.Printf("trace init: %v", err)
	} else {
		defer shutdown(context.Background())
	}

	reg := module.NewRegistry()
	menu := modules.NewAppMenu(func() { logger.Printf("menu opened") })
	menu.SetRightClick(func() { logger.Printf("settings requested for %s", cfgPath) })
	reg.Register(menu)
	reg.Register(modules.NewActiveApp())
	reg.Register(modules.NewClock())
	reg.Register(modules.NewBattery())
	reg.Register(modules.NewNetwork())
	reg.Register(modules.NewVolume())
	reg.Register(modules.NewDisk())
	reg.Register(modules.NewUptime())
	reg.Register(modules.NewSysInfo())
	reg.Register(modules.NewWeather())
	reg.Register(modules.NewScript())

	p := tea.NewProgram(
		bar.New(cfg, cfgPath, reg, logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)

	if !cli.noWatch {
		w, err := config.Watch(cfgPath,
			func(c *config.Config) { p.Send(bar.ReloadMsg{Config: c}) },
			func(err error) { p.Send(bar.WatchErrMsg{Err: err}) },
		)
		if err != nil {
			logger.Printf("config watch: %v", err)
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
