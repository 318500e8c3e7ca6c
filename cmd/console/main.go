package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/engine.yaml", "path to the engine config")
	flag.Parse()
	path := filepath.Clean(*configPath)

	reader := bufio.NewReader(os.Stdin)
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	for {
		fmt.Println("\n=== Engine Control ===")
		fmt.Println("1) Show configuration summary")
		fmt.Println("2) Edit risk and execution knobs")
		fmt.Println("3) Toggle strategies")
		fmt.Println("4) Save config")
		fmt.Println("5) Launch engine")
		fmt.Println("6) Reload config from disk")
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, _ := reader.ReadString('\n')
		switch strings.TrimSpace(input) {
		case "1":
			printSummary(cfg)
		case "2":
			editKnobs(reader, cfg)
		case "3":
			toggleStrategies(reader, cfg)
		case "4":
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "config invalid, not saved:\n%v\n", err)
			} else if err := config.Save(path, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			} else {
				fmt.Println("config saved")
			}
		case "5":
			launchEngine(reader, path)
		case "6":
			reloaded, err := config.Load(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			} else {
				cfg = reloaded
				fmt.Println("config reloaded")
			}
		case "0":
			return
		default:
			fmt.Println("unknown option")
		}
	}
}

func printSummary(cfg *config.Config) {
	fmt.Println("\n--- Configuration Summary ---")
	fmt.Printf("Market: %s %s (warmup %d days)\n", cfg.Market.Provider, cfg.Market.Symbol, cfg.Market.WarmupDays)
	fmt.Printf("Venue latency: %d-%d ms, failure rate %.1f%%\n",
		cfg.Execution.MinLatencyMs, cfg.Execution.MaxLatencyMs, cfg.Execution.FailureRate*100)
	fmt.Printf("Max amount per order: %.2f\n", cfg.Risk.MaxAmountPerOrder)
	fmt.Printf("Max notional per order: $%.2f\n", cfg.Risk.MaxNotionalPerOrder)
	fmt.Printf("Starting cash: $%.2f\n", cfg.Journal.StartingCash)
	fmt.Println("Strategies:")
	for i, s := range cfg.Strategies {
		state := "off"
		if s.Enabled {
			state = "on"
		}
		fmt.Printf("  %d) [%s] %s (%s) every %s\n", i+1, state, s.Name, s.Kind, s.Interval())
	}
}

func editKnobs(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Risk / Execution ---")
	cfg.Risk.MaxAmountPerOrder = promptFloat(reader, "Max amount per order", cfg.Risk.MaxAmountPerOrder)
	cfg.Risk.MaxNotionalPerOrder = promptFloat(reader, "Max notional per order (USD)", cfg.Risk.MaxNotionalPerOrder)
	cfg.Execution.MinLatencyMs = int(promptFloat(reader, "Min venue latency (ms)", float64(cfg.Execution.MinLatencyMs)))
	cfg.Execution.MaxLatencyMs = int(promptFloat(reader, "Max venue latency (ms)", float64(cfg.Execution.MaxLatencyMs)))
	cfg.Execution.FailureRate = promptPercent(reader, "Venue failure rate (%)", cfg.Execution.FailureRate)
	cfg.Journal.StartingCash = promptFloat(reader, "Starting cash", cfg.Journal.StartingCash)
}

func toggleStrategies(reader *bufio.Reader, cfg *config.Config) {
	printSummary(cfg)
	fmt.Print("Enter strategy numbers or names to toggle, comma-separated: ")
	line, _ := reader.ReadString('\n')
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var s *config.Strategy
		if n, err := strconv.Atoi(part); err == nil && n >= 1 && n <= len(cfg.Strategies) {
			s = &cfg.Strategies[n-1]
		} else {
			s = cfg.Find(part)
		}
		if s == nil {
			fmt.Printf("no strategy %q\n", part)
			continue
		}
		s.Enabled = !s.Enabled
		fmt.Printf("%s enabled=%t\n", s.Name, s.Enabled)
	}
}

func launchEngine(reader *bufio.Reader, path string) {
	fmt.Println("Launching engine (press ENTER to stop)...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "run", "./cmd/engine", "-config", path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// interrupt first so the engine can flush its journal
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start engine: %v\n", err)
		return
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	_, _ = reader.ReadString('\n')
	cancel()
	<-done
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	fmt.Printf("%s [%.2f]: ", label, current)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	val, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Printf("invalid number, keeping %.2f\n", current)
		return current
	}
	return val
}

func promptPercent(reader *bufio.Reader, label string, current float64) float64 {
	return promptFloat(reader, label, current*100) / 100
}
