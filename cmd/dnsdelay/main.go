package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dnsdelay/internal/config"
	"dnsdelay/internal/metrics"
	"dnsdelay/internal/models"
	"dnsdelay/internal/monitor"
	"dnsdelay/internal/probe"
	"dnsdelay/internal/runner"
	"dnsdelay/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to configuration file (YAML)")
		dnsServer  = flag.String("dns", "", "DNS server to probe (IP, hostname, or host:port)")
		domain     = flag.String("domain", "", "domain to resolve (default baidu.com)")
		count      = flag.Int("count", 0, "number of attempts (default 5)")
		timeout    = flag.Int("timeout", 0, "per-query timeout in seconds (default 5)")
		serve      = flag.Bool("serve", false, "keep re-running sessions and serve results over HTTP")
		addr       = flag.String("addr", "", "address for the web server in serve mode")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dnsServer != "" {
		cfg.Server = *dnsServer
	}
	if *domain != "" {
		cfg.Domain = *domain
	}
	if *count > 0 {
		cfg.Count = *count
	}
	if *timeout > 0 {
		cfg.TimeoutSeconds = *timeout
	}
	if *serve {
		cfg.Serve.Enabled = true
	}
	if *addr != "" {
		cfg.Serve.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	prober := probe.New(time.Duration(cfg.TimeoutSeconds) * time.Second)
	run := runner.New(prober, cfg.Server, cfg.Domain, cfg.Count)

	if cfg.Serve.Enabled {
		runServe(cfg, run)
		return
	}
	runOnce(cfg, prober, run)
}

// runOnce prints a single session to stdout. The exit status stays zero even
// when every attempt fails; this is a diagnostic tool, not a gate.
func runOnce(cfg config.Config, prober *probe.Prober, run *runner.Runner) {
	fmt.Println("=== DNS latency test ===")
	fmt.Printf("server:   %s\n", cfg.Server)
	fmt.Printf("domain:   %s\n", cfg.Domain)
	fmt.Printf("attempts: %d\n", cfg.Count)
	fmt.Printf("timeout:  %ds\n", cfg.TimeoutSeconds)
	fmt.Printf("started:  %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("-", 50))

	prober.OnProgress = func(line string) {
		fmt.Println("  " + line)
	}
	run.OnAttempt = func(a models.Attempt) {
		fmt.Println(a.Line())
	}

	report := run.Run(context.Background())
	summary := metrics.Compute(report)

	fmt.Println(strings.Repeat("-", 50))
	fmt.Println("=== summary ===")
	fmt.Printf("total attempts: %d\n", summary.TotalAttempts)
	fmt.Printf("successes:      %d\n", summary.Successes)
	fmt.Printf("failures:       %d\n", summary.Failures)
	fmt.Printf("success rate:   %.2f%%\n", summary.SuccessRate)
	if summary.MinMS != nil && summary.MaxMS != nil && summary.MeanMS != nil {
		fmt.Printf("min latency:    %.2f ms\n", *summary.MinMS)
		fmt.Printf("max latency:    %.2f ms\n", *summary.MaxMS)
		fmt.Printf("mean latency:   %.2f ms\n", *summary.MeanMS)
	}
	fmt.Printf("finished:       %s\n", time.Now().Format("2006-01-02 15:04:05"))
}

func runServe(cfg config.Config, run *runner.Runner) {
	mon := monitor.New(run, time.Duration(cfg.Serve.IntervalSeconds)*time.Second, cfg.Serve.HistoryLimit)
	mon.OnReport = server.ObserveReport
	mon.Start()
	defer mon.Stop()

	srv := server.New(cfg.Serve.Addr, mon, cfg.Serve.HistoryLimit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("dnsdelay serving on %s (session every %ds against %s)", cfg.Serve.Addr, cfg.Serve.IntervalSeconds, cfg.Server)
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
