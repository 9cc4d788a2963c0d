package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"executor-lote/executor"
	"executor-lote/executor/domain"
	"executor-lote/executor/infra"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	var statsStore domain.StatsStore
	if cfg.statsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		statsStore = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackBatches(cfg.statsTrackBatches),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := &http.Client{Timeout: cfg.requestTimeout}

	log.Printf("disparador: %d urls, concurrency=%d rate=%d/%s policy=%q failFast=%v perHost=%v",
		len(cfg.urls), cfg.maxConcurrency, cfg.maxRate, cfg.window, cfg.policy, cfg.failFast, cfg.perHost)

	var failures int
	if cfg.perHost {
		failures = runPerHost(ctx, cfg, client, statsStore)
	} else {
		results, err := executor.Run(ctx, buildTasks(client, cfg.urls), executor.Options{
			MaxConcurrency: cfg.maxConcurrency,
			MaxRate:        cfg.maxRate,
			Window:         cfg.window,
			Policy:         executor.WindowPolicy(cfg.policy),
			FailFast:       cfg.failFast,
			Batch:          cfg.batch,
			Stats:          statsStore,
		})
		if err != nil {
			log.Fatalf("run error: %v", err)
		}
		failures = logResults(cfg.urls, results)
	}

	if failures > 0 {
		log.Printf("done with %d failure(s)", failures)
		os.Exit(1)
	}
	log.Printf("done, all ok")
}

// runPerHost agrupa as URLs por host e roda um lote por host em paralelo,
// cada um com um gate compartilhado vindo do Store (orçamento por destino).
func runPerHost(ctx context.Context, cfg config, client *http.Client, stats domain.StatsStore) int {
	store := infra.NewStore(cfg.maxRate, cfg.window)
	store.StartJanitor(ctx)

	groups := make(map[string][]string)
	for _, u := range cfg.urls {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Host == "" {
			log.Printf("skipping invalid url %q", u)
			continue
		}
		groups[parsed.Host] = append(groups[parsed.Host], u)
	}

	var (
		mu       sync.Mutex
		failures int
		wg       sync.WaitGroup
	)
	for host, urls := range groups {
		wg.Add(1)
		go func(host string, urls []string) {
			defer wg.Done()
			results, err := executor.Run(ctx, buildTasks(client, urls), executor.Options{
				MaxConcurrency: cfg.maxConcurrency,
				FailFast:       cfg.failFast,
				Batch:          cfg.batch + ":" + host,
				Stats:          stats,
				Gate:           store.Get(host),
			})
			if err != nil {
				log.Printf("host %s: run error: %v", host, err)
				mu.Lock()
				failures += len(urls)
				mu.Unlock()
				return
			}
			n := logResults(urls, results)
			mu.Lock()
			failures += n
			mu.Unlock()
		}(host, urls)
	}
	wg.Wait()
	return failures
}

func buildTasks(client *http.Client, urls []string) []executor.Task[string] {
	tasks := make([]executor.Task[string], len(urls))
	for i, u := range urls {
		u := u
		tasks[i] = func(ctx context.Context) (string, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return "", err
			}
			resp, err := client.Do(req)
			if err != nil {
				return "", err
			}
			defer func() { _ = resp.Body.Close() }()
			// drena o corpo para reaproveitar a conexão
			_, _ = io.Copy(io.Discard, resp.Body)

			if resp.StatusCode >= 400 {
				return "", fmt.Errorf("%s: status %d", u, resp.StatusCode)
			}
			return strconv.Itoa(resp.StatusCode), nil
		}
	}
	return tasks
}

func logResults(urls []string, results []executor.Result[string]) int {
	failures := 0
	for _, res := range results {
		switch res.Kind {
		case domain.Success:
			log.Printf("[%d] %s -> %s", res.Index, urls[res.Index], res.Value)
		case domain.Failure:
			failures++
			log.Printf("[%d] %s -> FAILURE: %v", res.Index, urls[res.Index], res.Err)
		case domain.Cancelled:
			failures++
			log.Printf("[%d] %s -> CANCELLED: %v", res.Index, urls[res.Index], res.Err)
		}
	}
	return failures
}

type config struct {
	urls           []string
	maxConcurrency int
	maxRate        int
	window         time.Duration
	policy         string
	failFast       bool
	requestTimeout time.Duration
	perHost        bool
	batch          string

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
	statsTrackBatches  bool
}

func readConfig() (config, error) {
	cfg := config{}

	raw := os.Getenv("URLS")
	if file := os.Getenv("URLS_FILE"); raw == "" && file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return config{}, fmt.Errorf("reading URLS_FILE: %w", err)
		}
		raw = string(b)
	}
	for _, f := range strings.Fields(strings.ReplaceAll(raw, ",", " ")) {
		cfg.urls = append(cfg.urls, f)
	}

	cfg.maxConcurrency = getenvIntDefault("MAX_CONCURRENCY", 3)
	cfg.maxRate = getenvIntDefault("MAX_RATE", 5)
	cfg.window = getenvDurationDefault("WINDOW", 1*time.Second)
	cfg.policy = getenvDefault("POLICY", "sliding")
	cfg.failFast = getenvBoolDefault("FAIL_FAST", false)
	cfg.requestTimeout = getenvDurationDefault("REQUEST_TIMEOUT", 10*time.Second)
	cfg.perHost = getenvBoolDefault("PER_HOST", false)
	cfg.batch = getenvDefault("BATCH_NAME", "disparador")

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", false)
	cfg.statsRedisAddr = getenvDefault("STATS_REDIS_ADDR", "")
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "executor:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("STATS_BUCKET", "minute")
	cfg.statsTrackBatches = getenvBoolDefault("STATS_TRACK_BATCHES", false)

	if len(cfg.urls) == 0 {
		return config{}, errors.New("URLS (or URLS_FILE) is required")
	}
	if cfg.maxConcurrency <= 0 {
		return config{}, errors.New("MAX_CONCURRENCY must be > 0")
	}
	if cfg.maxRate <= 0 {
		return config{}, errors.New("MAX_RATE must be > 0")
	}
	if cfg.window <= 0 {
		return config{}, errors.New("WINDOW must be > 0")
	}
	if cfg.statsEnabled && strings.TrimSpace(cfg.statsRedisAddr) == "" {
		return config{}, errors.New("STATS_REDIS_ADDR is required when STATS_ENABLED=true")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
