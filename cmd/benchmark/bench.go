package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/nulzo/model-catalog/pkg/catalog"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	appPort   = 8081
	benchKey  = "bench-key-12345"
	benchDB   = "bench.db"
	benchConf = "bench_config.yaml"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	baseURL := flag.String("url", "", "Base URL of a running server (default: build and start one)")
	key := flag.String("key", "", "API key sent as a Bearer token")
	flag.Parse()

	if *baseURL == "" {
		stop := startApp()
		defer stop()
		*baseURL = fmt.Sprintf("http://localhost:%d", appPort)
		*key = benchKey
	}

	waitForApp(*baseURL + "/health")

	fmt.Printf("Running catalog benchmark against %s: %s duration, %d req/s\n", *baseURL, *duration, *rate)

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(newTargeter(*baseURL, *key), vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Catalog") {
		metrics.Add(res)
	}
	metrics.Close()

	report(&metrics)
}

// newTargeter alternates between the full listing and single entry lookups
// cycling through every cataloged id.
func newTargeter(baseURL, key string) vegeta.Targeter {
	entries := catalog.Entries()
	var n atomic.Uint64

	header := http.Header{}
	if key != "" {
		header.Set("Authorization", "Bearer "+key)
	}

	return func(t *vegeta.Target) error {
		i := n.Add(1)
		t.Method = http.MethodGet
		t.Header = header
		if i%2 == 0 {
			t.URL = baseURL + "/v1/catalog"
			return nil
		}
		t.URL = baseURL + "/v1/catalog/" + entries[int(i/2)%len(entries)].ID
		return nil
	}
}

func report(metrics *vegeta.Metrics) {
	fmt.Println("--------------------------------------------------")
	fmt.Println("Requests:        ", metrics.Requests)
	fmt.Println("50th percentile: ", metrics.Latencies.P50)
	fmt.Println("95th percentile: ", metrics.Latencies.P95)
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)

	codes := make([]string, 0, len(metrics.StatusCodes))
	for code := range metrics.StatusCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Printf("Status %s:      %d\n", code, metrics.StatusCodes[code])
	}
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		seen := make(map[string]bool)
		for _, msg := range metrics.Errors {
			if len(seen) == 5 {
				break
			}
			if !seen[msg] {
				fmt.Println(msg)
				seen[msg] = true
			}
		}
	}
}

// startApp builds the server binary and runs it with a throwaway config.
func startApp() func() {
	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	if err := os.WriteFile(benchConf, []byte(benchConfig), 0o644); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		"CONFIG_FILE="+benchConf,
		"SERVER_PORT="+strconv.Itoa(appPort),
		"LOG_LEVEL=error",
	)

	logFile, err := os.Create("bench_server.log")
	if err != nil {
		log.Fatalf("Failed to create log file: %v", err)
	}
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	return func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
		_ = logFile.Close()
		_ = os.Remove(benchConf)
		_ = os.Remove(benchDB)
	}
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("App timed out")
}

var benchConfig = fmt.Sprintf(`
server:
  port: "%d"
  env: production
  api_keys: ["%s"]
rate_limit:
  requests_per_second: 100000
  burst: 100000
log:
  level: "error"
database:
  path: "%s"
`, appPort, benchKey, benchDB)
