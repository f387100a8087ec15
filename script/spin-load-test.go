package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Scenario is one kind of request the load test sends
type Scenario struct {
	Name   string
	Weight int
	Build  func(userID, jobID int) (path string, body any)
}

// TestResult contains metrics for a single request
type TestResult struct {
	Scenario     string
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests int
	Succeeded     int
	Refused       int // 409 or 404: out of spins, letters or words
	Failed        int
	TotalTime     time.Duration
	ResponseTimes []time.Duration
	ErrorCounts   map[string]int
	UserStats     map[int]int
	ScenarioStats map[string]int
	Lock          sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 8, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 500, "Total number of requests to make")
	userIDsStr := flag.String("u", "1,2,3", "Comma-separated list of user IDs to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	delayMs := flag.Int("delay", 0, "Delay between requests in milliseconds")
	flag.Parse()

	var userIDs []int
	for _, idStr := range strings.Split(*userIDsStr, ",") {
		var id int
		if _, err := fmt.Sscanf(idStr, "%d", &id); err == nil && id > 0 {
			userIDs = append(userIDs, id)
		}
	}
	if len(userIDs) == 0 {
		userIDs = []int{1}
	}

	scenarios := []Scenario{
		{"deposit", 2, func(userID, jobID int) (string, any) {
			amount := []string{"10.00", "50.00", "150.00", "500.00"}[rand.IntN(4)]
			return fmt.Sprintf("/users/%d/deposits", userID),
				map[string]string{"amount": amount, "reference": fmt.Sprintf("load-%d-%d", userID, jobID)}
		}},
		{"daily-login", 1, func(userID, _ int) (string, any) {
			return fmt.Sprintf("/users/%d/daily-login", userID), nil
		}},
		{"spin", 6, func(userID, _ int) (string, any) {
			return fmt.Sprintf("/users/%d/spins", userID), nil
		}},
		{"claim-word", 1, func(userID, _ int) (string, any) {
			return fmt.Sprintf("/users/%d/words/%d/claim", userID, 1+rand.IntN(2)), nil
		}},
	}

	fmt.Printf("Load testing %s across %d users: %v\n", *baseURL, len(userIDs), userIDs)
	fmt.Printf("Concurrency: %d goroutines, %d requests, %d ms delay\n", *concurrency, *totalRequests, *delayMs)

	stats := &TestStats{
		TotalRequests: *totalRequests,
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
		ErrorCounts:   make(map[string]int),
		UserStats:     make(map[int]int),
		ScenarioStats: make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)
	client := &http.Client{Timeout: 10 * time.Second}

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(client, *baseURL, *delayMs, userIDs, scenarios, jobs, results, stats)
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.record(result)
		}
	}()

	wg.Wait()
	close(results)
	<-collected
	stats.TotalTime = time.Since(startTime)

	printResults(stats)
	checkLedgers(client, *baseURL, userIDs)
}

func pick(scenarios []Scenario) Scenario {
	total := 0
	for _, s := range scenarios {
		total += s.Weight
	}
	r := rand.IntN(total)
	for _, s := range scenarios {
		if r < s.Weight {
			return s
		}
		r -= s.Weight
	}
	return scenarios[len(scenarios)-1]
}

func worker(client *http.Client, baseURL string, delayMs int, userIDs []int,
	scenarios []Scenario, jobs <-chan int, results chan<- TestResult, stats *TestStats) {

	for jobID := range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		userID := userIDs[rand.IntN(len(userIDs))]
		scenario := pick(scenarios)

		stats.Lock.Lock()
		stats.UserStats[userID]++
		stats.ScenarioStats[scenario.Name]++
		stats.Lock.Unlock()

		path, body := scenario.Build(userID, jobID)
		var payload bytes.Buffer
		if body != nil {
			if err := json.NewEncoder(&payload).Encode(body); err != nil {
				results <- TestResult{Scenario: scenario.Name, Error: err}
				continue
			}
		}

		req, err := http.NewRequest(http.MethodPost, baseURL+path, &payload)
		if err != nil {
			results <- TestResult{Scenario: scenario.Name, Error: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := client.Do(req)
		result := TestResult{Scenario: scenario.Name, ResponseTime: time.Since(start), Error: err}
		if err == nil {
			result.StatusCode = resp.StatusCode
			resp.Body.Close()
		}
		results <- result
	}
}

func (s *TestStats) record(r TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	switch {
	case r.Error != nil:
		s.Failed++
		s.ErrorCounts[r.Error.Error()]++
	case r.StatusCode >= 200 && r.StatusCode < 300:
		s.Succeeded++
	case r.StatusCode == http.StatusConflict, r.StatusCode == http.StatusNotFound:
		s.Refused++
	default:
		s.Failed++
		s.ErrorCounts[fmt.Sprintf("%s: HTTP %d", r.Scenario, r.StatusCode)]++
	}
	s.ResponseTimes = append(s.ResponseTimes, r.ResponseTime)
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *TestStats) {
	sorted := append([]time.Duration(nil), stats.ResponseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:  %d\n", stats.TotalRequests)
	fmt.Printf("Succeeded:       %d\n", stats.Succeeded)
	fmt.Printf("Refused (409/404): %d\n", stats.Refused)
	fmt.Printf("Failed:          %d\n", stats.Failed)
	fmt.Printf("Total Time:      %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:      %.2f req/s\n", float64(stats.TotalRequests)/stats.TotalTime.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("P50: %v  P90: %v  P95: %v  P99: %v\n",
		percentile(sorted, 50), percentile(sorted, 90), percentile(sorted, 95), percentile(sorted, 99))

	fmt.Println("\n----------------- SCENARIOS -----------------")
	for name, count := range stats.ScenarioStats {
		fmt.Printf("%-12s %d\n", name, count)
	}

	if len(stats.ErrorCounts) > 0 {
		fmt.Println("\n----------------- ERRORS -----------------")
		for msg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s %d\n", msg, count)
		}
	}
}

// checkLedgers compares each user's cash balance with the sum of the amounts in
// the user's transaction history
func checkLedgers(client *http.Client, baseURL string, userIDs []int) {
	fmt.Println("\n----------------- LEDGER CHECK -----------------")
	for _, userID := range userIDs {
		var account struct {
			CashBalance    string `json:"cashBalance"`
			AvailableSpins int64  `json:"availableSpins"`
		}
		if err := getJSON(client, fmt.Sprintf("%s/users/%d", baseURL, userID), &account); err != nil {
			fmt.Printf("User %d: %v\n", userID, err)
			continue
		}

		sum := decimal.Zero
		for offset := 0; ; offset += 500 {
			var page struct {
				Transactions []struct {
					Amount string `json:"amount"`
				} `json:"transactions"`
			}
			url := fmt.Sprintf("%s/users/%d/transactions?limit=500&offset=%d", baseURL, userID, offset)
			if err := getJSON(client, url, &page); err != nil {
				fmt.Printf("User %d: %v\n", userID, err)
				break
			}
			for _, row := range page.Transactions {
				if row.Amount != "" {
					sum = sum.Add(decimal.RequireFromString(row.Amount))
				}
			}
			if len(page.Transactions) < 500 {
				break
			}
		}

		balance := decimal.RequireFromString(account.CashBalance)
		status := "OK"
		if !balance.Equal(sum) {
			status = "MISMATCH"
		}
		fmt.Printf("User %d: balance=%s logged=%s spins=%d %s\n",
			userID, account.CashBalance, sum.StringFixed(2), account.AvailableSpins, status)
	}
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
