// Command analyze_logs summarises the JSON logs written with LOG_FORMAT=json.
//
//	go run ./scripts/analyze_logs.go app.log
//	kubectl logs deploy/watch-me | go run ./scripts/analyze_logs.go
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogEntry is one zap JSON line; only the fields the report needs are decoded
type LogEntry struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}

type LogStats struct {
	Lines             int
	Unparsed          int
	Levels            map[string]int
	Requests          int
	ClientErrors      int
	ServerErrors      int
	OrdersCreated     int
	PaidViaCheckout   int
	PaidViaWebhook    int
	BadSignatures     int
	BadWebhookTokens  int
	DuplicateWebhooks int
	ShipmentsCreated  int
	AWBsAssigned      int
	Oversells         int
	AdminLogins       int
	AdminLoginDenied  int
	VendorFailures    map[string]int
	Transitions       map[string]int
	ErrorPatterns     map[string]int
	FailingPaths      map[string]int
}

var (
	transitionRegex    = regexp.MustCompile(`status (\w+) -> (\w+)`)
	adminMoveRegex     = regexp.MustCompile(`from (\w+) to (\w+)$`)
	vendorFailureRegex = regexp.MustCompile(`^Shiprocket (\S+) failed`)
	numberRegex        = regexp.MustCompile(`\d+`)
)

func newLogStats() *LogStats {
	return &LogStats{
		Levels:         make(map[string]int),
		VendorFailures: make(map[string]int),
		Transitions:    make(map[string]int),
		ErrorPatterns:  make(map[string]int),
		FailingPaths:   make(map[string]int),
	}
}

func main() {
	var input io.Reader = os.Stdin
	if len(os.Args) > 1 {
		file, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Printf("Error opening log file %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		defer file.Close()
		input = file
	}

	stats := newLogStats()
	if err := analyze(input, stats); err != nil {
		fmt.Printf("Error reading logs: %v\n", err)
		os.Exit(1)
	}
	printReport(stats)
}

func analyze(r io.Reader, stats *LogStats) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.Lines++

		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			stats.Unparsed++
			continue
		}
		record(entry, stats)
	}
	return scanner.Err()
}

func record(entry LogEntry, stats *LogStats) {
	stats.Levels[entry.Level]++
	msg := entry.Msg

	if msg == "HTTP request" {
		stats.Requests++
		switch {
		case entry.Status >= 500:
			stats.ServerErrors++
			stats.FailingPaths[entry.Path]++
		case entry.Status >= 400:
			stats.ClientErrors++
		}
		return
	}

	switch {
	case strings.HasPrefix(msg, "Created pending order"):
		stats.OrdersCreated++
	case strings.Contains(msg, "paid via checkout verification"):
		stats.PaidViaCheckout++
		stats.Transitions["pending -> paid"]++
	case strings.Contains(msg, "paid via gateway webhook"):
		stats.PaidViaWebhook++
		stats.Transitions["pending -> paid"]++
	case strings.HasPrefix(msg, "Invalid payment signature"),
		strings.HasPrefix(msg, "Razorpay webhook with invalid signature"):
		stats.BadSignatures++
	case strings.HasPrefix(msg, "Shiprocket webhook with bad token"):
		stats.BadWebhookTokens++
	case strings.HasPrefix(msg, "Duplicate gateway webhook"):
		stats.DuplicateWebhooks++
	case strings.HasPrefix(msg, "Shipment ") && strings.Contains(msg, " created for order ") && !strings.Contains(msg, "not saved"):
		stats.ShipmentsCreated++
	case strings.HasPrefix(msg, "AWB ") && strings.Contains(msg, " assigned to order "):
		stats.AWBsAssigned++
		stats.Transitions["-> shipped"]++
	case strings.HasPrefix(msg, "Oversold product"):
		stats.Oversells++
	case strings.HasPrefix(msg, "Admin login successful"):
		stats.AdminLogins++
	case strings.HasPrefix(msg, "Admin login rejected"), strings.HasPrefix(msg, "Admin login failed"):
		stats.AdminLoginDenied++
	case strings.HasPrefix(msg, "Shipment webhook applied"):
		if m := transitionRegex.FindStringSubmatch(msg); m != nil && m[1] != m[2] {
			stats.Transitions[m[1]+" -> "+m[2]]++
		}
	case strings.HasPrefix(msg, "Admin moved order"):
		if m := adminMoveRegex.FindStringSubmatch(msg); m != nil {
			stats.Transitions[m[1]+" -> "+m[2]]++
		}
	}

	if m := vendorFailureRegex.FindStringSubmatch(msg); m != nil {
		stats.VendorFailures["shiprocket "+m[1]]++
	}
	if strings.HasPrefix(msg, "Gateway order creation failed") {
		stats.VendorFailures["razorpay create_order"]++
	}

	if entry.Level == "error" {
		stats.ErrorPatterns[errorPattern(msg)]++
	}
}

// errorPattern strips ids and the wrapped cause so similar errors group together
func errorPattern(msg string) string {
	if i := strings.Index(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	return numberRegex.ReplaceAllString(msg, "N")
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Printf("Lines: %d (unparsed: %d)\n", stats.Lines, stats.Unparsed)

	fmt.Println("\n1. Requests:")
	fmt.Printf("   Total: %d\n", stats.Requests)
	fmt.Printf("   4xx: %d\n", stats.ClientErrors)
	fmt.Printf("   5xx: %d\n", stats.ServerErrors)

	fmt.Println("\n2. Orders and payments:")
	fmt.Printf("   Orders created: %d\n", stats.OrdersCreated)
	fmt.Printf("   Paid via checkout: %d\n", stats.PaidViaCheckout)
	fmt.Printf("   Paid via webhook: %d\n", stats.PaidViaWebhook)
	fmt.Printf("   Oversold lines: %d\n", stats.Oversells)

	fmt.Println("\n3. Webhooks and security:")
	fmt.Printf("   Invalid payment signatures: %d\n", stats.BadSignatures)
	fmt.Printf("   Bad shipping webhook tokens: %d\n", stats.BadWebhookTokens)
	fmt.Printf("   Duplicate gateway webhooks: %d\n", stats.DuplicateWebhooks)
	fmt.Printf("   Admin logins: %d (denied: %d)\n", stats.AdminLogins, stats.AdminLoginDenied)

	fmt.Println("\n4. Shipping:")
	fmt.Printf("   Shipments created: %d\n", stats.ShipmentsCreated)
	fmt.Printf("   AWBs assigned: %d\n", stats.AWBsAssigned)

	fmt.Println("\n5. Status transitions:")
	printTop(stats.Transitions, 10, "times")

	fmt.Println("\n6. Vendor failures:")
	printTop(stats.VendorFailures, 10, "failures")

	fmt.Println("\n7. Most common errors:")
	printTop(stats.ErrorPatterns, 5, "occurrences")

	fmt.Println("\n8. Paths answering 5xx:")
	printTop(stats.FailingPaths, 5, "responses")
}

func printTop(counts map[string]int, limit int, unit string) {
	type keyCount struct {
		key   string
		count int
	}

	var list []keyCount
	for key, count := range counts {
		list = append(list, keyCount{key, count})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].key < list[j].key
	})

	if len(list) == 0 {
		fmt.Println("   none")
	}
	for i, item := range list {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d %s\n", item.key, item.count, unit)
	}
}
