package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors      int
	LoginSuccess     int
	LoginFailures    int
	RedeemSuccess    int
	RedeemRejected   int
	RedeemGuesses    int
	Lockouts         int
	UserActivities   map[string]int
	RejectionReasons map[string]int
	ErrorPatterns    map[string]int
}

func main() {
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	stats := &LogStats{
		UserActivities:   make(map[string]int),
		RejectionReasons: make(map[string]int),
		ErrorPatterns:    make(map[string]int),
	}

	analyzeErrorLogs(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)
	analyzeInfoLogs(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)
	printReport(stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "Login failed") {
			stats.LoginFailures++
			extractUserActivity(line, stats)
		}

		extractErrorPattern(line, stats)
	}
}

var (
	reasonRegex = regexp.MustCompile(`reason: ([A-Z_]+)`)
	userRegex   = regexp.MustCompile(`user (?:ID: )?(\d+)`)
)

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "logged in successfully") {
			stats.LoginSuccess++
			extractUserActivity(line, stats)
		}

		if strings.Contains(line, "Redemption succeeded") {
			stats.RedeemSuccess++
			extractUserActivity(line, stats)
		}

		if strings.Contains(line, "Redemption rejected") {
			stats.RedeemRejected++
			if m := reasonRegex.FindStringSubmatch(line); m != nil {
				stats.RejectionReasons[m[1]]++
				if m[1] == "ATTEMPTS_EXCEEDED" {
					stats.Lockouts++
				}
			}
			extractUserActivity(line, stats)
		}

		if strings.Contains(line, "Redemption guess failed") {
			stats.RedeemGuesses++
			extractUserActivity(line, stats)
		}
	}
}

func extractUserActivity(line string, stats *LogStats) {
	if m := userRegex.FindStringSubmatch(line); m != nil {
		stats.UserActivities[m[1]]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	parts := strings.Split(line, ":")
	if len(parts) > 1 {
		errorMsg := strings.TrimSpace(parts[1])
		stats.ErrorPatterns[errorMsg]++
	}
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Authentication Statistics:")
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Println("\n2. Referral Redemption Statistics:")
	fmt.Printf("   Successful Redemptions: %d\n", stats.RedeemSuccess)
	fmt.Printf("   Rejected Redemptions: %d\n", stats.RedeemRejected)
	fmt.Printf("   Guess Failures (throttled): %d\n", stats.RedeemGuesses)
	fmt.Printf("   Lockout Hits: %d\n", stats.Lockouts)
	for reason, count := range stats.RejectionReasons {
		fmt.Printf("   - %s: %d\n", reason, count)
	}

	fmt.Println("\n3. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)

	fmt.Println("\n4. Most Active Users:")
	printTop(stats.UserActivities, 5)

	fmt.Println("\n5. Most Common Errors:")
	printTop(stats.ErrorPatterns, 5)
}

func printTop(counts map[string]int, limit int) {
	type entry struct {
		key   string
		count int
	}

	var entries []entry
	for k, v := range counts {
		entries = append(entries, entry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for _, e := range entries {
		fmt.Printf("   %s: %d\n", e.key, e.count)
	}
}
