// Command insert_users_load fills a running go-users server with random
// users through the batch insert route and reports throughput.
//
//	go run ./test_scripts 5000 http://localhost:8080
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adfharrison1/go-users/pkg/api"
	"github.com/adfharrison1/go-users/pkg/domain"
)

var (
	countries   = []string{"Spain", "France", "Italy", "Germany", "Portugal", "Norway"}
	professions = []string{"Engineer", "Teacher", "Doctor", "Designer", "Software Engineer", "Chef"}
)

// randomName returns a capitalized 6-letter name
func randomName() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 6)
	for i := range name {
		name[i] = letters[rand.Intn(len(letters))]
	}
	name[0] -= 32
	return string(name)
}

func randomUser() domain.User {
	name := randomName()
	return domain.User{
		Name:       name,
		Email:      strings.ToLower(name) + "@example.com",
		Age:        rand.Intn(82) + 18,
		Country:    countries[rand.Intn(len(countries))],
		Profession: professions[rand.Intn(len(professions))],
	}
}

// insertBatch posts users to POST /users and returns how many were stored
func insertBatch(client *http.Client, baseURL string, batch []domain.User) (int, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal batch: %w", err)
	}

	resp, err := client.Post(baseURL+"/users", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, apiErr.Message)
	}

	var result api.BatchInsertResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.InsertedCount, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./test_scripts <number_of_users> [server_url]")
		fmt.Println("Example: go run ./test_scripts 1000 http://localhost:8080")
		os.Exit(1)
	}

	numUsers, err := strconv.Atoi(os.Args[1])
	if err != nil || numUsers <= 0 {
		fmt.Printf("Error: invalid number of users %q\n", os.Args[1])
		os.Exit(1)
	}

	serverURL := "http://localhost:8080"
	if len(os.Args) >= 3 {
		serverURL = strings.TrimRight(os.Args[2], "/")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	fmt.Printf("Starting load test: inserting %d users to %s\n", numUsers, serverURL)

	startTime := time.Now()
	inserted, failedBatches := 0, 0

	for sent := 0; sent < numUsers; {
		size := min(api.MaxBatchSize, numUsers-sent)
		batch := make([]domain.User, size)
		for i := range batch {
			batch[i] = randomUser()
		}

		count, err := insertBatch(client, serverURL, batch)
		if err != nil {
			failedBatches++
			fmt.Printf("Error inserting batch at %d: %v\n", sent, err)
		}
		inserted += count
		sent += size

		elapsed := time.Since(startTime)
		fmt.Printf("Progress: %d/%d users (%.1f%%) - Rate: %.1f users/sec\n",
			sent, numUsers, float64(sent)/float64(numUsers)*100, float64(sent)/elapsed.Seconds())
	}

	totalTime := time.Since(startTime)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Users attempted:  %d\n", numUsers)
	fmt.Printf("Users inserted:   %d\n", inserted)
	fmt.Printf("Failed batches:   %d\n", failedBatches)
	fmt.Printf("Total time:       %v\n", totalTime)
	fmt.Printf("Average rate:     %.2f users/sec\n", float64(inserted)/totalTime.Seconds())

	if failedBatches > 0 {
		os.Exit(1)
	}
}
