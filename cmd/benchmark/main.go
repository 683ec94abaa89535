package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olgasafonova/orgnummer-mcp-server/internal/sweden"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/testvectors"
)

const rounds = 1000

func newClient() *sweden.Client {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return sweden.NewClient(sweden.WithLogger(logger))
}

// inputs returns every valid number from the built-in test vectors.
func inputs() []string {
	var numbers []string
	for _, v := range testvectors.Embedded() {
		if v.Valid {
			numbers = append(numbers, v.Input)
		}
	}
	return numbers
}

// measureCachePerformance compares a cold parse with a cached one
func measureCachePerformance(numbers []string) {
	client := newClient()
	defer client.Close()
	ctx := context.Background()

	fmt.Println("=== Cache Performance Test ===")
	fmt.Println()

	fmt.Printf("1. Describe, %d numbers:\n", len(numbers))

	start := time.Now()
	for _, n := range numbers {
		if _, err := client.Describe(ctx, n); err != nil {
			fmt.Printf("   Error: %v\n", err)
			return
		}
	}
	firstPass := time.Since(start)
	fmt.Printf("   First pass (parsed):  %v\n", firstPass)

	start = time.Now()
	for _, n := range numbers {
		_, _ = client.Describe(ctx, n)
	}
	secondPass := time.Since(start)
	fmt.Printf("   Second pass (cached): %v\n", secondPass)
	fmt.Printf("   Speedup: %.1fx\n", float64(firstPass)/float64(secondPass))
	fmt.Printf("   Cache entries: %d\n", client.CacheSize())
	fmt.Println()
}

// measureBatchPerformance compares the batch tool with sequential calls
func measureBatchPerformance(numbers []string) {
	ctx := context.Background()

	if len(numbers) > sweden.MaxBatchSize {
		numbers = numbers[:sweden.MaxBatchSize]
	}

	fmt.Println("=== Batch vs Sequential Performance ===")
	fmt.Println()

	fmt.Printf("2. BatchValidate (parallelized), %d rounds:\n", rounds)
	batchClient := newClient()
	start := time.Now()
	var valid int
	for i := 0; i < rounds; i++ {
		result, err := batchClient.BatchValidateMCP(ctx, sweden.BatchValidateArgs{OrgNumbers: numbers})
		if err != nil {
			fmt.Printf("   Error: %v\n", err)
			batchClient.Close()
			return
		}
		valid = result.ValidCount
	}
	batchTime := time.Since(start)
	batchClient.Close()
	fmt.Printf("   Batch time: %v\n", batchTime)
	fmt.Printf("   Valid per batch: %d of %d\n", valid, len(numbers))
	fmt.Println()

	fmt.Println("3. Sequential ValidateOrgNumber (for comparison):")
	seqClient := newClient()
	start = time.Now()
	for i := 0; i < rounds; i++ {
		for _, n := range numbers {
			_, _ = seqClient.ValidateOrgNumberMCP(ctx, sweden.ValidateOrgNumberArgs{OrgNumber: n})
		}
	}
	sequentialTime := time.Since(start)
	seqClient.Close()
	fmt.Printf("   Sequential time: %v\n", sequentialTime)
	fmt.Printf("   Ratio: %.1fx\n", float64(sequentialTime)/float64(batchTime))
	fmt.Println()
}

func main() {
	fmt.Println("Orgnummer MCP Server - Performance Measurements")
	fmt.Println("===============================================")
	fmt.Println()

	numbers := inputs()
	measureCachePerformance(numbers)
	measureBatchPerformance(numbers)

	fmt.Println("=== Summary ===")
	fmt.Println()
	fmt.Println("• Caching: repeated lookups skip parsing and classification")
	fmt.Println("• Parallelization: batch validation runs up to 8 numbers concurrently")
}
