package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/libraryops/library-records-go/example/app/controller"
	"github.com/libraryops/library-records-go/librarystore"
	"github.com/libraryops/library-records-go/librarystore/postgresengine"
	"github.com/libraryops/library-records-go/testutil/config"
)

func main() {
	verbose := flag.Bool("verbose", false, "log SQL statements and operation summaries")
	propagateReadErrors := flag.Bool("propagate-read-errors", false, "surface read failures instead of degrading to empty results")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgxPool, err := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolSingleConfig())
	if err != nil {
		log.Fatalf("Failed to create pgx pool: %v", err)
	}
	defer pgxPool.Close()

	if err := pgxPool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var gatewayOptions []postgresengine.Option
	var controllerOptions []controller.Option

	if *verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		gatewayOptions = append(gatewayOptions, postgresengine.WithLogger(logger))
		controllerOptions = append(controllerOptions, controller.WithLogging(logger))
	}

	if *propagateReadErrors {
		gatewayOptions = append(gatewayOptions, postgresengine.WithReadErrorPolicy(librarystore.PropagateReadErrors))
	}

	gateway, err := postgresengine.NewGatewayFromPGXPool(pgxPool, gatewayOptions...)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	bookController, err := controller.NewBookController(gateway, controllerOptions...)
	if err != nil {
		log.Fatalf("Failed to create book controller: %v", err)
	}

	queryController, err := controller.NewQueryController(gateway, controllerOptions...)
	if err != nil {
		log.Fatalf("Failed to create query controller: %v", err)
	}

	books, err := bookController.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}

	fmt.Printf("catalog (%d books):\n", len(books))
	for _, book := range books {
		author := book.Author
		if author == "" {
			author = "unknown author"
		}
		fmt.Printf("  %4d  %-40s  %s\n", book.ID, book.Title, author)
	}

	members, err := queryController.MembersWithAnyLoan(ctx)
	if err != nil {
		log.Fatalf("Failed to list members with loans: %v", err)
	}

	fmt.Printf("members with at least one loan (%d):\n", len(members))
	for _, member := range members {
		fmt.Printf("  %4d  %s %s\n", member.ID, member.FirstName, member.LastName)
	}
}
