package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Gunvolt24/techstore/config"
	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/kafka"
	"github.com/Gunvolt24/techstore/internal/repo/postgres"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/Gunvolt24/techstore/pkg/validate"
	"github.com/joho/godotenv"
)

// CLI: валидация и загрузка каталога товаров (.json-массив или .jsonl).
// С -dry-run только проверяет и печатает валидные товары в stdout.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	dryRun := flag.Bool("dry-run", false, "validate only, print valid products to stdout")
	flag.Parse()

	ctx := context.Background()
	catalogValidator := validate.NewCatalogValidator()

	format := validate.InputFormat(*formatStr)
	run := func(out io.Writer, sink validate.ProductSink) (validate.Summary, error) {
		if *inputPath == "" {
			return validate.ValidateReader(ctx, catalogValidator, os.Stdin, format, out, sink)
		}
		return validate.ValidateFile(ctx, catalogValidator, *inputPath, format, out, sink)
	}

	if *dryRun {
		summary, err := run(os.Stdout, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
		return
	}

	_ = godotenv.Load(".env.local")
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	products := postgres.NewProductRepository(pool)
	sink := func(ctx context.Context, p *domain.Product) error {
		_, err := products.CreateProduct(ctx, p)
		return err
	}

	// Valid — уже записанные товары, в том числе при ошибке на середине файла
	summary, err := run(io.Discard, sink)
	if summary.Valid > 0 && cfg.KafkaEnabled() {
		notifyInstances(ctx, &cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "import: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "import ok (%s)\n", summary)
}

// notifyInstances — работающие экземпляры обновляют товары и категории, не дожидаясь окна свежести.
func notifyInstances(ctx context.Context, cfg *config.Config) {
	pub := kafka.NewPublisher(&kafka.PublisherConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	})
	defer func() { _ = pub.Close() }()

	ev := &domain.ChangeEvent{
		Mutation:    string(usecase.MutationAddProduct),
		Collections: []string{string(usecase.CollectionProducts), string(usecase.CollectionCategories)},
		Origin:      "import-catalog",
		At:          time.Now(),
	}
	if err := pub.Publish(ctx, ev); err != nil {
		fmt.Fprintf(os.Stderr, "publish change event: %v\n", err)
	}
}
