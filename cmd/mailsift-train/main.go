package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mailsift/email-classifier/internal/artifacts"
	"github.com/mailsift/email-classifier/internal/config"
	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/factory"
	"github.com/mailsift/email-classifier/internal/features"
	"github.com/mailsift/email-classifier/internal/labeling"
	"github.com/mailsift/email-classifier/internal/logging"
	"github.com/mailsift/email-classifier/internal/samples"
	"github.com/mailsift/email-classifier/internal/textproc"
	"github.com/mailsift/email-classifier/internal/training"
	"go.uber.org/zap"
)

var (
	// Input flags
	dataFile    = flag.String("data", "", "JSON file with training emails (generates samples if not specified)")
	sampleCount = flag.Int("samples", 200, "Number of synthetic emails to generate when no data file is given")
	outputPath  = flag.String("output", "models/email_classifier.bundle", "Path for the trained model bundle")

	// Training flags
	maxFeatures = flag.Int("max-features", 10000, "Maximum vocabulary size for the text vectorizer")
	testSize    = flag.Float64("test-size", 0.2, "Fraction of the corpus held out for evaluation")
	seed        = flag.Int64("seed", 42, "Random seed for splits and model fitting")
	threshold   = flag.Float64("threshold", 0.5, "Importance confidence threshold stored in the bundle")
	minCorpus   = flag.Int("min-corpus", 50, "Corpus size below which a quality warning is logged")

	// Logging flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Build the labeling taxonomy
	taxonomy, err := factory.NewTaxonomy(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build taxonomy", zap.Error(err))
	}

	// Assemble the training pipeline
	extractor := features.NewExtractor(
		textproc.NewNormalizer(),
		textproc.NewHTMLConverter(),
		cfg.GetInt("classifier.max_text_length"),
	)
	labeler := labeling.NewLabeler(taxonomy)
	trainer := training.NewTrainer(extractor, labeler, training.Params{
		TestFraction:        cfg.GetFloat64("training.test_size"),
		Seed:                cfg.GetInt64("training.random_seed"),
		MaxFeatures:         cfg.GetInt("training.max_features"),
		MinCorpusSize:       cfg.GetInt("training.min_corpus_size"),
		ConfidenceThreshold: cfg.GetFloat64("classifier.confidence_threshold"),
	}, logger)

	// Load or generate the training corpus
	var emails []core.Email
	if *dataFile != "" {
		emails, err = loadEmails(*dataFile)
		if err != nil {
			logger.Fatal("Failed to load training data", zap.Error(err), zap.String("file", *dataFile))
		}
		logger.Info("Loaded training corpus", zap.String("file", *dataFile), zap.Int("emails", len(emails)))
	} else {
		emails = samples.Generate(*sampleCount, cfg.GetInt64("training.random_seed"))
		logger.Info("Generated synthetic training corpus", zap.Int("emails", len(emails)))
	}

	// Train
	startTime := time.Now()
	bundle, report, err := trainer.Train(emails)
	if err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}
	duration := time.Since(startTime)

	// Persist the bundle
	store := artifacts.NewFileStore(logger)
	if err := store.Save(bundle, *outputPath); err != nil {
		logger.Fatal("Failed to save model bundle", zap.Error(err))
	}

	// Print results
	fmt.Printf("\n=== Training Report ===\n")
	fmt.Printf("Run ID: %s\n", bundle.Metadata.RunID)
	fmt.Printf("Samples: %d (%d important)\n", report.Samples, report.ImportantCount)
	fmt.Printf("Category distribution:\n")
	for _, name := range taxonomy.Names() {
		fmt.Printf("  %-14s %d\n", name, report.CategoryCounts[name])
	}
	fmt.Printf("\nImportance model: %s\n", report.ImportanceModelName)
	fmt.Printf("  CV accuracy:   %.4f\n", report.ImportanceCVAccuracy)
	fmt.Printf("  Test accuracy: %.4f\n", report.ImportanceTestAccuracy)
	fmt.Printf("Category model: random_forest\n")
	fmt.Printf("  CV accuracy:   %.4f\n", report.CategoryCVAccuracy)
	fmt.Printf("  Test accuracy: %.4f\n", report.CategoryTestAccuracy)
	fmt.Printf("\nBundle written to: %s\n", *outputPath)
	fmt.Printf("Training time: %v\n", duration)
}

// loadEmails reads a JSON array of emails from a file
func loadEmails(path string) ([]core.Email, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var emails []core.Email
	if err := json.Unmarshal(data, &emails); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return emails, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("training.max_features", *maxFeatures)
	v.Set("training.test_size", *testSize)
	v.Set("training.random_seed", *seed)
	v.Set("training.min_corpus_size", *minCorpus)
	v.Set("classifier.confidence_threshold", *threshold)

	return config.NewFromViper(v)
}
