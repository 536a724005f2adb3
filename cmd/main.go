package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/rfplens/rfplens/internal/models"
	"github.com/rfplens/rfplens/internal/service"
	"github.com/rfplens/rfplens/pkg/analyzer"
	"github.com/rfplens/rfplens/pkg/answer"
	cfgPkg "github.com/rfplens/rfplens/pkg/config"
	"github.com/rfplens/rfplens/pkg/extract"
	"github.com/rfplens/rfplens/pkg/llm"
	"github.com/rfplens/rfplens/pkg/store"
)

type Config struct {
	BaseURL        string
	APIKey         string
	APIVersion     string
	DBUrl          string
	Model          string
	EmbeddingModel string
	TableName      string
	VectorDim      int
	MaxTokens      int
	MaxChars       int
	SearchLimit    int
	RateLimit      float64
	Temperature    float64
	AnalyzePath    string
}

func main() {
	// Local .env keeps keys out of the shell history.
	_ = godotenv.Load()

	config := parseFlags()

	if err := run(config); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Config {
	var config Config
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&config.BaseURL, "openai-url", os.Getenv("OPENAI_BASE_URL"), "OpenAI-compatible endpoint URL")
	flag.StringVar(&config.APIKey, "api-key", os.Getenv("OPENAI_API_KEY"), "API key")
	flag.StringVar(&config.APIVersion, "api-version", os.Getenv("OPENAI_API_VERSION"), "Azure OpenAI API version")
	flag.StringVar(&config.DBUrl, "db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.StringVar(&config.Model, "model", "gpt-4o-mini", "LLM model to use")
	flag.StringVar(&config.EmbeddingModel, "embedding-model", "text-embedding-ada-002", "Embedding model to use")
	flag.StringVar(&config.TableName, "table", "rfp_documents", "PostgreSQL table name")
	flag.IntVar(&config.VectorDim, "vector-dim", 1536, "Vector dimension")
	flag.IntVar(&config.MaxTokens, "max-tokens", 2000, "Maximum tokens for LLM response")
	flag.IntVar(&config.MaxChars, "max-chars", 24000, "Character budget for analyzed documents")
	flag.IntVar(&config.SearchLimit, "search-limit", 5, "Number of similar RFPs to return")
	flag.Float64Var(&config.RateLimit, "rate-limit", 2.0, "LLM requests per second")
	flag.Float64Var(&config.Temperature, "temperature", 0.3, "Set the LLM temperature")
	flag.StringVar(&config.AnalyzePath, "analyze", "", "RFP file to analyze on startup")
	flag.Parse()

	// Load config file if specified
	if cfg, err := cfgPkg.LoadConfig(configPath); err == nil {
		if config.APIKey == "" {
			config.APIKey = cfg.LLM.APIKey
		}
		if config.BaseURL == "" {
			config.BaseURL = cfg.LLM.BaseURL
		}
		if config.APIVersion == "" {
			config.APIVersion = cfg.LLM.APIVersion
		}
		if config.DBUrl == "" {
			config.DBUrl = cfg.Database.URL
		}
		config.Model = cfg.LLM.Model
		config.EmbeddingModel = cfg.LLM.EmbeddingModel
		config.MaxTokens = cfg.LLM.MaxTokens
		config.Temperature = cfg.LLM.Temperature
		config.RateLimit = cfg.LLM.RateLimit
		config.TableName = cfg.Database.TableName
		config.VectorDim = cfg.Database.VectorDim
		config.MaxChars = cfg.Analyzer.MaxChars
		config.SearchLimit = cfg.Search.Limit
	}

	return config
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(config Config) error {
	chatEngine, err := llm.NewWithConfig(llm.ChatConfig{
		Token:       config.APIKey,
		BaseURL:     config.BaseURL,
		APIVersion:  config.APIVersion,
		Model:       config.Model,
		MaxTokens:   config.MaxTokens,
		Temperature: config.Temperature,
		RateLimit:   config.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat engine: %v", err)
	}

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Token:      config.APIKey,
		BaseURL:    config.BaseURL,
		APIVersion: config.APIVersion,
		Model:      config.EmbeddingModel,
		RateLimit:  config.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	vectorStore, err := store.NewWithConfig(store.VectorStoreConfig{
		ConnString:  config.DBUrl,
		TableName:   config.TableName,
		VectorDim:   config.VectorDim,
		SearchLimit: config.SearchLimit,
	}, embedder)
	if err != nil {
		return fmt.Errorf("failed to initialize vector store: %v", err)
	}
	defer vectorStore.Close()

	rfp := service.New(service.ServiceConfig{SearchLimit: config.SearchLimit},
		extract.New(),
		analyzer.NewWithConfig(analyzer.AnalyzerConfig{MaxChars: config.MaxChars}, chatEngine),
		vectorStore,
		answer.NewWithConfig(answer.AnswererConfig{}, chatEngine),
	)

	ctx := context.Background()

	// Session state: the most recent analysis and its extracted text.
	var current *models.Analysis
	var content string

	if config.AnalyzePath != "" {
		current, content = analyzeFile(ctx, rfp, config.AnalyzePath)
	}

	color.Cyan("\nRFP analyzer — commands: analyze <path>, ask <question>, search <query>, proposal, exit")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\n> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		command, arg := line, ""
		if idx := strings.IndexByte(line, ' '); idx > 0 {
			command, arg = line[:idx], strings.TrimSpace(line[idx+1:])
		}

		switch strings.ToLower(command) {
		case "exit", "quit":
			return nil

		case "analyze":
			if arg == "" {
				color.Yellow("Usage: analyze <path>")
				continue
			}
			current, content = analyzeFile(ctx, rfp, arg)

		case "ask":
			if current == nil {
				color.Yellow("Analyze a document first.")
				continue
			}
			if arg == "" {
				color.Yellow("Usage: ask <question>")
				continue
			}

			spinner := getSpinner(" Generating answer...")
			reply, err := rfp.Ask(ctx, current, content, arg, nil)
			spinner.Finish()
			if err != nil {
				color.Red("Error: %v\n", err)
				continue
			}
			assistantPrompt("\n%s\n", reply)

		case "search":
			if arg == "" {
				color.Yellow("Usage: search <query>")
				continue
			}

			spinner := getSpinner(" Searching similar RFPs...")
			results, err := rfp.SearchSimilar(ctx, arg, config.SearchLimit)
			spinner.Finish()
			if err != nil {
				color.Red("Error: %v\n", err)
				continue
			}
			if len(results) == 0 {
				color.Yellow("No similar RFPs found.\n")
				continue
			}
			for i, result := range results {
				fmt.Printf("%d. %s (score %.2f)\n", i+1, result.Document.Title, result.Score)
				if result.Document.BudgetRange != "" {
					fmt.Printf("   예산: %s\n", result.Document.BudgetRange)
				}
			}

		case "proposal":
			if current == nil {
				color.Yellow("Analyze a document first.")
				continue
			}

			spinner := getSpinner(" Drafting proposal...")
			draft, err := rfp.Proposal(ctx, current)
			spinner.Finish()
			if err != nil {
				color.Red("Error: %v\n", err)
				continue
			}
			assistantPrompt("\n%s\n", draft)

		default:
			color.Yellow("Unknown command %q", command)
		}
	}

	return nil
}

func analyzeFile(ctx context.Context, rfp *service.Service, path string) (*models.Analysis, string) {
	spinner := getSpinner(" Analyzing RFP...")
	analysis, content, err := rfp.AnalyzeFile(ctx, path)
	spinner.Finish()

	if err != nil {
		color.Red("Error: %v\n", err)
		return nil, ""
	}

	color.Green("\n✓ Analyzed and stored %s (%s)\n", analysis.Title, analysis.ID)
	fmt.Println(analysis.MarshalIndent())

	return analysis, content
}
