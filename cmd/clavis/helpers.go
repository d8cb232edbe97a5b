package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/clavisure/clavis/internal/conversation"
	"github.com/clavisure/clavis/internal/detect"
	"github.com/clavisure/clavis/internal/engine"
	"github.com/clavisure/clavis/internal/finalize"
	"github.com/clavisure/clavis/internal/gate"
	"github.com/clavisure/clavis/internal/llm"
	"github.com/clavisure/clavis/internal/model"
	"github.com/clavisure/clavis/internal/resolve"
	"github.com/clavisure/clavis/internal/routing"
	"github.com/clavisure/clavis/internal/session"
	"github.com/clavisure/clavis/internal/storage"
	"github.com/spf13/viper"
)

// defaultDBPath returns the standard location of the audit database.
func defaultDBPath() (string, error) {
	dbPath := viper.GetString("database.path")
	if dbPath != "" {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "clavis", "clavis.db"), nil
}

// buildEngine assembles the resolution engine from configuration. The
// returned cleanup closes the session store and audit database.
func buildEngine(ctx context.Context) (*engine.Engine, func(), error) {
	logger := slog.Default()
	cleanups := make([]func(), 0, 2)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Audit log is optional.
	var db *storage.SQLiteStorage
	if !viper.GetBool("database.disabled") {
		dbPath, pathErr := defaultDBPath()
		if pathErr != nil {
			return nil, nil, pathErr
		}
		var dbErr error
		db, dbErr = storage.NewSQLiteStorage(dbPath)
		if dbErr != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", dbErr)
		}
		if migErr := db.Migrate(ctx); migErr != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", migErr)
		}
		cleanups = append(cleanups, func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("Failed to close database", "error", closeErr)
			}
		})
	}

	rules, err := resolveRules(ctx, db, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	matcher, err := detect.NewMatcher(rules)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to build pattern matcher: %w", err)
	}

	gateCfg := gate.DefaultConfig()
	if v := viper.GetFloat64("classifier.high_confidence"); v > 0 {
		gateCfg.HighConfidence = v
	}
	if v := viper.GetFloat64("classifier.low_confidence"); v > 0 {
		gateCfg.LowConfidence = v
	}

	resolverCfg := resolve.DefaultConfig()
	if v := viper.GetFloat64("classifier.conflict_margin"); v > 0 {
		resolverCfg.ConflictMargin = v
	}

	machineCfg := conversation.DefaultConfig()
	if v := viper.GetFloat64("conversation.switch_confidence"); v > 0 {
		machineCfg.SwitchConfidence = v
	}

	// Session store: Redis when configured, in-process otherwise.
	var sessions session.Store
	if addr := viper.GetString("session.redis_addr"); addr != "" {
		redisStore := session.NewRedisStore(addr,
			viper.GetString("session.redis_password"),
			viper.GetInt("session.redis_db"))
		if pingErr := redisStore.Ping(ctx); pingErr != nil {
			_ = redisStore.Close()
			cleanup()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, pingErr)
		}
		cleanups = append(cleanups, func() {
			if closeErr := redisStore.Close(); closeErr != nil {
				logger.Error("Failed to close redis store", "error", closeErr)
			}
		})
		sessions = redisStore
		logger.Info("Using redis session store", "addr", addr)
	} else {
		sessions = session.NewMemoryStore()
	}

	// AI classifier is optional; without credentials the engine runs
	// pattern-only and escalated messages degrade gracefully.
	var classifier engine.Classifier
	if client, clientErr := createLLMClient(); clientErr != nil {
		logger.Warn("AI classifier unavailable, running pattern-only", "reason", clientErr)
	} else {
		classifier = llm.NewAdapter(client, viper.GetDuration("llm.timeout"), logger)
	}

	var audit engine.AuditLog
	if db != nil {
		audit = db
	}

	// Completed flows are handed off to a webhook when one is configured;
	// without it completion is immediate.
	var finalizer engine.Finalizer
	if url := viper.GetString("finalizer.webhook_url"); url != "" {
		wf, wfErr := finalize.NewWebhookFinalizer(url, viper.GetDuration("finalizer.timeout"), logger)
		if wfErr != nil {
			cleanup()
			return nil, nil, wfErr
		}
		finalizer = wf
	}

	eng, err := engine.New(engine.Deps{
		Detector:   matcher,
		Gate:       gate.New(gateCfg),
		Resolver:   resolve.New(resolverCfg),
		Machine:    conversation.New(machineCfg, logger),
		Router:     routing.New(routing.DefaultTargetRules(), logger),
		Sessions:   sessions,
		Classifier: classifier,
		Finalizer:  finalizer,
		Audit:      audit,
		Logger:     logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return eng, cleanup, nil
}

// resolveRules picks the pattern rule table: an explicit YAML file wins,
// then rules persisted in the database, then the built-in table.
func resolveRules(ctx context.Context, db *storage.SQLiteStorage, logger *slog.Logger) ([]detect.Rule, error) {
	if rulesPath := viper.GetString("rules.path"); rulesPath != "" {
		loaded, err := detect.LoadRules(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load pattern rules: %w", err)
		}
		logger.Info("Loaded pattern rules from file", "path", rulesPath, "rules", len(loaded))
		return loaded, nil
	}

	if db != nil {
		records, err := db.ListPatternRules(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load pattern rules from database: %w", err)
		}
		if len(records) > 0 {
			logger.Info("Loaded pattern rules from database", "rules", len(records))
			return rulesFromRecords(records), nil
		}
	}

	return detect.DefaultRules(), nil
}

func rulesFromRecords(records []storage.PatternRuleRecord) []detect.Rule {
	rules := make([]detect.Rule, len(records))
	for i, rec := range records {
		rules[i] = detect.Rule{
			Name:     rec.Name,
			Category: model.MessageCategory(rec.Category),
			Language: model.Language(rec.Language),
			Keywords: rec.Keywords,
			Patterns: rec.Patterns,
		}
	}
	return rules
}

func recordsFromRules(rules []detect.Rule) []storage.PatternRuleRecord {
	records := make([]storage.PatternRuleRecord, len(rules))
	for i, r := range rules {
		records[i] = storage.PatternRuleRecord{
			Name:     r.Name,
			Category: string(r.Category),
			Language: string(r.Language),
			Keywords: r.Keywords,
			Patterns: r.Patterns,
		}
	}
	return records
}

// createLLMClient creates an LLM client based on configuration.
// This function is shared by the commands that need AI classification.
func createLLMClient() (llm.Client, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "openai" // default provider
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		Timeout:     viper.GetDuration("llm.timeout"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	// Get API key based on provider
	switch provider {
	case "openai":
		// Check viper first, then environment variable
		apiKey := viper.GetString("llm.openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	case "anthropic":
		apiKey := viper.GetString("llm.anthropic_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	return llm.NewClient(cfg)
}
