package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/setup"
	setuplogger "github.com/povarna/generative-ai-agents/clinical-validator/internal/setup/logger"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	exampleCase    = "oral-ulcer-tongue"
	exampleStudent = "I will prescribe triamcinolone acetonide."
)

func main() {
	caseID := flag.String("case", "", "Case id from the catalog (default: "+exampleCase+" when no context is given)")
	contextSummary := flag.String("context", "", "Case context summary")
	rulesFile := flag.String("rules-file", "", "YAML or JSON file with contraindications, required_history and required_exam")
	student := flag.String("student", exampleStudent, "Clinical action proposed by the student")
	listCases := flag.Bool("list-cases", false, "List catalog cases and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg := setup.LoadConfig()
	logger := setuplogger.Console(cfg.LogLevel)
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	if *listCases {
		for _, c := range deps.Catalog.List() {
			fmt.Printf("%-22s %s\n", c.ID, c.Title)
		}
		return
	}

	request, err := buildRequest(deps, *caseID, *contextSummary, *rulesFile, *student)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid input")
	}

	log.Info().
		Str("context", request.ContextSummary).
		Str("student_action", request.StudentText).
		Msg("Validating")

	result := deps.Validator.Validate(ctx, request)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal result")
	}
	fmt.Println(string(out))
}

func buildRequest(deps *setup.Dependencies, caseID, contextSummary, rulesFile, student string) (models.ValidationRequest, error) {
	var request models.ValidationRequest

	switch {
	case caseID != "" || (contextSummary == "" && rulesFile == ""):
		if caseID == "" {
			caseID = exampleCase
		}
		clinicalCase, err := deps.Catalog.Get(caseID)
		if err != nil {
			return request, fmt.Errorf("%w (available: %v)", err, deps.Catalog.IDs())
		}
		request = clinicalCase.Request(student)
		if contextSummary != "" {
			request.ContextSummary = contextSummary
		}
	default:
		request = models.ValidationRequest{
			StudentText:    student,
			ContextSummary: contextSummary,
		}
		if rulesFile != "" {
			rules, err := loadRules(rulesFile)
			if err != nil {
				return request, err
			}
			request.Rules = rules
		}
	}

	return request, request.Validate()
}

func loadRules(path string) (models.Rules, error) {
	var rules models.Rules

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}
	// JSON documents are valid YAML
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return rules, nil
}
