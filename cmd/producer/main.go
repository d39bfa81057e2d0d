package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	red "github.com/povarna/generative-ai-agents/clinical-validator/internal/redis"
	streamredis "github.com/povarna/generative-ai-agents/clinical-validator/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON ValidationEvent")
	caseID := flag.String("case", "", "Case id; with -student builds the event instead of -d")
	student := flag.String("student", "", "Student action used with -case")
	stream := flag.String("stream", streamredis.DefaultRequestStream, "Stream name")
	flag.Parse()

	if *data == "" && (*caseID == "" || *student == "") {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>' | producer -case <id> -student '<text>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	event, err := buildEvent(*data, *caseID, *student)
	if err != nil {
		log.Error().Err(err).Msg("invalid event")
		os.Exit(1)
	}

	if err := run(event, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func buildEvent(data, caseID, student string) (models.ValidationEvent, error) {
	var event models.ValidationEvent
	if data != "" {
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return event, err
		}
	} else {
		event.CaseID = caseID
		event.Request.StudentText = student
	}

	if event.EventID == "" {
		event.EventID = fmt.Sprintf("evt-%d", time.Now().UnixNano())
	}
	return event, event.Request.Validate()
}

func run(event models.ValidationEvent, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := red.PublishJSON(ctx, client, stream, event)
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("event_id", event.EventID).Msg("Published successfully!")
	return nil
}
