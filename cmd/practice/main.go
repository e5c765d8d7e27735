// Command practice is a line-oriented study session against a running
// study service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	auth "github.com/mind-engage/studyquiz/internal/auth/middleware"
	"github.com/mind-engage/studyquiz/internal/config"
	"github.com/mind-engage/studyquiz/internal/platform/logger"
	"github.com/mind-engage/studyquiz/internal/quiz"
	"github.com/mind-engage/studyquiz/internal/rbac"
	"github.com/mind-engage/studyquiz/internal/studyapi"
)

func main() {
	cfg := config.Load()

	docID := flag.String("doc", "", "document id")
	kind := flag.String("kind", string(quiz.KindChoice), "quiz to start with: mcq or fillups")
	tier := flag.String("tier", string(quiz.TierEasy), "easy, medium or hard")
	count := flag.Int("count", quiz.DefaultCount, "questions to generate (5-20)")
	flag.Parse()

	if *docID == "" {
		fmt.Fprintln(os.Stderr, "usage: practice -doc <id> [-kind mcq|fillups] [-tier easy] [-count 10]")
		os.Exit(2)
	}
	t, err := quiz.ParseTier(*tier)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !quiz.ValidCount(*count) {
		fmt.Fprintf(os.Stderr, "count must be between %d and %d\n", quiz.MinCount, quiz.MaxCount)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ccfg := studyapi.Config{
		BaseURL:      cfg.StudyAPIURL,
		Timeout:      cfg.StudyAPITimeout,
		TokenURL:     cfg.StudyTokenURL,
		ClientID:     cfg.StudyClientID,
		ClientSecret: cfg.StudyClientSecret,
	}
	if cfg.StudyTokenURL == "" && cfg.ServiceTokenSecret != "" {
		ccfg.TokenSource = auth.NewAuthService(cfg.ServiceTokenSecret).TokenSource("practice", rbac.RoleLearner)
	}
	client := studyapi.New(ccfg)

	opts := []quiz.Option{
		quiz.WithLogger(log),
		quiz.WithProgressTimeout(cfg.ProgressTimeout),
		quiz.WithDefaults(t, *count),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := quiz.Kind(*kind)
	if !start.Valid() {
		fmt.Fprintf(os.Stderr, "unknown kind %q\n", *kind)
		os.Exit(2)
	}
	sh := newShell(os.Stdout, start, map[quiz.Kind]pane{
		quiz.KindChoice: newChoiceREPL(quiz.NewChoiceController(*docID, client.Choice(), opts...), os.Stdout),
		quiz.KindFill:   newFillREPL(quiz.NewFillController(*docID, client.Fill(), opts...), os.Stdout),
	})
	err = sh.run(ctx, os.Stdin)
	sh.wait()
	if err != nil {
		log.Error("session ended", "error", err)
		os.Exit(1)
	}
}
