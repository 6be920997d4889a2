package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"solace/config"
	"solace/internal/logger"
	"solace/services"
)

// A terminal chat loop against the same support service the server
// uses, without the HTTP stack.
func main() {
	configPath := flag.String("config", "./config/config.yml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	zapLog := logger.New("warn", cfg.Logging.Format)
	defer zapLog.Sync()

	classifier, err := services.NewClassifierFromConfig(cfg, zapLog)
	if err != nil {
		panic("failed to build classifier: " + err.Error())
	}
	svc := services.NewSupportService(classifier, zapLog)

	fmt.Println(services.Greeting)
	fmt.Println("(type /quit to leave)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/quit" || text == "/exit" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		analysis, err := svc.Respond(ctx, text)
		cancel()
		if err != nil {
			fmt.Println(services.AnalysisFailedMessage)
			continue
		}

		fmt.Println()
		fmt.Println(analysis.Reply)
		if analysis.Tip != "" {
			fmt.Println("Tip: " + analysis.Tip)
		}
		fmt.Println("[" + analysis.Meta + "]")
		fmt.Println()
	}
}
