package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/imkonsowa/foodorder-chatbot/chatbot"
	"github.com/imkonsowa/foodorder-chatbot/config"
)

// maxLine bounds a single utterance read from stdin.
const maxLine = 16 * 1024 * 1024

// ask answers utterances read from stdin, one per line, without any service
// around the engine:
//
//	ask [feed.json]
func main() {
	cfg := config.LoadConfig()

	path := cfg.Catalog.Path
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	engine, err := chatbot.InitializeFile(path)
	if err != nil {
		log.Fatal(err)
	}

	stats := engine.Store().Stats()
	slog.Info("catalog loaded", "feed", path, "foods", stats.Foods, "categories", stats.Categories, "locations", stats.Locations)

	if err := run(engine, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(engine *chatbot.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	for scanner.Scan() {
		reply := engine.Answer(scanner.Text())
		if _, err := fmt.Fprintf(out, "[%s] %s\n\n", reply.Intent, reply.Text); err != nil {
			return err
		}
	}

	return scanner.Err()
}
