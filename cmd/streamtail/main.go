package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/streamkit/httpstream"
	"github.com/streamkit/httpstream/errors"
)

func main() {
	var (
		url         = flag.String("url", "", "URL to stream from")
		format      = flag.String("format", "jsonl", "Response format: array, jsonl, csv, arrow")
		maxLen      = flag.Int("max-len", 1<<20, "Maximum frame length in bytes")
		limit       = flag.Int("limit", 0, "Stop after N items (0 = unlimited)")
		header      = flag.Bool("header", false, "Treat the first CSV row as a header")
		delimiter   = flag.String("delimiter", ",", "CSV field delimiter")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *url == "" {
		fmt.Fprintln(os.Stderr, "Usage: streamtail -url <url> [-format array|jsonl|csv|arrow] [-max-len n]")
		fmt.Fprintln(os.Stderr, "       streamtail -url <url> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		httpstream.SetLogger(logger)
	}

	cfg := tailConfig{
		url:       *url,
		format:    strings.ToLower(*format),
		maxLen:    *maxLen,
		limit:     *limit,
		header:    *header,
		delimiter: firstByte(*delimiter),
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type tailConfig struct {
	url       string
	format    string
	maxLen    int
	limit     int
	header    bool
	delimiter byte
}

func run(cfg tailConfig) error {
	return tail(cfg, func(line string, itemErr error) bool {
		if itemErr != nil {
			fmt.Fprintf(os.Stderr, "item error: %v\n", itemErr)
			return true
		}
		fmt.Println(line)
		return true
	})
}

// tail fetches the URL and walks the decoded stream, handing each item (or
// recoverable item error) to yield as a display line. Returning false from
// yield stops the walk. The yield callback also enforces the item limit.
func tail(cfg tailConfig, yield func(line string, itemErr error) bool) error {
	resp, err := http.Get(cfg.url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cfg.url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("fetch %s: unexpected status %s", cfg.url, resp.Status)
	}

	count := 0
	emit := func(line string, itemErr error) bool {
		if !yield(line, itemErr) {
			return false
		}
		if itemErr == nil {
			count++
		}
		return cfg.limit == 0 || count < cfg.limit
	}

	switch cfg.format {
	case "array", "jsonl":
		var stream *httpstream.Stream[jsoniter.RawMessage]
		if cfg.format == "array" {
			stream = httpstream.JSONArray[jsoniter.RawMessage](resp.Body, cfg.maxLen)
		} else {
			stream = httpstream.JSONLines[jsoniter.RawMessage](resp.Body, cfg.maxLen)
		}
		defer stream.Close()
		for stream.Next() {
			if err := stream.Err(); err != nil {
				return err
			}
			if !emit(string(stream.Item()), nil) {
				return nil
			}
		}
		return nil

	case "csv":
		opts := []httpstream.Option{httpstream.WithDelimiter(cfg.delimiter)}
		if cfg.header {
			opts = append(opts, httpstream.WithHeader())
		}
		stream := httpstream.CSVRecords(resp.Body, cfg.maxLen, opts...)
		defer stream.Close()
		for stream.Next() {
			if err := stream.Err(); err != nil {
				if !errors.IsCodec(err) {
					return err
				}
				if !emit("", err) {
					return nil
				}
				continue
			}
			if !emit(strings.Join(stream.Item(), "\t"), nil) {
				return nil
			}
		}
		return nil

	case "arrow":
		stream := httpstream.ArrowIPC(resp.Body, cfg.maxLen)
		defer stream.Close()
		for stream.Next() {
			if err := stream.Err(); err != nil {
				return err
			}
			rec := stream.Item()
			line := fmt.Sprintf("record batch: %d rows x %d cols", rec.NumRows(), rec.NumCols())
			rec.Release()
			if !emit(line, nil) {
				return nil
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown format %q (want array, jsonl, csv or arrow)", cfg.format)
	}
}

func firstByte(s string) byte {
	if s == "" {
		return ','
	}
	return s[0]
}
