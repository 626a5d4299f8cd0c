// Package main provides a CLI for extractive summaries of text, web pages
// and feeds.
// Usage: summarize [-file F | -url U | -feed F] [-n N] [-mode frequency|truncation] [-json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"text-summarizer/internal/config"
	"text-summarizer/internal/domain/entity"
	"text-summarizer/internal/domain/summary"
	"text-summarizer/internal/infra/fetcher"
	"text-summarizer/internal/infra/scraper"
	"text-summarizer/internal/infra/summarizer"
	grpcapi "text-summarizer/internal/interface/grpc"
	"text-summarizer/internal/observability/logging"
	pkgconfig "text-summarizer/internal/pkg/config"
	sumUC "text-summarizer/internal/usecase/summarize"
)

const usage = `Usage: summarize [flags] [text]

Summarizes text from the arguments, -file, or stdin. -url summarizes a web
page and -feed summarizes every item of an RSS or Atom feed. -grpc sends the
text to a running server instead of summarizing locally.

Examples:
  echo "First. Second. Third. Fourth." | summarize -n 2
  summarize -file article.txt -mode truncation
  summarize -url https://go.dev/blog/go1.22 -json
  summarize -feed https://go.dev/blog/feed.atom -n 1
  summarize -grpc localhost:5001 -file article.txt

Flags:
`

// SummaryOutput is the -json form of a text or URL summary.
type SummaryOutput struct {
	Summary        string `json:"summary"`
	SentenceCount  int    `json:"sentence_count"`
	TotalSentences int    `json:"total_sentences"`
	Mode           string `json:"mode"`
	Language       string `json:"language"`
	Source         string `json:"source,omitempty"`
}

type options struct {
	file     string
	url      string
	feed     string
	grpcAddr string
	n        int
	mode     string
	lang     string
	format   string
	maxItems int
	asJSON   bool
	timeout  time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
	}

	var opts options
	flag.StringVar(&opts.file, "file", "", "Read text from `path`")
	flag.StringVar(&opts.url, "url", "", "Fetch and summarize the article at `url`")
	flag.StringVar(&opts.feed, "feed", "", "Summarize every item of the feed at `url`")
	flag.StringVar(&opts.grpcAddr, "grpc", "", "Summarize through the gRPC server at `addr`")
	flag.IntVar(&opts.n, "n", 3, "Number of sentences in the summary")
	flag.StringVar(&opts.mode, "mode", "frequency", "Summarization mode: frequency or truncation")
	flag.StringVar(&opts.lang, "lang", "english", "Stopword language")
	flag.StringVar(&opts.format, "format", "text", "Input format: text or html")
	flag.IntVar(&opts.maxItems, "items", 10, "Maximum feed items to summarize (0 = all)")
	flag.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of plain text")
	flag.DurationVar(&opts.timeout, "timeout", 60*time.Second, "Overall timeout")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	if err := run(ctx, opts, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, args []string, stdin io.Reader, stdout io.Writer) error {
	sources := 0
	for _, s := range []string{opts.file, opts.url, opts.feed} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("use only one of -file, -url and -feed")
	}

	if opts.grpcAddr != "" {
		if opts.url != "" || opts.feed != "" {
			return errors.New("-grpc only summarizes text")
		}
		text, err := readText(opts, args, stdin)
		if err != nil {
			return err
		}
		return runRemote(ctx, opts, text, stdout)
	}

	svc, err := newService(opts)
	if err != nil {
		return err
	}
	count := opts.n

	switch {
	case opts.feed != "":
		feed, err := entity.ParseFeed(opts.feed)
		if err != nil {
			return err
		}
		digest, err := svc.DigestFeed(ctx, sumUC.DigestInput{
			Feed:          feed,
			SentenceCount: &count,
			Mode:          opts.mode,
			Language:      opts.lang,
			MaxItems:      opts.maxItems,
		})
		if err != nil {
			return err
		}
		return printDigest(stdout, digest, opts.asJSON)

	case opts.url != "":
		out, err := svc.SummarizeURL(ctx, sumUC.URLInput{
			URL:           opts.url,
			SentenceCount: &count,
			Mode:          opts.mode,
			Language:      opts.lang,
		})
		if err != nil {
			return err
		}
		return printSummary(stdout, out, opts.asJSON)

	default:
		text, err := readText(opts, args, stdin)
		if err != nil {
			return err
		}
		out, err := svc.Summarize(ctx, sumUC.Input{
			Text:          &text,
			SentenceCount: &count,
			Mode:          opts.mode,
			Language:      opts.lang,
			Format:        opts.format,
		})
		if err != nil {
			return err
		}
		return printSummary(stdout, out, opts.asJSON)
	}
}

// newService builds a local summarizer. Content fetch settings come from
// the same CONTENT_FETCH_* variables as the server.
func newService(opts options) (*sumUC.Service, error) {
	stopwords, err := config.LoadStopwords(os.Getenv("STOPWORDS_FILE"))
	if err != nil {
		return nil, err
	}

	collector := pkgconfig.NewCollector(nil)
	fetchCfg := fetcher.LoadConfigFromEnv(collector)
	collector.Finish("cli")

	svcCfg := sumUC.DefaultConfig()
	svcCfg.MaxTextBytes = 0
	svcCfg.FetchThreshold = fetchCfg.Threshold

	svcOpts := []sumUC.Option{
		sumUC.WithHTMLExtractor(fetcher.NewHTMLExtractor()),
		sumUC.WithMetrics(summarizer.NewNoOp()),
	}
	if opts.url != "" || opts.feed != "" {
		svcOpts = append(svcOpts,
			sumUC.WithContentFetcher(fetcher.NewReadabilityFetcher(fetchCfg)),
			sumUC.WithFeedFetcher(scraper.NewRSSFetcher(nil)))
	}
	return sumUC.NewService(svcCfg, stopwords, svcOpts...), nil
}

// readText returns the positional arguments, the -file contents, or stdin.
func readText(opts options, args []string, stdin io.Reader) (string, error) {
	if opts.file != "" {
		// #nosec G304 -- path is given by the user running the CLI
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		text := args[0]
		for _, a := range args[1:] {
			text += " " + a
		}
		return text, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func runRemote(ctx context.Context, opts options, text string, stdout io.Writer) error {
	conn, err := grpc.NewClient(opts.grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", opts.grpcAddr, err)
	}
	defer func() { _ = conn.Close() }()

	req, err := structpb.NewStruct(map[string]any{
		"text":           text,
		"sentence_count": opts.n,
		"mode":           opts.mode,
		"language":       opts.lang,
		"format":         opts.format,
	})
	if err != nil {
		return err
	}

	resp, err := grpcapi.NewClient(conn).Summarize(ctx, req)
	if err != nil {
		return err
	}
	f := resp.GetFields()
	return printSummary(stdout, &sumUC.Output{
		Summary:        f["summary"].GetStringValue(),
		SentenceCount:  int(f["sentence_count"].GetNumberValue()),
		TotalSentences: int(f["total_sentences"].GetNumberValue()),
		Mode:           summary.Mode(f["mode"].GetStringValue()),
		Language:       f["language"].GetStringValue(),
	}, opts.asJSON)
}

func printSummary(w io.Writer, out *sumUC.Output, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, out.Summary)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(SummaryOutput{
		Summary:        out.Summary,
		SentenceCount:  out.SentenceCount,
		TotalSentences: out.TotalSentences,
		Mode:           string(out.Mode),
		Language:       out.Language,
		Source:         out.Source,
	})
}

func printDigest(w io.Writer, d *entity.Digest, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	fmt.Fprintf(w, "%s (%d items, %d failed)\n\n", d.Feed.Name, len(d.Items), d.Failed)
	for i, item := range d.Items {
		fmt.Fprintf(w, "%d. %s\n", i+1, item.Title)
		if item.URL != "" {
			fmt.Fprintf(w, "   %s\n", item.URL)
		}
		if item.Error != "" {
			fmt.Fprintf(w, "   (not summarized: %s)\n\n", item.Error)
			continue
		}
		fmt.Fprintf(w, "   %s\n\n", item.Summary)
	}
	return nil
}
