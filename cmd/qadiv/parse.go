package main

import (
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/qadiv/divergence"
	"github.com/revelaction/qadiv/render"
)

// Parser backends
const (
	ParserNone   = "none"
	ParserCoNLLU = "conllu"
	ParserHTTP   = "http"
	ParserOllama = "ollama"
)

func parserBackends() []string {
	return []string{ParserNone, ParserCoNLLU, ParserHTTP, ParserOllama}
}

// ParserOptions select the parser chain: a backend, optionally behind a
// parse cache.
type ParserOptions struct {
	Backend     string
	CoNLLU      string
	URL         string
	OllamaHost  string
	OllamaModel string

	// CachePath is a directory or a SQLite file
	CachePath string

	// RedisAddr is host:port of a Redis parse cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	Interrogatives string
	Policy         string
}

type AnalyzeOptions struct {
	ParserOptions
	Dataset string

	Workers int
	Timeout time.Duration

	Format  string
	NoColor bool

	NoProgress bool

	// ResultsPath is a directory (JSON lines) or a SQLite file
	ResultsPath string
	Postgres    string

	MetricsPath string
}

type ImportOptions struct {
	From          string
	CachePath     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
}

type ConvertOptions struct {
	From       string
	To         string
	Public     bool
	Categories bool
	ByArticle  bool
}

type InspectOptions struct {
	ParserOptions
	Dataset  string
	Question string
	Sentence string
	Span     string
	NoColor  bool
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "warn",
			Usage:   "Log level: debug, info, warn, error",
			EnvVars: []string{"QADIV_LOG_LEVEL"},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "parser",
			Aliases: []string{"p"},
			Value:   ParserCoNLLU,
			Usage:   "Parser backend: none (cache only), conllu, http, ollama",
			EnvVars: []string{"QADIV_PARSER"},
			Action: func(c *cli.Context, v string) error {
				if !slices.Contains(parserBackends(), v) {
					return fmt.Errorf("invalid parser %q, expected one of %v", v, parserBackends())
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:    "conllu",
			Usage:   "CoNLL-U file with the parses of questions and sentences",
			EnvVars: []string{"QADIV_CONLLU"},
		},
		&cli.StringFlag{
			Name:    "parser-url",
			Usage:   "URL of the parse service",
			Value:   "http://localhost:8080/parse",
			EnvVars: []string{"QADIV_PARSER_URL"},
		},
		&cli.StringFlag{
			Name:    "ollama-host",
			Usage:   "Ollama server (default $OLLAMA_HOST)",
			EnvVars: []string{"QADIV_OLLAMA_HOST"},
		},
		&cli.StringFlag{
			Name:    "ollama-model",
			Value:   "llama3.1",
			Usage:   "Ollama model",
			EnvVars: []string{"QADIV_OLLAMA_MODEL"},
		},
		&cli.StringFlag{
			Name:    "cache",
			Aliases: []string{"c"},
			Usage:   "Parse cache, a directory or a SQLite file",
			EnvVars: []string{"QADIV_CACHE"},
		},
		&cli.StringFlag{
			Name:    "redis",
			Usage:   "Redis parse cache host:port",
			EnvVars: []string{"QADIV_REDIS"},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			EnvVars: []string{"QADIV_REDIS_PASSWORD"},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			EnvVars: []string{"QADIV_REDIS_DB"},
		},
		&cli.DurationFlag{
			Name:    "redis-ttl",
			Usage:   "Expiration of the parses cached in Redis, 0 keeps them",
			EnvVars: []string{"QADIV_REDIS_TTL"},
		},
		&cli.StringFlag{
			Name:    "interrogatives",
			Usage:   "File with the interrogative lemmas, one per line",
			EnvVars: []string{"QADIV_INTERROGATIVES"},
		},
		&cli.StringFlag{
			Name:    "policy",
			Value:   divergence.LastMatch.String(),
			Usage:   "Interrogative of questions with several: last or first",
			EnvVars: []string{"QADIV_POLICY"},
		},
	}
}

func analyzeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Value:   runtime.NumCPU(),
			Usage:   "Number of concurrent analyses",
			EnvVars: []string{"QADIV_WORKERS"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   30 * time.Second,
			Usage:   "Timeout of the analysis of one item, parsing included",
			EnvVars: []string{"QADIV_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   render.Defaultformat,
			Usage:   "Report format: text or json",
			Action: func(c *cli.Context, v string) error {
				if !slices.Contains(render.SupportedFormats(), v) {
					return fmt.Errorf("invalid format %q, expected one of %v", v, render.SupportedFormats())
				}
				return nil
			},
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Report without colors",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Do not show the progress bar",
		},
		&cli.StringFlag{
			Name:    "results",
			Aliases: []string{"r"},
			Usage:   "Store per item results in a directory (JSON lines) or a SQLite file",
			EnvVars: []string{"QADIV_RESULTS"},
		},
		&cli.StringFlag{
			Name:    "postgres",
			Usage:   "Store per item results in PostgreSQL (connection string)",
			EnvVars: []string{"QADIV_POSTGRES"},
		},
		&cli.StringFlag{
			Name:    "metrics",
			Usage:   "Write Prometheus metrics to this file (textfile collector)",
			EnvVars: []string{"QADIV_METRICS"},
		},
	}
}

func importFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			Aliases: []string{"c"},
			Usage:   "Parse cache, a directory or a SQLite file",
			EnvVars: []string{"QADIV_CACHE"},
		},
		&cli.StringFlag{
			Name:    "redis",
			Usage:   "Redis parse cache host:port",
			EnvVars: []string{"QADIV_REDIS"},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			EnvVars: []string{"QADIV_REDIS_PASSWORD"},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			EnvVars: []string{"QADIV_REDIS_DB"},
		},
		&cli.DurationFlag{
			Name:    "redis-ttl",
			EnvVars: []string{"QADIV_REDIS_TTL"},
		},
	}
}

func convertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "SQuAD output file (default stdout)",
		},
		&cli.BoolFlag{
			Name:  "public",
			Usage: "Keep the articles of the public audience instead of the restricted one",
		},
		&cli.BoolFlag{
			Name:  "categories",
			Usage: "Print the number of paragraphs per category instead of converting",
		},
		&cli.BoolFlag{
			Name:  "by-article",
			Usage: "With --categories, count articles instead of paragraphs",
		},
	}
}

func inspectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "question", Aliases: []string{"q"}},
		&cli.StringFlag{Name: "sentence", Aliases: []string{"s"}},
		&cli.StringFlag{Name: "span"},
		&cli.BoolFlag{Name: "no-color"},
	}
}

func parserOptions(c *cli.Context) ParserOptions {
	return ParserOptions{
		Backend:        c.String("parser"),
		CoNLLU:         c.String("conllu"),
		URL:            c.String("parser-url"),
		OllamaHost:     c.String("ollama-host"),
		OllamaModel:    c.String("ollama-model"),
		CachePath:      c.String("cache"),
		RedisAddr:      c.String("redis"),
		RedisPassword:  c.String("redis-password"),
		RedisDB:        c.Int("redis-db"),
		RedisTTL:       c.Duration("redis-ttl"),
		Interrogatives: c.String("interrogatives"),
		Policy:         c.String("policy"),
	}
}

func analyzeOptions(c *cli.Context) AnalyzeOptions {
	return AnalyzeOptions{
		ParserOptions: parserOptions(c),
		Dataset:       c.Args().First(),
		Workers:       c.Int("workers"),
		Timeout:       c.Duration("timeout"),
		Format:        c.String("format"),
		NoColor:       c.Bool("no-color"),
		NoProgress:    c.Bool("no-progress"),
		ResultsPath:   c.String("results"),
		Postgres:      c.String("postgres"),
		MetricsPath:   c.String("metrics"),
	}
}

func importOptions(c *cli.Context) ImportOptions {
	return ImportOptions{
		From:          c.Args().First(),
		CachePath:     c.String("cache"),
		RedisAddr:     c.String("redis"),
		RedisPassword: c.String("redis-password"),
		RedisDB:       c.Int("redis-db"),
		RedisTTL:      c.Duration("redis-ttl"),
	}
}

func convertOptions(c *cli.Context) ConvertOptions {
	return ConvertOptions{
		From:       c.Args().First(),
		To:         c.String("out"),
		Public:     c.Bool("public"),
		Categories: c.Bool("categories"),
		ByArticle:  c.Bool("by-article"),
	}
}

func inspectOptions(c *cli.Context) InspectOptions {
	return InspectOptions{
		ParserOptions: parserOptions(c),
		Dataset:       c.Args().First(),
		Question:      c.String("question"),
		Sentence:      c.String("sentence"),
		Span:          c.String("span"),
		NoColor:       c.Bool("no-color"),
	}
}
