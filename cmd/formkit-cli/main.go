package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/cache"
	"github.com/goliatone/go-formkit/pkg/container"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/theme"
)

// config holds defaults read from the environment; flags override them.
type config struct {
	Framework   string        `env:"FORMKIT_FRAMEWORK,default=bootstrap5"`
	Variant     string        `env:"FORMKIT_VARIANT"`
	TemplateDir string        `env:"FORMKIT_TEMPLATE_DIR"`
	RedisURL    string        `env:"FORMKIT_REDIS_URL"`
	CacheTTL    time.Duration `env:"FORMKIT_CACHE_TTL,default=5m"`
	Debug       bool          `env:"FORMKIT_DEBUG"`
}

func main() {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		log.Fatalf("read environment: %v", err)
	}

	source := flag.String("definition", "", "definition file (JSON or YAML)")
	formName := flag.String("form", "", "form to render")
	containerName := flag.String("container", "", "container to render (takes precedence over -form)")
	slot := flag.String("slot", "", "render a single container slot")
	output := flag.String("output", "", "output file (stdout if empty)")
	method := flag.String("method", "", "override the form method")
	stylesheets := flag.Bool("stylesheets", false, "emit the framework stylesheet link")
	list := flag.Bool("list", false, "list the forms and containers in the definition")
	flag.StringVar(&cfg.Framework, "framework", cfg.Framework, "bootstrap5, bootstrap4, tailwind or bulma")
	flag.StringVar(&cfg.Variant, "variant", cfg.Variant, "theme variant")
	flag.StringVar(&cfg.TemplateDir, "templates", cfg.TemplateDir, "directory with template overrides")
	flag.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "redis URL for the container cache")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log debug output to stderr")
	flag.Parse()

	if strings.TrimSpace(*source) == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if cfg.Debug {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatalf("create logger: %v", err)
		}
	}
	defer func() { _ = logger.Sync() }()

	doc, err := definition.LoadFile(*source)
	if err != nil {
		log.Fatalf("load definition: %v", err)
	}
	if *list {
		printNames(doc)
		return
	}

	themeOpts := []theme.Option{
		theme.WithDefaultFramework(cfg.Framework),
		theme.WithLogger(logger),
	}
	if cfg.TemplateDir != "" {
		themeOpts = append(themeOpts, theme.WithTemplateDir(cfg.TemplateDir))
	}
	if *stylesheets {
		themeOpts = append(themeOpts, theme.WithStylesheets())
	}
	renderer, err := theme.New(themeOpts...)
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}

	opts := render.RenderOptions{
		Method:    *method,
		Framework: cfg.Framework,
		Variant:   cfg.Variant,
	}

	ctx := context.Background()
	var html []byte
	switch {
	case *containerName != "":
		html, err = renderContainer(ctx, doc, *containerName, *slot, renderer, opts, cfg, logger)
	case *formName != "":
		html, err = renderForm(ctx, doc, *formName, renderer, opts, logger)
	default:
		err = errors.New("one of -form or -container is required")
	}
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, html, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	fmt.Println(string(html))
}

func renderForm(ctx context.Context, doc *definition.Document, name string, renderer render.Renderer, opts render.RenderOptions, logger *zap.Logger) ([]byte, error) {
	b, err := doc.Form(name,
		form.WithRenderer(renderer),
		form.WithRenderOptions(opts),
		form.WithLogger(logger),
		form.WithMarkdownHelp(),
	)
	if err != nil {
		return nil, err
	}
	return b.Render(ctx, nil)
}

func renderContainer(ctx context.Context, doc *definition.Document, name, slot string, renderer render.Renderer, opts render.RenderOptions, cfg config, logger *zap.Logger) ([]byte, error) {
	containerOpts := []container.Option{
		container.WithRenderer(renderer),
		container.WithRenderOptions(opts),
		container.WithFramework(cfg.Framework),
		container.WithLogger(logger),
	}
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		defer client.Close()
		containerOpts = append(containerOpts,
			container.WithStore(cache.NewRedis(client, cache.WithRedisLogger(logger))),
			container.WithCache(cfg.CacheTTL),
		)
	}

	c, err := doc.Container(name, containerOpts...)
	if err != nil {
		return nil, err
	}
	if slot != "" {
		return c.RenderSingleForm(ctx, slot, nil)
	}
	return c.Render(ctx, nil)
}

func printNames(doc *definition.Document) {
	for _, name := range doc.FormNames() {
		fmt.Printf("form\t%s\t%s\n", name, doc.Source(name))
	}
	for _, name := range doc.ContainerNames() {
		fmt.Printf("container\t%s\t%s\n", name, doc.Source(name))
	}
}
