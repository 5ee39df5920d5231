package main

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/darkxdd/FigmaCursor-sub000/internal/artifact"
	"github.com/darkxdd/FigmaCursor-sub000/internal/config"
	"github.com/darkxdd/FigmaCursor-sub000/internal/figma"
	"github.com/darkxdd/FigmaCursor-sub000/internal/generator"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llm"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llmclient"
	"github.com/darkxdd/FigmaCursor-sub000/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	gemini, err := llmclient.NewGeminiClient(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("init gemini client: %v", err)
	}

	policy := llm.DefaultRetryPolicy
	policy.MaxRetries = cfg.MaxRetries
	gen := generator.New(llm.Wrap(gemini, llm.WithLogging(nil)), policy, generator.Config{
		CacheCapacity: cfg.CacheCapacity,
		CacheTTL:      cfg.CacheTTL,
	})

	source := figma.NewClient(cfg.FigmaToken, 16, cfg.CacheTTL)
	pipe := pipeline.New(source, gen)

	var sink *artifact.Sink
	if cfg.Artifact.Enabled {
		sink, err = artifact.NewSink(artifact.Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			log.Printf("artifact sink disabled: %v", err)
		}
	}

	var local *artifact.LocalSink
	if cfg.ExportDir != "" {
		local, err = artifact.NewLocalSink(cfg.ExportDir)
		if err != nil {
			log.Printf("local export disabled: %v", err)
		}
	}

	srv := newAPIServer(pipe, gen, sink, local)
	mux := buildMux(srv)

	log.Printf("api listening on %s (env=%s, model=%s)", cfg.Port, cfg.Env, cfg.GeminiModel)
	h2s := &http2.Server{}
	if err := http.ListenAndServe(cfg.Port, h2c.NewHandler(mux, h2s)); err != nil {
		log.Fatal(err)
	}
}
