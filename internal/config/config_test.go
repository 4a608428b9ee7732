package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weekplan/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default("demo")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Product.ID != "demo" {
		t.Fatalf("product id = %q", cfg.Product.ID)
	}
	if !strings.Contains(cfg.Week.LabelTemplate, "{start}") {
		t.Fatalf("template = %q", cfg.Week.LabelTemplate)
	}
}

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(config.GenerateDefault("demo")))
	if err != nil {
		t.Fatalf("parse generated default: %v", err)
	}
	if cfg.Share.TTLHours != 720 {
		t.Fatalf("ttl = %d", cfg.Share.TTLHours)
	}
	if cfg.Server.BasePath != "/v0" {
		t.Fatalf("base path = %q", cfg.Server.BasePath)
	}
}

func TestValidateRejectsBadTemplate(t *testing.T) {
	cfg := config.Default("demo")
	cfg.Week.LabelTemplate = "Week of {start} only"
	if err := cfg.Validate(); err == nil {
		t.Fatal("template without {end} must fail")
	}
	cfg = config.Default("demo")
	cfg.Share.TTLHours = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative ttl must fail")
	}
	cfg = config.Default("demo")
	cfg.Product.ID = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing product id must fail")
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadOptional(dir)
	if err != nil || cfg != nil {
		t.Fatalf("missing file should be nil,nil; got %v, %v", cfg, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "weekplan.yml"), []byte(config.GenerateDefault("p1")), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = config.LoadOptional(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Product.ID != "p1" {
		t.Fatalf("product id = %q", cfg.Product.ID)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("missing config must error for Load")
	}
}
