package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.Guide.PlanThreshold != 3 {
		t.Fatalf("plan threshold = %d, want 3", c.Guide.PlanThreshold)
	}
	if c.IdleWindow() != time.Hour || c.SweepInterval() != time.Hour {
		t.Fatalf("idle/sweep defaults wrong: %v %v", c.IdleWindow(), c.SweepInterval())
	}
}

func TestFromYAMLOverridesKeepDefaults(t *testing.T) {
	c, err := FromYAML([]byte("guide:\n  plan_threshold: 5\n  idle_minutes: 30\n"))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	if c.Guide.PlanThreshold != 5 || c.Guide.IdleMinutes != 30 {
		t.Fatalf("overrides not applied: %+v", c.Guide)
	}
	if c.Model.Name == "" || len(c.Guide.PlanKeywords) == 0 {
		t.Fatalf("unset fields should keep defaults: %+v", c)
	}
}

func TestFromYAMLValidates(t *testing.T) {
	cases := []string{
		"model:\n  name: \"\"\n",
		"model:\n  max_tokens: 0\n",
		"guide:\n  plan_threshold: 0\n",
		"guide:\n  plan_keywords: []\n",
		"guide:\n  idle_minutes: 0\n",
	}
	for _, doc := range cases {
		if _, err := FromYAML([]byte(doc)); err == nil {
			t.Errorf("expected validation error for %q", doc)
		}
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Model.Name != Default().Model.Name {
		t.Fatalf("missing file should yield defaults")
	}
}

func TestLoadReadsWorkspaceFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".athena"), 0o755); err != nil {
		t.Fatal(err)
	}
	doc := []byte("guide:\n  plan_keywords: [\"roadmap\"]\n")
	if err := os.WriteFile(Path(dir), doc, 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Guide.PlanKeywords) != 1 || c.Guide.PlanKeywords[0] != "roadmap" {
		t.Fatalf("keywords = %v", c.Guide.PlanKeywords)
	}
}
