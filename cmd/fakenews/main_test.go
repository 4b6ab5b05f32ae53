package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/fakenews/internal/config"
	"github.com/hyperjump/fakenews/internal/explain"
	"github.com/hyperjump/fakenews/internal/extract"
	"github.com/hyperjump/fakenews/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// setupProject writes a config file and a small separable corpus, returning the config path.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var fakeRows, realRows strings.Builder
	fakeRows.WriteString("title,text,subject,date\n")
	realRows.WriteString("title,text,subject,date\n")
	fakeTopics := []string{"aliens", "cure", "moon", "lizard", "clone"}
	realTopics := []string{"senate", "budget", "tariff", "census", "harvest"}
	for i := 0; i < 30; i++ {
		ft := fakeTopics[i%len(fakeTopics)]
		fmt.Fprintf(&fakeRows, "Shocking %s hoax %d,Insiders reveal secret %s conspiracy hoax story%d,News,2017\n", ft, i, ft, i)
		rt := realTopics[i%len(realTopics)]
		fmt.Fprintf(&realRows, "Officials report %s update %d,Committee statement on %s policy ministry item%d,politicsNews,2017\n", rt, i, rt, i)
	}
	writeFile(t, filepath.Join(dir, "data", "Fake.csv"), fakeRows.String())
	writeFile(t, filepath.Join(dir, "data", "True.csv"), realRows.String())
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, "data:\n  corpus_dir: ./data\n  encoding: utf-8\nartifacts:\n  model_dir: ./models\npredict:\n  top_n: 5\n")
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(&app{})
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoadConfig_missingDefaultUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"), false)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Data.FakeFile != "Fake.csv" || cfg.Predict.TopN != 10 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_missingExplicitFails(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), true); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func TestTrainClassifyStatus(t *testing.T) {
	cfgPath := setupProject(t)

	out, err := execute(t, "train", "--config", cfgPath)
	if err != nil {
		t.Fatalf("train: %v\n%s", err, out)
	}
	for _, want := range []string{"Loading and preparing data...", "Training Logistic Regression model...", "Saved model and vectorizer to", "Vocabulary:"} {
		if !strings.Contains(out, want) {
			t.Errorf("train output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "classify", "--config", cfgPath, "--output", "json",
		"Shocking", "aliens", "hoax:", "insiders", "reveal", "secret", "conspiracy")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var pred models.Prediction
	if err := json.Unmarshal([]byte(out), &pred); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if pred.Label != models.LabelFake {
		t.Errorf("label = %s, want FAKE", pred.Label)
	}
	if len(pred.Contributions) == 0 || len(pred.Contributions) > 5 {
		t.Errorf("contributions = %+v, want 1..5 from config top_n", pred.Contributions)
	}

	page := filepath.Join(filepath.Dir(cfgPath), "story.html")
	writeFile(t, page, "<html><body><article><p>Committee statement on senate budget policy from the ministry</p></article></body></html>")
	out, err = execute(t, "classify", "--config", cfgPath, "--file", page)
	if err != nil {
		t.Fatalf("classify --file: %v", err)
	}
	if !strings.Contains(out, "Prediction: REAL") {
		t.Errorf("classify --file output:\n%s", out)
	}

	out, err = execute(t, "status", "--config", cfgPath, "--output", "json")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var st Status
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatal(err)
	}
	if !st.Trained || st.Rows != 60 || st.VocabularySize == 0 || st.SizeBytes == 0 || st.RunID == "" {
		t.Errorf("status = %+v", st)
	}
}

func TestStatus_untrained(t *testing.T) {
	cfgPath := setupProject(t)
	out, err := execute(t, "status", "--config", cfgPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "not trained") {
		t.Errorf("output:\n%s", out)
	}
}

func TestStatus_sqliteUntrainedLeavesNoDatabase(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, "artifacts:\n  backend: sqlite\n  database_path: ./store/artifacts.db\n")

	out, err := execute(t, "status", "--config", cfgPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "not trained") {
		t.Errorf("output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "store")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("status created the database directory: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "conf", "config.yaml")

	out, err := execute(t, "config", "init", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote default config to") {
		t.Errorf("output = %q", out)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(filepath.Dir(cfgPath), "data"); cfg.Data.CorpusDir != want {
		t.Errorf("corpus_dir = %s, want %s", cfg.Data.CorpusDir, want)
	}
	if cfg.Predict.TopN != 10 || cfg.Artifacts.Backend != "disk" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	if _, err := execute(t, "config", "init", "--config", cfgPath); err == nil {
		t.Error("expected error when the config file already exists")
	}
	if _, err := execute(t, "config", "init", "--config", cfgPath, "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
}

func TestClassify_withoutModelFails(t *testing.T) {
	cfgPath := setupProject(t)
	if _, err := execute(t, "classify", "--config", cfgPath, "some", "text"); err == nil {
		t.Error("expected error when no model has been trained")
	}
}

func TestClassify_negativeTopNFails(t *testing.T) {
	cfgPath := setupProject(t)
	if _, err := execute(t, "train", "--config", cfgPath); err != nil {
		t.Fatalf("train: %v", err)
	}
	_, err := execute(t, "classify", "--config", cfgPath, "--top-n=-1", "senate", "budget")
	if !errors.Is(err, explain.ErrInvalidTopN) {
		t.Errorf("got %v, want ErrInvalidTopN", err)
	}
}

func TestClassifyInput(t *testing.T) {
	if _, err := classifyInput(nil, ""); err == nil {
		t.Error("expected error with no input")
	}
	if _, err := classifyInput([]string{"a"}, "f.txt"); err == nil {
		t.Error("expected error with both text and file")
	}
	if _, err := classifyInput([]string{" ", ""}, ""); err == nil {
		t.Error("expected error for blank text")
	}
	if _, err := classifyInput(nil, filepath.Join(t.TempDir(), "story.exe")); !errors.Is(err, extract.ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
	got, err := classifyInput([]string{"Senate", "votes"}, "")
	if err != nil || got != "Senate votes" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--config", "/nonexistent/config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "fakenews version dev") {
		t.Errorf("output = %q", out)
	}
}
