package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read by the harness binaries only; the scan core takes explicit
// values.
type Config struct {
	Env string // "dev" | "prod"

	// Snapshot file; the extension selects json, yaml, pb or sqlite.
	SnapshotPath string

	NoticeTimeout time.Duration
	Normalizer    string   // "none" | "trim" | "trim-upper"
	Symbologies   []string // empty = all supported

	TraceExporter string // "none" | "stdout"
}

func FromEnv() Config {
	env := strings.ToLower(getenvDefault("TAGSCAN_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	timeoutMS := getenvInt("TAGSCAN_NOTICE_TIMEOUT_MS", 5000)
	if timeoutMS == 0 {
		timeoutMS = 5000
	}

	return Config{
		Env:          env,
		SnapshotPath: getenvDefault("TAGSCAN_SNAPSHOT_PATH", "./data/inventory.json"),

		NoticeTimeout: time.Duration(timeoutMS) * time.Millisecond,
		Normalizer:    strings.ToLower(getenvDefault("TAGSCAN_NORMALIZER", "none")),
		Symbologies:   splitCSV(os.Getenv("TAGSCAN_SYMBOLOGIES")),

		TraceExporter: strings.ToLower(getenvDefault("TAGSCAN_OTEL_EXPORTER", "none")),
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func splitCSV(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
