// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OCRConfig holds settings for the recognition stage.
type OCRConfig struct {
	// Language is the trained-data language code passed to the engine
	// (default "eng").
	Language string `json:"language" yaml:"language"`

	// Timeout bounds a single recognition run (default 2m). Expiry is
	// reported as a recognition failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Enhance enables image pre-processing (grayscale, contrast, sharpen)
	// before recognition.
	Enhance bool `json:"enhance" yaml:"enhance"`
}

// StoreBackend identifies the document store implementation.
type StoreBackend string

const (
	// StoreJSON keeps all records in a single JSON blob file. Whole-list
	// read-modify-write; last write wins across processes.
	StoreJSON StoreBackend = "json"

	// StoreSQLite keeps records in a local SQLite database.
	StoreSQLite StoreBackend = "sqlite"
)

// StoreConfig holds settings for the document store.
type StoreConfig struct {
	// Backend selects the store implementation: json or sqlite.
	Backend StoreBackend `json:"backend" yaml:"backend"`

	// Dir is the directory holding the store file (documents.json or
	// documents.db).
	Dir string `json:"dir" yaml:"dir"`
}

// ExportConfig holds settings for the export encoders.
type ExportConfig struct {
	// OutputDir is where exported files are written (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadBytes caps the accepted image size (default 16 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// Config groups all stage configurations.
type Config struct {
	OCR    OCRConfig    `json:"ocr" yaml:"ocr"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Export ExportConfig `json:"export" yaml:"export"`
	Server ServerConfig `json:"server" yaml:"server"`
}
