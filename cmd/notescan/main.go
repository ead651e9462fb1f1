// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notescan CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvasko/notescan/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the notescan CLI.
var rootCmd = &cobra.Command{
	Use:   "notescan",
	Short: "Convert handwritten notes into PDF, DOCX, and TXT documents",
	Long: `notescan turns photographed or scanned handwritten notes into documents.
An image is either rendered directly into a PDF, or run through text
recognition and exported as PDF, DOCX, or TXT. Extracted text can be kept
in a local document gallery for later listing, export, and deletion.

Each surface is a subcommand: convert runs a single conversion or a YAML
batch, gallery manages saved documents, and serve exposes the same
operations over an HTTP API.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./notescan.yaml or ~/.config/notescan/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notescan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notescan"))
		}
	}

	viper.SetEnvPrefix("NOTESCAN")
	viper.AutomaticEnv()

	viper.SetDefault("ocr.language", "eng")
	viper.SetDefault("ocr.timeout", 2*time.Minute)
	viper.SetDefault("ocr.enhance", false)
	viper.SetDefault("store.backend", "json")
	viper.SetDefault("store.dir", "documents")
	viper.SetDefault("export.output_dir", "output")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.max_upload_bytes", 16<<20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration from config file, env,
// and defaults. Command flags override on top of this.
func loadConfig() types.Config {
	return types.Config{
		OCR: types.OCRConfig{
			Language: viper.GetString("ocr.language"),
			Timeout:  viper.GetDuration("ocr.timeout"),
			Enhance:  viper.GetBool("ocr.enhance"),
		},
		Store: types.StoreConfig{
			Backend: types.StoreBackend(viper.GetString("store.backend")),
			Dir:     viper.GetString("store.dir"),
		},
		Export: types.ExportConfig{
			OutputDir: viper.GetString("export.output_dir"),
		},
		Server: types.ServerConfig{
			Addr:           viper.GetString("server.addr"),
			MaxUploadBytes: viper.GetInt64("server.max_upload_bytes"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
