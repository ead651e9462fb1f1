// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvasko/notescan/internal/export"
	"github.com/mvasko/notescan/internal/store"
	"github.com/mvasko/notescan/pkg/types"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Manage saved documents (list, show, export, delete)",
	Long: `Gallery manages the local document store. Documents saved after an
image-to-ocr conversion can be listed, printed, re-exported in any
format, or deleted.`,
}

// --- list subcommand ---

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved documents, newest first",
	RunE:  runGalleryList,
}

func runGalleryList(cmd *cobra.Command, args []string) error {
	st, err := store.New(loadConfig().Store)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.List(context.Background())
	if err != nil {
		return err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No saved documents.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-28s  %-30s  %-10s  %s\n", "ID", "Title", "Created", "Words")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range records {
		title := r.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-28s  %-30s  %-10s  %d\n",
			r.ID, title, r.CreatedAt.Format("2006-01-02"), r.WordCount)
	}
	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(records))
	return nil
}

// --- show subcommand ---

var galleryShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a saved document's text",
	Args:  cobra.ExactArgs(1),
	RunE:  runGalleryShow,
}

func runGalleryShow(cmd *cobra.Command, args []string) error {
	st, err := store.New(loadConfig().Store)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := findDocument(st, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\nCreated: %s (%d words)\n\n%s\n",
		rec.Title, rec.CreatedAt.Format("2006-01-02"), rec.WordCount, rec.Text)
	return nil
}

// --- export subcommand ---

var galleryExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Re-export a saved document as PDF, DOCX, or TXT",
	Args:  cobra.ExactArgs(1),
	RunE:  runGalleryExport,
}

func runGalleryExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format := export.Format(formatName)
	if !format.Valid() {
		return fmt.Errorf("unknown export format %q: use pdf, docx, or txt", formatName)
	}

	cfg := loadConfig()
	if cmd.Flags().Changed("output-dir") {
		cfg.Export.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := findDocument(st, args[0])
	if err != nil {
		return err
	}

	doc := export.TextDocument{Title: rec.Title, Text: rec.Text, Created: rec.CreatedAt}
	path, err := export.WriteDocument(cfg.Export.OutputDir, doc, format)
	if err != nil {
		return err
	}
	fmt.Printf("exported: %s\n", path)
	return nil
}

// --- delete subcommand ---

var galleryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGalleryDelete,
}

func runGalleryDelete(cmd *cobra.Command, args []string) error {
	st, err := store.New(loadConfig().Store)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted: %s\n", args[0])
	return nil
}

// findDocument looks up one record by ID.
func findDocument(st store.Store, id string) (types.DocumentRecord, error) {
	records, err := st.List(context.Background())
	if err != nil {
		return types.DocumentRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return types.DocumentRecord{}, fmt.Errorf("no document with ID %q", id)
}

func init() {
	galleryListCmd.Flags().Bool("json", false, "output the list as JSON")

	galleryExportCmd.Flags().String("format", "txt", "export format: pdf, docx, or txt")
	galleryExportCmd.Flags().String("output-dir", "", "directory for exported files")

	galleryCmd.AddCommand(galleryListCmd)
	galleryCmd.AddCommand(galleryShowCmd)
	galleryCmd.AddCommand(galleryExportCmd)
	galleryCmd.AddCommand(galleryDeleteCmd)

	rootCmd.AddCommand(galleryCmd)
}
