// Package cli file operation commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridstash/gridstash/internal/models"
	"github.com/gridstash/gridstash/internal/progress"
	"github.com/gridstash/gridstash/internal/viewer"
)

// newFilesCmd creates the 'files' command group.
func newFilesCmd() *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "File operations (upload, list, view, delete)",
		Long:  `Commands for managing tabular files on the server.`,
	}

	filesCmd.AddCommand(newFilesListCmd())
	filesCmd.AddCommand(newFilesUploadCmd())
	filesCmd.AddCommand(newFilesViewCmd())
	filesCmd.AddCommand(newFilesDeleteCmd())

	return filesCmd
}

// newFilesListCmd creates the 'files list' command.
func newFilesListCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your files",
		Long: `List the files stored on the server.

Examples:
  # List all files
  gridstash files list

  # Case-insensitive substring filter on the name
  gridstash files list --filter report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			gateway, err := newGateway()
			if err != nil {
				return err
			}

			files, err := gateway.ListFiles(GetContext())
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}

			if filter != "" {
				term := strings.ToLower(filter)
				filtered := files[:0]
				for _, f := range files {
					if strings.Contains(strings.ToLower(f.Name), term) {
						filtered = append(filtered, f)
					}
				}
				files = filtered
			}

			if len(files) == 0 {
				fmt.Println("No files found.")
				return nil
			}

			fmt.Printf("Found %d file(s):\n\n", len(files))
			fmt.Printf("%-38s %-40s %-10s %-10s %s\n", "FILE ID", "NAME", "FORMAT", "SIZE", "UPLOADED")
			for _, f := range files {
				name := f.Name
				if len(name) > 40 {
					name = name[:37] + "..."
				}
				fmt.Printf("%-38s %-40s %-10s %-10s %s\n",
					f.ID, name, f.Format, f.HumanSize(), f.UploadedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Show only names containing this substring (case-insensitive)")

	return cmd
}

// newFilesUploadCmd creates the 'files upload' command.
func newFilesUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file> [file...]",
		Short: "Upload files to the server",
		Long: `Upload one or more tabular files (csv, xlsx, xls, parquet).

Examples:
  # Upload a single file
  gridstash files upload data.csv

  # Upload several files
  gridstash files upload q1.csv q2.csv q3.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			gateway, err := newGateway()
			if err != nil {
				return err
			}

			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("cannot read %s: %w", path, err)
				}

				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("cannot open %s: %w", path, err)
				}

				name := filepath.Base(path)
				reporter := progress.NewCLIProgress()
				reporter.Start(info.Size(), "Uploading "+name)

				err = gateway.UploadFile(GetContext(), name, progress.NewReader(f, reporter))
				reporter.Finish()
				f.Close()
				if err != nil {
					return fmt.Errorf("upload of %s failed: %w", name, err)
				}

				fmt.Printf("✓ Uploaded %s\n", name)
			}
			return nil
		},
	}

	return cmd
}

// newFilesViewCmd creates the 'files view' command.
func newFilesViewCmd() *cobra.Command {
	var page int
	var pageSize int

	cmd := &cobra.Command{
		Use:   "view <file-id>",
		Short: "Print one page of a file's rows",
		Long: `Fetch and print one page of parsed rows from a file.

Examples:
  # First page
  gridstash files view 1f0c...

  # A later page
  gridstash files view 1f0c... --page 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			if page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", page)
			}
			if pageSize < 1 {
				return fmt.Errorf("--page-size must be at least 1, got %d", pageSize)
			}

			gateway, err := newGateway()
			if err != nil {
				return err
			}

			filePage, err := gateway.ReadFilePage(GetContext(), args[0], page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to read file page: %w", err)
			}

			printPage(filePage)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", viewer.PageSize, "Rows per page")

	return cmd
}

// printPage renders a fetched page as a fixed-width table.
func printPage(p *models.FilePage) {
	fmt.Printf("%s (%s) - page %d, %d total rows\n\n", p.FileName, p.Format, p.Page, p.TotalRows)

	if len(p.Rows) == 0 {
		fmt.Println("No rows on this page.")
		return
	}

	cols := models.Columns(p.Rows)
	for _, col := range cols {
		fmt.Printf("%-20s ", col)
	}
	fmt.Println()

	for _, row := range p.Rows {
		for _, col := range cols {
			cell := "-"
			if v := row[col]; v != nil {
				cell = fmt.Sprintf("%v", v)
			}
			if len(cell) > 20 {
				cell = cell[:17] + "..."
			}
			fmt.Printf("%-20s ", cell)
		}
		fmt.Println()
	}
}

// newFilesDeleteCmd creates the 'files delete' command.
func newFilesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <file-id> [file-id...]",
		Short: "Delete files from the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			if !yes {
				fmt.Printf("You are about to delete %d file(s). This cannot be undone.\n", len(args))
				answer, err := promptLine("Continue? [y/N]: ")
				if err != nil {
					return err
				}
				if strings.ToLower(answer) != "y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			gateway, err := newGateway()
			if err != nil {
				return err
			}

			for i, fileID := range args {
				fmt.Printf("[%d/%d] Deleting file %s...\n", i+1, len(args), fileID)
				if err := gateway.DeleteFile(GetContext(), fileID); err != nil {
					return fmt.Errorf("failed to delete %s: %w", fileID, err)
				}
			}

			fmt.Printf("✓ Deleted %d file(s)\n", len(args))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
