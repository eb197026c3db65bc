package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"keepsake/internal/config"
	"keepsake/internal/records"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all records",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter records.Status
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				parsed, ok := records.ParseStatus(trimmed)
				if !ok {
					return fmt.Errorf("unknown status %q (known: %s)",
						trimmed, joinStatuses(records.AllStatuses()))
				}
				filter = parsed
			}

			return ctx.withStore(func(cfg *config.Config, store *records.Store) error {
				all, err := store.GetAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("list records: %w", err)
				}
				out := cmd.OutOrStdout()

				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(all))
				for _, record := range all {
					if filter != "" && record.Status != filter {
						continue
					}
					rows = append(rows, []string{
						record.ID,
						record.Name,
						renderStatus(record.Status, colorize),
						record.CreatedAt.Local().Format("2006-01-02 15:04"),
						yesNo(record.Status == records.StatusReady),
					})
				}
				if len(rows) == 0 {
					if filter != "" {
						fmt.Fprintf(out, "No records with status %s.\n", filter)
					} else {
						fmt.Fprintln(out, "No records yet. Create one with `keepsake add`.")
					}
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Status", "Created", "World"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Only show records with this status")
	return cmd
}

func joinStatuses(statuses []records.Status) string {
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <record-id>",
		Short: "Display one record in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *records.Store) error {
				record, err := store.GetByID(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("load record: %w", err)
				}
				if record == nil {
					return fmt.Errorf("record %s not found", args[0])
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:        %s\n", record.ID)
				fmt.Fprintf(out, "Name:      %s\n", record.Name)
				fmt.Fprintf(out, "Status:    %s\n", record.Status)
				fmt.Fprintf(out, "Created:   %s\n", record.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Images:    %d\n", len(record.Images))
				if record.OperationID != "" {
					fmt.Fprintf(out, "Operation: %s\n", record.OperationID)
				}
				if record.WorldID != "" {
					fmt.Fprintf(out, "World:     %s\n", record.WorldID)
					fmt.Fprintf(out, "Splat:     %d bytes\n", len(record.PrimaryAsset))
					fmt.Fprintf(out, "Collider:  %d bytes\n", len(record.ColliderAsset))
				}
				if record.Edits != nil {
					fmt.Fprintf(out, "Edits:     %d objects, %d masks\n",
						len(record.Edits.Objects), len(record.Edits.Masks))
				}
				if record.Error != "" {
					fmt.Fprintf(out, "Error:     %s\n", record.Error)
				}
				return nil
			})
		},
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <image-dir>",
		Short: "Create a draft record from a directory of capture images",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("record name must not be empty")
			}

			images, err := readCaptureImages(args[1])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *records.Store) error {
				thumbnail := base64.StdEncoding.EncodeToString(images[0])
				record := records.NewRecord(name, images, thumbnail)
				if err := store.Save(cmd.Context(), record); err != nil {
					return fmt.Errorf("save record: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created record %s (%s)\n", record.ID, record.Name)
				return nil
			})
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete a record and its stored assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *records.Store) error {
				deleted, err := store.Delete(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("delete record: %w", err)
				}
				if !deleted {
					return fmt.Errorf("record %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %s\n", args[0])
				return nil
			})
		},
	}
}

// readCaptureImages loads the capture set from dir, sorted by filename so the
// orbit order is preserved.
func readCaptureImages(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if len(names) != records.CaptureImageCount {
		return nil, fmt.Errorf("expected %d capture images in %s, found %d",
			records.CaptureImageCount, dir, len(names))
	}

	images := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", name, err)
		}
		images = append(images, data)
	}
	return images, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
