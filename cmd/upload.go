package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/fyerfyer/doc-dashboard/internal/services"
	"github.com/spf13/cobra"
)

func newUploadCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Add files to the collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := setupApplication(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			failed := 0
			for _, path := range args {
				doc, err := uploadFile(cmd, app.service, path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d pages\n", doc.ID, doc.Title, doc.PageCount())
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(args))
			}
			return nil
		},
	}
}

func uploadFile(cmd *cobra.Command, service *services.DashboardService, path string) (models.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Document{}, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, err
	}

	return service.Upload(cmd.Context(), services.FileUpload{
		Name:         filepath.Base(path),
		DeclaredType: mime.TypeByExtension(filepath.Ext(path)),
		Size:         stat.Size(),
		Body:         file,
	})
}
