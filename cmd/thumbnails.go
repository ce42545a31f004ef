package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// thumbnailsCmd represents the thumbnails command
var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails <bucket> <original-key>",
	Short: "Generate thumbnails for a stored image",
	Long: `Downloads an original image (its key must contain an /original/ segment), renders every
configured thumbnail size and prints the URL of the small rendition.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := bootstrap(ctx, bootstrapOptions{})
		if err != nil {
			return err
		}
		defer svc.logger.Sync()

		if !svc.thumbs.Available() {
			return fmt.Errorf("image engine unavailable, check thumbnail.enabled")
		}

		data, err := svc.objects.ReadFile(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		url, ok := svc.thumbs.Generate(ctx, args[0], args[1], data)
		if !ok {
			svc.logger.Warn("No small thumbnail produced", zap.String("key", args[1]))
			return fmt.Errorf("thumbnail generation skipped for %s", args[1])
		}
		return printJSON(map[string]any{
			"thumbnailUrl": url,
			"sizes":        svc.thumbs.Specs(),
		})
	},
}

func init() {
	RootCmd.AddCommand(thumbnailsCmd)
}
