package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"storage-gateway/feature/gateway"

	"github.com/spf13/cobra"
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <bucket> <key> <file>",
	Short: "Upload a local file",
	Long:  `Uploads a file through the gateway (size and content-type checks apply) and prints the result with a presigned URL.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[2], err)
		}

		contentType, _ := cmd.Flags().GetString("content-type")
		if contentType == "" {
			contentType = detectContentType(args[2], data)
		}
		uploadedBy, _ := cmd.Flags().GetString("uploaded-by")
		scope, _ := cmd.Flags().GetString("scope")
		thumbs, _ := cmd.Flags().GetBool("thumbnails")

		return dispatch(cmd.Context(), gateway.OpUpload, gateway.Params{
			"bucket":           args[0],
			"key":              args[1],
			"data":             data,
			"contentType":      contentType,
			"uploadedBy":       uploadedBy,
			"entityScope":      scope,
			"originalFilename": filepath.Base(args[2]),
			"thumbnails":       thumbs,
		})
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <bucket>",
	Short: "List objects in a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, _ := cmd.Flags().GetString("prefix")
		limit, _ := cmd.Flags().GetInt("limit")
		marker, _ := cmd.Flags().GetString("marker")

		return dispatch(cmd.Context(), gateway.OpList, gateway.Params{
			"bucket": args[0],
			"prefix": prefix,
			"limit":  limit,
			"marker": marker,
		})
	},
}

// statCmd represents the stat command
var statCmd = &cobra.Command{
	Use:   "stat <bucket> <key>",
	Short: "Show object metadata",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd.Context(), gateway.OpStat, gateway.Params{"bucket": args[0], "key": args[1]})
	},
}

// urlCmd represents the url command
var urlCmd = &cobra.Command{
	Use:   "url <bucket> <key>",
	Short: "Issue a presigned download URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		expires, _ := cmd.Flags().GetInt("expires")
		return dispatch(cmd.Context(), gateway.OpGetURL, gateway.Params{
			"bucket":    args[0],
			"key":       args[1],
			"expiresIn": expires,
		})
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <bucket> <key>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd.Context(), gateway.OpDelete, gateway.Params{"bucket": args[0], "key": args[1]})
	},
}

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the storage backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd.Context(), gateway.OpHealth, nil)
	},
}

// detectContentType prefers the file extension and falls back to content sniffing.
func detectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

func init() {
	uploadCmd.Flags().String("content-type", "", "Content type (detected from the file when empty)")
	uploadCmd.Flags().String("uploaded-by", "", "Uploader id stored as object metadata")
	uploadCmd.Flags().String("scope", "", "Entity scope stored as object metadata")
	uploadCmd.Flags().Bool("thumbnails", false, "Generate thumbnails for image uploads")

	listCmd.Flags().String("prefix", "", "Only list keys with this prefix")
	listCmd.Flags().Int("limit", 0, "Page size (default 100, max 1000)")
	listCmd.Flags().String("marker", "", "Resume from the nextMarker of a previous page")

	urlCmd.Flags().Int("expires", 0, "URL lifetime in seconds (default from storage.presign_expiry_seconds)")

	RootCmd.AddCommand(uploadCmd, listCmd, statCmd, urlCmd, deleteCmd, healthCmd)
}
