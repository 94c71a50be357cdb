package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jobos/frontend/internal/apiclient"
	"github.com/spf13/cobra"
)

func uploadsCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "uploads",
		Aliases: []string{"up"},
		Short:   "Manage uploaded documents",
	}

	cmd.AddCommand(uploadsListCmd(c))
	cmd.AddCommand(uploadsAddCmd(c))
	cmd.AddCommand(uploadsRmCmd(c))
	return cmd
}

func uploadsListCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.session()
			if err != nil {
				return err
			}

			uploads, err := c.uploads.List(cmd.Context(), sess)
			if err != nil {
				return userError(err, "Failed to fetch uploads")
			}

			out := cmd.OutOrStdout()
			if len(uploads) == 0 {
				fmt.Fprintln(out, "No documents uploaded yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tUPLOADED\tURL")
			for _, u := range uploads {
				uploaded := u.UploadedAt
				if t, ok := u.UploadedTime(); ok {
					uploaded = humanize.Time(t)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.FileName, u.FileType, uploaded, u.DownloadURL())
			}
			return tw.Flush()
		},
	}
}

func uploadsAddCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Upload a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.session()
			if err != nil {
				return err
			}

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", path)
			}

			name := filepath.Base(path)
			err = c.uploads.Upload(cmd.Context(), sess, apiclient.File{
				Name:        name,
				ContentType: mime.TypeByExtension(filepath.Ext(name)),
				Body:        f,
			})
			if err != nil {
				return userError(err, "Upload failed")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s)\n", name, humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}
}

func uploadsRmCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid upload id %q", args[0])
			}

			sess, err := c.session()
			if err != nil {
				return err
			}

			err = c.uploads.Delete(cmd.Context(), sess, id)
			if err != nil {
				return userError(err, "Failed to delete file")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted upload %d\n", id)
			return nil
		},
	}
}
