// Command catalog exports and checks coupon catalog files, the YAML
// documents (optionally gzipped) read by the API from disk or S3.
package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"papalote/internal/coupon"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Manage coupon catalog files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExportCmd(), newCheckCmd())
	return root
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in catalog to a file",
		Long:  `Writes the built-in coupon catalog as YAML. Paths ending in .gz are gzipped.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := coupon.DefaultCatalog()
			if err != nil {
				return err
			}
			if err := writeCatalog(out, catalog); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d coupons to %s\n", catalog.Size(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "data/coupons/catalog.yaml.gz", "destination file")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a catalog file and list its coupons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := coupon.NewFileLoader(zerolog.Nop()).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, c := range catalog.Coupons() {
				fmt.Fprintf(w, "%-14s %s\n", c.Code, coupon.DisplayText(c))
			}
			fmt.Fprintf(w, "%d coupons OK\n", catalog.Size())
			return nil
		},
	}
}

func writeCatalog(path string, catalog *coupon.Catalog) (err error) {
	data, err := coupon.MarshalCatalog(catalog)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	var w io.Writer = file
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(file)
		defer func() {
			if closeErr := gz.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("failed to finish gzip stream: %w", closeErr)
			}
		}()
		w = gz
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
