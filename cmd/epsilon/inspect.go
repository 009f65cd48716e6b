package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/epsilon"
	"github.com/rawbytedev/epsilon/deser"
)

type inspection struct {
	Path           string `yaml:"path"`
	epsilon.Header `yaml:",inline"`
	PayloadOffset  int   `yaml:"payload_offset"`
	FileSize       int64 `yaml:"file_size"`
}

func inspectFile(path string) (*inspection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	s := deser.NewStream(bufio.NewReader(f))
	h, err := epsilon.ReadHeader(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &inspection{Path: path, Header: *h, PayloadOffset: s.Pos(), FileSize: fi.Size()}, nil
}

func (i *inspection) writeText(w io.Writer) {
	fmt.Fprintf(w, "path:           %s\n", i.Path)
	fmt.Fprintf(w, "magic:          %#016x\n", i.Magic)
	fmt.Fprintf(w, "version:        %d.%d\n", i.Major, i.Minor)
	fmt.Fprintf(w, "pointer width:  %d\n", i.PointerWidth)
	fmt.Fprintf(w, "type hash:      %#016x\n", i.TypeHash)
	fmt.Fprintf(w, "repr hash:      %#016x\n", i.ReprHash)
	fmt.Fprintf(w, "type name:      %s\n", i.TypeName)
	fmt.Fprintf(w, "payload:        %d bytes at offset %d\n", i.FileSize-int64(i.PayloadOffset), i.PayloadOffset)
}

func (a *app) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print the header of serialized files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q", format)
			}
			for _, path := range args {
				info, err := inspectFile(path)
				if err != nil {
					return err
				}
				if format == "yaml" {
					out, err := yaml.Marshal(info)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "---\n%s", out)
					continue
				}
				info.writeText(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().String("format", "text", "output format (text, yaml)")
	return cmd
}
