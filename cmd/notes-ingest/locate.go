// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print the Notes database path that would be read",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := notesConfig(cmd)
		reader, err := newReader(cmd, cfg)
		if err != nil {
			return err
		}
		path, err := reader.Locate(cfg.DBPath)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	locateCmd.Flags().String("db", "", "path to the Notes database (auto-detected if empty)")

	rootCmd.AddCommand(locateCmd)
}
