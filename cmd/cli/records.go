package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <db> <store> <key> <value>",
		Short: "Write a record",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rs, err := openRecords()
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, rs.Close()) }()

			if err := rs.Save(cmd.Context(), args[0], args[1], args[2], []byte(args[3])); err != nil {
				return fmt.Errorf("put %s/%s/%s: %w", args[0], args[1], args[2], err)
			}
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <db> <store> <key>",
		Short: "Read a record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rs, err := openRecords()
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, rs.Close()) }()

			v, found, err := rs.Load(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("get %s/%s/%s: %w", args[0], args[1], args[2], err)
			}
			if !found {
				return fmt.Errorf("get %s/%s/%s: not found", args[0], args[1], args[2])
			}
			_, err = cmd.OutOrStdout().Write(append(v, '\n'))
			return err
		},
	}
}
