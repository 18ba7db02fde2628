// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vaultmaster/vaultmaster/internal/db"
	"github.com/vaultmaster/vaultmaster/internal/i18n"
)

// databasesCmd groups the registry management subcommands.
var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "Manage the registry of encrypted databases",
}

var databasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered databases",
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := db.Get().GetAllDatabases()
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println(i18n.T("databases.none"))
			return nil
		}
		for _, rec := range recs {
			line := rec.String()
			if rec.KeyKinds != "" {
				line += "  [" + rec.KeyKinds + "]"
			}
			if !rec.ModifiedAt.IsZero() {
				line += "  modified " + rec.ModifiedAt.Format("2006-01-02 15:04")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var databasesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register an encrypted database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if _, err := db.Get().AddDatabase(uuid.NewString(), args[0], path); err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				return errors.New(i18n.T("databases.error_duplicate"))
			}
			return err
		}
		fmt.Printf(i18n.T("databases.added")+"\n", args[0])
		return nil
	},
}

var databasesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a database from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := db.Get()
		rec, err := store.GetDatabase(args[0])
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf(i18n.T("rekey.unknown_database"), args[0])
			}
			return err
		}
		if err := store.DeleteDatabase(rec.ID); err != nil {
			return err
		}
		fmt.Printf(i18n.T("databases.removed")+"\n", args[0])
		return nil
	},
}

// auditCmd prints the credential-management audit trail, newest first.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the credential-management audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := db.Get().GetAllAuditLogEntries()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %-20s %-10s %s\n", e.Timestamp, e.Database, e.Action, e.Details)
		}
		return nil
	},
}

func init() {
	databasesAddCmd.Flags().String("path", "", "On-disk location of the database file")
	databasesCmd.AddCommand(databasesListCmd)
	databasesCmd.AddCommand(databasesAddCmd)
	databasesCmd.AddCommand(databasesRemoveCmd)
}
