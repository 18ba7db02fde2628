// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultmaster/vaultmaster/internal/db"
	"github.com/vaultmaster/vaultmaster/internal/i18n"
)

// backupCmd writes a compressed snapshot of the registry and audit log.
var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Write a compressed backup of the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if err := db.WriteBackup(db.Get(), f); err != nil {
			return err
		}
		fmt.Printf(i18n.T("backup.written")+"\n", args[0])
		return nil
	},
}

// restoreCmd replaces the registry contents with a backup snapshot.
var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore the registry from a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answer := promptForConfirmation("This replaces all registry data. Continue?")
		if answer != "y" && answer != "yes" {
			fmt.Println(i18n.T("rekey.declined"))
			return nil
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if err := db.Restore(db.Get(), f); err != nil {
			return err
		}
		fmt.Printf(i18n.T("backup.restored")+"\n", args[0])
		return nil
	},
}
