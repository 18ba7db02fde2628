// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultmaster/vaultmaster/internal/credential"
	"github.com/vaultmaster/vaultmaster/internal/database"
	"github.com/vaultmaster/vaultmaster/internal/db"
	"github.com/vaultmaster/vaultmaster/internal/i18n"
	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/model"
	"github.com/vaultmaster/vaultmaster/internal/quickunlock"
	"github.com/vaultmaster/vaultmaster/internal/tui"
)

// rekeyCmd represents the 'rekey' command.
// It verifies the caller's current credentials against the registered key
// digest and then replaces the database's composite key, either through
// the interactive editor or driven by flags.
var rekeyCmd = &cobra.Command{
	Use:   "rekey <database>",
	Short: "Change the credentials protecting a registered database",
	Long: `Verifies the current credentials of a registered database and replaces
its composite key. Without flags an interactive editor is started; with
flags the new key set is assembled non-interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := db.Get()
		rec, err := store.GetDatabase(args[0])
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf(i18n.T("rekey.unknown_database"), args[0])
			}
			return err
		}

		currentKeyfile, _ := cmd.Flags().GetString("current-keyfile")
		current, err := assembleCurrentKey(rec, currentKeyfile)
		if err != nil {
			return err
		}
		if rec.KeyDigest != "" && current.Digest() != rec.KeyDigest {
			return errors.New(i18n.T("rekey.wrong_credentials"))
		}

		dbase := database.Open(rec.PublicID, rec.Name, rec.Path, current, store)
		cache, err := quickunlock.NewCache()
		if err != nil {
			return err
		}

		interactive := !cmd.Flags().Changed("no-password") &&
			!cmd.Flags().Changed("keyfile") &&
			!cmd.Flags().Changed("remove-keyfile") &&
			!cmd.Flags().Changed("password")
		if interactive {
			return tui.RunCredentialEditor(dbase, cache, &appCfg, os.ReadFile, nil)
		}
		return rekeyWithFlags(cmd, store, rec, dbase, cache)
	},
}

func init() {
	rekeyCmd.Flags().Bool("password", false, "Prompt for a new password")
	rekeyCmd.Flags().Bool("no-password", false, "Drop the password component")
	rekeyCmd.Flags().String("keyfile", "", "Use the given key file as a component")
	rekeyCmd.Flags().Bool("remove-keyfile", false, "Drop the key file component")
	rekeyCmd.Flags().String("current-keyfile", "", "Key file unlocking the database today")
	rekeyCmd.Flags().BoolP("yes", "y", false, "Answer yes to all confirmations")
}

// assembleCurrentKey rebuilds the composite key currently protecting the
// database from the registered component kinds. Returns nil for a database
// that has never been keyed.
func assembleCurrentKey(rec *model.DatabaseRecord, currentKeyfile string) (*key.CompositeKey, error) {
	if rec.KeyDigest == "" {
		return nil, nil
	}
	ck := key.NewCompositeKey()
	for _, kind := range strings.Split(rec.KeyKinds, ",") {
		switch strings.TrimSpace(kind) {
		case model.KindPassword.String():
			pw, err := readPassword(i18n.T("prompt.current_password"))
			if err != nil {
				return nil, err
			}
			ck.AddKey(key.NewPasswordKey(pw))
		case model.KindKeyFile.String():
			if currentKeyfile == "" {
				return nil, errors.New(i18n.T("credential.error_no_keyfile"))
			}
			data, err := os.ReadFile(currentKeyfile)
			if err != nil {
				return nil, fmt.Errorf(i18n.T("credential.error_keyfile_read"), err)
			}
			fk, err := key.NewFileKey(currentKeyfile, data)
			if err != nil {
				return nil, err
			}
			ck.AddKey(fk)
		case model.KindChallengeResponse.String():
			// Hardware tokens cannot be driven non-interactively.
			return nil, errors.New(i18n.T("credential.error_no_token"))
		}
	}
	return ck, nil
}

// rekeyWithFlags drives the component editors from command-line flags and
// runs the save pipeline once.
func rekeyWithFlags(cmd *cobra.Command, store db.Store, rec *model.DatabaseRecord, dbase *database.Database, cache *quickunlock.Cache) error {
	assumeYes, _ := cmd.Flags().GetBool("yes")
	ctrl := credential.NewController(dbase, cache, cliConfirmer{assumeYes: assumeYes}, &appCfg, os.ReadFile)

	noPassword, _ := cmd.Flags().GetBool("no-password")
	wantPassword, _ := cmd.Flags().GetBool("password")
	switch {
	case noPassword:
		ctrl.Password().Remove()
	case wantPassword:
		ctrl.Password().BeginEdit()
		pw, err := readPassword(i18n.T("prompt.new_password"))
		if err != nil {
			return err
		}
		repeat, err := readPassword(i18n.T("prompt.repeat_password"))
		if err != nil {
			return err
		}
		ctrl.Password().SetPassword(pw, repeat)
	}

	keyfile, _ := cmd.Flags().GetString("keyfile")
	removeKeyfile, _ := cmd.Flags().GetBool("remove-keyfile")
	switch {
	case keyfile != "":
		ctrl.KeyFile().BeginEdit()
		ctrl.KeyFile().SetPath(keyfile)
	case removeKeyfile:
		ctrl.KeyFile().Remove()
	}

	if err := ctrl.Save(); err != nil {
		if errors.Is(err, credential.ErrUserDeclined) {
			fmt.Println(i18n.T("rekey.declined"))
			return nil
		}
		return fmt.Errorf(i18n.T("rekey.aborted"), err)
	}

	if !dbase.Modified() {
		fmt.Println(i18n.T("rekey.noop"))
		return nil
	}
	if err := store.LogAction(rec.Name, "REKEY", "kinds: "+currentKinds(dbase)); err != nil {
		log.Printf("failed to write audit entry: %v", err)
	}
	fmt.Println(i18n.T("rekey.success"))
	return nil
}

func currentKinds(dbase *database.Database) string {
	ck := dbase.CurrentKey()
	if ck == nil {
		return ""
	}
	names := make([]string, 0, 3)
	for _, kind := range ck.Kinds() {
		names = append(names, kind.String())
	}
	return strings.Join(names, ",")
}
