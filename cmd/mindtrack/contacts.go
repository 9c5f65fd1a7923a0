package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/mindtrack/internal/client"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage support contacts",
	Long:  `Add and list the people you can reach out to.`,
}

var listContactsCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openClient()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := c.ListContacts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list contacts: %w", err)
		}
		out := cmd.OutOrStdout()
		printSource(out, res.Source, res.RemoteErr)
		if len(res.Value) == 0 {
			fmt.Fprintln(out, "No contacts yet.")
			return nil
		}
		for _, ct := range res.Value {
			printContact(out, ct)
		}
		return nil
	},
}

var addContactCmd = &cobra.Command{
	Use:   "add [name] [email]",
	Short: "Add a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, store, err := openClient()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := c.CreateContact(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to add contact: %w", err)
		}
		out := cmd.OutOrStdout()
		printSource(out, res.Source, res.RemoteErr)
		printContact(out, res.Value)
		return nil
	},
}

func initContactsCmd() {
	contactsCmd.AddCommand(listContactsCmd, addContactCmd)
}

func printContact(out io.Writer, ct client.Contact) {
	fmt.Fprintf(out, "%s  %s <%s>\n", ct.ID, ct.ContactName, ct.ContactEmail)
}
