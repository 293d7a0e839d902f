// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shivamvadalia/libraryms/internal/db"
	"github.com/shivamvadalia/libraryms/internal/i18n"
	"github.com/shivamvadalia/libraryms/internal/model"
)

// withStore opens the configured database and runs fn in one session.
func withStore(cmd *cobra.Command, fn func(s db.Store) error) error {
	handle, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = handle.Close() }()
	return handle.WithStore(cmd.Context(), fn)
}

// notFound replaces db.ErrNotFound with the localized message for key.
func notFound(err error, key string) error {
	if errors.Is(err, db.ErrNotFound) {
		return errors.New(i18n.T(key))
	}
	return err
}

// parseID parses a positional id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New(i18n.T("invalid_identifier", "id"))
	}
	return id, nil
}

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Manage books (list, add, edit, delete)",
		Long: `The 'book' command group works on the configured database directly,
without going through the HTTP API.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all books",
		Long:  `Display all books in table format. --search filters by title or author.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			return withStore(cmd, func(s db.Store) error {
				books, err := s.GetAllBooks(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list books: %w", err)
				}
				if search != "" {
					needle := strings.ToLower(search)
					filtered := []model.Book{}
					for _, b := range books {
						if strings.Contains(strings.ToLower(b.Title), needle) ||
							strings.Contains(strings.ToLower(b.Author), needle) {
							filtered = append(filtered, b)
						}
					}
					books = filtered
				}
				printBooks(cmd.OutOrStdout(), books)
				return nil
			})
		},
	}
	list.Flags().String("search", "", "Only show books whose title or author contains this text")

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			author, _ := cmd.Flags().GetString("author")
			return withStore(cmd, func(s db.Store) error {
				b, err := s.AddBook(cmd.Context(), title, author)
				if err != nil {
					return fmt.Errorf("failed to add book: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added book %d\n", b.ID)
				return nil
			})
		},
	}
	add.Flags().String("title", "", "Book title")
	add.Flags().String("author", "", "Book author")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace the title and author of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			title, _ := cmd.Flags().GetString("title")
			author, _ := cmd.Flags().GetString("author")
			return withStore(cmd, func(s db.Store) error {
				b, err := s.EditBook(cmd.Context(), id, title, author)
				if err != nil {
					return notFound(err, "book_not_found")
				}
				printBooks(cmd.OutOrStdout(), []model.Book{*b})
				return nil
			})
		},
	}
	edit.Flags().String("title", "", "New title")
	edit.Flags().String("author", "", "New author")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(s db.Store) error {
				if err := s.DeleteBook(cmd.Context(), id); err != nil {
					return notFound(err, "book_not_found")
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("book_deleted"))
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, edit, del)
	return cmd
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users (list, add, edit, delete, history)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s db.Store) error {
				users, err := s.GetAllUsers(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list users: %w", err)
				}
				if len(users) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUSERNAME")
				for _, u := range users {
					fmt.Fprintf(w, "%d\t%s\n", u.ID, u.Username)
				}
				return w.Flush()
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Add a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s db.Store) error {
				u, err := s.AddUser(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to add user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added user %d\n", u.ID)
				return nil
			})
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id> <username>",
		Short: "Rename a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(s db.Store) error {
				u, err := s.EditUser(cmd.Context(), id, args[1])
				if err != nil {
					return notFound(err, "user_not_found")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %d is now %q\n", u.ID, u.Username)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(s db.Store) error {
				if err := s.DeleteUser(cmd.Context(), id); err != nil {
					return notFound(err, "user_not_found")
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("user_deleted"))
				return nil
			})
		},
	}

	history := &cobra.Command{
		Use:   "history <id>",
		Short: "List the checkouts of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(s db.Store) error {
				txs, err := s.GetTransactionsForUser(cmd.Context(), id)
				if err != nil {
					return notFound(err, "user_not_found")
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tBOOK_ID\tCHECKOUT_DATE")
				for _, t := range txs {
					fmt.Fprintf(w, "%d\t%d\t%s\n", t.ID, t.BookID, t.CheckoutDate)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(list, add, edit, del, history)
	return cmd
}

func newCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout <user-id> <book-id>",
		Short: "Record that a user checked out a book",
		Long: `Records a checkout. --date defaults to today (YYYY-MM-DD) and is stored
as given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			bookID, err := parseID(args[1])
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			return withStore(cmd, func(s db.Store) error {
				t, err := s.CheckoutBook(cmd.Context(), userID, bookID, date)
				if err != nil {
					return notFound(err, "user_or_book_not_found")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checkout %d recorded\n", t.ID)
				return nil
			})
		},
	}
	cmd.Flags().String("date", "", "Checkout date (default today)")
	return cmd
}

func newCheckedOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checked-out",
		Short: "List all checkouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s db.Store) error {
				recs, err := s.GetCheckedOut(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list checkouts: %w", err)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "USER_ID\tBOOK_ID\tCHECKOUT_DATE")
				for _, r := range recs {
					fmt.Fprintf(w, "%d\t%d\t%s\n", r.UserID, r.BookID, r.CheckoutDate)
				}
				return w.Flush()
			})
		},
	}
}

func printBooks(out io.Writer, books []model.Book) {
	if len(books) == 0 {
		fmt.Fprintln(out, "No books found.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR")
	for _, b := range books {
		fmt.Fprintf(w, "%d\t%s\t%s\n", b.ID, b.Title, b.Author)
	}
	_ = w.Flush()
}
