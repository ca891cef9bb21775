// Command admin performs maintenance tasks against the trading database.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atharvakonge/stocksim/internal/auth"
	"github.com/atharvakonge/stocksim/internal/config"
	"github.com/atharvakonge/stocksim/internal/db"
	"github.com/atharvakonge/stocksim/internal/models"
	"github.com/atharvakonge/stocksim/internal/store"
)

func main() {
	_ = godotenv.Load()

	cmd := newRootCmd(os.Stdin, os.Stdout)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administer the stock trading simulator database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (overrides DB_DRIVER and DB_PATH)")

	open := func(ctx context.Context) (*db.DB, *config.Config, error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		if dbPath != "" {
			cfg.DB.Driver = string(db.SQLite)
			cfg.DB.Path = dbPath
		}
		database, err := db.Open(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		return database, cfg, nil
	}

	root.AddCommand(newMigrateCmd(open), newAddUserCmd(open), newHistoryCmd(open))
	return root
}

type openFunc func(ctx context.Context) (*db.DB, *config.Config, error)

func newMigrateCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, _, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", database.Dialect)
			return nil
		},
	}
}

func newAddUserCmd(open openFunc) *cobra.Command {
	var (
		username string
		password string
		cash     string
	)

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create an account, prompting for the password if omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if password == "" {
				fmt.Fprint(out, "Password: ")
				var err error
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(out)
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password cannot be empty")
			}

			database, cfg, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			startingCash := cfg.Cash()
			if cash != "" {
				startingCash, err = decimal.NewFromString(cash)
				if err != nil || startingCash.IsNegative() {
					return fmt.Errorf("invalid cash amount %q", cash)
				}
			}

			svc := auth.NewService(store.NewUserStore(database), startingCash)
			user, err := svc.Register(cmd.Context(), username, password, password)
			if errors.Is(err, models.ErrUsernameTaken) {
				return fmt.Errorf("user %s already exists", username)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "User %s created successfully with ID %d\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")
	cmd.Flags().StringVar(&cash, "cash", "", "starting cash (defaults to STARTING_CASH)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newHistoryCmd(open openFunc) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print a user's transactions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			database, _, err := open(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			user, err := store.NewUserStore(database).ByUsername(ctx, username)
			if err != nil {
				return fmt.Errorf("user %s: %w", username, err)
			}
			txs, err := store.NewLedger(database).History(ctx, database, user.ID)
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), txs)
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func writeHistory(out io.Writer, txs []models.Transaction) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIDE\tSYMBOL\tSHARES\tPRICE")
	for _, t := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			t.ID, t.Time.Format("2006-01-02 15:04:05"), t.Side(), t.Symbol, t.Shares, t.Price.StringFixed(2))
	}
	return w.Flush()
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
