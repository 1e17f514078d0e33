// Command ledger is a small operational front end for the ledger engine:
// open accounts, move money, inspect history.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/openbank/ledger/infra/initializer"
	"github.com/openbank/ledger/pkg/commands"
	domainaccount "github.com/openbank/ledger/pkg/domain/account"
)

func usage() {
	fmt.Println("Usage: ledger <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  create <owner_id> <type> [initial_balance]")
	fmt.Println("  balance <account_id>")
	fmt.Println("  deposit <account_id> <amount> [description]")
	fmt.Println("  withdraw <account_id> <amount> [description]")
	fmt.Println("  transfer <from_account_id> <to_account_number> <amount> [description]")
	fmt.Println("  history <account_id> [limit]")
	fmt.Println("  freeze|unfreeze|close <account_id>")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	app, err := initializer.Initialize()
	if err != nil {
		fmt.Println("Failed to initialize:", err)
		os.Exit(1)
	}
	ctx := context.Background()

	switch cmd {
	case "create":
		if len(args) < 2 {
			usage()
			return
		}
		ownerID := uuid.MustParse(args[0])
		initial := 0.0
		if len(args) > 2 {
			initial, err = strconv.ParseFloat(args[2], 64)
			if err != nil {
				fmt.Println("Invalid amount:", err)
				return
			}
		}
		acct, err := app.Accounts.Create(ctx, commands.CreateAccountCommand{
			OwnerID:        ownerID,
			Type:           args[1],
			InitialBalance: initial,
		})
		if err != nil {
			fmt.Println("Error creating account:", err)
			return
		}
		fmt.Printf("Account created: ID=%s Number=%s Balance=%.2f %s\n",
			acct.ID, acct.Number, acct.Balance, acct.Currency)

	case "balance":
		if len(args) < 1 {
			usage()
			return
		}
		acct, err := app.Accounts.Get(ctx, uuid.MustParse(args[0]))
		if err != nil {
			fmt.Println("Error fetching account:", err)
			return
		}
		fmt.Printf("Account %s (%s): %.2f %s [%s]\n",
			acct.Number, acct.Type, acct.Balance, acct.Currency, acct.Status)

	case "deposit", "withdraw":
		if len(args) < 2 {
			usage()
			return
		}
		accountID := uuid.MustParse(args[0])
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Println("Invalid amount:", err)
			return
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		if cmd == "deposit" {
			entry, err := app.Ledger.Deposit(ctx, commands.DepositCommand{
				AccountID: accountID, Amount: amount, Description: description,
			})
			if err != nil {
				fmt.Println("Error depositing:", err)
				return
			}
			fmt.Printf("Deposited %.2f, reference %s\n", amount, entry.Reference)
		} else {
			entry, err := app.Ledger.Withdraw(ctx, commands.WithdrawCommand{
				AccountID: accountID, Amount: amount, Description: description,
			})
			if err != nil {
				fmt.Println("Error withdrawing:", err)
				return
			}
			fmt.Printf("Withdrew %.2f, reference %s\n", amount, entry.Reference)
		}

	case "transfer":
		if len(args) < 3 {
			usage()
			return
		}
		fromID := uuid.MustParse(args[0])
		amount, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			fmt.Println("Invalid amount:", err)
			return
		}
		description := ""
		if len(args) > 3 {
			description = args[3]
		}
		pair, err := app.Ledger.Transfer(ctx, commands.TransferCommand{
			FromAccountID:   fromID,
			ToAccountNumber: args[1],
			Amount:          amount,
			Description:     description,
		})
		if err != nil {
			fmt.Println("Error transferring:", err)
			return
		}
		fmt.Printf("Transferred %.2f, references %s / %s\n",
			amount, pair.Outgoing.Reference, pair.Incoming.Reference)

	case "history":
		if len(args) < 1 {
			usage()
			return
		}
		limit := 10
		if len(args) > 1 {
			limit, err = strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("Invalid limit:", err)
				return
			}
		}
		entries, err := app.Ledger.History(ctx, uuid.MustParse(args[0]), limit)
		if err != nil {
			fmt.Println("Error fetching history:", err)
			return
		}
		for _, e := range entries {
			fmt.Printf("%s  %-10s %10.2f %s  %s  %s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.Type, e.Amount, e.Currency, e.Reference, e.Description)
		}

	case "freeze", "unfreeze", "close":
		if len(args) < 1 {
			usage()
			return
		}
		target := map[string]domainaccount.Status{
			"freeze":   domainaccount.StatusFrozen,
			"unfreeze": domainaccount.StatusActive,
			"close":    domainaccount.StatusClosed,
		}[cmd]
		if err := app.Accounts.SetStatus(ctx, uuid.MustParse(args[0]), target); err != nil {
			fmt.Println("Error changing status:", err)
			return
		}
		fmt.Printf("Account status set to %s\n", target)

	default:
		usage()
	}
}
