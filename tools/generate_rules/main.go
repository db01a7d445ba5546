// Rule Sheet Generator
//
// This tool generates a large rule sheet, or transactions to categorize with
// it, for performance testing and profiling of rule loading and matching.
//
// Every payee gets several unique descriptions plus a description catch-all,
// and the sheet ends with the universal catch-all. Payee and description keys
// never contain each other, so the sheet always validates.
//
// Usage:
//
//	go run main.go rules > rules.csv
//	go run main.go rules 5000 > rules.csv          # Specify number of payees
//	go run main.go transactions 5000 > txns.csv    # Transactions for the same payees
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
)

const (
	defaultPayees          = 1000
	descriptionsPerPayee   = 8
	transactionsPerPayee   = 20
	unknownTransactionRate = 10 // percent
)

var (
	accounts = []string{
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurant",
		"Expenses:Housing:Rent",
		"Expenses:Housing:Utilities",
		"Expenses:Transport:Gas",
		"Expenses:Transport:Transit",
		"Expenses:Shopping:Clothing",
		"Expenses:Shopping:Electronics",
		"Expenses:Entertainment:Movies",
		"Expenses:Healthcare:Medical",
		"Income:Salary",
		"Income:Investments:Dividends",
	}

	banks = []string{
		"Assets:Bank:Checking",
		"Assets:Bank:Savings",
		"Liabilities:CreditCard:Visa",
	}

	payees = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "Chevron", "BART", "Uber",
		"Landlord", "PG&E", "Comcast", "AT&T",
		"Amazon", "Target", "Best Buy", "Apple Store",
		"Netflix", "Spotify", "AMC Theaters",
		"Employer Inc", "Fidelity", "Vanguard",
	}

	narrations = []string{
		"Grocery shopping", "Fuel purchase", "Rent payment",
		"Salary deposit", "Stock purchase", "Utility bill",
		"Online purchase", "Restaurant dinner", "Coffee",
		"Monthly subscription", "Medical appointment",
		"Dividend payment", "Insurance premium", "Gift",
	}
)

func main() {
	if len(os.Args) < 2 {
		_, _ = fmt.Fprintln(os.Stderr, "usage: generate_rules rules|transactions [payees]")
		os.Exit(2)
	}

	count := defaultPayees
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			count = n
		}
	}

	// A fixed seed keeps rules and transactions generated separately in sync.
	rng := rand.New(rand.NewSource(1))
	w := csv.NewWriter(os.Stdout)

	var err error
	switch os.Args[1] {
	case "rules":
		err = writeRules(w, rng, count)
	case "transactions":
		err = writeTransactions(w, rng, count)
	default:
		err = fmt.Errorf("unknown kind %q", os.Args[1])
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// payee and description keys end in a unique "#number", so no key contains
// another one.
func payee(i int) string {
	return fmt.Sprintf("%s #%06d", payees[i%len(payees)], i)
}

func description(i, j int) string {
	return fmt.Sprintf("%s #%06d", narrations[(i+j)%len(narrations)], i*descriptionsPerPayee+j)
}

func writeRules(w *csv.Writer, rng *rand.Rand, count int) error {
	if err := w.Write([]string{"payee", "description", "account-source", "account-destination"}); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		bank := banks[rng.Intn(len(banks))]
		for j := 0; j < descriptionsPerPayee; j++ {
			row := []string{payee(i), description(i, j), accounts[rng.Intn(len(accounts))], bank}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if err := w.Write([]string{payee(i), "", accounts[rng.Intn(len(accounts))], bank}); err != nil {
			return err
		}
	}

	return w.Write([]string{"", "", "Expenses:FIXME", "Assets:FIXME"})
}

func writeTransactions(w *csv.Writer, rng *rand.Rand, count int) error {
	if err := w.Write([]string{"payee", "description"}); err != nil {
		return err
	}

	for n := 0; n < count*transactionsPerPayee; n++ {
		i := rng.Intn(count)
		row := []string{payee(i), description(i, rng.Intn(descriptionsPerPayee))}
		switch rng.Intn(100 / unknownTransactionRate) {
		case 0:
			row[0] = "Unknown shop"
		case 1:
			row[1] = "Unlisted purchase"
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
