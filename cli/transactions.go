package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// transactionSource yields the transactions fed to categorize.
type transactionSource interface {
	// Header returns the column labels.
	Header() []string
	// Next returns the next transaction and its line, or io.EOF.
	Next() (rec []string, line int, err error)
}

type csvTransactions struct {
	r      *csv.Reader
	header []string
}

func readCSVTransactions(in io.Reader, comma rune) (*csvTransactions, error) {
	r := csv.NewReader(in)
	r.Comma = comma
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return &csvTransactions{r: r, header: header}, nil
}

func (c *csvTransactions) Header() []string { return c.header }

func (c *csvTransactions) Next() ([]string, int, error) {
	rec, err := c.r.Read()
	if err != nil {
		return nil, 0, err
	}
	line, _ := c.r.FieldPos(0)
	return rec, line, nil
}

// Columns of transactions read from OFX statements.
const (
	ofxPayeeColumn       = "name"
	ofxDescriptionColumn = "memo"
)

var ofxHeader = []string{"fitid", "date", "type", ofxPayeeColumn, ofxDescriptionColumn, "amount"}

type ofxTransactions struct {
	rows [][]string
	next int
}

// readOFXTransactions reads the bank and credit card statements of an OFX
// or QFX download.
func readOFXTransactions(in io.Reader) (*ofxTransactions, error) {
	resp, err := ofxgo.ParseResponse(in)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX: %w", err)
	}
	if len(resp.Bank) == 0 && len(resp.CreditCard) == 0 {
		return nil, fmt.Errorf("OFX file has no bank or credit card statements")
	}

	msgs := make([]ofxgo.Message, 0, len(resp.Bank)+len(resp.CreditCard))
	msgs = append(msgs, resp.Bank...)
	msgs = append(msgs, resp.CreditCard...)

	o := &ofxTransactions{}
	for _, msg := range msgs {
		var list *ofxgo.TransactionList
		switch stmt := msg.(type) {
		case *ofxgo.StatementResponse:
			list = stmt.BankTranList
		case *ofxgo.CCStatementResponse:
			list = stmt.BankTranList
		default:
			return nil, fmt.Errorf("unexpected OFX message %T", msg)
		}
		if list == nil {
			continue
		}

		for _, tr := range list.Transactions {
			name := string(tr.Name)
			if name == "" && tr.Payee != nil {
				name = string(tr.Payee.Name)
			}
			o.rows = append(o.rows, []string{
				string(tr.FiTID),
				tr.DtPosted.Format("2006-01-02"),
				tr.TrnType.String(),
				name,
				string(tr.Memo),
				formatAmount(&tr.TrnAmt.Rat),
			})
		}
	}
	return o, nil
}

func (o *ofxTransactions) Header() []string { return append([]string(nil), ofxHeader...) }

func (o *ofxTransactions) Next() ([]string, int, error) {
	if o.next >= len(o.rows) {
		return nil, 0, io.EOF
	}
	o.next++
	return o.rows[o.next-1], o.next, nil
}

// formatAmount renders an amount with at least two decimals, keeping any
// further digits.
func formatAmount(r *big.Rat) string {
	d := decimal.NewFromBigRat(r, 8)
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}

// isOFX reports whether filename looks like an OFX download.
func isOFX(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ofx", ".qfx":
		return true
	}
	return false
}
