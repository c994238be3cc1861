package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// CashBookHeader is the header row of the native voucher CSV.
const CashBookHeader = "date,type,account,particulars,cash,bank,discount,contra,direction,opening"

// CashBookParser parses the native voucher CSV, one voucher per row.
type CashBookParser struct{}

const (
	cbNumFields   = 10
	cbColDate     = 0
	cbColType     = 1
	cbColAccount  = 2
	cbColParts    = 3
	cbColCash     = 4
	cbColBank     = 5
	cbColDiscount = 6
	cbColContra   = 7
	cbColDir      = 8
	cbColOpening  = 9
)

// Format returns the parser name.
func (p *CashBookParser) Format() string { return "cashbook" }

// Matches reports whether header is CashBookHeader.
func (p *CashBookParser) Matches(header []string) bool {
	return slices.Equal(normalizeHeader(header), strings.Split(CashBookHeader, ","))
}

// Parse reads a voucher CSV. Empty amount cells are zero.
func (p *CashBookParser) Parse(r io.Reader) ([]model.CashBookEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = cbNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading cash book CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var vouchers []model.CashBookEntry
	for i, rec := range records[1:] {
		v, err := parseCashBookRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, nil
}

func parseCashBookRow(rec []string) (model.CashBookEntry, error) {
	date, err := model.ParseDate(rec[cbColDate])
	if err != nil {
		return model.CashBookEntry{}, fmt.Errorf("parsing date %q: %w", rec[cbColDate], err)
	}
	vt, err := model.ParseVoucherType(rec[cbColType])
	if err != nil {
		return model.CashBookEntry{}, err
	}

	v := model.CashBookEntry{
		Date:        date,
		Type:        vt,
		AccountName: strings.TrimSpace(rec[cbColAccount]),
		Particulars: strings.TrimSpace(rec[cbColParts]),
	}
	for _, f := range []struct {
		col int
		dst *decimal.Decimal
	}{
		{cbColCash, &v.CashAmount},
		{cbColBank, &v.BankAmount},
		{cbColDiscount, &v.DiscountAmount},
	} {
		if *f.dst, err = parseAmount(rec[f.col]); err != nil {
			return model.CashBookEntry{}, err
		}
	}
	if v.IsContra, err = parseFlag(rec[cbColContra]); err != nil {
		return model.CashBookEntry{}, err
	}
	if v.IsOpeningBalance, err = parseFlag(rec[cbColOpening]); err != nil {
		return model.CashBookEntry{}, err
	}
	if s := strings.TrimSpace(rec[cbColDir]); s != "" {
		if v.ContraDirection, err = model.ParseContraDirection(s); err != nil {
			return model.CashBookEntry{}, err
		}
	}
	return v, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

func parseFlag(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parsing flag %q: %w", s, err)
	}
	return b, nil
}
