// Package ingest reads batches of ledger operations from CSV and
// applies them through a ledger.Ledger, isolating row-level failures
// the way the teaching full node isolated one bad transaction from
// sinking an entire received batch.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/oroshi/ledger/ledger"
	"github.com/oroshi/ledger/model"
)

// Row is one parsed CSV record: type,client,tx,amount. Type is
// lower-cased on parse, so "Deposit" and "DEPOSIT" match the same case
// in Apply's switch as "deposit". amount is unset (zero) for dispute,
// resolve and chargeback rows.
type Row struct {
	Type      string
	Client    model.AccountID
	Reference string
	Amount    model.Amount
}

// Result summarizes one Batch call: how many rows succeeded, and the
// per-row errors for the ones that did not. Len(Failed) rows were
// skipped; every other row in the batch was applied. BatchID has no
// bearing on ledger state; it exists only to correlate this batch's
// log lines, the way the teaching full node tags its own log lines
// with a uuid that plays no role in consensus.
type Result struct {
	BatchID string
	Applied int
	Failed  []RowError
}

// RowError pairs a 1-based CSV row number (header excluded) with the
// error that row produced.
type RowError struct {
	Row int
	Err error
}

// Batch reads CSV rows from r with header "type,client,tx,amount" and
// applies each to l in order. A malformed or rejected row is recorded
// in the result and does not stop the batch; rows after it still run.
//
// batchSize controls how often a progress line is logged at info
// level (every batchSize applied rows); 0 disables it. Every applied
// row is logged at debug and every failed row at warn, regardless of
// batchSize.
func Batch(l *ledger.Ledger, r io.Reader, log *logrus.Logger, batchSize int) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, errors.Wrap(err, "reading header")
	}
	if err := checkHeader(header); err != nil {
		return Result{}, err
	}

	result := Result{BatchID: uuid.NewV4().String()}
	var batchLog *logrus.Entry
	if log != nil {
		batchLog = log.WithField("batch", result.BatchID)
	}

	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Failed = append(result.Failed, RowError{Row: rowNum, Err: err})
			if batchLog != nil {
				batchLog.WithField("row", rowNum).WithError(err).Warn("ingest: malformed row")
			}
			continue
		}

		if err := applyRecord(l, record); err != nil {
			result.Failed = append(result.Failed, RowError{Row: rowNum, Err: err})
			if batchLog != nil {
				batchLog.WithField("row", rowNum).WithError(err).Warn("ingest: row rejected")
			}
			continue
		}
		result.Applied++
		if batchLog != nil {
			batchLog.WithField("row", rowNum).Debug("ingest: row applied")
			if batchSize > 0 && result.Applied%batchSize == 0 {
				batchLog.WithField("applied", result.Applied).Info("ingest: progress")
			}
		}
	}
	return result, nil
}

// ReadRows parses every row of a CSV with header
// "type,client,tx,amount" into memory, for callers that want to
// replay rows one at a time (the watch dashboard) rather than apply
// a whole batch at once with Batch.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading row")
		}
		if len(record) != 4 {
			return nil, errors.Errorf("row has %d columns, want 4", len(record))
		}
		row, err := parseRow(record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Apply runs one already-parsed Row against l.
func Apply(l *ledger.Ledger, row Row) error {
	switch row.Type {
	case "deposit":
		_, err := l.Deposit(row.Client, row.Reference, row.Amount)
		return err
	case "withdrawal":
		_, err := l.Withdraw(row.Client, row.Reference, row.Amount)
		return err
	case "dispute":
		_, err := l.Dispute(row.Client, row.Reference)
		return err
	case "resolve":
		_, err := l.Resolve(row.Client, row.Reference)
		return err
	case "chargeback":
		_, err := l.Chargeback(row.Client, row.Reference)
		return err
	default:
		return errors.Errorf("unknown row type %q", row.Type)
	}
}

func checkHeader(header []string) error {
	want := []string{"type", "client", "tx", "amount"}
	if len(header) != len(want) {
		return errors.Errorf("header has %d columns, want %d", len(header), len(want))
	}
	for i, col := range want {
		if header[i] != col {
			return errors.Errorf("header column %d is %q, want %q", i, header[i], col)
		}
	}
	return nil
}

func applyRecord(l *ledger.Ledger, record []string) error {
	if len(record) != 4 {
		return errors.Errorf("row has %d columns, want 4", len(record))
	}

	row, err := parseRow(record)
	if err != nil {
		return err
	}
	return Apply(l, row)
}

func parseRow(record []string) (Row, error) {
	client, err := strconv.ParseUint(record[1], 10, 64)
	if err != nil {
		return Row{}, errors.Wrapf(err, "parsing client %q", record[1])
	}

	row := Row{
		Type:      strings.ToLower(strings.TrimSpace(record[0])),
		Client:    model.AccountID(client),
		Reference: record[2],
	}

	if record[3] != "" {
		amount, err := strconv.ParseUint(record[3], 10, 64)
		if err != nil {
			return Row{}, errors.Wrapf(err, "parsing amount %q", record[3])
		}
		row.Amount = model.Amount(amount)
	}
	return row, nil
}
