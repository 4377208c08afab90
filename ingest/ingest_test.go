package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oroshi/ledger/ingest"
	"github.com/oroshi/ledger/ledger"
	"github.com/oroshi/ledger/model"
	"github.com/oroshi/ledger/storage"
)

func TestBatchAppliesEveryRowInOrder(t *testing.T) {
	s := storage.NewMemory()
	l := ledger.New(s)

	csv := "type,client,tx,amount\n" +
		"deposit,1,d1,100\n" +
		"deposit,1,d2,50\n" +
		"withdrawal,1,w1,30\n"

	result, err := ingest.Batch(l, strings.NewReader(csv), nil, 0)
	require.NoError(t, err)
	require.Equal(t, 3, result.Applied)
	require.Empty(t, result.Failed)

	balances, err := l.GetBalances()
	require.NoError(t, err)
	require.Equal(t, model.Amount(120), balances[1])
}

func TestBatchIsolatesBadRows(t *testing.T) {
	s := storage.NewMemory()
	l := ledger.New(s)

	csv := "type,client,tx,amount\n" +
		"deposit,1,d1,100\n" +
		"withdrawal,1,w1,999\n" + // insufficient balance
		"deposit,1,d2,10\n" +
		"bogus,1,d3,10\n" // unknown type

	result, err := ingest.Batch(l, strings.NewReader(csv), nil, 0)
	require.NoError(t, err)
	require.Equal(t, 2, result.Applied)
	require.Len(t, result.Failed, 2)
	require.Equal(t, 2, result.Failed[0].Row)
	require.Equal(t, 4, result.Failed[1].Row)

	balances, err := l.GetBalances()
	require.NoError(t, err)
	require.Equal(t, model.Amount(110), balances[1])
}

func TestBatchDisputeResolveChargebackRows(t *testing.T) {
	s := storage.NewMemory()
	l := ledger.New(s)

	csv := "type,client,tx,amount\n" +
		"deposit,1,d1,100\n" +
		"dispute,1,d1,\n" +
		"resolve,1,d1,\n" +
		"dispute,1,d1,\n" +
		"chargeback,1,d1,\n"

	result, err := ingest.Batch(l, strings.NewReader(csv), nil, 0)
	require.NoError(t, err)
	require.Empty(t, result.Failed)
	require.Equal(t, 5, result.Applied)

	balances, err := l.GetBalances()
	require.NoError(t, err)
	require.Equal(t, model.Amount(0), balances[1])
}

func TestBatchRejectsWrongHeader(t *testing.T) {
	s := storage.NewMemory()
	l := ledger.New(s)

	_, err := ingest.Batch(l, strings.NewReader("a,b,c,d\n"), nil, 0)
	require.Error(t, err)
}
