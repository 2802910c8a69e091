package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eursukkul/train-reservation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBookings() []models.Booking {
	return []models.Booking{
		{PNR: "482913", Name: "Asha Rao", Age: 31, TrainNo: "12001", TrainName: "Rajdhani Express",
			ClassType: "SL", SeatNo: 1, Fare: 400, Departure: "16:55"},
		{PNR: "105577", Name: "Kumar, Vijay", Age: 64, TrainNo: "12951", TrainName: "Gujarat Mail",
			ClassType: "3E", SeatNo: 1, Fare: 900, Departure: "22:00"},
	}
}

func TestCSVLedgerStore_Load_MissingFile(t *testing.T) {
	store := NewCSVLedgerStore(filepath.Join(t.TempDir(), "booking.csv"))

	bookings, report, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.Zero(t, report.Rows)
}

func TestCSVLedgerStore_Load(t *testing.T) {
	path := writeFile(t, "booking.csv", `pnr,name,age,trainNo,trainName,classType,seatNo,fare,departure
482913, Asha Rao ,31,12001,Rajdhani Express,SL, 1 ,400,16:55

105577,Vijay,64,12951,Gujarat Mail,3E,1,900
223344,Meera,22,12001,Rajdhani Express,SL,2,400,16:55
`)

	bookings, report, err := NewCSVLedgerStore(path).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 4, report.FirstSkippedLine)
	require.Len(t, bookings, 2)
	assert.Equal(t, models.Booking{PNR: "482913", Name: "Asha Rao", Age: 31, TrainNo: "12001",
		TrainName: "Rajdhani Express", ClassType: "SL", SeatNo: 1, Fare: 400, Departure: "16:55"}, bookings[0])
	assert.Equal(t, "223344", bookings[1].PNR)
}

func TestCSVLedgerStore_Load_UnclosedQuoteSkipsOnlyThatRow(t *testing.T) {
	path := writeFile(t, "booking.csv", `pnr,name,age,trainNo,trainName,classType,seatNo,fare,departure
482913,"Asha Rao,31,12001,Rajdhani Express,SL,1,400,16:55
223344,Meera,22,12001,Rajdhani Express,SL,2,400,16:55
`)

	bookings, report, err := NewCSVLedgerStore(path).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.FirstSkippedLine)
	assert.Equal(t, `482913,"Asha Rao,31,12001,Rajdhani Express,SL,1,400,16:55`, report.FirstSkipped)
	require.Len(t, bookings, 1)
	assert.Equal(t, "223344", bookings[0].PNR)
}

func TestCSVLedgerStore_SaveAll_QuotedNameRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.csv")
	store := NewCSVLedgerStore(path)
	bookings := []models.Booking{
		{PNR: "482913", Name: `Asha "Ash" Rao, Jr.`, Age: 31, TrainNo: "12001", TrainName: "Rajdhani Express",
			ClassType: "SL", SeatNo: 1, Fare: 400, Departure: "16:55"},
	}
	require.NoError(t, store.SaveAll(context.Background(), bookings))

	loaded, report, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Skipped)
	assert.Equal(t, bookings, loaded)
}

func TestCSVLedgerStore_Load_WithoutHeader(t *testing.T) {
	path := writeFile(t, "booking.csv", "482913,Asha,31,12001,Rajdhani Express,SL,1,400,16:55\n")

	bookings, _, err := NewCSVLedgerStore(path).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "482913", bookings[0].PNR)
}

func TestCSVLedgerStore_Load_NumericParseFailure(t *testing.T) {
	path := writeFile(t, "booking.csv", `pnr,name,age,trainNo,trainName,classType,seatNo,fare,departure
482913,Asha,31,12001,Rajdhani Express,SL,1,400,16:55
105577,Vijay,64,12951,Gujarat Mail,3E,one,900,22:00
`)

	bookings, _, err := NewCSVLedgerStore(path).Load(context.Background())

	assert.ErrorIs(t, err, ErrNumericParse)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "seatNo")
	assert.Nil(t, bookings)
}

func TestCSVLedgerStore_Load_Unreadable(t *testing.T) {
	notDir := writeFile(t, "plain", "x")
	store := NewCSVLedgerStore(filepath.Join(notDir, "booking.csv"))

	_, _, err := store.Load(context.Background())

	assert.ErrorIs(t, err, ErrIOUnavailable)
}

func TestCSVLedgerStore_SaveAll_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.csv")
	store := NewCSVLedgerStore(path)

	require.NoError(t, store.SaveAll(context.Background(), sampleBookings()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "pnr,name,age,trainNo,trainName,classType,seatNo,fare,departure\n")

	bookings, report, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows)
	assert.ElementsMatch(t, sampleBookings(), bookings)
}

func TestCSVLedgerStore_SaveAll_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.csv")
	store := NewCSVLedgerStore(path)
	require.NoError(t, store.SaveAll(context.Background(), sampleBookings()))

	require.NoError(t, store.SaveAll(context.Background(), sampleBookings()[:1]))

	bookings, _, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestCSVLedgerStore_SaveAll_EmptyWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.csv")

	require.NoError(t, NewCSVLedgerStore(path).SaveAll(context.Background(), nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pnr,name,age,trainNo,trainName,classType,seatNo,fare,departure\n", string(raw))
}

func TestCSVLedgerStore_SaveAll_MissingDirectory(t *testing.T) {
	store := NewCSVLedgerStore(filepath.Join(t.TempDir(), "missing", "booking.csv"))

	err := store.SaveAll(context.Background(), sampleBookings())

	assert.Error(t, err)
}
