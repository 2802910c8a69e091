package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `trainNo,trainName,from,to,arr,dep,stop,classList
12001, Rajdhani Express ,New Delhi,Mumbai,08:30,16:55,Kota, SL 3A 1A 2A SL

12951,Gujarat Mail,Mumbai,Ahmedabad,06:10,22:00,Surat,SL 3E 2S
bad,row,only
12002,Shatabdi Express,new delhi,MUMBAI,11:00,06:00,Agra,CC
12001,Rajdhani Duplicate,New Delhi,Kolkata,10:00,17:00,Gaya,1A
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadedTrainRepo(t *testing.T) TrainRepository {
	t.Helper()
	repo := NewTrainRepository()
	_, err := repo.Load(context.Background(), writeFile(t, "train.csv", sampleCatalog))
	require.NoError(t, err)
	return repo
}

func TestTrainRepository_Load(t *testing.T) {
	repo := NewTrainRepository()

	report, err := repo.Load(context.Background(), writeFile(t, "train.csv", sampleCatalog))

	require.NoError(t, err)
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 5, report.FirstSkippedLine)
	assert.Equal(t, "bad,row,only", report.FirstSkipped)
	assert.Equal(t, 1, report.Duplicates)

	trains := repo.FindAll()
	require.Len(t, trains, 4)
	first := trains[0]
	assert.Equal(t, "12001", first.Number)
	assert.Equal(t, "Rajdhani Express", first.Name)
	assert.Equal(t, "New Delhi", first.From)
	assert.Equal(t, "Mumbai", first.To)
	assert.Equal(t, "08:30", first.Arrival)
	assert.Equal(t, "16:55", first.Departure)
	assert.Equal(t, "Kota", first.Stop)
	assert.Equal(t, []string{"1A", "2A", "3A", "SL"}, first.Classes)
}

func TestTrainRepository_Load_ClassesAreTrimmedAndSorted(t *testing.T) {
	repo := loadedTrainRepo(t)

	for _, train := range repo.FindAll() {
		assert.True(t, isSorted(train.Classes), train.Number)
		for _, c := range train.Classes {
			assert.NotEmpty(t, c)
			assert.Equal(t, strings.TrimSpace(c), c)
		}
	}
}

func isSorted(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestTrainRepository_Load_UnclosedQuoteSkipsOnlyThatRow(t *testing.T) {
	catalog := `trainNo,trainName,from,to,arr,dep,stop,classList
12001,"Rajdhani Express,New Delhi,Mumbai,08:30,16:55,Kota,SL 3A
12951,Gujarat Mail,Mumbai,Ahmedabad,06:10,22:00,Surat,SL 3E 2S
12002,Shatabdi Express,New Delhi,Agra,11:00,06:00,Mathura,CC
`
	repo := NewTrainRepository()

	report, err := repo.Load(context.Background(), writeFile(t, "train.csv", catalog))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.FirstSkippedLine)
	assert.Equal(t, `12001,"Rajdhani Express,New Delhi,Mumbai,08:30,16:55,Kota,SL 3A`, report.FirstSkipped)

	trains := repo.FindAll()
	require.Len(t, trains, 2)
	assert.Equal(t, "12951", trains[0].Number)
	assert.Equal(t, "12002", trains[1].Number)
}

func TestTrainRepository_Load_CRLF(t *testing.T) {
	catalog := "trainNo,trainName,from,to,arr,dep,stop,classList\r\n" +
		"12001,Rajdhani Express,New Delhi,Mumbai,08:30,16:55,Kota,SL 3A\r\n"
	repo := NewTrainRepository()

	report, err := repo.Load(context.Background(), writeFile(t, "train.csv", catalog))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Rows)
	train, err := repo.FindByNumber("12001")
	require.NoError(t, err)
	assert.Equal(t, []string{"3A", "SL"}, train.Classes)
}

func TestTrainRepository_Load_MissingFileOnFirstLoad(t *testing.T) {
	repo := NewTrainRepository()

	_, err := repo.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

	assert.ErrorIs(t, err, ErrIOUnavailable)
	assert.Empty(t, repo.FindAll())
}

func TestTrainRepository_Load_FailedReloadKeepsCatalog(t *testing.T) {
	repo := loadedTrainRepo(t)

	_, err := repo.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

	assert.ErrorIs(t, err, ErrIOUnavailable)
	assert.Len(t, repo.FindAll(), 4)
}

func TestTrainRepository_Load_ReplacesCatalog(t *testing.T) {
	repo := loadedTrainRepo(t)
	next := writeFile(t, "next.csv", "header\n22436,Vande Bharat,New Delhi,Varanasi,14:00,06:00,Kanpur,CC EC\n")

	report, err := repo.Load(context.Background(), next)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Rows)
	trains := repo.FindAll()
	require.Len(t, trains, 1)
	assert.Equal(t, "22436", trains[0].Number)
	assert.Equal(t, []string{"CC", "EC"}, trains[0].Classes)
}

func TestTrainRepository_Load_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTrainRepository().Load(ctx, writeFile(t, "train.csv", sampleCatalog))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrainRepository_FindByNumber(t *testing.T) {
	repo := loadedTrainRepo(t)

	train, err := repo.FindByNumber("12001")
	require.NoError(t, err)
	assert.Equal(t, "Rajdhani Express", train.Name)

	_, err = repo.FindByNumber("99999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrainRepository_SearchByRoute(t *testing.T) {
	repo := loadedTrainRepo(t)

	trains := repo.SearchByRoute("NEW DELHI", "mumbai")

	require.Len(t, trains, 2)
	assert.Equal(t, "12001", trains[0].Number)
	assert.Equal(t, "12002", trains[1].Number)
	assert.Empty(t, repo.SearchByRoute("New Delhi", "Mumbai Central"))
}

func TestTrainRepository_SearchByName(t *testing.T) {
	repo := NewTrainRepository()
	_, err := repo.Load(context.Background(), writeFile(t, "train.csv",
		"h\n1,Rajdhani Express,A,B,1,2,S,SL\n2,Gujarat Mail,A,B,1,2,S,SL\n"))
	require.NoError(t, err)

	trains := repo.SearchByName("raj")

	require.Len(t, trains, 1)
	assert.Equal(t, "Rajdhani Express", trains[0].Name)
	assert.Len(t, repo.SearchByName("A"), 2)
	assert.Empty(t, repo.SearchByName("duronto"))
}
