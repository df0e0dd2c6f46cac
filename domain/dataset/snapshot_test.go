package dataset

import (
	"testing"

	"filplus/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tables(rows ...Row) (Table, Table) {
	m := Table{Columns: []string{"c_a", "c_b"}}
	p := Table{Columns: []string{"p_a", "p_b"}}
	for _, r := range rows {
		m.Rows = append(m.Rows, r)
		p.Rows = append(p.Rows, Row{StatDate: r.StatDate, ClientID: r.ClientID, Values: []Value{Num(50), Num(50)}})
	}
	return m, p
}

func row(date, client string, a, b float64) Row {
	return Row{StatDate: date, ClientID: client, Values: []Value{Num(a), Num(b)}}
}

func TestNewSnapshotIndexesClients(t *testing.T) {
	m, p := tables(
		row("2023-08-01", "f01", 1, 2),
		row("2023-08-01", "f02", 3, 4),
		row("2023-08-02", "f03", 5, 6),
	)

	s, err := NewSnapshot("test.csv", m, p, DuplicateLatest)
	require.NoError(t, err)

	assert.Equal(t, 3, s.RowCount())
	assert.Equal(t, []string{"f01", "f02", "f03"}, s.ClientIDs())
	assert.Equal(t, []string{"c_a", "c_b"}, s.MetricColumns())
	assert.Equal(t, "2023-08-02", s.LastUpdated())

	i, ok := s.RowIndex("f02")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = s.RowIndex("missing")
	assert.False(t, ok)

	j, ok := s.MetricIndex("c_b")
	assert.True(t, ok)
	assert.Equal(t, 1, j)
}

func TestDuplicatePolicies(t *testing.T) {
	build := func() (Table, Table) {
		return tables(
			row("2023-08-02", "f01", 1, 1),
			row("2023-08-09", "f01", 2, 2),
			row("2023-08-05", "f01", 3, 3),
			row("2023-08-09", "f02", 4, 4),
		)
	}

	t.Run("latest", func(t *testing.T) {
		m, p := build()
		s, err := NewSnapshot("x", m, p, DuplicateLatest)
		require.NoError(t, err)
		i, _ := s.RowIndex("f01")
		assert.Equal(t, 1, i)
		assert.Equal(t, []string{"f01", "f02"}, s.ClientIDs())
		assert.Equal(t, 4, s.RowCount())
	})

	t.Run("first", func(t *testing.T) {
		m, p := build()
		s, err := NewSnapshot("x", m, p, DuplicateFirst)
		require.NoError(t, err)
		i, _ := s.RowIndex("f01")
		assert.Equal(t, 0, i)
	})

	t.Run("reject", func(t *testing.T) {
		m, p := build()
		_, err := NewSnapshot("x", m, p, DuplicateReject)
		require.Error(t, err)
		assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
	})
}

func TestNewSnapshotRejectsMisalignment(t *testing.T) {
	m, p := tables(row("2023-08-01", "f01", 1, 2), row("2023-08-01", "f02", 1, 2))
	p.Rows[0], p.Rows[1] = p.Rows[1], p.Rows[0]

	_, err := NewSnapshot("x", m, p, DuplicateFirst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "misaligned")

	m, p = tables(row("2023-08-01", "f01", 1, 2))
	p.Columns = p.Columns[:1]
	_, err = NewSnapshot("x", m, p, DuplicateFirst)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("reject")
	require.NoError(t, err)
	assert.Equal(t, DuplicateReject, p)

	_, err = ParseDuplicatePolicy("newest")
	assert.Error(t, err)
}

func TestCompareDates(t *testing.T) {
	assert.Equal(t, 1, compareDates("2023-10-01", "2023-09-30"))
	assert.Equal(t, 1, compareDates("week-b", "week-a"))
	assert.Equal(t, -1, compareDates("2023-08-01", "2023-08-02"))
	assert.Equal(t, 0, compareDates("2023-08-01", "2023-08-01"))
	assert.Equal(t, 1, compareDates("2023-08-01", ""))
}
