package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderNamesMatchExportReader(t *testing.T) {
	got := HeaderNames([]string{"\ufeffDate", "Shots / on target", "", " ", "Team", "Team"})
	assert.Equal(t, []string{"Date", "Shots / on target", "Unnamed: 2", "Unnamed: 3", "Team", "Team.1"}, got)
}

func TestFromRecordsInfersKinds(t *testing.T) {
	tbl, err := FromRecords(
		[]string{"Team", "Goals", "xG", "Possession, %", "Empty"},
		[][]string{
			{"UCONN Huskies", "2", "1.35", "55%", ""},
			{"Fordham", "1", "0.4", "45%"},
		},
	)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, 5, tbl.Width())

	kinds := map[string]Kind{}
	for _, c := range tbl.Columns() {
		kinds[c.Name()] = c.Kind()
	}
	assert.Equal(t, KindText, kinds["Team"])
	assert.Equal(t, KindInteger, kinds["Goals"])
	assert.Equal(t, KindDecimal, kinds["xG"])
	assert.Equal(t, KindPercentage, kinds["Possession, %"])
	assert.Equal(t, KindDecimal, kinds["Empty"])

	pos, _ := tbl.Column("Possession, %")
	f, ok := pos.Value(1).Float()
	assert.True(t, ok)
	assert.Equal(t, 45.0, f)

	empty, _ := tbl.Column("Empty")
	assert.True(t, empty.AllNull())
}

func TestFromRecordsRejectsLongRecords(t *testing.T) {
	_, err := FromRecords([]string{"a"}, [][]string{{"1", "2"}})
	assert.Error(t, err)
}

func TestNewRejectsDuplicatesAndRaggedColumns(t *testing.T) {
	a := NewColumn("a", KindInteger, []Value{Int(1)})
	_, err := New(a, a)
	assert.Error(t, err)

	b := NewColumn("b", KindInteger, []Value{Int(1), Int(2)})
	_, err = New(a, b)
	assert.Error(t, err)
}

func TestSelectRowsAndInsertColumn(t *testing.T) {
	tbl, err := New(
		NewColumn("n", KindInteger, []Value{Int(0), Int(1), Int(2)}),
		NewColumn("s", KindText, []Value{Text("a"), Text("b"), Null()}),
	)
	require.NoError(t, err)

	sel := tbl.SelectRows([]int{2, 0})
	assert.Equal(t, 2, sel.Len())
	assert.Equal(t, []string{"2", "0"}, sel.ColumnAt(0).Strings())
	assert.Equal(t, []string{"", "a"}, sel.ColumnAt(1).Strings())
	// source untouched
	assert.Equal(t, 3, tbl.Len())

	ins, err := tbl.InsertColumn(1, NewColumn("d", KindDate, []Value{
		Date(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)), Null(), Null(),
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "d", "s"}, ins.ColumnNames())
	assert.Equal(t, "2025-09-01", ins.ColumnAt(1).Value(0).Format(KindDate))
	assert.Equal(t, []string{"n", "s"}, tbl.ColumnNames())
}

func TestConcatUnifiesKinds(t *testing.T) {
	a, err := New(
		NewColumn("x", KindInteger, []Value{Int(1)}),
		NewColumn("y", KindDecimal, []Value{Null()}),
	)
	require.NoError(t, err)
	b, err := New(
		NewColumn("x", KindDecimal, []Value{Number(1.5)}),
		NewColumn("y", KindText, []Value{Text("late")}),
	)
	require.NoError(t, err)

	out, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, KindDecimal, out.ColumnAt(0).Kind())
	assert.Equal(t, KindText, out.ColumnAt(1).Kind())
}

func TestConcatRejectsIncompatibleKinds(t *testing.T) {
	a, _ := New(NewColumn("x", KindInteger, []Value{Int(1)}))
	b, _ := New(NewColumn("x", KindText, []Value{Text("one")}))
	_, err := Concat(a, b)
	assert.Error(t, err)

	c, _ := New(NewColumn("z", KindInteger, []Value{Int(1)}))
	_, err = Concat(a, c)
	assert.Error(t, err)
}

func TestUnifyKinds(t *testing.T) {
	k, ok := UnifyKinds(KindInteger, KindPercentage)
	assert.True(t, ok)
	assert.Equal(t, KindPercentage, k)

	_, ok = UnifyKinds(KindDate, KindText)
	assert.False(t, ok)
}

func TestValueFormatting(t *testing.T) {
	assert.Equal(t, "3", Number(3.0).Format(KindInteger))
	assert.Equal(t, "0.35", Number(0.35).Format(KindDecimal))
	assert.Equal(t, "", Null().Format(KindText))
	assert.True(t, Number(nan()).IsNull())
	assert.Nil(t, Null().Interface(KindInteger))
	assert.Equal(t, int64(2), Int(2).Interface(KindInteger))
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Int(1).Equal(Null()))
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}

func TestOnlyNumbersReadAsNumbers(t *testing.T) {
	_, ok := Text("abandoned").Float()
	assert.False(t, ok)
	_, ok = Text("3").Int()
	assert.False(t, ok)
	_, ok = Date(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)).Float()
	assert.False(t, ok)
	_, ok = Null().Float()
	assert.False(t, ok)

	f, ok := Number(1.5).Float()
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)
	i, ok := Int(3).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)

	assert.False(t, Text("").Equal(Int(0)))
}
