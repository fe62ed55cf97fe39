package decoder

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDecode(t *testing.T) {
	t.Run("decodes rows with open-ended assignments", func(t *testing.T) {
		in := "EmpID,ProjectID,DateFrom,DateTo\n" +
			"1,9,2020-01-01,2020-01-31\n" +
			"2,9,2020-01-15,NULL\n" +
			"3,7,2019-05-01,\n"

		records, err := Decode(strings.NewReader(in), "yyyy-MM-dd")
		require.NoError(t, err)
		require.Len(t, records, 3)

		require.Equal(t, 1, records[0].EmployeeID)
		require.Equal(t, 9, records[0].ProjectID)
		require.Equal(t, date(2020, time.January, 1), records[0].DateFrom)
		require.NotNil(t, records[0].DateTo)
		require.Equal(t, date(2020, time.January, 31), *records[0].DateTo)
		require.Equal(t, 2, records[0].Line)

		require.Nil(t, records[1].DateTo)
		require.Nil(t, records[2].DateTo)
		require.Equal(t, 4, records[2].Line)
	})

	t.Run("header is matched by name in any order", func(t *testing.T) {
		in := "\ufeff DateTo , projectid,Comment,DATEFROM,EmpID\n" +
			"01_31_20,9,first stint,1_1_20,143\n"

		records, err := Decode(strings.NewReader(in), "M_d_yy")
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, 143, records[0].EmployeeID)
		require.Equal(t, date(2020, time.January, 1), records[0].DateFrom)
		require.Equal(t, date(2020, time.January, 31), *records[0].DateTo)
	})

	t.Run("go layout with underscores is used as is", func(t *testing.T) {
		in := "EmpID,ProjectID,DateFrom,DateTo\n" +
			"7,3,2020_01_02,NULL\n"

		records, err := Decode(strings.NewReader(in), "2006_01_02")
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, date(2020, time.January, 2), records[0].DateFrom)
	})

	t.Run("accepts spaces after delimiters and blank lines", func(t *testing.T) {
		in := "EmpID, ProjectID, DateFrom, DateTo\n" +
			"143, 12, 2013-11-01, 2014-01-05\n" +
			"\n" +
			"218, 10, 2012-05-16, null\n"

		records, err := Decode(strings.NewReader(in), "yyyy-MM-dd")
		require.NoError(t, err)
		require.Len(t, records, 2)
		require.Equal(t, 218, records[1].EmployeeID)
		require.Nil(t, records[1].DateTo)
	})

	t.Run("header only yields no records", func(t *testing.T) {
		records, err := Decode(strings.NewReader("EmpID,ProjectID,DateFrom,DateTo\n"), "yyyy-MM-dd")
		require.NoError(t, err)
		require.Empty(t, records)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		d := New()
		d.Comma = ';'

		records, err := d.Decode(strings.NewReader("EmpID;ProjectID;DateFrom;DateTo\n5;1;01.02.2021;NULL\n"), "dd.MM.yyyy")
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, date(2021, time.February, 1), records[0].DateFrom)
	})
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		format string
		line   int
		column string
	}{
		{
			name:   "malformed DateFrom",
			in:     "EmpID,ProjectID,DateFrom,DateTo\n1,9,2020-01-01,2020-01-31\n2,9,2020-13-01,NULL\n",
			format: "yyyy-MM-dd",
			line:   3,
			column: ColumnDateFrom,
		},
		{
			name:   "malformed DateTo",
			in:     "EmpID,ProjectID,DateFrom,DateTo\n1,9,2020-01-01,31/01/2020\n",
			format: "yyyy-MM-dd",
			line:   2,
			column: ColumnDateTo,
		},
		{
			name:   "non-integer employee id",
			in:     "EmpID,ProjectID,DateFrom,DateTo\nabc,9,2020-01-01,NULL\n",
			format: "yyyy-MM-dd",
			line:   2,
			column: ColumnEmpID,
		},
		{
			name:   "missing project id",
			in:     "EmpID,ProjectID,DateFrom,DateTo\n1,,2020-01-01,NULL\n",
			format: "yyyy-MM-dd",
			line:   2,
			column: ColumnProjectID,
		},
		{
			name:   "missing DateFrom",
			in:     "EmpID,ProjectID,DateFrom,DateTo\n1,9,,NULL\n",
			format: "yyyy-MM-dd",
			line:   2,
			column: ColumnDateFrom,
		},
		{
			name:   "row of empty cells",
			in:     "EmpID,ProjectID,DateFrom,DateTo\n1,9,2020-01-01,NULL\n,,,\n",
			format: "yyyy-MM-dd",
			line:   3,
			column: ColumnEmpID,
		},
		{
			name:   "missing column",
			in:     "EmpID,ProjectID,DateFrom\n1,9,2020-01-01\n",
			format: "yyyy-MM-dd",
			line:   1,
		},
		{
			name:   "empty input",
			in:     "",
			format: "yyyy-MM-dd",
		},
		{
			name:   "not tabular",
			in:     "EmpID,ProjectID,DateFrom,DateTo\n1,9,\"2020-01-01,NULL\n",
			format: "yyyy-MM-dd",
			line:   -1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := Decode(strings.NewReader(tc.in), tc.format)
			require.Error(t, err)
			require.Nil(t, records)
			require.ErrorIs(t, err, dto.ErrDecode)
			require.NotErrorIs(t, err, dto.ErrValidation)

			var de *dto.DecodeError
			require.True(t, errors.As(err, &de))
			if tc.line >= 0 {
				require.Equal(t, tc.line, de.Line)
			}
			require.Equal(t, tc.column, de.Column)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestDecode_ReaderFailureIsNotDecodeError(t *testing.T) {
	_, err := Decode(failingReader{}, "yyyy-MM-dd")
	require.ErrorIs(t, err, io.ErrClosedPipe)
	require.NotErrorIs(t, err, dto.ErrDecode)
}

func TestDecode_DateFormatRequired(t *testing.T) {
	_, err := Decode(strings.NewReader("EmpID,ProjectID,DateFrom,DateTo\n"), " ")
	require.ErrorIs(t, err, dto.ErrDateFormatRequired)
	require.ErrorIs(t, err, dto.ErrValidation)
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	got := DateOnly(time.Date(2020, time.February, 1, 23, 30, 0, 0, loc))
	require.Equal(t, date(2020, time.February, 1), got)
	require.True(t, DateOnly(time.Time{}).IsZero())
}
