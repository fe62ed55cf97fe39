package dto

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeError(t *testing.T) {
	cause := errors.New(`parsing time "32/01/2020"`)
	err := fmt.Errorf("decoder.Decode: %w", &DecodeError{Line: 3, Column: "DateFrom", Value: "32/01/2020", Err: cause})

	require.ErrorIs(t, err, ErrDecode)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), `line 3: DateFrom="32/01/2020"`)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, 3, de.Line)
}

func TestInternalError(t *testing.T) {
	cause := errors.New("out of memory")
	err := &InternalError{Err: cause}

	require.Equal(t, "internal error", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestValidationMessage(t *testing.T) {
	require.ErrorIs(t, ErrNotCSV, ErrValidation)
	require.ErrorIs(t, ErrDateFormatRequired, ErrValidation)
	require.Equal(t, "The file must be a CSV.", ValidationMessage(ErrNotCSV))
	require.Equal(t, "Date format header missing.", ValidationMessage(fmt.Errorf("wrap: %w", ErrDateFormatRequired)))
}

func TestNewPairKey(t *testing.T) {
	require.Equal(t, NewPairKey(3, 5, 9), NewPairKey(5, 3, 9))
	require.Equal(t, PairKey{Low: 3, High: 5, ProjectID: 9}, NewPairKey(5, 3, 9))
	require.Equal(t, PairKey{Low: 4, High: 4, ProjectID: 1}, NewPairKey(4, 4, 1))

	p := PairOverlap{EmployeeLowID: 1, EmployeeHighID: 2, ProjectID: 9, DaysWorkedTogether: 17}
	require.Equal(t, NewPairKey(2, 1, 9), p.Key())
}
